// backend/src/handlers/parse_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/bankvisor/backend/src/config"
	"github.com/username/bankvisor/backend/src/logger"
	"github.com/username/bankvisor/backend/src/models"
	"github.com/username/bankvisor/backend/src/parsererror"
	"github.com/username/bankvisor/backend/src/security/validation"
	"github.com/username/bankvisor/backend/src/services"
	"github.com/username/bankvisor/backend/src/utils"
)

type ParseHandler struct {
	statementService services.StatementService
}

func NewParseHandler(service services.StatementService) *ParseHandler {
	return &ParseHandler{
		statementService: service,
	}
}

// parseResponse is the JSON body returned for a successful upload. Record
// counts are included so clients can sanity-check without walking the arrays.
type parseResponse struct {
	Result        *models.ParseResult `json:"result"`
	BatchCount    int                 `json:"batch_count"`
	TotalPayments int                 `json:"total_payments"`
	NumStatements int                 `json:"num_statements"`
	NumEntries    int                 `json:"num_entries"`
}

// HandleParse accepts a multipart upload ("file") with a message type
// selector ("type": camt or pain001) and responds with the extracted records.
func (h *ParseHandler) HandleParse(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("failed to process upload or file too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	source := r.FormValue("type")
	if source == "" {
		ctxLogger.Warn("Parse request missing 'type' field")
		utils.SendJSONError(w, "Message type is required: 'camt' or 'pain001'.", http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		ctxLogger.Warn("Uploaded file too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("file too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		ctxLogger.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		ctxLogger.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.statementService.ParseUpload(file, source, fileHeader.Filename)
	if err != nil {
		ctxLogger.Warn("Extraction failed", "filename", fileHeader.Filename, "type", source, "error", err)
		status := http.StatusUnprocessableEntity
		if errors.Is(err, parsererror.ErrNotFound) {
			status = http.StatusNotFound
		}
		utils.SendJSONError(w, err.Error(), status)
		return
	}

	sanitizeResult(result)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(parseResponse{
		Result:        result,
		BatchCount:    result.BatchCount,
		TotalPayments: result.TotalPayments,
		NumStatements: len(result.Statements),
		NumEntries:    len(result.Transactions),
	})
}

// HandleHealth reports liveness.
func (h *ParseHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// sanitizeResult strips HTML from the free-text fields before they are
// rendered to a browser-facing client. Identifiers, amounts and dates are
// schema-constrained and pass through untouched.
func sanitizeResult(result *models.ParseResult) {
	for i := range result.Payments {
		p := &result.Payments[i]
		p.CreditorName = validation.SanitizeText(p.CreditorName)
		p.Reference = validation.SanitizeText(p.Reference)
		p.Address = validation.SanitizeText(p.Address)
		p.DebtorName = validation.SanitizeText(p.DebtorName)
	}
	for i := range result.Statements {
		result.Statements[i].AccountName = validation.SanitizeText(result.Statements[i].AccountName)
	}
	for i := range result.Transactions {
		t := &result.Transactions[i]
		t.DebtorName = validation.SanitizeText(t.DebtorName)
		t.CreditorName = validation.SanitizeText(t.CreditorName)
		t.Reference = validation.SanitizeText(t.Reference)
	}
}
