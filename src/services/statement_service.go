// backend/src/services/statement_service.go
package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/bankvisor/backend/src/logger"
	"github.com/username/bankvisor/backend/src/models"
	"github.com/username/bankvisor/backend/src/parsererror"
	"github.com/username/bankvisor/backend/src/parsers"
)

const ckParseResult = "res_parse_%s_%s_%d"

type statementServiceImpl struct {
	resultCache *cache.Cache
}

func NewStatementService(resultCache *cache.Cache) StatementService {
	return &statementServiceImpl{resultCache: resultCache}
}

// ParseFile dispatches the file to the parser for the given source type.
// Results are cached per path+mtime, so re-reading an unchanged file is free
// while an overwritten file is re-parsed.
func (s *statementServiceImpl) ParseFile(source, path string) (*models.ParseResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", parsererror.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", parsererror.ErrNotFound, path)
	}

	cacheKey := fmt.Sprintf(ckParseResult, source, path, info.ModTime().UnixNano())
	if s.resultCache != nil {
		if cached, found := s.resultCache.Get(cacheKey); found {
			logger.L.Debug("Parse result served from cache", "path", path, "source", source)
			return cached.(*models.ParseResult), nil
		}
	}

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, err
	}

	result, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	result.RunID = uuid.New().String()

	if s.resultCache != nil {
		s.resultCache.Set(cacheKey, result, cache.DefaultExpiration)
	}
	return result, nil
}

// ParseUpload spools an uploaded stream to a temporary file and parses it.
// The temporary file never outlives the call.
func (s *statementServiceImpl) ParseUpload(fileReader io.Reader, source, filename string) (*models.ParseResult, error) {
	tmp, err := os.CreateTemp("", "bankvisor-upload-*.xml")
	if err != nil {
		return nil, fmt.Errorf("creating temp file for upload: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, fileReader); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("spooling upload %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, err
	}
	result, err := parser.ParseFile(tmpPath)
	if err != nil {
		return nil, err
	}
	result.RunID = uuid.New().String()
	result.File = filename
	return result, nil
}

// ProcessFolder parses every regular file in dir, recording a per-file
// status. A failing file is recorded and skipped; the scan continues, and
// records from all successful files are merged in directory order.
func (s *statementServiceImpl) ProcessFolder(source, dir string) (*models.FolderResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", parsererror.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("reading folder %s: %w", dir, err)
	}

	folder := &models.FolderResult{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		result, err := s.ParseFile(source, filepath.Join(dir, name))
		if err != nil {
			logger.L.Warn("Folder scan: file failed", "file", name, "error", err)
			folder.Files = append(folder.Files, models.FileStatus{
				FileName: name,
				Status:   "Failed",
				Error:    err.Error(),
			})
			continue
		}

		folder.Files = append(folder.Files, models.FileStatus{FileName: name, Status: "Success"})
		folder.Statements = append(folder.Statements, result.Statements...)
		folder.Transactions = append(folder.Transactions, result.Transactions...)
		folder.Payments = append(folder.Payments, result.Payments...)
	}

	logger.L.Info("Folder scan complete", "dir", dir, "files", len(folder.Files))
	return folder, nil
}

// InvalidateCache drops every cached parse result.
func (s *statementServiceImpl) InvalidateCache() {
	if s.resultCache != nil {
		s.resultCache.Flush()
	}
}
