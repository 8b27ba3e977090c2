// backend/src/services/interfaces.go
package services

import (
	"errors"
	"io"
	"time"

	"github.com/username/bankvisor/backend/src/models"
)

const (
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// Define common service errors
var (
	ErrUnsupportedOutput = errors.New("unsupported output format")
)

// StatementService is the core parse orchestration: file dispatch, result
// caching, and the folder driver that records per-file success/failure.
type StatementService interface {
	ParseFile(source, path string) (*models.ParseResult, error)
	ParseUpload(fileReader io.Reader, source, filename string) (*models.ParseResult, error)
	ProcessFolder(source, dir string) (*models.FolderResult, error)
	InvalidateCache()
}

// ExportService renders finished record sets. The parse core has no file
// writing responsibility; everything tabular lives here.
type ExportService interface {
	// Export dispatches on the output path's extension:
	// .csv, .xlsx, and .db/.sqlite are supported.
	Export(result *models.ParseResult, outputPath string) error
	ExportCSV(result *models.ParseResult, outputPath string) error
	ExportExcel(result *models.ParseResult, outputPath string) error
	ExportSQLite(result *models.ParseResult) error
}
