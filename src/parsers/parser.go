// backend/src/parsers/parser.go
package parsers

import (
	"github.com/username/bankvisor/backend/src/models"
)

// Parser is the interface every message-type parser implements. One call owns
// its parsed tree exclusively; the returned records are plain data with no
// references back into the source document.
type Parser interface {
	ParseFile(path string) (*models.ParseResult, error)
}
