// backend/src/parsers/factory.go
package parsers

import (
	"fmt"

	"github.com/username/bankvisor/backend/src/parsers/camt053"
	"github.com/username/bankvisor/backend/src/parsers/pain001"
)

// Message type selectors accepted by GetParser and the CLI.
const (
	SourceCamt    = "camt"
	SourcePain001 = "pain001"
)

func GetParser(source string) (Parser, error) {
	switch source {
	case SourceCamt:
		return camt053.NewParser(), nil
	case SourcePain001:
		return pain001.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for source: %s", source)
	}
}
