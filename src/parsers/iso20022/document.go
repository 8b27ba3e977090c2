// backend/src/parsers/iso20022/document.go
package iso20022

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/username/bankvisor/backend/src/logger"
	"github.com/username/bankvisor/backend/src/parsererror"
	"gopkg.in/xmlpath.v2"
)

// Target namespaces of the two supported message schemas.
const (
	NamespacePain001 = "urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"
	NamespaceCamt053 = "urn:iso:std:iso:20022:tech:xsd:camt.053.001.02"
)

// Credit/debit indicator values used by both schemas.
const (
	IndicatorDebit  = "DBIT"
	IndicatorCredit = "CRDT"
)

// documentTagRegex matches the opening <Document ...> tag, including
// declarations that span multiple lines.
var documentTagRegex = regexp.MustCompile(`<Document[^>]*>`)

// rootElement is used to reject input the lenient decoder accepted but that
// contains no XML element at all (empty files, plain text).
var rootElement = xmlpath.MustCompile("/*")

// StripNamespace removes the default namespace declaration from the document
// root so unqualified path expressions match regardless of schema version.
// When the declaration is not in the plain xmlns="..." form (extra attributes,
// line breaks), the whole opening root tag is replaced with a bare one; only
// descendant content is queried afterwards, so dropped root attributes are
// irrelevant. Documents without a declaration pass through unchanged.
func StripNamespace(data, namespace string) string {
	plain := fmt.Sprintf(` xmlns=%q`, namespace)
	if strings.Contains(data, plain) {
		return strings.Replace(data, plain, "", 1)
	}
	loc := documentTagRegex.FindStringIndex(data)
	if loc == nil {
		return data
	}
	return data[:loc[0]] + "<Document>" + data[loc[1]:]
}

// Load reads a UTF-8 XML file, strips the given default namespace and parses
// it into a navigable tree. Parsing is lenient: the decoder runs in
// non-strict mode so minor irregularities in real-world bank exports do not
// abort the whole document. A missing file yields ErrNotFound; input that
// cannot be parsed at all yields ErrFormat.
func Load(path, namespace string) (*xmlpath.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.L.Error("Input file not found", "path", path)
			return nil, fmt.Errorf("%w: %s", parsererror.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return Parse(StripNamespace(string(raw), namespace), path)
}

// Parse builds the tree from already-normalized document text. Split from
// Load so tests and the HTTP upload path can feed in-memory content.
func Parse(data, path string) (*xmlpath.Node, error) {
	dec := xml.NewDecoder(strings.NewReader(data))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	root, err := xmlpath.ParseDecoder(dec)
	if err != nil {
		logger.L.Error("Failed to parse XML document", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", parsererror.ErrFormat, path, err)
	}
	if !rootElement.Exists(root) {
		logger.L.Error("Document contains no XML content", "path", path)
		return nil, fmt.Errorf("%w: %s: no XML content", parsererror.ErrFormat, path)
	}
	return root, nil
}
