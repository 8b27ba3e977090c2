// backend/src/parsererror/errors.go
package parsererror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes callers branch on.
var (
	// ErrNotFound means the input path does not resolve to a readable file.
	ErrNotFound = errors.New("file not found")
	// ErrFormat means the document is not parseable after namespace
	// normalization, or a field holds non-numeric text where a number is
	// expected.
	ErrFormat = errors.New("invalid format")
	// ErrMissingField means a schema-required element is absent. Required
	// fields fail the whole extraction rather than substituting a placeholder.
	ErrMissingField = errors.New("missing required field")
	// ErrNoStatements means a CAMT.053 document contained zero Stmt
	// elements. It is a format error: a valid-but-empty CAMT.053 file is
	// indistinguishable from a non-CAMT.053 file at this level.
	ErrNoStatements = fmt.Errorf("%w: no statements found", ErrFormat)
)

// ParseError carries enough context (parser, field, offending value) to
// diagnose a failure without a stack trace.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s parser: field %s (%q): %v", e.Parser, e.Field, e.Value, e.Err)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s parser: field %s: %v", e.Parser, e.Field, e.Err)
	}
	return fmt.Sprintf("%s parser: %v", e.Parser, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewMissingField reports a required element that was absent.
func NewMissingField(parser, field string) error {
	return &ParseError{Parser: parser, Field: field, Err: ErrMissingField}
}

// NewFormatError reports content that could not be interpreted, keeping the
// offending value for the log line.
func NewFormatError(parser, field, value string, cause error) error {
	return &ParseError{Parser: parser, Field: field, Value: value, Err: fmt.Errorf("%w: %v", ErrFormat, cause)}
}
