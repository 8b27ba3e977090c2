// backend/src/parsers/iso20022/lookup.go
package iso20022

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/bankvisor/backend/src/parsererror"
	"gopkg.in/xmlpath.v2"
)

// FirstText tries path alternatives in order (e.g. IBAN before the Othr
// identifier) against the given context node and returns the first match's
// text. The second return reports whether any alternative matched.
func FirstText(node *xmlpath.Node, paths ...*xmlpath.Path) (string, bool) {
	for _, p := range paths {
		if s, ok := p.String(node); ok {
			return s, true
		}
	}
	return "", false
}

// TextOr is FirstText with an explicit default for optional fields.
func TextOr(node *xmlpath.Node, def string, paths ...*xmlpath.Path) string {
	if s, ok := FirstText(node, paths...); ok {
		return s
	}
	return def
}

// OptionalText returns nil when no alternative matches, so callers can
// distinguish an absent element from one that is present but blank.
func OptionalText(node *xmlpath.Node, paths ...*xmlpath.Path) *string {
	if s, ok := FirstText(node, paths...); ok {
		return &s
	}
	return nil
}

// RequiredText is FirstText for schema-required elements: no match fails the
// extraction with a MissingRequiredField error instead of a placeholder.
func RequiredText(node *xmlpath.Node, parser, field string, paths ...*xmlpath.Path) (string, error) {
	if s, ok := FirstText(node, paths...); ok {
		return s, nil
	}
	return "", parsererror.NewMissingField(parser, field)
}

// JoinText concatenates the text of every element the path matches under the
// context node, skipping empty nodes. Both extractors join remittance lines
// with a single space.
func JoinText(node *xmlpath.Node, path *xmlpath.Path, sep string) string {
	var parts []string
	for it := path.Iter(node); it.Next(); {
		if s := it.Node().String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

// CountMatches reports how many elements the path matches under the node.
func CountMatches(node *xmlpath.Node, path *xmlpath.Path) int {
	n := 0
	for it := path.Iter(node); it.Next(); {
		n++
	}
	return n
}

// RequiredAmount reads a schema-required monetary element and parses it as an
// exact decimal. Non-numeric text is a format error carrying the offending
// value; an absent element is a missing-field error.
func RequiredAmount(node *xmlpath.Node, parser, field string, paths ...*xmlpath.Path) (decimal.Decimal, error) {
	raw, err := RequiredText(node, parser, field, paths...)
	if err != nil {
		return decimal.Zero, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, parsererror.NewFormatError(parser, field, raw, err)
	}
	return amount, nil
}

// ApplySign applies the message sign convention: amounts paired with the
// debit indicator are stored as the negative of their magnitude, credit
// amounts keep their positive magnitude.
func ApplySign(amount decimal.Decimal, indicator string) decimal.Decimal {
	if indicator == IndicatorDebit {
		return amount.Neg()
	}
	return amount
}
