package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "Invoice 2023-115", "Invoice 2023-115"},
		{"script tag removed", "<script>alert(1)</script>Acme", "Acme"},
		{"markup stripped", "<b>Utility Co</b>", "Utility Co"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.input))
		})
	}
}

func TestSanitizeForFormulaInjection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"equals prefixed", "=SUM(A1:A9)", "'=SUM(A1:A9)"},
		{"plus prefixed", "+1234", "'+1234"},
		{"minus prefixed", "-cmd", "'-cmd"},
		{"at prefixed", "@import", "'@import"},
		{"leading whitespace before trigger", "  =1+1", "'  =1+1"},
		{"safe text untouched", "Acme Supplies BV", "Acme Supplies BV"},
		{"empty untouched", "", ""},
		{"whitespace only untouched", "   ", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeForFormulaInjection(tt.input))
		})
	}
}

func TestStripUnprintable(t *testing.T) {
	assert.Equal(t, "abc", StripUnprintable("a\x00b\x01c"))
	assert.Equal(t, "line1\nline2\ttab", StripUnprintable("line1\nline2\ttab"))
	assert.Equal(t, "Straße 1", StripUnprintable("Straße 1"))
}
