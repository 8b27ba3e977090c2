package iso20022

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/bankvisor/backend/src/parsererror"
	"gopkg.in/xmlpath.v2"
)

func TestStripNamespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain default namespace declaration",
			in:   `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02"><BkToCstmrStmt/></Document>`,
			want: `<Document><BkToCstmrStmt/></Document>`,
		},
		{
			name: "declaration with extra attributes rewrites whole opening tag",
			in:   `<Document xmlns='urn:iso:std:iso:20022:tech:xsd:camt.053.001.02' xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"><Stmt/></Document>`,
			want: `<Document><Stmt/></Document>`,
		},
		{
			name: "no declaration is a no-op",
			in:   `<Document><Stmt/></Document>`,
			want: `<Document><Stmt/></Document>`,
		},
		{
			name: "closing tag untouched",
			in:   `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02"></Document>`,
			want: `<Document></Document>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripNamespace(tt.in, NamespaceCamt053))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.xml"), NamespaceCamt053)
	require.Error(t, err)
	assert.ErrorIs(t, err, parsererror.ErrNotFound)
}

func TestParseRejectsNonXML(t *testing.T) {
	for _, content := range []string{"", "   ", "just some plain text"} {
		_, err := Parse(content, "test.xml")
		require.Error(t, err, "content %q should not parse", content)
		assert.ErrorIs(t, err, parsererror.ErrFormat)
	}
}

func TestLoadRecoversFromMinorIrregularities(t *testing.T) {
	// Mismatched inner end tag: the lenient decoder should still yield a
	// usable tree for the rest of the document.
	doc := `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
		<BkToCstmrStmt><Stmt><Id>S1</Id><Unclosed></Stmt></BkToCstmrStmt>
	</Document>`
	path := filepath.Join(t.TempDir(), "ragged.xml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	root, err := Load(path, NamespaceCamt053)
	require.NoError(t, err)
	id, ok := xmlpath.MustCompile("//Stmt/Id").String(root)
	require.True(t, ok)
	assert.Equal(t, "S1", id)
}

func mustParse(t *testing.T, doc string) *xmlpath.Node {
	t.Helper()
	root, err := Parse(doc, "inline.xml")
	require.NoError(t, err)
	return root
}

func TestFirstTextTriesAlternativesInOrder(t *testing.T) {
	root := mustParse(t, `<R><Acct><Id><Othr><Id>OTHER-1</Id></Othr></Id></Acct></R>`)
	iban := xmlpath.MustCompile("//Acct/Id/IBAN")
	othr := xmlpath.MustCompile("//Acct/Id/Othr/Id")

	got, ok := FirstText(root, iban, othr)
	require.True(t, ok)
	assert.Equal(t, "OTHER-1", got)

	_, ok = FirstText(root, xmlpath.MustCompile("//Missing"))
	assert.False(t, ok)
}

func TestTextOrDefault(t *testing.T) {
	root := mustParse(t, `<R><Nm>Alice</Nm></R>`)
	assert.Equal(t, "Alice", TextOr(root, "fallback", xmlpath.MustCompile("//Nm")))
	assert.Equal(t, "fallback", TextOr(root, "fallback", xmlpath.MustCompile("//Missing")))
}

func TestOptionalTextDistinguishesAbsentFromBlank(t *testing.T) {
	root := mustParse(t, `<R><Dt></Dt></R>`)

	present := OptionalText(root, xmlpath.MustCompile("//Dt"))
	require.NotNil(t, present)
	assert.Equal(t, "", *present)

	assert.Nil(t, OptionalText(root, xmlpath.MustCompile("//Missing")))
}

func TestRequiredTextFailsOnAbsence(t *testing.T) {
	root := mustParse(t, `<R></R>`)
	_, err := RequiredText(root, "camt053", "Id", xmlpath.MustCompile("//Id"))
	require.Error(t, err)
	assert.ErrorIs(t, err, parsererror.ErrMissingField)

	var perr *parsererror.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Id", perr.Field)
}

func TestJoinText(t *testing.T) {
	root := mustParse(t, `<R><U>one</U><U></U><U>two</U></R>`)
	assert.Equal(t, "one two", JoinText(root, xmlpath.MustCompile("//U"), " "))
	assert.Equal(t, "", JoinText(root, xmlpath.MustCompile("//Missing"), " "))
}

func TestCountMatches(t *testing.T) {
	root := mustParse(t, `<R><E/><E/><E/></R>`)
	assert.Equal(t, 3, CountMatches(root, xmlpath.MustCompile("//E")))
	assert.Equal(t, 0, CountMatches(root, xmlpath.MustCompile("//Missing")))
}

func TestRequiredAmount(t *testing.T) {
	root := mustParse(t, `<R><Amt>123.45</Amt><Bad>12,x</Bad></R>`)

	amt, err := RequiredAmount(root, "camt053", "Amt", xmlpath.MustCompile("//Amt"))
	require.NoError(t, err)
	assert.True(t, amt.Equal(decimal.RequireFromString("123.45")))

	_, err = RequiredAmount(root, "camt053", "Bad", xmlpath.MustCompile("//Bad"))
	require.Error(t, err)
	assert.ErrorIs(t, err, parsererror.ErrFormat)

	_, err = RequiredAmount(root, "camt053", "Missing", xmlpath.MustCompile("//Missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, parsererror.ErrMissingField)
}

func TestApplySign(t *testing.T) {
	hundred := decimal.RequireFromString("100.00")

	debit := ApplySign(hundred, IndicatorDebit)
	assert.True(t, debit.LessThanOrEqual(decimal.Zero))
	assert.True(t, debit.Equal(hundred.Neg()))

	credit := ApplySign(hundred, IndicatorCredit)
	assert.True(t, credit.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, credit.Equal(hundred))
}

func TestBalanceDefinitions(t *testing.T) {
	defs := DefaultBalanceDefinitions()
	assert.Equal(t, "Opening booked balance", defs.Describe("OPBD"))
	assert.Equal(t, "Closing booked balance", defs.Describe("CLBD"))
	assert.Equal(t, "Closing available balance", defs.Describe("CLAV"))
	assert.Equal(t, "Previously closed booked balance", defs.Describe("PRCD"))
	assert.Equal(t, "Forward available balance", defs.Describe("FWAV"))
	assert.Equal(t, UnknownBalanceCode, defs.Describe("ZZZZ"))

	custom := BalanceDefinitions{"OPBD": "override"}
	assert.Equal(t, "override", custom.Describe("OPBD"))
	assert.Equal(t, UnknownBalanceCode, custom.Describe("CLBD"))
}
