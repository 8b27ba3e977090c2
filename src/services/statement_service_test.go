package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/bankvisor/backend/src/parsererror"
	"github.com/username/bankvisor/backend/src/parsers"
)

const camtFixture = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Id>STMT-SVC-1</Id>
      <Acct><Id><IBAN>NL91ABNA0417164300</IBAN></Id></Acct>
      <Ntry>
        <Amt Ccy="EUR">100.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
      </Ntry>
      <Ntry>
        <Amt Ccy="EUR">40.00</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

func writeCamtFixture(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(camtFixture), 0o644))
	return path
}

func newTestService() StatementService {
	return NewStatementService(cache.New(DefaultCacheExpiration, CacheCleanupInterval))
}

func TestParseFileAssignsRunID(t *testing.T) {
	path := writeCamtFixture(t, t.TempDir(), "stmt.xml")

	result, err := newTestService().ParseFile(parsers.SourceCamt, path)
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Statements, 1)
	assert.True(t, result.Statements[0].NetAmount.Equal(decimal.RequireFromString("60.00")))
}

func TestParseFileMissing(t *testing.T) {
	_, err := newTestService().ParseFile(parsers.SourceCamt, filepath.Join(t.TempDir(), "gone.xml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, parsererror.ErrNotFound)
}

func TestParseFileDirectory(t *testing.T) {
	_, err := newTestService().ParseFile(parsers.SourceCamt, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, parsererror.ErrNotFound)
}

func TestParseFileUnknownSource(t *testing.T) {
	path := writeCamtFixture(t, t.TempDir(), "stmt.xml")
	_, err := newTestService().ParseFile("mt940", path)
	assert.Error(t, err)
}

func TestParseFileCachesByPathAndMtime(t *testing.T) {
	svc := newTestService()
	path := writeCamtFixture(t, t.TempDir(), "stmt.xml")

	first, err := svc.ParseFile(parsers.SourceCamt, path)
	require.NoError(t, err)
	second, err := svc.ParseFile(parsers.SourceCamt, path)
	require.NoError(t, err)
	assert.Equal(t, first.RunID, second.RunID, "unchanged file should be served from cache")

	svc.InvalidateCache()
	third, err := svc.ParseFile(parsers.SourceCamt, path)
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, third.RunID, "invalidated cache should force a fresh parse")
}

func TestParseUpload(t *testing.T) {
	result, err := newTestService().ParseUpload(strings.NewReader(camtFixture), parsers.SourceCamt, "upload.xml")
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "upload.xml", result.File)
	require.Len(t, result.Statements, 1)
	assert.Equal(t, "STMT-SVC-1", result.Statements[0].StatementID)
}

func TestParseUploadBadContent(t *testing.T) {
	_, err := newTestService().ParseUpload(strings.NewReader("not xml at all"), parsers.SourceCamt, "upload.xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, parsererror.ErrFormat)
}

func TestProcessFolderContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	writeCamtFixture(t, dir, "a_good.xml")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_bad.xml"), []byte("garbage"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	folder, err := newTestService().ProcessFolder(parsers.SourceCamt, dir)
	require.NoError(t, err)
	require.Len(t, folder.Files, 2, "subdirectories are skipped")

	byName := map[string]string{}
	for _, fs := range folder.Files {
		byName[fs.FileName] = fs.Status
	}
	assert.Equal(t, "Success", byName["a_good.xml"])
	assert.Equal(t, "Failed", byName["b_bad.xml"])

	require.Len(t, folder.Statements, 1)
	assert.Len(t, folder.Transactions, 2)
	assert.Empty(t, folder.Payments)
}

func TestProcessFolderMissingDir(t *testing.T) {
	_, err := newTestService().ProcessFolder(parsers.SourceCamt, filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.ErrorIs(t, err, parsererror.ErrNotFound)
}
