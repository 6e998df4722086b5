package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordJSON = `{
  "profile": {
    "given_name": "Guillaume",
    "family_name": "Fortaine",
    "title": "Lead Engineer"
  },
  "languages": [{"name": "fre", "full_name": "French", "level": "Native or bilingual proficiency"}]
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	recordPath := filepath.Join(dir, "record.json")
	require.NoError(t, os.WriteFile(recordPath, []byte(recordJSON), 0644))

	xmlPath := filepath.Join(dir, "out.xml")
	out, err := execute(t, "export", recordPath, "-o", xmlPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Guillaume Fortaine")

	xml, err := os.ReadFile(xmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(xml), "<Candidate")
	assert.Contains(t, string(xml), "<oa:GivenName>Guillaume</oa:GivenName>")

	out, err = execute(t, "validate", xmlPath)
	require.NoError(t, err)
	assert.Contains(t, out, "XML is valid")

	jsonPath := filepath.Join(dir, "roundtrip.json")
	out, err = execute(t, "import", xmlPath, "-o", jsonPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Guillaume Fortaine")

	roundtrip, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(roundtrip), `"given_name": "Guillaume"`)
}

func TestExportRejectsInvalidRecord(t *testing.T) {
	dir := t.TempDir()
	recordPath := filepath.Join(dir, "record.json")
	require.NoError(t, os.WriteFile(recordPath, []byte(`{"profile": {"given_name": "G"}}`), 0644))

	_, err := execute(t, "export", recordPath, "-o", filepath.Join(dir, "out.xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "family_name")
}

func TestValidateFailsOnBrokenDocument(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "broken.xml")
	require.NoError(t, os.WriteFile(xmlPath, []byte(`<Wrong xmlns="http://example.com"/>`), 0644))

	out, err := execute(t, "validate", xmlPath)
	require.Error(t, err)
	assert.Contains(t, out, "XML validation failed")
}

func TestImportFailsOnMissingFile(t *testing.T) {
	_, err := execute(t, "import", filepath.Join(t.TempDir(), "absent.xml"))
	assert.Error(t, err)
}

func TestRenderRejectsUnknownTemplate(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "cv.xml")
	require.NoError(t, os.WriteFile(xmlPath, []byte("<Candidate/>"), 0644))

	_, err := execute(t, "render", xmlPath, "-T", "cv-futuristic", "-o", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")
}
