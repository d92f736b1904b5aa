package docparse

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stub(text string, err error) extractFunc {
	return func(string) (string, error) { return text, err }
}

func TestExtractUnsupportedType(t *testing.T) {
	e := NewExtractor()
	_, err := e.Extract("resume.rtf", "rtf")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestExtractPrimarySucceeds(t *testing.T) {
	e := newExtractorWithFuncs(
		map[string]extractFunc{"pdf": stub("primary text", nil)},
		stub("", errors.New("fallback should not run")),
	)
	text, err := e.Extract("resume.pdf", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "primary text", text)
}

func TestExtractFallbackOnPrimaryError(t *testing.T) {
	e := newExtractorWithFuncs(
		map[string]extractFunc{"pdf": stub("", errors.New("corrupt xref table"))},
		stub("rescued by fallback", nil),
	)
	text, err := e.Extract("resume.pdf", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "rescued by fallback", text)
}

func TestExtractFallbackOnWhitespacePrimary(t *testing.T) {
	e := newExtractorWithFuncs(
		map[string]extractFunc{"docx": stub("   \n\t ", nil)},
		stub("fallback content", nil),
	)
	text, err := e.Extract("resume.docx", "docx")
	require.NoError(t, err)
	assert.Equal(t, "fallback content", text)
}

func TestExtractBothWhitespace(t *testing.T) {
	e := newExtractorWithFuncs(
		map[string]extractFunc{"pdf": stub("  \n ", nil)},
		stub("\t\n", nil),
	)
	text, err := e.Extract("resume.pdf", "pdf")
	assert.ErrorIs(t, err, ErrNoTextExtracted)
	assert.Empty(t, text)
}

func TestExtractBothFail(t *testing.T) {
	e := newExtractorWithFuncs(
		map[string]extractFunc{"docx": stub("", errors.New("not a zip"))},
		stub("", errors.New("converter unavailable")),
	)
	_, err := e.Extract("resume.docx", "docx")
	assert.ErrorIs(t, err, ErrNoTextExtracted)
}

func TestExtractTxtUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Smith\nEngineer"), 0o644))

	text, err := extractTxt(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Smith")
}

func TestExtractTxtLegacyEncoding(t *testing.T) {
	// "Se\xf1or" is ISO-8859-1 and not valid UTF-8.
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte{'S', 'e', 0xf1, 'o', 'r'}, 0o644))

	text, err := extractTxt(path)
	require.NoError(t, err)
	assert.Equal(t, "Señor", text)
}

func TestCleanText(t *testing.T) {
	in := "  Jane Smith  \r\n\r\n\r\n\r\nEngineer\n\n\nSkills  "
	assert.Equal(t, "Jane Smith\n\nEngineer\n\nSkills", CleanText(in))
}
