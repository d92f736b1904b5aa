package docparse

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrUnsupportedType   = errors.New("unsupported file type")
	ErrNoTextExtracted   = errors.New("no text content could be extracted from document")
	ErrEncodingExhausted = errors.New("text file could not be decoded with supported encodings")
)

type extractFunc func(path string) (string, error)

// Extractor pulls plain text out of resume files. Each supported type has a
// primary, format-specific method; when that fails or yields only whitespace,
// a generic best-effort converter is tried before giving up.
type Extractor struct {
	primaries map[string]extractFunc
	fallback  extractFunc
}

func NewExtractor() *Extractor {
	return &Extractor{
		primaries: map[string]extractFunc{
			"pdf":  extractPDF,
			"docx": extractDocx,
			"txt":  extractTxt,
		},
		fallback: extractGeneric,
	}
}

// newExtractorWithFuncs lets tests exercise the fallback chain without
// binary document fixtures.
func newExtractorWithFuncs(primaries map[string]extractFunc, fallback extractFunc) *Extractor {
	return &Extractor{primaries: primaries, fallback: fallback}
}

// Extract returns the text content of the file at path, dispatching on the
// declared type (pdf, docx or txt).
func (e *Extractor) Extract(path, declaredType string) (string, error) {
	fileType := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(declaredType), "."))

	primary, ok := e.primaries[fileType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, fileType)
	}

	text, primaryErr := primary(path)
	if primaryErr == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	if primaryErr != nil {
		log.Printf("primary %s extraction failed for %s, trying fallback: %v", fileType, path, primaryErr)
	}

	if fbText, fbErr := e.fallback(path); fbErr == nil && strings.TrimSpace(fbText) != "" {
		return fbText, nil
	}

	if errors.Is(primaryErr, ErrEncodingExhausted) {
		return "", primaryErr
	}
	return "", ErrNoTextExtracted
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDocx(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}

// txtEncodings are tried in order after UTF-8.
var txtEncodings = []encoding.Encoding{
	charmap.ISO8859_1,
	charmap.Windows1252,
	charmap.ISO8859_15,
}

func extractTxt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	if utf8.Valid(data) {
		// Decoded fine; blank content is handled by the caller's
		// empty-text check.
		return string(data), nil
	}

	for _, enc := range txtEncodings {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if s := string(decoded); strings.TrimSpace(s) != "" {
			return s, nil
		}
	}
	return "", ErrEncodingExhausted
}

// extractGeneric is the best-effort multi-format fallback.
func extractGeneric(path string) (string, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to convert document: %w", err)
	}
	return res.Body, nil
}

// CleanText normalizes extracted resume text: trims lines, collapses runs of
// blank lines and drops trailing whitespace.
func CleanText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, trimmed)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
