package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allowed = map[string]bool{"pdf": true, "docx": true, "txt": true}

func TestValidateAccepts(t *testing.T) {
	v := NewValidator(allowed, 1024)

	ext, err := v.Validate("Jane_Smith_Resume.pdf", 100, []byte("%PDF-1.7 ..."))
	require.NoError(t, err)
	assert.Equal(t, "pdf", ext)

	ext, err = v.Validate("notes.txt", 10, []byte("plain text"))
	require.NoError(t, err)
	assert.Equal(t, "txt", ext)
}

func TestValidateRejections(t *testing.T) {
	v := NewValidator(allowed, 1024)

	tests := []struct {
		name     string
		filename string
		size     int64
		content  []byte
		wantErr  string
	}{
		{"disallowed extension", "malware.exe", 10, []byte("MZ"), "not allowed"},
		{"path traversal", "../etc/passwd.txt", 10, []byte("x"), "path traversal"},
		{"empty file", "cv.pdf", 0, nil, "empty"},
		{"oversized", "cv.pdf", 2048, []byte("%PDF"), "exceeds maximum"},
		{"wrong magic bytes", "cv.pdf", 10, []byte("not a pdf"), "does not match"},
		{"docx magic bytes", "cv.docx", 10, []byte("garbage"), "does not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.filename, tt.size, tt.content)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
