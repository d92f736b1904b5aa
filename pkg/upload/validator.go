package upload

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Magic byte signatures for allowed resume types. Text files have no magic
// bytes and are accepted on extension alone.
var magicBytes = map[string][][]byte{
	"pdf":  {{0x25, 0x50, 0x44, 0x46}}, // %PDF
	"docx": {{0x50, 0x4B, 0x03, 0x04}}, // ZIP (PK..)
	"txt":  {},
}

var filenamePattern = regexp.MustCompile(`^[a-zA-Z0-9._\-\s()]+$`)

// Validator checks uploaded resume files against the configured extension
// whitelist and size ceiling before anything touches disk.
type Validator struct {
	allowedExtensions map[string]bool
	maxSize           int64
}

func NewValidator(allowedExtensions map[string]bool, maxSize int64) *Validator {
	return &Validator{
		allowedExtensions: allowedExtensions,
		maxSize:           maxSize,
	}
}

// Validate runs all checks and returns the normalized extension on success.
func (v *Validator) Validate(filename string, size int64, content []byte) (string, error) {
	if err := validateFilename(filename); err != nil {
		return "", err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !v.allowedExtensions[ext] {
		return "", fmt.Errorf("file extension '.%s' not allowed", ext)
	}

	if size == 0 {
		return "", fmt.Errorf("file is empty")
	}
	if size > v.maxSize {
		return "", fmt.Errorf("file size %.2fMB exceeds maximum %.2fMB",
			float64(size)/(1024*1024), float64(v.maxSize)/(1024*1024))
	}

	if err := validateMagicBytes(ext, content); err != nil {
		return "", err
	}

	return ext, nil
}

func validateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename is empty")
	}
	// Path traversal guard
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("invalid filename: path traversal detected")
	}
	if !filenamePattern.MatchString(filename) {
		return fmt.Errorf("invalid filename: contains special characters")
	}
	return nil
}

func validateMagicBytes(ext string, content []byte) error {
	signatures, ok := magicBytes[ext]
	if !ok || len(signatures) == 0 {
		return nil
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(content, sig) {
			return nil
		}
	}
	return fmt.Errorf("file content does not match declared type %s", ext)
}
