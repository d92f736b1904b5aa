package docparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `JANE SMITH
Senior Software Engineer

Email: jane.smith@email.com
Phone: 555-123-4567
`

func TestExtractInfoFromText(t *testing.T) {
	info := ExtractInfo(sampleResume, "anything.pdf")

	assert.Equal(t, "Jane Smith", info.Name)
	require.NotNil(t, info.Email)
	assert.Equal(t, "jane.smith@email.com", *info.Email)
	require.NotNil(t, info.Phone)
	assert.Equal(t, "555-123-4567", *info.Phone)
}

func TestExtractInfoNameFromFilename(t *testing.T) {
	// No qualifying name line in the text: the first line carries an email
	// and the rest are too long or contain digits.
	text := "contact: john@example.com\n1234567890 some reference number\n"
	info := ExtractInfo(text, "John_Doe_Resume.pdf")

	assert.Equal(t, "John Doe", info.Name)
}

func TestExtractInfoFilenameStemFallback(t *testing.T) {
	info := ExtractInfo("", "document123.txt")
	// Digits disqualify the keyword-stripped form, so the raw stem is used.
	assert.Equal(t, "Document123", info.Name)
}

func TestExtractInfoSkipsContactLines(t *testing.T) {
	text := "jane@example.com\n5551234567\nJane van Doren\n"
	info := ExtractInfo(text, "cv.pdf")
	assert.Equal(t, "Jane Van Doren", info.Name)
}

func TestExtractInfoRejectsLongLines(t *testing.T) {
	text := "An Objective Statement About My Career Goals\n"
	info := ExtractInfo(text, "Mary-Major-CV-final.docx")
	assert.Equal(t, "Mary Major", info.Name)
}

func TestExtractInfoMissingContact(t *testing.T) {
	info := ExtractInfo("John Doe\nEngineer", "x.pdf")
	assert.Equal(t, "John Doe", info.Name)
	assert.Nil(t, info.Email)
	assert.Nil(t, info.Phone)
}

func TestExtractInfoPhonePriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"international", "call +1-123-456-7890 now", "+1-123-456-7890"},
		{"parenthesized", "call (123) 456-7890 now", "(123) 456-7890"},
		{"bare digits", "ref 1234567890 end", "1234567890"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ExtractInfo(tt.text, "x.pdf")
			require.NotNil(t, info.Phone)
			assert.Equal(t, tt.want, *info.Phone)
		})
	}
}
