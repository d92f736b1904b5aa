package docparse

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Info holds contact details pulled out of a resume.
type Info struct {
	Name  string
	Email *string
	Phone *string
}

var (
	emailRegex = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)

	// Phone patterns in priority order.
	phoneRegexes = []*regexp.Regexp{
		regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\d{10}`),
	}

	tenDigitRun   = regexp.MustCompile(`\d{10}`)
	nameTokenChar = regexp.MustCompile(`^[a-zA-Z\s.\-]+$`)
	alphaSpace    = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	separators    = regexp.MustCompile(`[_\-.]`)

	resumeKeywords = regexp.MustCompile(`(?i)resume|cv|curriculum|vitae|updated|final|latest`)

	titleCaser = cases.Title(language.Und)
)

// ExtractInfo derives a candidate's name, email and phone from resume text
// and the uploaded filename. Name extraction always succeeds: text heuristics
// first, then the keyword-stripped filename, then the raw filename stem.
func ExtractInfo(text, filename string) Info {
	info := Info{}

	if email := emailRegex.FindString(text); email != "" {
		info.Email = &email
	}

	for _, re := range phoneRegexes {
		if phone := re.FindString(text); phone != "" {
			info.Phone = &phone
			break
		}
	}

	info.Name = nameFromText(text)
	if info.Name == "" {
		info.Name = nameFromFilename(filename)
	}
	if info.Name == "" {
		stem := strings.TrimSuffix(filename, filepath.Ext(filename))
		stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
		info.Name = titleCaser.String(stem)
	}

	return info
}

// nameFromText scans the first five lines for something name-shaped:
// 2-4 whitespace-separated tokens of letters, periods and hyphens, skipping
// lines holding an email or a 10-digit run.
func nameFromText(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "@") || tenDigitRun.MatchString(line) {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}

		valid := true
		for _, w := range words {
			if !nameTokenChar.MatchString(w) {
				valid = false
				break
			}
		}
		if valid {
			return titleCaser.String(line)
		}
	}
	return ""
}

// nameFromFilename strips resume-related keywords from the filename stem and
// accepts the remainder only when it still looks like a person's name.
func nameFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = resumeKeywords.ReplaceAllString(name, "")
	name = separators.ReplaceAllString(name, " ")
	name = strings.Join(strings.Fields(name), " ")
	name = titleCaser.String(name)

	if len(name) >= 2 && len(name) <= 50 && alphaSpace.MatchString(name) {
		return name
	}
	return ""
}
