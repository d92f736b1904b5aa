package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MissingFieldsError reports required keys absent from the model output.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// TypeMismatchError reports a field whose JSON type is wrong.
type TypeMismatchError struct {
	Field string
	Want  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s must be a %s", e.Field, e.Want)
}

var requiredFields = []string{"relevance_score", "matched_skills", "missing_skills", "feedback"}

// parseAnalysisResponse validates and decodes the raw model output into an
// Analysis. Markdown code fences around the JSON are tolerated; missing or
// mistyped required fields are terminal errors (never retried).
func parseAnalysisResponse(responseText string) (*Analysis, error) {
	cleaned := stripCodeFences(responseText)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := data[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	score, ok := data["relevance_score"].(float64)
	if !ok {
		return nil, &TypeMismatchError{Field: "relevance_score", Want: "number"}
	}
	matched, ok := toStringList(data["matched_skills"])
	if !ok {
		return nil, &TypeMismatchError{Field: "matched_skills", Want: "list"}
	}
	missingSkills, ok := toStringList(data["missing_skills"])
	if !ok {
		return nil, &TypeMismatchError{Field: "missing_skills", Want: "list"}
	}
	feedback, ok := data["feedback"].(string)
	if !ok {
		return nil, &TypeMismatchError{Field: "feedback", Want: "string"}
	}

	analysis := &Analysis{
		RelevanceScore:  clampScore(score),
		MatchedSkills:   matched,
		MissingSkills:   missingSkills,
		Feedback:        feedback,
		Strengths:       []string{},
		Weaknesses:      []string{},
		ExperienceMatch: optionalScore(data["experience_match"]),
		EducationMatch:  optionalScore(data["education_match"]),
	}
	if strengths, ok := toStringList(data["strengths"]); ok {
		analysis.Strengths = strengths
	}
	if weaknesses, ok := toStringList(data["weaknesses"]); ok {
		analysis.Weaknesses = weaknesses
	}

	return analysis, nil
}

// stripCodeFences removes a ```json or ``` wrapper around the payload.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}

	return strings.TrimSpace(text)
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func optionalScore(value any) *float64 {
	score, ok := value.(float64)
	if !ok {
		return nil
	}
	clamped := clampScore(score)
	return &clamped
}

func toStringList(value any) ([]string, bool) {
	items, ok := value.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}
