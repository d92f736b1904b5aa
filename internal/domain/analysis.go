package domain

import (
	"context"
	"time"
)

// Analysis statuses form the per-candidate state machine:
// pending -> processing -> completed | failed. Re-analysis moves a terminal
// row back to processing and overwrites it in place.
const (
	AnalysisStatusPending    = "pending"
	AnalysisStatusProcessing = "processing"
	AnalysisStatusCompleted  = "completed"
	AnalysisStatusFailed     = "failed"
)

type AnalysisResult struct {
	ID              int64     `json:"id"`
	CandidateID     int64     `json:"candidate_id"`
	RelevanceScore  float64   `json:"relevance_score"`
	MatchedSkills   []string  `json:"matched_skills"`
	MissingSkills   []string  `json:"missing_skills"`
	Feedback        string    `json:"feedback"`
	Strengths       []string  `json:"strengths"`
	Weaknesses      []string  `json:"weaknesses"`
	ExperienceMatch *float64  `json:"experience_match"`
	EducationMatch  *float64  `json:"education_match"`
	Status          string    `json:"status"`
	ErrorMessage    *string   `json:"error_message"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Duration        float64   `json:"analysis_duration"`
	LLMModel        *string   `json:"llm_model"`
	LLMTokensUsed   *int64    `json:"llm_tokens_used"`
}

// CandidateOutcome is the per-candidate result of a batch run.
type CandidateOutcome struct {
	CandidateID int64           `json:"candidate_id"`
	Success     bool            `json:"success"`
	Error       *string         `json:"error"`
	Analysis    *AnalysisResult `json:"analysis"`
}

// BatchResult summarizes a whole-job analysis run. Success means the job and
// candidate lookups succeeded; individual candidates may still have failed.
type BatchResult struct {
	JobID           int64              `json:"job_id"`
	TotalCandidates int                `json:"total_candidates"`
	Analyzed        int                `json:"analyzed"`
	Failed          int                `json:"failed"`
	Outcomes        []CandidateOutcome `json:"results"`
}

type JobStatistics struct {
	TotalCandidates int     `json:"total_candidates"`
	Analyzed        int     `json:"analyzed"`
	Pending         int     `json:"pending"`
	Failed          int     `json:"failed"`
	AverageScore    float64 `json:"average_score"`
	CompletionRate  float64 `json:"completion_rate"`
}

type AnalysisRepository interface {
	GetByCandidateID(ctx context.Context, candidateID int64) (*AnalysisResult, error)
	// UpsertProcessing creates the row for the candidate if absent, or moves
	// an existing row back to processing. The uniqueness constraint on
	// candidate_id guarantees a single row per candidate.
	UpsertProcessing(ctx context.Context, candidateID int64) (*AnalysisResult, error)
	MarkCompleted(ctx context.Context, result *AnalysisResult) error
	MarkFailed(ctx context.Context, candidateID int64, errorMessage string) error
}

type AnalysisUsecase interface {
	AnalyzeCandidate(ctx context.Context, candidateID, jobID int64) (*AnalysisResult, error)
	AnalyzeAllForJob(ctx context.Context, jobID int64) (*BatchResult, error)
	ListWithAnalysis(ctx context.Context, jobID int64, sortBy string) ([]CandidateWithAnalysis, error)
	Statistics(ctx context.Context, jobID int64) (*JobStatistics, error)
}
