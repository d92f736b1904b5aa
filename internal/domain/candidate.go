package domain

import (
	"context"
	"time"
)

type Candidate struct {
	ID         int64     `json:"id"`
	JobID      int64     `json:"job_id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email"`
	Phone      *string   `json:"phone"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	ParsedText string    `json:"-"`
	UploadedAt time.Time `json:"uploaded_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ResumeUpload carries an incoming resume file before ingestion.
type ResumeUpload struct {
	FileName string
	Size     int64
	Content  []byte
}

// CandidateWithAnalysis pairs a candidate with its analysis row, if any.
type CandidateWithAnalysis struct {
	Candidate Candidate       `json:"candidate"`
	Analysis  *AnalysisResult `json:"analysis"`
}

// HasCompletedAnalysis reports whether the candidate has a finished analysis.
func (c *CandidateWithAnalysis) HasCompletedAnalysis() bool {
	return c.Analysis != nil && c.Analysis.Status == AnalysisStatusCompleted
}

type CandidateRepository interface {
	Create(ctx context.Context, candidate *Candidate) error
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	FetchByJobID(ctx context.Context, jobID int64) ([]Candidate, error)
	FetchByJobIDWithAnalysis(ctx context.Context, jobID int64) ([]CandidateWithAnalysis, error)
	Delete(ctx context.Context, id int64) (filePath string, err error)
}

type CandidateUsecase interface {
	IngestResume(ctx context.Context, jobID int64, upload ResumeUpload) (*Candidate, error)
	GetCandidate(ctx context.Context, id int64) (*Candidate, error)
	DeleteCandidate(ctx context.Context, id int64) error
}
