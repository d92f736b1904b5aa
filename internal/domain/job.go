package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// Job statuses
const (
	JobStatusActive = "active"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"
)

type Job struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Requirements    *string   `json:"requirements"`
	Location        *string   `json:"location"`
	Department      *string   `json:"department"`
	EmploymentType  *string   `json:"employment_type"`
	ExperienceLevel *string   `json:"experience_level"`
	SalaryRange     *string   `json:"salary_range"`
	Status          string    `json:"status"`
	CreatedBy       *string   `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// JobWithCount extends Job with the number of uploaded candidates
type JobWithCount struct {
	Job
	CandidateCount int64 `json:"candidate_count"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	Fetch(ctx context.Context, limit, offset int) ([]JobWithCount, int64, error)
	Update(ctx context.Context, job *Job) error
	// Delete removes the job and, via cascade, its candidates and analyses.
	// Returns the stored file paths of the deleted candidates so the caller
	// can remove the files from disk.
	Delete(ctx context.Context, id int64) ([]string, error)
}

type JobUsecase interface {
	CreateJob(ctx context.Context, job *Job) error
	GetJobDetails(ctx context.Context, id int64) (*Job, error)
	ListJobs(ctx context.Context, page, pageSize int) ([]JobWithCount, int64, error)
	UpdateJob(ctx context.Context, job *Job) error
	DeleteJob(ctx context.Context, id int64) error
}
