package usecase

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"resume-matcher-backend/internal/domain"
	"resume-matcher-backend/pkg/apperror"
	"resume-matcher-backend/pkg/logger"
)

type jobUsecase struct {
	jobRepo  domain.JobRepository
	validate *validator.Validate
}

func NewJobUsecase(jobRepo domain.JobRepository, validate *validator.Validate) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo, validate: validate}
}

func (u *jobUsecase) validateJob(job *domain.Job) error {
	job.Title = strings.TrimSpace(job.Title)
	if err := u.validate.Var(job.Title, "required,min=3,max=255"); err != nil {
		return apperror.BadRequest("Title must be between 3 and 255 characters")
	}

	if err := u.validate.Var(strings.TrimSpace(job.Description), "required,min=50"); err != nil {
		return apperror.BadRequest("Description must be at least 50 characters")
	}

	if job.Status == "" {
		job.Status = domain.JobStatusActive
	}
	if err := u.validate.Var(job.Status, "oneof=active closed draft"); err != nil {
		return apperror.BadRequest("Status must be one of: active, closed, draft")
	}
	return nil
}

func (u *jobUsecase) CreateJob(ctx context.Context, job *domain.Job) error {
	if err := u.validateJob(job); err != nil {
		return err
	}

	job.CreatedAt = time.Now()
	job.UpdatedAt = time.Now()

	return u.jobRepo.Create(ctx, job)
}

func (u *jobUsecase) GetJobDetails(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}
	return job, nil
}

func (u *jobUsecase) ListJobs(ctx context.Context, page, pageSize int) ([]domain.JobWithCount, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	return u.jobRepo.Fetch(ctx, pageSize, offset)
}

func (u *jobUsecase) UpdateJob(ctx context.Context, job *domain.Job) error {
	if err := u.validateJob(job); err != nil {
		return err
	}

	job.UpdatedAt = time.Now()

	err := u.jobRepo.Update(ctx, job)
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound("Job not found")
	}
	return err
}

// DeleteJob removes the job with its candidates and analyses, then deletes
// the stored resume files. File removal failures are logged, not fatal: the
// database rows are already gone.
func (u *jobUsecase) DeleteJob(ctx context.Context, id int64) error {
	filePaths, err := u.jobRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job not found")
		}
		return err
	}

	for _, path := range filePaths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Log.Warn("failed to remove resume file", "path", path, "error", err)
		}
	}
	return nil
}
