package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resume-matcher-backend/internal/domain"
	"resume-matcher-backend/internal/usecase"
	"resume-matcher-backend/pkg/apperror"
)

func TestCreateJobValidation(t *testing.T) {
	validDescription := strings.Repeat("We are hiring. ", 10)

	tests := []struct {
		name    string
		job     domain.Job
		wantErr string
	}{
		{"title too short", domain.Job{Title: "Go", Description: validDescription}, "between 3 and 255"},
		{"title too long", domain.Job{Title: strings.Repeat("x", 256), Description: validDescription}, "between 3 and 255"},
		{"description too short", domain.Job{Title: "Backend Engineer", Description: "short"}, "at least 50 characters"},
		{"invalid status", domain.Job{Title: "Backend Engineer", Description: validDescription, Status: "archived"}, "Status must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockJobRepo)
			uc := usecase.NewJobUsecase(mockRepo, validator.New())

			err := uc.CreateJob(context.Background(), &tt.job)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Contains(t, appErr.Message, tt.wantErr)
			mockRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreateJobDefaultsStatus(t *testing.T) {
	mockRepo := new(MockJobRepo)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	uc := usecase.NewJobUsecase(mockRepo, validator.New())

	job := &domain.Job{
		Title:       "  Backend Engineer  ",
		Description: strings.Repeat("Build the Go services behind our hiring platform. ", 3),
	}
	require.NoError(t, uc.CreateJob(context.Background(), job))

	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, domain.JobStatusActive, job.Status)
	assert.False(t, job.CreatedAt.IsZero())
	mockRepo.AssertExpectations(t)
}

func TestGetJobDetailsNotFound(t *testing.T) {
	mockRepo := new(MockJobRepo)
	mockRepo.On("GetByID", mock.Anything, int64(42)).Return(nil, domain.ErrNotFound)
	uc := usecase.NewJobUsecase(mockRepo, validator.New())

	_, err := uc.GetJobDetails(context.Background(), 42)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestListJobsNormalizesPaging(t *testing.T) {
	mockRepo := new(MockJobRepo)
	mockRepo.On("Fetch", mock.Anything, 10, 0).Return([]domain.JobWithCount{}, int64(0), nil)
	uc := usecase.NewJobUsecase(mockRepo, validator.New())

	_, _, err := uc.ListJobs(context.Background(), 0, -5)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDeleteJobRemovesFiles(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/resume.pdf"
	require.NoError(t, writeTempFile(path))

	mockRepo := new(MockJobRepo)
	mockRepo.On("Delete", mock.Anything, int64(1)).Return([]string{path}, nil)
	uc := usecase.NewJobUsecase(mockRepo, validator.New())

	require.NoError(t, uc.DeleteJob(context.Background(), 1))
	assert.NoFileExists(t, path)
}

func TestDeleteJobRepoFailure(t *testing.T) {
	mockRepo := new(MockJobRepo)
	mockRepo.On("Delete", mock.Anything, int64(1)).Return(nil, errors.New("connection reset"))
	uc := usecase.NewJobUsecase(mockRepo, validator.New())

	assert.Error(t, uc.DeleteJob(context.Background(), 1))
}
