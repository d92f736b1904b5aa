package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resume-matcher-backend/config"
	"resume-matcher-backend/internal/domain"
	"resume-matcher-backend/internal/usecase"
	"resume-matcher-backend/pkg/apperror"
)

const sampleResumeText = `JANE SMITH
Email: jane.smith@example.com
Phone: (555) 123-4567

Senior backend engineer with eight years of experience building Go services,
PostgreSQL schemas and cloud deployments at scale.`

func newCandidateUsecase(t *testing.T, candidateRepo *MockCandidateRepo, jobRepo *MockJobRepo) domain.CandidateUsecase {
	t.Helper()
	cfg := &config.Config{
		MaxFileSize:       1024 * 1024,
		AllowedExtensions: []string{"pdf", "docx", "txt"},
		UploadFolder:      t.TempDir(),
	}
	return usecase.NewCandidateUsecase(candidateRepo, jobRepo, cfg)
}

func TestIngestResume(t *testing.T) {
	candidateRepo := new(MockCandidateRepo)
	jobRepo := new(MockJobRepo)
	jobRepo.On("GetByID", mock.Anything, int64(1)).Return(testJob(1), nil)
	candidateRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Candidate).ID = 7
	}).Return(nil)

	uc := newCandidateUsecase(t, candidateRepo, jobRepo)

	candidate, err := uc.IngestResume(context.Background(), 1, domain.ResumeUpload{
		FileName: "Jane_Smith_Resume.txt",
		Size:     int64(len(sampleResumeText)),
		Content:  []byte(sampleResumeText),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), candidate.ID)
	assert.Equal(t, "Jane Smith", candidate.Name)
	require.NotNil(t, candidate.Email)
	assert.Equal(t, "jane.smith@example.com", *candidate.Email)
	assert.Equal(t, "txt", candidate.FileType)
	assert.Equal(t, "Jane_Smith_Resume.txt", candidate.FileName)
	assert.NotEqual(t, candidate.FileName, candidate.FilePath)
	assert.FileExists(t, candidate.FilePath)
	assert.True(t, strings.Contains(candidate.ParsedText, "JANE SMITH"))
}

func TestIngestResumeJobNotFound(t *testing.T) {
	candidateRepo := new(MockCandidateRepo)
	jobRepo := new(MockJobRepo)
	jobRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)

	uc := newCandidateUsecase(t, candidateRepo, jobRepo)

	_, err := uc.IngestResume(context.Background(), 99, domain.ResumeUpload{
		FileName: "resume.txt",
		Size:     10,
		Content:  []byte("0123456789"),
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
	candidateRepo.AssertNotCalled(t, "Create")
}

func TestIngestResumeRejectsExtension(t *testing.T) {
	candidateRepo := new(MockCandidateRepo)
	jobRepo := new(MockJobRepo)
	jobRepo.On("GetByID", mock.Anything, int64(1)).Return(testJob(1), nil)

	uc := newCandidateUsecase(t, candidateRepo, jobRepo)

	_, err := uc.IngestResume(context.Background(), 1, domain.ResumeUpload{
		FileName: "resume.exe",
		Size:     10,
		Content:  []byte("0123456789"),
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestIngestResumeTooLittleText(t *testing.T) {
	candidateRepo := new(MockCandidateRepo)
	jobRepo := new(MockJobRepo)
	jobRepo.On("GetByID", mock.Anything, int64(1)).Return(testJob(1), nil)

	uc := newCandidateUsecase(t, candidateRepo, jobRepo)

	_, err := uc.IngestResume(context.Background(), 1, domain.ResumeUpload{
		FileName: "resume.txt",
		Size:     9,
		Content:  []byte("too short"),
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 422, appErr.Code)
	candidateRepo.AssertNotCalled(t, "Create")
}

func TestDeleteCandidateRemovesFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/stored_resume.txt"
	require.NoError(t, writeTempFile(path))

	candidateRepo := new(MockCandidateRepo)
	jobRepo := new(MockJobRepo)
	candidateRepo.On("Delete", mock.Anything, int64(7)).Return(path, nil)

	uc := newCandidateUsecase(t, candidateRepo, jobRepo)

	require.NoError(t, uc.DeleteCandidate(context.Background(), 7))
	assert.NoFileExists(t, path)
}

func TestDeleteCandidateNotFound(t *testing.T) {
	candidateRepo := new(MockCandidateRepo)
	jobRepo := new(MockJobRepo)
	candidateRepo.On("Delete", mock.Anything, int64(7)).Return("", domain.ErrNotFound)

	uc := newCandidateUsecase(t, candidateRepo, jobRepo)

	var appErr *apperror.AppError
	require.ErrorAs(t, uc.DeleteCandidate(context.Background(), 7), &appErr)
	assert.Equal(t, 404, appErr.Code)
}
