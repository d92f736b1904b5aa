package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-matcher-backend/config"
	"resume-matcher-backend/internal/domain"
	"resume-matcher-backend/pkg/apperror"
	"resume-matcher-backend/pkg/docparse"
	"resume-matcher-backend/pkg/logger"
	"resume-matcher-backend/pkg/upload"
)

const minParsedTextLength = 50

type candidateUsecase struct {
	candidateRepo domain.CandidateRepository
	jobRepo       domain.JobRepository
	validator     *upload.Validator
	extractor     *docparse.Extractor
	uploadFolder  string
}

func NewCandidateUsecase(
	candidateRepo domain.CandidateRepository,
	jobRepo domain.JobRepository,
	cfg *config.Config,
) domain.CandidateUsecase {
	return &candidateUsecase{
		candidateRepo: candidateRepo,
		jobRepo:       jobRepo,
		validator:     upload.NewValidator(cfg.AllowedExtensionSet(), cfg.MaxFileSize),
		extractor:     docparse.NewExtractor(),
		uploadFolder:  cfg.UploadFolder,
	}
}

// IngestResume validates and stores the uploaded file, extracts its text and
// contact details, and persists the candidate under the job. The stored file
// gets a UUID prefix so repeated uploads of the same filename never collide.
func (u *candidateUsecase) IngestResume(ctx context.Context, jobID int64, up domain.ResumeUpload) (*domain.Candidate, error) {
	if _, err := u.jobRepo.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}

	ext, err := u.validator.Validate(up.FileName, up.Size, up.Content)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	storedName := fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(up.FileName))
	storedPath := filepath.Join(u.uploadFolder, storedName)
	if err := os.WriteFile(storedPath, up.Content, 0o644); err != nil {
		return nil, fmt.Errorf("save resume file: %w", err)
	}

	text, err := u.extractor.Extract(storedPath, ext)
	if err != nil {
		u.removeStoredFile(storedPath)
		if errors.Is(err, docparse.ErrNoTextExtracted) || errors.Is(err, docparse.ErrEncodingExhausted) {
			return nil, apperror.Unprocessable("Could not extract text from the resume")
		}
		return nil, apperror.Unprocessable(fmt.Sprintf("Failed to parse resume: %v", err))
	}

	text = docparse.CleanText(text)
	if len(text) < minParsedTextLength {
		u.removeStoredFile(storedPath)
		return nil, apperror.Unprocessable("Resume contains too little text to analyze")
	}

	info := docparse.ExtractInfo(text, up.FileName)

	now := time.Now()
	candidate := &domain.Candidate{
		JobID:      jobID,
		Name:       info.Name,
		Email:      info.Email,
		Phone:      info.Phone,
		FileName:   filepath.Base(up.FileName),
		FilePath:   storedPath,
		FileType:   strings.TrimPrefix(ext, "."),
		FileSize:   up.Size,
		ParsedText: text,
		UploadedAt: now,
		UpdatedAt:  now,
	}

	if err := u.candidateRepo.Create(ctx, candidate); err != nil {
		u.removeStoredFile(storedPath)
		return nil, err
	}

	logger.Log.Info("resume ingested",
		"candidate_id", candidate.ID,
		"job_id", jobID,
		"file_name", candidate.FileName,
		"text_length", len(text))
	return candidate, nil
}

func (u *candidateUsecase) GetCandidate(ctx context.Context, id int64) (*domain.Candidate, error) {
	candidate, err := u.candidateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate not found")
		}
		return nil, err
	}
	return candidate, nil
}

func (u *candidateUsecase) DeleteCandidate(ctx context.Context, id int64) error {
	filePath, err := u.candidateRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Candidate not found")
		}
		return err
	}

	u.removeStoredFile(filePath)
	return nil
}

func (u *candidateUsecase) removeStoredFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Log.Warn("failed to remove resume file", "path", path, "error", err)
	}
}
