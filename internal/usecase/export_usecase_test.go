package usecase_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"resume-matcher-backend/internal/domain"
	"resume-matcher-backend/internal/usecase"
	"resume-matcher-backend/pkg/apperror"
)

type MockAnalysisUsecase struct {
	mock.Mock
}

func (m *MockAnalysisUsecase) AnalyzeCandidate(ctx context.Context, candidateID, jobID int64) (*domain.AnalysisResult, error) {
	args := m.Called(ctx, candidateID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisResult), args.Error(1)
}

func (m *MockAnalysisUsecase) AnalyzeAllForJob(ctx context.Context, jobID int64) (*domain.BatchResult, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchResult), args.Error(1)
}

func (m *MockAnalysisUsecase) ListWithAnalysis(ctx context.Context, jobID int64, sortBy string) ([]domain.CandidateWithAnalysis, error) {
	args := m.Called(ctx, jobID, sortBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CandidateWithAnalysis), args.Error(1)
}

func (m *MockAnalysisUsecase) Statistics(ctx context.Context, jobID int64) (*domain.JobStatistics, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobStatistics), args.Error(1)
}

func exportFixtures(t *testing.T) (*MockJobRepo, *MockAnalysisUsecase) {
	t.Helper()
	jobRepo := new(MockJobRepo)
	analysisUC := new(MockAnalysisUsecase)

	withFeedback := testAnalysis(1, 95)
	withFeedback.Feedback = `Strong match, "excellent" Go depth`

	jobRepo.On("GetByID", mock.Anything, int64(1)).Return(testJob(1), nil)
	analysisUC.On("ListWithAnalysis", mock.Anything, int64(1), "score").Return([]domain.CandidateWithAnalysis{
		withAnalysis(testCandidate(1, 1), withFeedback),
		withAnalysis(testCandidate(2, 1), nil),
	}, nil)
	return jobRepo, analysisUC
}

func TestExportCSV(t *testing.T) {
	jobRepo, analysisUC := exportFixtures(t)
	uc := usecase.NewExportUsecase(jobRepo, analysisUC)

	file, err := uc.Export(context.Background(), 1, "csv")

	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.FileName, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "RANK,NAME,EMAIL"))
	// Quoted field with embedded comma and doubled quotes
	assert.Contains(t, lines[1], `"Strong match, ""excellent"" Go depth"`)
	// Unanalyzed candidate exports empty analysis columns
	assert.Contains(t, lines[2], "pending")
}

func TestExportJSON(t *testing.T) {
	jobRepo, analysisUC := exportFixtures(t)
	uc := usecase.NewExportUsecase(jobRepo, analysisUC)

	file, err := uc.Export(context.Background(), 1, "json")

	require.NoError(t, err)
	assert.Equal(t, "application/json", file.ContentType)

	var payload struct {
		Job        domain.Job `json:"job"`
		Candidates []struct {
			Rank     int                    `json:"rank"`
			Analysis *domain.AnalysisResult `json:"analysis"`
		} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(file.Data, &payload))
	assert.Equal(t, "Backend Engineer", payload.Job.Title)
	require.Len(t, payload.Candidates, 2)
	assert.Equal(t, 1, payload.Candidates[0].Rank)
	require.NotNil(t, payload.Candidates[0].Analysis)
	assert.Equal(t, 95.0, payload.Candidates[0].Analysis.RelevanceScore)
	assert.Nil(t, payload.Candidates[1].Analysis)
}

func TestExportExcel(t *testing.T) {
	jobRepo, analysisUC := exportFixtures(t)
	uc := usecase.NewExportUsecase(jobRepo, analysisUC)

	file, err := uc.Export(context.Background(), 1, "xlsx")

	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", file.ContentType)

	workbook, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows("Candidates")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "RANK", rows[0][0])
	assert.Equal(t, "Jane Smith", rows[1][1])
	assert.Equal(t, "95.0", rows[1][4])
}

func TestExportDefaultsToExcel(t *testing.T) {
	jobRepo, analysisUC := exportFixtures(t)
	uc := usecase.NewExportUsecase(jobRepo, analysisUC)

	file, err := uc.Export(context.Background(), 1, "")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.FileName, ".xlsx"))
}

func TestExportInvalidFormat(t *testing.T) {
	jobRepo, analysisUC := exportFixtures(t)
	uc := usecase.NewExportUsecase(jobRepo, analysisUC)

	_, err := uc.Export(context.Background(), 1, "docx")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestExportJobNotFound(t *testing.T) {
	jobRepo := new(MockJobRepo)
	analysisUC := new(MockAnalysisUsecase)
	jobRepo.On("GetByID", mock.Anything, int64(9)).Return(nil, domain.ErrNotFound)

	uc := usecase.NewExportUsecase(jobRepo, analysisUC)
	_, err := uc.Export(context.Background(), 9, "csv")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}
