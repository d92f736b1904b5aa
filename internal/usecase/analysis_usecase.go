package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"resume-matcher-backend/internal/domain"
	"resume-matcher-backend/internal/llm"
	"resume-matcher-backend/pkg/apperror"
	"resume-matcher-backend/pkg/logger"
)

// ResumeAnalyzer evaluates one resume against one job posting.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, req llm.AnalyzeRequest) llm.Outcome
}

type analysisUsecase struct {
	analysisRepo  domain.AnalysisRepository
	candidateRepo domain.CandidateRepository
	jobRepo       domain.JobRepository
	analyzer      ResumeAnalyzer
}

func NewAnalysisUsecase(
	analysisRepo domain.AnalysisRepository,
	candidateRepo domain.CandidateRepository,
	jobRepo domain.JobRepository,
	analyzer ResumeAnalyzer,
) domain.AnalysisUsecase {
	return &analysisUsecase{
		analysisRepo:  analysisRepo,
		candidateRepo: candidateRepo,
		jobRepo:       jobRepo,
		analyzer:      analyzer,
	}
}

// AnalyzeCandidate runs a single analysis. The row moves to processing
// first; any failure past that point marks it failed with the reason, so a
// candidate is never stranded in processing.
func (u *analysisUsecase) AnalyzeCandidate(ctx context.Context, candidateID, jobID int64) (*domain.AnalysisResult, error) {
	candidate, err := u.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate not found")
		}
		return nil, err
	}
	if candidate.JobID != jobID {
		return nil, apperror.NotFound("Candidate does not belong to this job")
	}

	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}

	return u.runAnalysis(ctx, candidate, job)
}

func (u *analysisUsecase) runAnalysis(ctx context.Context, candidate *domain.Candidate, job *domain.Job) (result *domain.AnalysisResult, err error) {
	if _, err := u.analysisRepo.UpsertProcessing(ctx, candidate.ID); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analysis panic: %v", r)
			u.markFailed(ctx, candidate.ID, err.Error())
		}
	}()

	outcome := u.analyzer.Analyze(ctx, llm.AnalyzeRequest{
		ResumeText:      candidate.ParsedText,
		JobTitle:        job.Title,
		JobDescription:  job.Description,
		JobRequirements: job.Requirements,
	})
	if outcome.Err != nil {
		u.markFailed(ctx, candidate.ID, outcome.Err.Error())
		return nil, fmt.Errorf("analyze candidate %d: %w", candidate.ID, outcome.Err)
	}

	result = &domain.AnalysisResult{
		CandidateID:     candidate.ID,
		RelevanceScore:  outcome.Analysis.RelevanceScore,
		MatchedSkills:   outcome.Analysis.MatchedSkills,
		MissingSkills:   outcome.Analysis.MissingSkills,
		Feedback:        outcome.Analysis.Feedback,
		Strengths:       outcome.Analysis.Strengths,
		Weaknesses:      outcome.Analysis.Weaknesses,
		ExperienceMatch: outcome.Analysis.ExperienceMatch,
		EducationMatch:  outcome.Analysis.EducationMatch,
		Duration:        outcome.Duration.Seconds(),
	}
	if outcome.Model != "" {
		result.LLMModel = &outcome.Model
	}
	if outcome.TokensUsed > 0 {
		result.LLMTokensUsed = &outcome.TokensUsed
	}

	if err := u.analysisRepo.MarkCompleted(ctx, result); err != nil {
		return nil, err
	}

	logger.Log.Info("candidate analyzed",
		"candidate_id", candidate.ID,
		"job_id", job.ID,
		"relevance_score", result.RelevanceScore)
	return result, nil
}

// markFailed is best effort: the original failure is what the caller needs
// to see, not a follow-up persistence error.
func (u *analysisUsecase) markFailed(ctx context.Context, candidateID int64, message string) {
	if err := u.analysisRepo.MarkFailed(ctx, candidateID, message); err != nil {
		logger.Log.Error("failed to mark analysis as failed",
			"candidate_id", candidateID, "error", err)
	}
}

// AnalyzeAllForJob analyzes every candidate of the job sequentially. A
// candidate failure is recorded in its outcome and the batch keeps going.
func (u *analysisUsecase) AnalyzeAllForJob(ctx context.Context, jobID int64) (*domain.BatchResult, error) {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}

	candidates, err := u.candidateRepo.FetchByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, apperror.BadRequest("Job has no candidates to analyze")
	}

	batch := &domain.BatchResult{
		JobID:           jobID,
		TotalCandidates: len(candidates),
		Outcomes:        make([]domain.CandidateOutcome, 0, len(candidates)),
	}

	for i := range candidates {
		candidate := &candidates[i]
		result, err := u.runAnalysis(ctx, candidate, job)

		outcome := domain.CandidateOutcome{CandidateID: candidate.ID}
		if err != nil {
			message := err.Error()
			outcome.Error = &message
			batch.Failed++
		} else {
			outcome.Success = true
			outcome.Analysis = result
			batch.Analyzed++
		}
		batch.Outcomes = append(batch.Outcomes, outcome)
	}

	logger.Log.Info("batch analysis finished",
		"job_id", jobID,
		"total", batch.TotalCandidates,
		"analyzed", batch.Analyzed,
		"failed", batch.Failed)
	return batch, nil
}

const (
	SortByScore = "score"
	SortByName  = "name"
	SortByDate  = "date"
)

// ListWithAnalysis returns the job's candidates with their analyses, sorted
// by score (descending, unanalyzed last), name or upload date.
func (u *analysisUsecase) ListWithAnalysis(ctx context.Context, jobID int64, sortBy string) ([]domain.CandidateWithAnalysis, error) {
	if _, err := u.jobRepo.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}

	items, err := u.candidateRepo.FetchByJobIDWithAnalysis(ctx, jobID)
	if err != nil {
		return nil, err
	}

	switch sortBy {
	case SortByScore, "":
		sort.SliceStable(items, func(i, j int) bool {
			return scoreOf(&items[i]) > scoreOf(&items[j])
		})
	case SortByName:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Candidate.Name) < strings.ToLower(items[j].Candidate.Name)
		})
	case SortByDate:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Candidate.UploadedAt.After(items[j].Candidate.UploadedAt)
		})
	default:
		return nil, apperror.BadRequest("Sort must be one of: score, name, date")
	}

	return items, nil
}

// scoreOf treats candidates without a completed analysis as below every real
// score so they sort to the end.
func scoreOf(item *domain.CandidateWithAnalysis) float64 {
	if !item.HasCompletedAnalysis() {
		return -1
	}
	return item.Analysis.RelevanceScore
}

// Statistics aggregates analysis progress for the job. Average score covers
// completed analyses only; rates are rounded to two decimals.
func (u *analysisUsecase) Statistics(ctx context.Context, jobID int64) (*domain.JobStatistics, error) {
	if _, err := u.jobRepo.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}

	items, err := u.candidateRepo.FetchByJobIDWithAnalysis(ctx, jobID)
	if err != nil {
		return nil, err
	}

	stats := &domain.JobStatistics{TotalCandidates: len(items)}
	var scoreSum float64
	for i := range items {
		switch {
		case items[i].HasCompletedAnalysis():
			stats.Analyzed++
			scoreSum += items[i].Analysis.RelevanceScore
		case items[i].Analysis != nil && items[i].Analysis.Status == domain.AnalysisStatusFailed:
			stats.Failed++
		default:
			stats.Pending++
		}
	}

	if stats.Analyzed > 0 {
		stats.AverageScore = round2(scoreSum / float64(stats.Analyzed))
	}
	if stats.TotalCandidates > 0 {
		stats.CompletionRate = round2(float64(stats.Analyzed) / float64(stats.TotalCandidates) * 100)
	}
	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
