package postgres

import (
	"context"
	"errors"

	"resume-matcher-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type analysisRepo struct {
	db *pgxpool.Pool
}

func NewAnalysisRepository(db *pgxpool.Pool) domain.AnalysisRepository {
	return &analysisRepo{db: db}
}

const analysisColumns = `id, candidate_id, relevance_score, matched_skills, missing_skills, feedback,
	strengths, weaknesses, experience_match, education_match, status, error_message,
	analyzed_at, updated_at, analysis_duration, llm_model, llm_tokens_used`

func scanAnalysis(row pgx.Row) (*domain.AnalysisResult, error) {
	var result domain.AnalysisResult
	err := row.Scan(
		&result.ID, &result.CandidateID, &result.RelevanceScore,
		&result.MatchedSkills, &result.MissingSkills, &result.Feedback,
		&result.Strengths, &result.Weaknesses,
		&result.ExperienceMatch, &result.EducationMatch,
		&result.Status, &result.ErrorMessage,
		&result.AnalyzedAt, &result.UpdatedAt, &result.Duration,
		&result.LLMModel, &result.LLMTokensUsed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *analysisRepo) GetByCandidateID(ctx context.Context, candidateID int64) (*domain.AnalysisResult, error) {
	query := `SELECT ` + analysisColumns + ` FROM analysis_results WHERE candidate_id = $1`
	return scanAnalysis(r.db.QueryRow(ctx, query, candidateID))
}

// UpsertProcessing inserts a processing row for the candidate, or resets an
// existing row back to processing. One row per candidate is enforced by the
// unique constraint on candidate_id; re-analysis overwrites in place.
func (r *analysisRepo) UpsertProcessing(ctx context.Context, candidateID int64) (*domain.AnalysisResult, error) {
	query := `
		INSERT INTO analysis_results (candidate_id, status, analyzed_at, updated_at)
		VALUES ($1, 'processing', NOW(), NOW())
		ON CONFLICT (candidate_id) DO UPDATE SET
			status = 'processing',
			error_message = NULL,
			updated_at = NOW()
		RETURNING ` + analysisColumns
	return scanAnalysis(r.db.QueryRow(ctx, query, candidateID))
}

func (r *analysisRepo) MarkCompleted(ctx context.Context, result *domain.AnalysisResult) error {
	query := `UPDATE analysis_results SET
		relevance_score = $2,
		matched_skills = $3,
		missing_skills = $4,
		feedback = $5,
		strengths = $6,
		weaknesses = $7,
		experience_match = $8,
		education_match = $9,
		status = 'completed',
		error_message = NULL,
		analyzed_at = NOW(),
		updated_at = NOW(),
		analysis_duration = $10,
		llm_model = $11,
		llm_tokens_used = $12
	WHERE candidate_id = $1
	RETURNING id, status, analyzed_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		result.CandidateID, result.RelevanceScore,
		result.MatchedSkills, result.MissingSkills, result.Feedback,
		result.Strengths, result.Weaknesses,
		result.ExperienceMatch, result.EducationMatch,
		result.Duration, result.LLMModel, result.LLMTokensUsed,
	).Scan(&result.ID, &result.Status, &result.AnalyzedAt, &result.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *analysisRepo) MarkFailed(ctx context.Context, candidateID int64, errorMessage string) error {
	query := `UPDATE analysis_results SET
		status = 'failed',
		error_message = $2,
		updated_at = NOW()
	WHERE candidate_id = $1`
	result, err := r.db.Exec(ctx, query, candidateID, errorMessage)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
