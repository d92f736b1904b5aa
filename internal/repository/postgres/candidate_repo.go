package postgres

import (
	"context"
	"errors"
	"time"

	"resume-matcher-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type candidateRepo struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepo{db: db}
}

func (r *candidateRepo) Create(ctx context.Context, candidate *domain.Candidate) error {
	query := `INSERT INTO candidates (job_id, name, email, phone, file_name, file_path, file_type, file_size, parsed_text, uploaded_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		candidate.JobID, candidate.Name, candidate.Email, candidate.Phone,
		candidate.FileName, candidate.FilePath, candidate.FileType, candidate.FileSize,
		candidate.ParsedText, candidate.UploadedAt, candidate.UpdatedAt,
	).Scan(&candidate.ID)
	return err
}

func (r *candidateRepo) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	query := `SELECT id, job_id, name, email, phone, file_name, file_path, file_type, file_size, parsed_text, uploaded_at, updated_at
              FROM candidates WHERE id = $1`
	var candidate domain.Candidate
	err := r.db.QueryRow(ctx, query, id).Scan(
		&candidate.ID, &candidate.JobID, &candidate.Name, &candidate.Email, &candidate.Phone,
		&candidate.FileName, &candidate.FilePath, &candidate.FileType, &candidate.FileSize,
		&candidate.ParsedText, &candidate.UploadedAt, &candidate.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (r *candidateRepo) FetchByJobID(ctx context.Context, jobID int64) ([]domain.Candidate, error) {
	query := `SELECT id, job_id, name, email, phone, file_name, file_path, file_type, file_size, parsed_text, uploaded_at, updated_at
              FROM candidates WHERE job_id = $1 ORDER BY uploaded_at DESC`

	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var candidate domain.Candidate
		if err := rows.Scan(
			&candidate.ID, &candidate.JobID, &candidate.Name, &candidate.Email, &candidate.Phone,
			&candidate.FileName, &candidate.FilePath, &candidate.FileType, &candidate.FileSize,
			&candidate.ParsedText, &candidate.UploadedAt, &candidate.UpdatedAt,
		); err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}

// FetchByJobIDWithAnalysis joins each candidate to its analysis row, if one
// exists. Analysis columns come back nullable, so they land in a scratch row
// first.
func (r *candidateRepo) FetchByJobIDWithAnalysis(ctx context.Context, jobID int64) ([]domain.CandidateWithAnalysis, error) {
	query := `
		SELECT
			c.id, c.job_id, c.name, c.email, c.phone, c.file_name, c.file_path,
			c.file_type, c.file_size, c.parsed_text, c.uploaded_at, c.updated_at,
			a.id, a.relevance_score, a.matched_skills, a.missing_skills, a.feedback,
			a.strengths, a.weaknesses, a.experience_match, a.education_match,
			a.status, a.error_message, a.analyzed_at, a.updated_at,
			a.analysis_duration, a.llm_model, a.llm_tokens_used
		FROM candidates c
		LEFT JOIN analysis_results a ON a.candidate_id = c.id
		WHERE c.job_id = $1
		ORDER BY c.uploaded_at DESC`

	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CandidateWithAnalysis
	for rows.Next() {
		var item domain.CandidateWithAnalysis
		var (
			analysisID      *int64
			relevanceScore  *float64
			matchedSkills   []string
			missingSkills   []string
			feedback        *string
			strengths       []string
			weaknesses      []string
			experienceMatch *float64
			educationMatch  *float64
			status          *string
			errorMessage    *string
			analyzedAt      *time.Time
			updatedAt       *time.Time
			duration        *float64
			llmModel        *string
			llmTokensUsed   *int64
		)

		if err := rows.Scan(
			&item.Candidate.ID, &item.Candidate.JobID, &item.Candidate.Name,
			&item.Candidate.Email, &item.Candidate.Phone, &item.Candidate.FileName,
			&item.Candidate.FilePath, &item.Candidate.FileType, &item.Candidate.FileSize,
			&item.Candidate.ParsedText, &item.Candidate.UploadedAt, &item.Candidate.UpdatedAt,
			&analysisID, &relevanceScore, &matchedSkills, &missingSkills, &feedback,
			&strengths, &weaknesses, &experienceMatch, &educationMatch,
			&status, &errorMessage, &analyzedAt, &updatedAt,
			&duration, &llmModel, &llmTokensUsed,
		); err != nil {
			return nil, err
		}

		if analysisID != nil {
			item.Analysis = &domain.AnalysisResult{
				ID:              *analysisID,
				CandidateID:     item.Candidate.ID,
				RelevanceScore:  *relevanceScore,
				MatchedSkills:   matchedSkills,
				MissingSkills:   missingSkills,
				Feedback:        *feedback,
				Strengths:       strengths,
				Weaknesses:      weaknesses,
				ExperienceMatch: experienceMatch,
				EducationMatch:  educationMatch,
				Status:          *status,
				ErrorMessage:    errorMessage,
				AnalyzedAt:      *analyzedAt,
				UpdatedAt:       *updatedAt,
				Duration:        *duration,
				LLMModel:        llmModel,
				LLMTokensUsed:   llmTokensUsed,
			}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *candidateRepo) Delete(ctx context.Context, id int64) (string, error) {
	var filePath string
	err := r.db.QueryRow(ctx, `DELETE FROM candidates WHERE id = $1 RETURNING file_path`, id).Scan(&filePath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return filePath, nil
}
