package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		requirements TEXT,
		location VARCHAR(255),
		department VARCHAR(255),
		employment_type VARCHAR(50),
		experience_level VARCHAR(50),
		salary_range VARCHAR(100),
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_by VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS candidates (
		id BIGSERIAL PRIMARY KEY,
		job_id BIGINT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255),
		phone VARCHAR(50),
		file_name VARCHAR(255) NOT NULL,
		file_path VARCHAR(512) NOT NULL,
		file_type VARCHAR(10) NOT NULL,
		file_size BIGINT NOT NULL,
		parsed_text TEXT NOT NULL,
		uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS analysis_results (
		id BIGSERIAL PRIMARY KEY,
		candidate_id BIGINT NOT NULL UNIQUE REFERENCES candidates(id) ON DELETE CASCADE,
		relevance_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		matched_skills TEXT[] NOT NULL DEFAULT '{}',
		missing_skills TEXT[] NOT NULL DEFAULT '{}',
		feedback TEXT NOT NULL DEFAULT '',
		strengths TEXT[] NOT NULL DEFAULT '{}',
		weaknesses TEXT[] NOT NULL DEFAULT '{}',
		experience_match DOUBLE PRECISION,
		education_match DOUBLE PRECISION,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		error_message TEXT,
		analyzed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		analysis_duration DOUBLE PRECISION NOT NULL DEFAULT 0,
		llm_model VARCHAR(100),
		llm_tokens_used BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_candidates_job_id ON candidates(job_id)`,
	`CREATE INDEX IF NOT EXISTS idx_analysis_results_status ON analysis_results(status)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
}

// EnsureSchema creates the tables and indexes on startup if they do not
// already exist.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
