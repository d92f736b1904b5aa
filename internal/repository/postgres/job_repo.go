package postgres

import (
	"context"
	"errors"

	"resume-matcher-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (title, description, requirements, location, department, employment_type, experience_level, salary_range, status, created_by, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		job.Title, job.Description, job.Requirements, job.Location, job.Department,
		job.EmploymentType, job.ExperienceLevel, job.SalaryRange, job.Status, job.CreatedBy,
		job.CreatedAt, job.UpdatedAt,
	).Scan(&job.ID)
	return err
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := `SELECT id, title, description, requirements, location, department, employment_type, experience_level, salary_range, status, created_by, created_at, updated_at
              FROM jobs WHERE id = $1`
	var job domain.Job
	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.Title, &job.Description, &job.Requirements, &job.Location, &job.Department,
		&job.EmploymentType, &job.ExperienceLevel, &job.SalaryRange, &job.Status, &job.CreatedBy,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepo) Fetch(ctx context.Context, limit, offset int) ([]domain.JobWithCount, int64, error) {
	query := `
		SELECT
			j.id, j.title, j.description, j.requirements, j.location, j.department,
			j.employment_type, j.experience_level, j.salary_range, j.status, j.created_by,
			j.created_at, j.updated_at,
			COUNT(c.id) AS candidate_count
		FROM jobs j
		LEFT JOIN candidates c ON c.job_id = j.id
		GROUP BY j.id
		ORDER BY j.created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []domain.JobWithCount
	for rows.Next() {
		var job domain.JobWithCount
		if err := rows.Scan(
			&job.ID, &job.Title, &job.Description, &job.Requirements, &job.Location, &job.Department,
			&job.EmploymentType, &job.ExperienceLevel, &job.SalaryRange, &job.Status, &job.CreatedBy,
			&job.CreatedAt, &job.UpdatedAt,
			&job.CandidateCount,
		); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, job)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET
		title = $2,
		description = $3,
		requirements = $4,
		location = $5,
		department = $6,
		employment_type = $7,
		experience_level = $8,
		salary_range = $9,
		status = $10,
		updated_at = $11
	WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Description, job.Requirements, job.Location, job.Department,
		job.EmploymentType, job.ExperienceLevel, job.SalaryRange, job.Status,
		job.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the job inside a transaction, collecting the candidates'
// stored file paths first so the caller can clean up the upload directory.
// Candidate and analysis rows go with the job via ON DELETE CASCADE.
func (r *jobRepo) Delete(ctx context.Context, id int64) ([]string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT file_path FROM candidates WHERE job_id = $1`, id)
	if err != nil {
		return nil, err
	}
	var filePaths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return nil, err
		}
		filePaths = append(filePaths, path)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return filePaths, nil
}
