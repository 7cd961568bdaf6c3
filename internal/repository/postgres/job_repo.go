package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/vineshkkmr/job-board/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

const jobColumns = `id, title, company, location, type, description, requirements,
              salary_min, salary_max, salary_currency, recruiter_id, status, created_at, updated_at`

type jobRepo struct {
	db DBTX
}

func NewJobRepository(db DBTX) domain.JobRepository {
	return &jobRepo{db: db}
}

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var job domain.Job
	var salaryMin, salaryMax *int64
	var currency *string
	var jobType, status string
	requirements := []string{}

	err := row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &jobType, &job.Description, pq.Array(&requirements),
		&salaryMin, &salaryMax, &currency, &job.RecruiterID, &status, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Type = domain.JobType(jobType)
	job.Status = domain.JobStatus(status)
	job.Requirements = requirements
	if salaryMin != nil && salaryMax != nil {
		job.Salary = &domain.Salary{Min: *salaryMin, Max: *salaryMax}
		if currency != nil {
			job.Salary.Currency = *currency
		}
	}
	return &job, nil
}

func salaryColumns(s *domain.Salary) (min, max *int64, currency *string) {
	if s == nil {
		return nil, nil, nil
	}
	return &s.Min, &s.Max, &s.Currency
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	salaryMin, salaryMax, currency := salaryColumns(job.Salary)
	query := `INSERT INTO jobs (` + jobColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Company, job.Location, string(job.Type), job.Description, pq.Array(job.Requirements),
		salaryMin, salaryMax, currency, job.RecruiterID, string(job.Status), job.CreatedAt, job.UpdatedAt,
	)
	return err
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	job, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// FetchActive lists open postings newest first. The status filter lives here so no caller can widen it.
func (r *jobRepo) FetchActive(ctx context.Context, limit, offset int) ([]domain.Job, int64, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE status = 'active'
              ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	jobs, err := r.query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE status = 'active'`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *jobRepo) FetchByRecruiter(ctx context.Context, recruiterID string) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE recruiter_id = $1 ORDER BY created_at DESC`
	return r.query(ctx, query, recruiterID)
}

func (r *jobRepo) query(ctx context.Context, query string, args ...any) ([]domain.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	salaryMin, salaryMax, currency := salaryColumns(job.Salary)
	query := `UPDATE jobs SET title = $2, company = $3, location = $4, type = $5, description = $6,
              requirements = $7, salary_min = $8, salary_max = $9, salary_currency = $10, updated_at = $11
              WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Company, job.Location, string(job.Type), job.Description, pq.Array(job.Requirements),
		salaryMin, salaryMax, currency, job.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) UpdateStatus(ctx context.Context, id string, status domain.JobStatus, updatedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE jobs SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
