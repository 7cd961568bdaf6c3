package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const applicationColumns = `id, job_id, applicant_id, resume, cover_letter, status, created_at, updated_at`

type applicationRepo struct {
	db DBTX
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db DBTX) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

func scanApplication(row rowScanner) (*domain.Application, error) {
	var app domain.Application
	var status string
	if err := row.Scan(
		&app.ID, &app.JobID, &app.ApplicantID, &app.Resume, &app.CoverLetter, &status, &app.CreatedAt, &app.UpdatedAt,
	); err != nil {
		return nil, err
	}
	app.Status = domain.ApplicationStatus(status)
	return &app, nil
}

// Create inserts a new application. The (job_id, applicant_id) unique index backs the duplicate check.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `INSERT INTO applications (` + applicationColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		app.ID, app.JobID, app.ApplicantID, app.Resume, app.CoverLetter, string(app.Status), app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("You have already applied to this job")
		}
		return err
	}
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	app, err := scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

// GetByJobID retrieves all applications for a job, newest first
func (r *applicationRepo) GetByJobID(ctx context.Context, jobID string) ([]domain.Application, error) {
	return r.query(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY created_at DESC`, jobID)
}

// GetByApplicantID retrieves everything one applicant has submitted
func (r *applicationRepo) GetByApplicantID(ctx context.Context, applicantID string) ([]domain.Application, error) {
	return r.query(ctx, `SELECT `+applicationColumns+` FROM applications WHERE applicant_id = $1 ORDER BY created_at DESC`, applicantID)
}

func (r *applicationRepo) query(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := []domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, *app)
	}
	return applications, rows.Err()
}

// CheckExists checks if an application already exists for the job/applicant combination
func (r *applicationRepo) CheckExists(ctx context.Context, jobID, applicantID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND applicant_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, jobID, applicantID).Scan(&exists)
	return exists, err
}

// UpdateStatus updates the status of an application and sets updated_at
func (r *applicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, updatedAt time.Time) error {
	query := `UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, string(status), updatedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
