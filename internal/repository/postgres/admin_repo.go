package postgres

import (
	"context"
	"time"

	"github.com/vineshkkmr/job-board/internal/domain"
)

type adminRepo struct {
	db DBTX
}

func NewAdminRepository(db DBTX) domain.AdminRepository {
	return &adminRepo{db: db}
}

// GetStats fetches dashboard counters. Recent jobs are filled in by the caller.
func (r *adminRepo) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	stats := &domain.AdminStats{
		UsersByRole: map[string]int64{
			string(domain.RoleAdmin):     0,
			string(domain.RoleRecruiter): 0,
			string(domain.RoleApplicant): 0,
		},
		GeneratedAt: time.Now().UTC(),
	}

	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM jobs),
			(SELECT COUNT(*) FROM jobs WHERE status = 'active'),
			(SELECT COUNT(*) FROM applications)`,
	).Scan(&stats.TotalUsers, &stats.TotalJobs, &stats.ActiveJobs, &stats.TotalApplications)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		var count int64
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		stats.UsersByRole[role] = count
	}
	return stats, rows.Err()
}

// RecentJobs returns the latest postings with their application counts
func (r *adminRepo) RecentJobs(ctx context.Context, limit int) ([]domain.RecentJob, error) {
	query := `
		SELECT j.id, j.title, j.company, j.location, j.created_at, COUNT(a.id)
		FROM jobs j
		LEFT JOIN applications a ON a.job_id = j.id
		GROUP BY j.id
		ORDER BY j.created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []domain.RecentJob{}
	for rows.Next() {
		var job domain.RecentJob
		if err := rows.Scan(&job.ID, &job.Title, &job.Company, &job.Location, &job.CreatedAt, &job.Applications); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
