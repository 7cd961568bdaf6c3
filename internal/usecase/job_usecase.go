package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/apperror"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	defaultCurrency = "USD"
)

type jobUsecase struct {
	jobRepo domain.JobRepository
}

func NewJobUsecase(jobRepo domain.JobRepository) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo}
}

// normalizeJob trims blank requirements and checks the salary range.
func normalizeJob(job *domain.Job) error {
	job.Title = strings.TrimSpace(job.Title)
	if job.Title == "" {
		return apperror.BadRequest("Title is required")
	}

	requirements := make([]string, 0, len(job.Requirements))
	for _, req := range job.Requirements {
		if req = strings.TrimSpace(req); req != "" {
			requirements = append(requirements, req)
		}
	}
	job.Requirements = requirements

	if job.Salary != nil {
		if job.Salary.Min > job.Salary.Max {
			return apperror.BadRequest("Minimum salary cannot be greater than maximum salary")
		}
		if job.Salary.Currency == "" {
			job.Salary.Currency = defaultCurrency
		}
	}
	return nil
}

func (u *jobUsecase) CreateJob(ctx context.Context, job *domain.Job) error {
	recruiterID, err := requireRole(ctx, domain.RoleRecruiter)
	if err != nil {
		return err
	}
	if err := normalizeJob(job); err != nil {
		return err
	}

	now := time.Now().UTC()
	job.ID = uuid.NewString()
	job.RecruiterID = recruiterID
	job.Status = domain.JobStatusActive
	job.CreatedAt = now
	job.UpdatedAt = now

	return u.jobRepo.Create(ctx, job)
}

func (u *jobUsecase) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}
	return job, nil
}

// ListActiveJobs is the public listing: active postings only, newest first.
func (u *jobUsecase) ListActiveJobs(ctx context.Context, page, pageSize int) ([]domain.Job, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	offset := (page - 1) * pageSize

	return u.jobRepo.FetchActive(ctx, pageSize, offset)
}

func (u *jobUsecase) ListRecruiterJobs(ctx context.Context) ([]domain.Job, error) {
	recruiterID, err := requireRole(ctx, domain.RoleRecruiter)
	if err != nil {
		return nil, err
	}
	return u.jobRepo.FetchByRecruiter(ctx, recruiterID)
}

// getOwnedJob loads a job and checks the caller posted it.
func (u *jobUsecase) getOwnedJob(ctx context.Context, id string) (*domain.Job, error) {
	recruiterID, err := requireRole(ctx, domain.RoleRecruiter)
	if err != nil {
		return nil, err
	}
	job, err := u.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.RecruiterID != recruiterID {
		return nil, apperror.Forbidden("You can only manage your own jobs")
	}
	return job, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, job *domain.Job) error {
	existing, err := u.getOwnedJob(ctx, job.ID)
	if err != nil {
		return err
	}
	if err := normalizeJob(job); err != nil {
		return err
	}

	// Ownership, status and creation time are not editable here
	job.RecruiterID = existing.RecruiterID
	job.Status = existing.Status
	job.CreatedAt = existing.CreatedAt
	job.UpdatedAt = time.Now().UTC()

	return u.jobRepo.Update(ctx, job)
}

func (u *jobUsecase) UpdateJobStatus(ctx context.Context, id string, status domain.JobStatus) (*domain.Job, error) {
	if !status.Valid() {
		return nil, apperror.BadRequest("Invalid job status")
	}
	job, err := u.getOwnedJob(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := u.jobRepo.UpdateStatus(ctx, id, status, now); err != nil {
		return nil, err
	}
	job.Status = status
	job.UpdatedAt = now
	return job, nil
}
