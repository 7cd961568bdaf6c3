package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/apperror"

	"github.com/google/uuid"
)

type applicationUsecase struct {
	appRepo domain.ApplicationRepository
	jobRepo domain.JobRepository
}

func NewApplicationUsecase(appRepo domain.ApplicationRepository, jobRepo domain.JobRepository) domain.ApplicationUsecase {
	return &applicationUsecase{appRepo: appRepo, jobRepo: jobRepo}
}

func (u *applicationUsecase) Apply(ctx context.Context, jobID, resume, coverLetter string) (*domain.Application, error) {
	applicantID, err := requireRole(ctx, domain.RoleApplicant)
	if err != nil {
		return nil, err
	}

	resume = strings.TrimSpace(resume)
	if parsed, err := url.ParseRequestURI(resume); err != nil || parsed.Host == "" {
		return nil, apperror.BadRequest("Resume must be a valid URL")
	}

	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}
	if job.Status != domain.JobStatusActive {
		return nil, apperror.BadRequest("This job is no longer accepting applications")
	}

	exists, err := u.appRepo.CheckExists(ctx, jobID, applicantID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("You have already applied to this job")
	}

	now := time.Now().UTC()
	app := &domain.Application{
		ID:          uuid.NewString(),
		JobID:       jobID,
		ApplicantID: applicantID,
		Resume:      resume,
		Status:      domain.ApplicationStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if coverLetter = strings.TrimSpace(coverLetter); coverLetter != "" {
		app.CoverLetter = &coverLetter
	}

	if err := u.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (u *applicationUsecase) ListMyApplications(ctx context.Context) ([]domain.Application, error) {
	applicantID, err := requireRole(ctx, domain.RoleApplicant)
	if err != nil {
		return nil, err
	}
	return u.appRepo.GetByApplicantID(ctx, applicantID)
}

// ownJob checks the caller is the recruiter who posted jobID.
func (u *applicationUsecase) ownJob(ctx context.Context, jobID string) error {
	recruiterID, err := requireRole(ctx, domain.RoleRecruiter)
	if err != nil {
		return err
	}
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job not found")
		}
		return err
	}
	if job.RecruiterID != recruiterID {
		return apperror.Forbidden("You can only view applications for your own jobs")
	}
	return nil
}

func (u *applicationUsecase) ListByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	if err := u.ownJob(ctx, jobID); err != nil {
		return nil, err
	}
	return u.appRepo.GetByJobID(ctx, jobID)
}

func (u *applicationUsecase) UpdateStatus(ctx context.Context, applicationID string, status domain.ApplicationStatus) (*domain.Application, error) {
	switch status {
	case domain.ApplicationStatusPending, domain.ApplicationStatusReviewed,
		domain.ApplicationStatusAccepted, domain.ApplicationStatusRejected:
	default:
		return nil, apperror.BadRequest("Invalid application status")
	}

	app, err := u.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, err
	}
	if err := u.ownJob(ctx, app.JobID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := u.appRepo.UpdateStatus(ctx, applicationID, status, now); err != nil {
		return nil, err
	}
	app.Status = status
	app.UpdatedAt = now
	return app, nil
}
