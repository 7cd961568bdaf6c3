package domain

import (
	"context"
	"time"
)

type ApplicationStatus string

// Application status constants
const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Application represents a job application from an applicant
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"jobId"`
	ApplicantID string            `json:"applicantId"`
	Resume      string            `json:"resume"`
	CoverLetter *string           `json:"coverLetter,omitempty"`
	Status      ApplicationStatus `json:"status"` // pending → reviewed → accepted / rejected
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ApplicationRepository defines data access methods for applications
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	GetByJobID(ctx context.Context, jobID string) ([]Application, error)
	GetByApplicantID(ctx context.Context, applicantID string) ([]Application, error)
	CheckExists(ctx context.Context, jobID, applicantID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status ApplicationStatus, updatedAt time.Time) error
}

// ApplicationUsecase defines business logic for applications
type ApplicationUsecase interface {
	// Applicant operations
	Apply(ctx context.Context, jobID, resume, coverLetter string) (*Application, error)
	ListMyApplications(ctx context.Context) ([]Application, error)

	// Recruiter operations
	ListByJob(ctx context.Context, jobID string) ([]Application, error)
	UpdateStatus(ctx context.Context, applicationID string, status ApplicationStatus) (*Application, error)
}
