package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
)

func (s JobStatus) Valid() bool {
	return s == JobStatusActive || s == JobStatusClosed
}

type Salary struct {
	Min      int64  `json:"min"`
	Max      int64  `json:"max"`
	Currency string `json:"currency"`
}

type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Type         JobType   `json:"type"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Salary       *Salary   `json:"salary,omitempty"`
	RecruiterID  string    `json:"recruiterId"`
	Status       JobStatus `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	FetchActive(ctx context.Context, limit, offset int) ([]Job, int64, error)
	FetchByRecruiter(ctx context.Context, recruiterID string) ([]Job, error)
	Update(ctx context.Context, job *Job) error
	UpdateStatus(ctx context.Context, id string, status JobStatus, updatedAt time.Time) error
}

type JobUsecase interface {
	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id string) (*Job, error)
	ListActiveJobs(ctx context.Context, page, pageSize int) ([]Job, int64, error)
	ListRecruiterJobs(ctx context.Context) ([]Job, error)
	UpdateJob(ctx context.Context, job *Job) error
	UpdateJobStatus(ctx context.Context, id string, status JobStatus) (*Job, error)
}
