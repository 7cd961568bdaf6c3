package domain

import (
	"context"
	"time"
)

// AdminStats contains dashboard statistics
type AdminStats struct {
	TotalUsers        int64            `json:"totalUsers"`
	UsersByRole       map[string]int64 `json:"usersByRole"`
	TotalJobs         int64            `json:"totalJobs"`
	ActiveJobs        int64            `json:"activeJobs"`
	TotalApplications int64            `json:"totalApplications"`
	RecentJobs        []RecentJob      `json:"recentJobs"`
	GeneratedAt       time.Time        `json:"generatedAt"`
}

// RecentJob is a dashboard row for one of the latest postings
type RecentJob struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Applications int64     `json:"applications"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AdminRepository interface {
	GetStats(ctx context.Context) (*AdminStats, error)
	RecentJobs(ctx context.Context, limit int) ([]RecentJob, error)
}

type AdminUsecase interface {
	GetStats(ctx context.Context) (*AdminStats, error)
}
