package usecase

import (
	"context"
	"fmt"

	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/apperror"
)

const recentJobsLimit = 5

type adminUsecase struct {
	adminRepo domain.AdminRepository
}

func NewAdminUsecase(adminRepo domain.AdminRepository) domain.AdminUsecase {
	return &adminUsecase{adminRepo: adminRepo}
}

// GetStats returns dashboard statistics. Only callers holding the admin claim get here.
func (u *adminUsecase) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	if _, err := requireRole(ctx, domain.RoleAdmin); err != nil {
		return nil, err
	}

	stats, err := u.adminRepo.GetStats(ctx)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("fetch statistics: %w", err))
	}

	recent, err := u.adminRepo.RecentJobs(ctx, recentJobsLimit)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("fetch recent jobs: %w", err))
	}
	stats.RecentJobs = recent

	return stats, nil
}
