package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/logger"
	"github.com/vineshkkmr/job-board/pkg/security"
)

type roleUsecase struct {
	identity domain.IdentityProvider
	userRepo domain.UserRepository
	audit    *security.SecurityLogger
}

// NewRoleUsecase assigns role claims out of band. It runs with service credentials and performs
// no caller authorization; only operators with those credentials can reach it.
func NewRoleUsecase(identity domain.IdentityProvider, userRepo domain.UserRepository, audit *security.SecurityLogger) domain.RoleUsecase {
	if audit == nil {
		audit = security.DefaultLogger()
	}
	return &roleUsecase{identity: identity, userRepo: userRepo, audit: audit}
}

func (u *roleUsecase) AssignRole(ctx context.Context, email string, role domain.Role, syncDocument bool) (*domain.IdentityRecord, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	record, err := u.identity.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", email, err)
	}

	// Merge so claims set by other tooling survive.
	claims := make(map[string]interface{}, len(record.CustomClaims)+1)
	for k, v := range record.CustomClaims {
		claims[k] = v
	}
	claims[domain.RoleClaimKey] = string(role)

	if err := u.identity.SetCustomClaims(ctx, record.UID, claims); err != nil {
		return nil, fmt.Errorf("set claims for %s: %w", email, err)
	}
	record.CustomClaims = claims
	u.audit.LogRoleAssigned(ctx, email, role.String())

	if syncDocument {
		if u.userRepo == nil {
			return record, errors.New("document sync requested but no user repository configured")
		}
		err := u.userRepo.UpdateRole(ctx, record.UID, role)
		if errors.Is(err, domain.ErrNotFound) {
			// The principal has not synced a users row yet; create it from the claim.
			now := time.Now().UTC()
			err = u.userRepo.Upsert(ctx, &domain.User{
				ID:        record.UID,
				Email:     record.Email,
				Role:      role,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		if err != nil {
			return record, fmt.Errorf("sync user record: %w", err)
		}
		logger.Log.Infow("user record role synchronized", "uid", record.UID, "role", role.String())
	}

	return record, nil
}
