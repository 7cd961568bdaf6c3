package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/apperror"
	"github.com/vineshkkmr/job-board/pkg/logger"
	"github.com/vineshkkmr/job-board/pkg/security"
)

// Public messages carried in the verdict body
const (
	MsgNoToken      = "No ID token provided"
	MsgInvalidToken = "Invalid token"
	MsgServerError  = "Server error"
)

type authUsecase struct {
	identity domain.IdentityProvider
	userRepo domain.UserRepository
	audit    *security.SecurityLogger
}

// NewAuthUsecase verifies identity tokens against the identity provider. userRepo is
// consulted only to report role drift and by EnsureUser; it may be nil for verification alone.
func NewAuthUsecase(identity domain.IdentityProvider, userRepo domain.UserRepository, audit *security.SecurityLogger) domain.AuthUsecase {
	if audit == nil {
		audit = security.DefaultLogger()
	}
	return &authUsecase{identity: identity, userRepo: userRepo, audit: audit}
}

func (u *authUsecase) VerifyToken(ctx context.Context, idToken string) (*domain.Verdict, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, apperror.New(http.StatusUnauthorized, MsgNoToken, domain.ErrMissingToken)
	}

	claims, err := u.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, classifyIdentityError(err)
	}

	record, err := u.identity.GetUser(ctx, claims.UID)
	if err != nil {
		return nil, classifyIdentityError(err)
	}

	role := record.ClaimRole()
	u.reportDrift(ctx, record.UID, role)

	logger.Log.Debugw("identity token verified", "uid", record.UID, "role", role.String())
	return &domain.Verdict{
		IsAuthenticated: true,
		Role:            role,
		UID:             record.UID,
	}, nil
}

// classifyIdentityError maps provider failures onto the verdict taxonomy.
// A principal that no longer exists is an invalid token, not an outage.
func classifyIdentityError(err error) *apperror.AppError {
	switch {
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return apperror.New(http.StatusInternalServerError, MsgServerError, err)
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrPrincipalNotFound):
		return apperror.New(http.StatusUnauthorized, MsgInvalidToken, errors.Join(domain.ErrInvalidToken, err))
	default:
		return apperror.New(http.StatusInternalServerError, MsgServerError, errors.Join(domain.ErrUpstreamUnavailable, err))
	}
}

// reportDrift logs when the stored user row disagrees with the claim. It never affects the verdict.
func (u *authUsecase) reportDrift(ctx context.Context, uid string, claimRole domain.Role) {
	if u.userRepo == nil {
		return
	}
	user, err := u.userRepo.GetByID(ctx, uid)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Log.Debugw("drift check skipped", "uid", uid, "error", err)
		}
		return
	}
	if user.Role != claimRole {
		u.audit.LogRoleClaimDrift(ctx, uid, claimRole.String(), user.Role.String())
	}
}

func (u *authUsecase) EnsureUser(ctx context.Context, uid string, requested domain.Role) (*domain.User, error) {
	if u.userRepo == nil {
		return nil, apperror.Internal(errors.New("user repository not configured"))
	}

	record, err := u.identity.GetUser(ctx, uid)
	if err != nil {
		return nil, classifyIdentityError(err)
	}

	role := record.ClaimRole()
	if role == domain.RoleNone {
		// Self-service sign-up may only pick recruiter or applicant; admin is granted out of band.
		switch requested {
		case domain.RoleRecruiter, domain.RoleApplicant:
			role = requested
		case domain.RoleNone:
			role = domain.RoleApplicant
		default:
			return nil, apperror.Forbidden("Role cannot be self-assigned")
		}

		claims := make(map[string]interface{}, len(record.CustomClaims)+1)
		for k, v := range record.CustomClaims {
			claims[k] = v
		}
		claims[domain.RoleClaimKey] = string(role)
		if err := u.identity.SetCustomClaims(ctx, uid, claims); err != nil {
			return nil, classifyIdentityError(err)
		}
		logger.Log.Infow("initial role claim set", "uid", uid, "role", role.String())
	}

	existing, err := u.userRepo.GetByID(ctx, uid)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if existing != nil && existing.Role != role {
		u.audit.LogRoleClaimDrift(ctx, uid, role.String(), existing.Role.String())
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uid,
		Email:     record.Email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		if existing.Email == user.Email && existing.Role == user.Role {
			return existing, nil
		}
		user.CreatedAt = existing.CreatedAt
	}

	if err := u.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
