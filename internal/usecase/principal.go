package usecase

import (
	"context"

	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/apperror"
)

// requireRole returns the caller's uid when the verified role claim matches.
// The context value is set by the auth middleware from the identity claim, never from the user row.
func requireRole(ctx context.Context, role domain.Role) (string, error) {
	uid, current, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return "", apperror.Unauthorized("User not authenticated")
	}
	if current != role {
		return "", apperror.Forbidden("Access denied: " + role.String() + " role required")
	}
	return uid, nil
}
