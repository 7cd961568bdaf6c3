package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMissingToken        = errors.New("missing token")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUpstreamUnavailable = errors.New("identity provider unavailable")
	ErrPrincipalNotFound   = errors.New("principal not found")
	ErrRoleClaimDrift      = errors.New("role claim and user record disagree")
	// ErrSessionExpired is returned by client sessions that can no longer mint a token.
	ErrSessionExpired = errors.New("session expired")
)

// RoleClaimKey is the custom claim carrying the principal's role.
const RoleClaimKey = "role"

// Verdict is the authorization decision returned by the role verification endpoint.
type Verdict struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Role            Role   `json:"role"`
	UID             string `json:"uid,omitempty"`
	Error           string `json:"error,omitempty"`
}

// TokenClaims is what a verified identity token proves.
type TokenClaims struct {
	UID   string
	Email string
}

// IdentityRecord is the identity provider's view of a principal.
type IdentityRecord struct {
	UID          string
	Email        string
	CustomClaims map[string]interface{}
	CreatedAt    time.Time
}

// ClaimRole reads the role custom claim. Absent or unrecognized values yield RoleNone.
func (r *IdentityRecord) ClaimRole() Role {
	raw, _ := r.CustomClaims[RoleClaimKey].(string)
	role, _ := ParseRole(raw)
	return role
}

// IdentityProvider is the managed identity service holding tokens and custom claims.
//
// Implementations wrap failures with ErrInvalidToken, ErrPrincipalNotFound or
// ErrUpstreamUnavailable so callers can classify them with errors.Is.
type IdentityProvider interface {
	VerifyIDToken(ctx context.Context, idToken string) (*TokenClaims, error)
	GetUser(ctx context.Context, uid string) (*IdentityRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*IdentityRecord, error)
	SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error
}

type AuthUsecase interface {
	// VerifyToken resolves an identity token into a verdict. Failures are *apperror.AppError
	// wrapping ErrMissingToken, ErrInvalidToken or ErrUpstreamUnavailable.
	VerifyToken(ctx context.Context, idToken string) (*Verdict, error)
	// EnsureUser records the verified principal in the document store. A principal without
	// a role claim receives requested (recruiter or applicant, default applicant).
	EnsureUser(ctx context.Context, uid string, requested Role) (*User, error)
}

type RoleUsecase interface {
	// AssignRole sets the role claim for the principal registered under email.
	// When syncDocument is set the document-store record is updated too.
	AssignRole(ctx context.Context, email string, role Role, syncDocument bool) (*IdentityRecord, error)
}
