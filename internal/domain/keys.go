package domain

import "context"

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
)

// WithPrincipal stores the verified principal on the request context.
func WithPrincipal(ctx context.Context, uid string, role Role) context.Context {
	ctx = context.WithValue(ctx, KeyUserID, uid)
	return context.WithValue(ctx, KeyUserRole, role)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (string, Role, bool) {
	uid, ok := ctx.Value(KeyUserID).(string)
	if !ok || uid == "" {
		return "", RoleNone, false
	}
	role, _ := ctx.Value(KeyUserRole).(Role)
	return uid, role, true
}
