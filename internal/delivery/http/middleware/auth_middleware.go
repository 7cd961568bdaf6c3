package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vineshkkmr/job-board/internal/delivery/http/response"
	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/apperror"
	"github.com/vineshkkmr/job-board/pkg/security"

	"github.com/gin-gonic/gin"
)

const authCookieName = "auth_token"

// BearerToken reads the token from the Authorization header, then the auth_token cookie.
func BearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

// AuthMiddleware verifies the caller's identity token and stores the principal.
// The role used for every later authorization decision is the identity claim.
func AuthMiddleware(authUC domain.AuthUsecase, audit *security.SecurityLogger) gin.HandlerFunc {
	if audit == nil {
		audit = security.DefaultLogger()
	}
	return func(c *gin.Context) {
		verdict, err := authUC.VerifyToken(c.Request.Context(), BearerToken(c))
		if err != nil {
			LogVerificationFailure(c, audit, err)

			appErr := apperror.From(err, http.StatusInternalServerError, "Internal Server Error")
			response.Abort(c, appErr.Code, appErr.Message)
			return
		}

		c.Set(string(domain.KeyUserID), verdict.UID)
		c.Set(string(domain.KeyUserRole), verdict.Role)
		c.Request = c.Request.WithContext(domain.WithPrincipal(c.Request.Context(), verdict.UID, verdict.Role))

		c.Next()
	}
}

// RequireRole rejects callers whose verified role claim is not one of roles.
// It must run after AuthMiddleware.
func RequireRole(audit *security.SecurityLogger, roles ...domain.Role) gin.HandlerFunc {
	if audit == nil {
		audit = security.DefaultLogger()
	}
	return func(c *gin.Context) {
		uid, role, ok := domain.PrincipalFromContext(c.Request.Context())
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "User not authenticated")
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		audit.LogUnauthorizedAccess(c.Request.Context(), uid, role.String(), c.ClientIP(), GetRequestID(c), c.FullPath())
		response.Abort(c, http.StatusForbidden, "Unauthorized access")
	}
}

// LogVerificationFailure records a rejected verification without the token itself.
func LogVerificationFailure(c *gin.Context, audit *security.SecurityLogger, err error) {
	event := security.EventTokenInvalid
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		event = security.EventTokenMissing
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		event = security.EventUpstreamUnavailable
	}

	reason := err.Error()
	if appErr, ok := apperror.As(err); ok {
		reason = appErr.Cause()
	}
	audit.LogVerificationFailed(c.Request.Context(), event, c.ClientIP(), GetRequestID(c), reason)
}
