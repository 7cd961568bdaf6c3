package v1

import (
	"net/http"
	"strings"

	"github.com/vineshkkmr/job-board/internal/delivery/http/middleware"
	"github.com/vineshkkmr/job-board/internal/delivery/http/response"
	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/apperror"
	"github.com/vineshkkmr/job-board/pkg/security"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
	audit  *security.SecurityLogger
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, audit *security.SecurityLogger, verifyLimit gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC, audit: audit}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/verify", verifyLimit, handler.Verify)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/me", handler.Me)
	}
}

type VerifyRequest struct {
	IDToken string `json:"idToken"`
}

// Verify godoc
// @Summary      Verify an identity token
// @Description  Resolves an ID token into {isAuthenticated, role, uid}. The body must be checked, not only the status: 401 for a missing or invalid token, 500 when the identity provider is unavailable.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyRequest  true  "ID token"
// @Success      200      {object}  domain.Verdict
// @Failure      401      {object}  domain.Verdict
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  domain.Verdict
// @Router       /auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	// An empty or unreadable body is treated as a missing token
	var req VerifyRequest
	_ = c.ShouldBindJSON(&req)

	token := strings.TrimSpace(req.IDToken)
	if token == "" {
		token = middleware.BearerToken(c)
	}

	verdict, err := h.authUC.VerifyToken(c.Request.Context(), token)
	if err != nil {
		middleware.LogVerificationFailure(c, h.audit, err)

		appErr := apperror.From(err, http.StatusInternalServerError, "Server error")
		c.JSON(appErr.Code, domain.Verdict{
			IsAuthenticated: false,
			Role:            domain.RoleNone,
			Error:           appErr.Message,
		})
		return
	}

	c.JSON(http.StatusOK, verdict)
}

type EnsureUserRequest struct {
	Role string `json:"role" binding:"omitempty,oneof=recruiter applicant"`
}

// Me godoc
// @Summary      Record the signed-in principal
// @Description  Creates or refreshes the caller's user record from the verified token. A caller without a role claim gets the requested role (recruiter or applicant, default applicant).
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      EnsureUserRequest  false  "Requested role"
// @Success      200      {object}  response.Response{data=domain.User}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /auth/me [post]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	var req EnsureUserRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	uid, _, ok := domain.PrincipalFromContext(c.Request.Context())
	if !ok {
		_ = c.Error(apperror.Unauthorized("User not authenticated"))
		return
	}

	requested, _ := domain.ParseRole(req.Role)
	user, err := h.authUC.EnsureUser(c.Request.Context(), uid, requested)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User synchronized", user)
}
