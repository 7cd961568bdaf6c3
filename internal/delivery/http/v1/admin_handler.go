package v1

import (
	"net/http"

	"github.com/vineshkkmr/job-board/internal/delivery/http/middleware"
	"github.com/vineshkkmr/job-board/internal/delivery/http/response"
	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/security"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase, audit *security.SecurityLogger) {
	handler := &AdminHandler{adminUC: adminUC}

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(audit, domain.RoleAdmin))
	{
		admin.GET("/stats", handler.GetStats)
	}
}

// GetStats godoc
// @Summary      Get admin dashboard statistics
// @Description  User counts by role, job and application totals, and the five most recent jobs with application counts. Admin claim required.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.AdminStats}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminUC.GetStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard statistics", stats)
}
