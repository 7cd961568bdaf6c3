package v1

import (
	"net/http"

	"github.com/vineshkkmr/job-board/internal/delivery/http/middleware"
	"github.com/vineshkkmr/job-board/internal/delivery/http/response"
	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/security"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	appUC domain.ApplicationUsecase
}

func NewApplicationHandler(protected *gin.RouterGroup, appUC domain.ApplicationUsecase, audit *security.SecurityLogger) {
	handler := &ApplicationHandler{appUC: appUC}

	applicant := protected.Group("")
	applicant.Use(middleware.RequireRole(audit, domain.RoleApplicant))
	{
		applicant.POST("/jobs/:id/applications", handler.Apply)
		applicant.GET("/applications/me", handler.ListMine)
	}

	recruiter := protected.Group("")
	recruiter.Use(middleware.RequireRole(audit, domain.RoleRecruiter))
	{
		recruiter.GET("/jobs/:id/applications", handler.ListByJob)
		recruiter.PATCH("/applications/:id/status", handler.UpdateStatus)
	}
}

type ApplyRequest struct {
	Resume      string `json:"resume" binding:"required,url,max=2048"`
	CoverLetter string `json:"coverLetter" binding:"max=5000"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,application_status"`
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Applicant claim required. The applicant is taken from the verified token. One application per job.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id           path      string        true  "Job ID"
// @Param        application  body      ApplyRequest  true  "Application"
// @Success      201          {object}  response.Response{data=domain.Application}
// @Failure      400          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Failure      409          {object}  response.Response
// @Router       /jobs/{id}/applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.appUC.Apply(c.Request.Context(), c.Param("id"), req.Resume, req.CoverLetter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted", app)
}

// ListMyApplications godoc
// @Summary      List the applicant's own applications
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /applications/me [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.appUC.ListMyApplications(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application list", apps)
}

// ListJobApplications godoc
// @Summary      List applications for a job
// @Description  Owning recruiter only.
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id}/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListByJob(c *gin.Context) {
	apps, err := h.appUC.ListByJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application list", apps)
}

// UpdateApplicationStatus godoc
// @Summary      Review an application
// @Description  Owning recruiter moves an application between pending, reviewed, accepted and rejected.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id      path      string                          true  "Application ID"
// @Param        status  body      UpdateApplicationStatusRequest  true  "New status"
// @Success      200     {object}  response.Response{data=domain.Application}
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /applications/{id}/status [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req UpdateApplicationStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.appUC.UpdateStatus(c.Request.Context(), c.Param("id"), domain.ApplicationStatus(req.Status))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", app)
}
