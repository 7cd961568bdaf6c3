package v1

import (
	"net/http"

	"github.com/vineshkkmr/job-board/internal/delivery/http/middleware"
	"github.com/vineshkkmr/job-board/internal/delivery/http/response"
	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/security"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(public *gin.RouterGroup, protected *gin.RouterGroup, jobUC domain.JobUsecase, audit *security.SecurityLogger) {
	handler := &JobHandler{jobUC: jobUC}

	// PUBLIC routes: active jobs only, enforced in the repository
	publicJobs := public.Group("/jobs")
	{
		publicJobs.GET("", handler.List)
		publicJobs.GET("/:id", handler.GetDetails)
	}

	recruiter := protected.Group("")
	recruiter.Use(middleware.RequireRole(audit, domain.RoleRecruiter))
	{
		recruiter.POST("/jobs", handler.Create)
		recruiter.PUT("/jobs/:id", handler.Update)
		recruiter.PATCH("/jobs/:id/status", handler.UpdateStatus)
		recruiter.GET("/recruiter/jobs", handler.ListMine)
	}
}

type SalaryRequest struct {
	Min      int64  `json:"min" binding:"gte=0"`
	Max      int64  `json:"max" binding:"gtefield=Min"`
	Currency string `json:"currency" binding:"currency"`
}

type JobRequest struct {
	Title        string         `json:"title" binding:"required,min=3,max=200,no_emoji"`
	Company      string         `json:"company" binding:"required,max=200"`
	Location     string         `json:"location" binding:"required,max=200"`
	Type         string         `json:"type" binding:"required,job_type"`
	Description  string         `json:"description" binding:"required"`
	Requirements []string       `json:"requirements" binding:"max=50,dive,max=500"`
	Salary       *SalaryRequest `json:"salary"`
}

func (r *JobRequest) toDomain() *domain.Job {
	job := &domain.Job{
		Title:        r.Title,
		Company:      r.Company,
		Location:     r.Location,
		Type:         domain.JobType(r.Type),
		Description:  r.Description,
		Requirements: r.Requirements,
	}
	if r.Salary != nil {
		job.Salary = &domain.Salary{Min: r.Salary.Min, Max: r.Salary.Max, Currency: r.Salary.Currency}
	}
	return job
}

type UpdateJobStatusRequest struct {
	Status string `json:"status" binding:"required,job_status"`
}

// CreateJob godoc
// @Summary      Create a new job
// @Description  Create a new job posting (recruiter claim required). Blank requirements are dropped and currency defaults to USD.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req JobRequest
	if !bindJSON(c, &req) {
		return
	}

	job := req.toDomain()
	if err := h.jobUC.CreateJob(c.Request.Context(), job); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Job created", job)
}

// ListJobs godoc
// @Summary      List active jobs
// @Description  Active jobs, newest first. No authentication required.
// @Tags         jobs
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response{data=response.Page}
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)

	jobs, total, err := h.jobUC.ListActiveJobs(c.Request.Context(), page, pageSize)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job list", response.Page{
		Items:    jobs,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetJobDetails godoc
// @Summary      Get job details
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetDetails(c *gin.Context) {
	job, err := h.jobUC.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job details", job)
}

// UpdateJob godoc
// @Summary      Update a job
// @Description  Owning recruiter only. Status is changed through the status endpoint.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      string      true  "Job ID"
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	var req JobRequest
	if !bindJSON(c, &req) {
		return
	}

	job := req.toDomain()
	job.ID = c.Param("id")
	if err := h.jobUC.UpdateJob(c.Request.Context(), job); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

// UpdateJobStatus godoc
// @Summary      Open or close a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id      path      string                  true  "Job ID"
// @Param        status  body      UpdateJobStatusRequest  true  "New status"
// @Success      200     {object}  response.Response{data=domain.Job}
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /jobs/{id}/status [patch]
// @Security     BearerAuth
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	var req UpdateJobStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobUC.UpdateJobStatus(c.Request.Context(), c.Param("id"), domain.JobStatus(req.Status))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job status updated", job)
}

// ListRecruiterJobs godoc
// @Summary      List the recruiter's own jobs
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /recruiter/jobs [get]
// @Security     BearerAuth
func (h *JobHandler) ListMine(c *gin.Context) {
	jobs, err := h.jobUC.ListRecruiterJobs(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recruiter job list", jobs)
}
