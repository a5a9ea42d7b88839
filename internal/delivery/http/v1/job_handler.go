package v1

import (
	"net/http"

	"koryob-backend/internal/delivery/http/middleware"
	"koryob-backend/internal/delivery/http/response"
	"koryob-backend/internal/domain"
	"koryob-backend/pkg/apperror"
	"koryob-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC     domain.JobUsecase
	authUC    domain.AuthUsecase
	sanitizer *security.TextSanitizer
}

func NewJobHandler(public, protected *gin.RouterGroup, jobUC domain.JobUsecase, authUC domain.AuthUsecase, sanitizer *security.TextSanitizer) {
	handler := &JobHandler{jobUC: jobUC, authUC: authUC, sanitizer: sanitizer}

	publicJobs := public.Group("/jobs")
	{
		publicJobs.GET("", handler.List)
		publicJobs.GET("/:id", handler.GetDetails)
		publicJobs.POST("/:id/views", handler.RecordView)
	}

	protectedJobs := protected.Group("/jobs")
	{
		protectedJobs.POST("", middleware.RequireEmployer(), handler.Create)
		protectedJobs.POST("/:id/status", handler.ToggleStatus)
		protectedJobs.DELETE("/:id", handler.Delete)
	}
}

type CreateJobRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=120"`
	CompanyName string  `json:"company_name" binding:"required,min=2,max=120"`
	Location    string  `json:"location" binding:"required,max=120"`
	SalaryMin   float64 `json:"salary_min" binding:"gte=0"`
	SalaryMax   float64 `json:"salary_max" binding:"gte=0,gtefield=SalaryMin"`
	Currency    string  `json:"currency" binding:"omitempty,oneof=TJS USD RUB EUR"`
	Description string  `json:"description" binding:"required,min=20,max=5000"`
}

// ListJobs godoc
// @Summary      List jobs
// @Description  All jobs, newest first. owner=me limits the list to the signed-in employer's postings.
// @Tags         jobs
// @Produce      json
// @Param        owner  query     string  false  "Only 'me' is supported"
// @Success      200    {object}  response.Response{data=[]domain.Job}
// @Failure      401    {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("owner") == "me" {
		user := h.authUC.CurrentUser(ctx)
		if user == nil {
			_ = c.Error(apperror.Unauthorized("You need to sign in first."))
			return
		}
		response.Success(c, http.StatusOK, "Your jobs", h.jobUC.JobsByOwner(ctx, user.ID))
		return
	}

	response.Success(c, http.StatusOK, "Job list", h.jobUC.Jobs(ctx))
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

// RecordView godoc
// @Summary      Count a job view
// @Description  Increments the view counter unless the viewer is an employer.
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id}/views [post]
func (h *JobHandler) RecordView(c *gin.Context) {
	ctx := c.Request.Context()
	jobID := c.Param("id")

	if _, err := h.jobUC.GetJob(ctx, jobID); err != nil {
		_ = c.Error(err)
		return
	}

	counted := false
	if viewer := h.authUC.CurrentUser(ctx); viewer == nil || viewer.AccountType != domain.AccountEmployer {
		if err := h.jobUC.IncrementViews(ctx, jobID); err != nil {
			_ = c.Error(err)
			return
		}
		counted = true
	}

	response.Success(c, http.StatusOK, "View recorded", gin.H{"counted": counted})
}

// CreateJob godoc
// @Summary      Create a new job
// @Description  Create a job posting (Employer only). Type, status, logo and placeholder lists are assigned by the server.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      CreateJobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
// @Security     ClientToken
func (h *JobHandler) Create(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	description := h.sanitizer.Sanitize(req.Description)
	if description == "" {
		_ = c.Error(apperror.BadRequest("Description must contain text"))
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = "TJS"
	}

	job, err := h.jobUC.AddJob(c.Request.Context(), domain.JobInput{
		Title:       h.sanitizer.Sanitize(req.Title),
		CompanyName: h.sanitizer.Sanitize(req.CompanyName),
		Location:    h.sanitizer.Sanitize(req.Location),
		Salary:      domain.Salary{Min: req.SalaryMin, Max: req.SalaryMax, Currency: currency},
		Description: description,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	if job == nil {
		_ = c.Error(apperror.Unauthorized("You need to sign in first."))
		return
	}

	response.Success(c, http.StatusCreated, "Job created", job)
}

// ToggleJobStatus godoc
// @Summary      Toggle job status
// @Description  Switch an owned job between open and filled.
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id}/status [post]
// @Security     ClientToken
func (h *JobHandler) ToggleStatus(c *gin.Context) {
	ctx := c.Request.Context()
	job, ok := h.ownedJob(c)
	if !ok {
		return
	}

	if err := h.jobUC.ToggleJobStatus(ctx, job.ID); err != nil {
		_ = c.Error(err)
		return
	}
	updated, err := h.jobUC.GetJob(ctx, job.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job status updated", updated)
}

// DeleteJob godoc
// @Summary      Delete a job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     ClientToken
func (h *JobHandler) Delete(c *gin.Context) {
	job, ok := h.ownedJob(c)
	if !ok {
		return
	}

	if err := h.jobUC.DeleteJob(c.Request.Context(), job.ID); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job deleted", nil)
}

// ownedJob loads the :id job and checks the signed-in user owns it.
func (h *JobHandler) ownedJob(c *gin.Context) (*domain.Job, bool) {
	job, err := h.jobUC.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	if user := middleware.CurrentUser(c); user == nil || job.OwnerID != user.ID {
		_ = c.Error(apperror.Forbidden("Only the job owner can do this."))
		return nil, false
	}
	return job, true
}
