package v1

import (
	"net/http"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/domain"
	"job-portal-backend/internal/usecase"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(public *gin.RouterGroup, protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	// Listing and detail are anonymous; they only ever return active jobs.
	publicJobs := public.Group("/jobs")
	{
		publicJobs.GET("", handler.List)
		publicJobs.GET("/:id", handler.GetDetails)
	}

	protectedJobs := protected.Group("/jobs")
	{
		protectedJobs.POST("", handler.Create)
		protectedJobs.PUT("/:id", handler.Update)
		protectedJobs.DELETE("/:id", handler.Delete)
	}
}

type JobRequest struct {
	Title        string   `json:"title" binding:"required,notblank,max=200"`
	Company      string   `json:"company" binding:"required,notblank,max=200"`
	Location     string   `json:"location" binding:"required,notblank,max=200"`
	SalaryMin    *float64 `json:"salary_min" binding:"omitempty,gte=0"`
	SalaryMax    *float64 `json:"salary_max" binding:"omitempty,gte=0"`
	Description  string   `json:"description" binding:"required"`
	Requirements []string `json:"requirements" binding:"omitempty,dive,max=500"`
	JobType      string   `json:"job_type" binding:"omitempty,oneof=full-time part-time contract internship"`
}

func (r JobRequest) input() domain.JobInput {
	return domain.JobInput{
		Title:        r.Title,
		Company:      r.Company,
		Location:     r.Location,
		SalaryMin:    r.SalaryMin,
		SalaryMax:    r.SalaryMax,
		Description:  r.Description,
		Requirements: r.Requirements,
		JobType:      domain.JobType(r.JobType),
	}
}

type JobListQuery struct {
	Skip   *int   `form:"skip"`
	Limit  *int   `form:"limit"`
	Search string `form:"search" binding:"max=200"`
}

// List godoc
// @Summary      List active jobs
// @Description  Newest first. search matches title, company or location case-insensitively.
// @Tags         jobs
// @Produce      json
// @Param        skip    query     int     false  "Rows to skip"  default(0)
// @Param        limit   query     int     false  "Page size"     default(50)
// @Param        search  query     string  false  "Search term"
// @Success      200     {object}  response.Response{data=[]domain.Job}
// @Failure      400     {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	var q JobListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(bindError(err))
		return
	}

	filter := domain.JobFilter{Search: q.Search, Skip: 0, Limit: usecase.DefaultJobPageSize}
	if q.Skip != nil {
		filter.Skip = *q.Skip
	}
	if q.Limit != nil {
		filter.Limit = *q.Limit
	}

	jobs, err := h.jobUC.ListJobs(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", jobs)
}

// GetDetails godoc
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
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job retrieved", job)
}

// CreateJob godoc
// @Summary      Create a new job
// @Description  Create a new job posting (Employer only)
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
	if !allowed(c, domain.ResourceJob, domain.ActionCreate, "Only employers can create jobs") {
		return
	}
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	job, err := h.jobUC.CreateJob(c.Request.Context(), actor(c), req.input())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created", job)
}

// UpdateJob godoc
// @Summary      Update a job
// @Description  Replace every mutable field of a job the caller owns
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
	if !allowed(c, domain.ResourceJob, domain.ActionUpdate, "Only employers can update jobs") {
		return
	}
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	job, err := h.jobUC.UpdateJob(c.Request.Context(), actor(c), c.Param("id"), req.input())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

// DeleteJob godoc
// @Summary      Delete a job
// @Description  Soft-delete: the job disappears from listings, existing applications stay.
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.jobUC.DeleteJob(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted successfully", gin.H{"message": "Job deleted successfully"})
}
