package v1

import (
	"fmt"
	"net/http"
	"time"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application routes
func NewApplicationHandler(r *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	applications := r.Group("/applications")
	{
		applications.POST("", handler.Apply)
		applications.GET("", handler.List)
		applications.GET("/export", handler.Export)
		applications.GET("/:id", handler.GetDetail)
		applications.PUT("/:id/status", handler.UpdateStatus)
	}
}

// ApplyRequest is the request payload for applying to a job
type ApplyRequest struct {
	JobID       string `json:"job_id" binding:"required,uuid"`
	ResumeID    string `json:"resume_id" binding:"required,uuid"`
	CoverLetter string `json:"cover_letter" binding:"max=10000"`
}

// UpdateStatusRequest binds from a form post or a JSON body.
type UpdateStatusRequest struct {
	Status string `json:"status" form:"status" binding:"required,oneof=pending reviewed accepted rejected"`
	Notes  string `json:"notes" form:"notes" binding:"max=5000"`
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Submit an application for an active job with one of your résumés (Candidate only)
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body  body      ApplyRequest  true  "Application data"
// @Success      201   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	if !allowed(c, domain.ResourceApplication, domain.ActionCreate, "Only candidates can apply for jobs") {
		return
	}
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	app, err := h.applicationUC.Apply(c.Request.Context(), actor(c), domain.ApplyInput{
		JobID:       req.JobID,
		ResumeID:    req.ResumeID,
		CoverLetter: optional(req.CoverLetter),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted", app)
}

// List godoc
// @Summary      List applications
// @Description  Candidates see their own, employers see those for their jobs, admins see all.
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Failure      401  {object}  response.Response
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.applicationUC.List(c.Request.Context(), actor(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// Export godoc
// @Summary      Export applications
// @Description  Download the caller's visible applications as an Excel workbook (Employer or Admin)
// @Tags         applications
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    binary
// @Failure      403  {object}  response.Response
// @Router       /applications/export [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Export(c *gin.Context) {
	data, err := h.applicationUC.Export(c.Request.Context(), actor(c))
	if err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("applications_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetDetail godoc
// @Summary      Get application detail
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetDetail(c *gin.Context) {
	app, err := h.applicationUC.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application retrieved", app)
}

// UpdateStatus godoc
// @Summary      Update application status
// @Description  Set the status and optional notes of an application to one of your jobs (Employer only)
// @Tags         applications
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        id    path      string               true  "Application ID"
// @Param        body  body      UpdateStatusRequest  true  "New status"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /applications/{id}/status [put]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	app, err := h.applicationUC.UpdateStatus(c.Request.Context(), actor(c), c.Param("id"), req.Status, req.Notes)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", app)
}
