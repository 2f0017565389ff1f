package v1

import (
	"errors"
	"fmt"
	"net/http"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// multipart framing allowance on top of the file itself
const multipartOverhead = 64 << 10

type ResumeHandler struct {
	resumeUC       domain.ResumeUsecase
	maxUploadBytes int64
}

func NewResumeHandler(protected *gin.RouterGroup, resumeUC domain.ResumeUsecase, maxUploadBytes int64, uploadLimit gin.HandlerFunc) {
	handler := &ResumeHandler{resumeUC: resumeUC, maxUploadBytes: maxUploadBytes}

	resumes := protected.Group("/resumes")
	{
		resumes.POST("/upload", uploadLimit, handler.Upload)
		resumes.GET("", handler.List)
	}
}

// Upload godoc
// @Summary      Upload a résumé
// @Description  PDF, DOC or DOCX. The content is checked against the declared type and scanned when a scanner is configured.
// @Tags         resumes
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Résumé file"
// @Success      201   {object}  response.Response{data=domain.Resume}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      413   {object}  response.Response
// @Failure      415   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /resumes/upload [post]
// @Security     BearerAuth
func (h *ResumeHandler) Upload(c *gin.Context) {
	if !allowed(c, domain.ResourceResume, domain.ActionCreate, "Only candidates can upload resumes") {
		return
	}
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.PayloadTooLarge(fmt.Sprintf("File exceeds the %d MB limit", h.maxUploadBytes>>20)))
			return
		}
		c.Error(apperror.BadRequest("No file uploaded"))
		return
	}

	file, err := header.Open()
	if err != nil {
		c.Error(apperror.BadRequest("Could not read uploaded file"))
		return
	}
	defer file.Close()

	resume, err := h.resumeUC.Upload(c.Request.Context(), actor(c), domain.ResumeUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Resume uploaded", resume)
}

// List godoc
// @Summary      List my résumés
// @Tags         resumes
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Resume}
// @Failure      403  {object}  response.Response
// @Router       /resumes [get]
// @Security     BearerAuth
func (h *ResumeHandler) List(c *gin.Context) {
	resumes, err := h.resumeUC.ListOwn(c.Request.Context(), actor(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resumes retrieved", resumes)
}
