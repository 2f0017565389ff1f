package v1

import (
	"net/http"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/usecase"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	healthUC usecase.HealthUsecase
}

func NewSystemHandler(public *gin.RouterGroup, healthUC usecase.HealthUsecase) {
	handler := &SystemHandler{healthUC: healthUC}

	public.GET("/", handler.Root)
	public.GET("/health", handler.Health)
}

// Root godoc
// @Summary      API banner
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       / [get]
func (h *SystemHandler) Root(c *gin.Context) {
	response.Success(c, http.StatusOK, "Job Portal API is running", gin.H{"message": "Job Portal API is running"})
}

// Health godoc
// @Summary      Health check
// @Description  Reports database (and redis, when configured) connectivity
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	report := h.healthUC.Check(c.Request.Context())
	if !h.healthUC.Healthy(report) {
		response.Error(c, http.StatusServiceUnavailable, "Service unhealthy", report)
		return
	}
	response.Success(c, http.StatusOK, "System operational", report)
}
