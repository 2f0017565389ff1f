package v1

import (
	"context"
	"net/http"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/logger"
	"job-portal-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authUC   domain.AuthUsecase
	tracker  *security.LoginTracker
	auditLog *security.SecurityLogger
}

// NewAuthHandler mounts /register and /login on public (each behind its own
// limiter) and /me on protected. tracker may be nil.
func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, tracker *security.LoginTracker, registerLimit, loginLimit gin.HandlerFunc) {
	handler := &AuthHandler{
		authUC:   authUC,
		tracker:  tracker,
		auditLog: security.DefaultLogger(),
	}

	public.POST("/register", registerLimit, handler.Register)
	public.POST("/login", loginLimit, handler.Login)
	protected.GET("/me", handler.Me)
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	Password    string `json:"password" binding:"required,min=6,max=72"`
	Role        string `json:"role" binding:"required,oneof=candidate employer admin"`
	FullName    string `json:"full_name" binding:"required,notblank,max=200,valid_name"`
	CompanyName string `json:"company_name" binding:"omitempty,max=200,no_emoji"`
	Phone       string `json:"phone" binding:"omitempty,valid_phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary      User Registration
// @Description  Register a candidate or employer and receive an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      RegisterRequest  true  "Registration Details"
// @Success      201       {object}  response.Response{data=domain.AuthResult}
// @Failure      400       {object}  response.Response
// @Failure      403       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Failure      429       {object}  response.Response
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	result, err := h.authUC.Register(c.Request.Context(), domain.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Role:        domain.Role(req.Role),
		FullName:    req.FullName,
		CompanyName: optional(req.CompanyName),
		Phone:       optional(req.Phone),
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.auditLog.Log(c.Request.Context(), security.SecurityEvent{
		Event:        security.EventRegistered,
		SubjectType:  "user_id",
		SubjectValue: result.User.ID,
		IP:           c.ClientIP(),
		RequestID:    c.GetString(response.RequestIDKey),
		Details:      map[string]any{"role": string(result.User.Role)},
	})
	response.Success(c, http.StatusCreated, "Registration successful", result)
}

// Login godoc
// @Summary      User Login
// @Description  Exchange email and password for an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Credentials"
// @Success      200    {object}  response.Response{data=domain.AuthResult}
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	ctx := c.Request.Context()
	requestID := c.GetString(response.RequestIDKey)

	if h.blocked(ctx, req.Email) {
		h.auditLog.Log(ctx, security.SecurityEvent{
			Event:        security.EventLoginBlocked,
			SubjectType:  "email",
			SubjectValue: req.Email,
			IP:           c.ClientIP(),
			RequestID:    requestID,
		})
		c.Error(apperror.TooManyRequests("Too many failed login attempts. Please try again later."))
		return
	}

	result, err := h.authUC.Login(ctx, req.Email, req.Password)
	if err != nil {
		if apperror.StatusOf(err) == http.StatusUnauthorized {
			if h.tracker == nil {
				h.auditLog.LogLoginFailed(ctx, req.Email, c.ClientIP(), requestID, "invalid_credentials")
			} else if _, terr := h.tracker.RecordFailure(ctx, req.Email, c.ClientIP(), requestID); terr != nil {
				logger.L().Warn("login tracker unavailable", zap.Error(terr))
			}
		}
		c.Error(err)
		return
	}

	if h.tracker != nil {
		if err := h.tracker.Reset(ctx, req.Email); err != nil {
			logger.L().Warn("login tracker reset failed", zap.Error(err))
		}
	}
	h.auditLog.Log(ctx, security.SecurityEvent{
		Event:        security.EventLoginSuccess,
		SubjectType:  "user_id",
		SubjectValue: result.User.ID,
		IP:           c.ClientIP(),
		RequestID:    requestID,
	})
	response.Success(c, http.StatusOK, "Login successful", result)
}

// blocked fails open: a tracker outage must not lock everyone out.
func (h *AuthHandler) blocked(ctx context.Context, email string) bool {
	if h.tracker == nil {
		return false
	}
	blocked, err := h.tracker.IsBlocked(ctx, email)
	if err != nil {
		logger.L().Warn("login tracker unavailable", zap.Error(err))
		return false
	}
	return blocked
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), actor(c).ID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Current user", user)
}
