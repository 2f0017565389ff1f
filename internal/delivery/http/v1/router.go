package v1

import (
	"job-portal-backend/config"
	"job-portal-backend/internal/delivery/http/middleware"
	"job-portal-backend/internal/domain"
	"job-portal-backend/internal/usecase"
	"job-portal-backend/pkg/security"
	"job-portal-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	JobUC         domain.JobUsecase
	ResumeUC      domain.ResumeUsecase
	ApplicationUC domain.ApplicationUsecase
	HealthUC      usecase.HealthUsecase
	LoginTracker  *security.LoginTracker // optional
	RateLimiter   *middleware.RateLimiter
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	r := gin.New()
	cfg := deps.Config

	// Global Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler())

	api := r.Group("/api")

	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil)
	}
	loginLimit := limiter.Middleware(middleware.LoginRateLimitConfig(cfg.RateLimitLogin, cfg.RateLimitWindow, cfg.RateLimitFailClose))
	registerLimit := limiter.Middleware(middleware.RegisterRateLimitConfig(cfg.RateLimitRegister, cfg.RateLimitWindow, cfg.RateLimitFailClose))
	uploadLimit := limiter.Middleware(middleware.UploadRateLimitConfig(cfg.RateLimitUpload, cfg.RateLimitWindow))

	NewSystemHandler(api, deps.HealthUC)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.AuthUC))
	{
		NewAuthHandler(api, protected, deps.AuthUC, deps.LoginTracker, registerLimit, loginLimit)
		NewJobHandler(api, protected, deps.JobUC)
		NewResumeHandler(protected, deps.ResumeUC, cfg.MaxUploadBytes, uploadLimit)
		NewApplicationHandler(protected, deps.ApplicationUC)
	}

	return r
}
