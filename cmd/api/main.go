package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job-portal-backend/config"
	_ "job-portal-backend/docs" // Important for Swagger
	"job-portal-backend/internal/delivery/http/middleware"
	v1 "job-portal-backend/internal/delivery/http/v1"
	"job-portal-backend/internal/repository/postgres"
	"job-portal-backend/internal/usecase"
	"job-portal-backend/pkg/database"
	"job-portal-backend/pkg/events"
	"job-portal-backend/pkg/logger"
	"job-portal-backend/pkg/redis"
	"job-portal-backend/pkg/security"
	"job-portal-backend/pkg/security/antivirus"
	"job-portal-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title           Job Portal API
// @version         1.0
// @description     Job board backend: accounts, job postings, résumé uploads and applications.
// @host            localhost:8000
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	if _, err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.L().Info("Starting job portal backend", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, dbPool); err != nil {
			logger.L().Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// 4. Optional infrastructure
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		rdb, err = redis.New(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.L().Warn("Redis unavailable, using in-memory rate limits", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	blobStore, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.L().Fatal("Failed to init file storage", zap.Error(err))
	}
	logger.L().Info("File storage ready", zap.String("driver", blobStore.Name()))

	var scanner antivirus.Scanner
	if cfg.ClamAVAddress != "" {
		scanner = antivirus.New(cfg.ClamAVAddress, antivirus.WithTimeout(cfg.ClamAVTimeout))
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.AMQPURL != "" {
		mq, err := events.NewRabbitMQ(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.L().Warn("RabbitMQ unavailable, events disabled", zap.Error(err))
		} else {
			publisher = mq
		}
	}
	defer publisher.Close()

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	resumeRepo := postgres.NewResumeRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)

	// 6. Setup Security services
	passwords := security.NewPasswordService(cfg.BcryptCost)
	tokens, err := security.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		logger.L().Fatal("Failed to init token service", zap.Error(err))
	}
	loginTracker := security.NewLoginTracker(rdb, security.DefaultLoginTrackerConfig(), security.DefaultLogger())
	rateLimiter := middleware.NewRateLimiter(rdb)
	defer rateLimiter.Stop()

	// 7. Setup UseCases
	authUC := usecase.NewAuthUsecase(userRepo, passwords, tokens, cfg.AllowAdminRegistration)
	jobUC := usecase.NewJobUsecase(jobRepo, cfg.MaxPageSize)
	resumeUC := usecase.NewResumeUsecase(resumeRepo, blobStore, scanner, usecase.ResumeConfig{
		MaxUploadBytes: cfg.MaxUploadBytes,
		ListLimit:      cfg.ResumeListLimit,
	})
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, resumeRepo, publisher, cfg.ApplicationListLimit)

	var redisPinger usecase.Pinger
	if rdb != nil {
		redisPinger = usecase.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	healthUC := usecase.NewHealthUsecase(usecase.PingFunc(dbPool.Ping), redisPinger)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		JobUC:         jobUC,
		ResumeUC:      resumeUC,
		ApplicationUC: applicationUC,
		HealthUC:      healthUC,
		LoginTracker:  loginTracker,
		RateLimiter:   rateLimiter,
		Config:        cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("Listen failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.L().Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("Server forced to shutdown", zap.Error(err))
	}

	logger.L().Info("Server exiting")
}

func newBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	if cfg.StorageDriver == "s3" {
		client, err := storage.NewS3Client(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(client, cfg.S3Bucket, ""), nil
	}
	return storage.NewLocalStore(cfg.UploadDir)
}
