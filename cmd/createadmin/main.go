// Command createadmin seeds an admin account. Admins cannot self-register
// unless ALLOW_ADMIN_REGISTRATION is set, so operators use this instead.
//
//	DATABASE_URL=... JWT_SECRET=... go run ./cmd/createadmin -email ops@example.com -name "Ops"
//
// The password is read from ADMIN_PASSWORD so it stays out of shell history.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"job-portal-backend/config"
	"job-portal-backend/internal/domain"
	"job-portal-backend/internal/repository/postgres"
	"job-portal-backend/pkg/database"
	"job-portal-backend/pkg/logger"
	"job-portal-backend/pkg/security"

	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "admin email")
	name := flag.String("name", "Administrator", "admin full name")
	flag.Parse()

	password := os.Getenv("ADMIN_PASSWORD")
	if *email == "" || len(password) < 6 || len(password) > 72 {
		fmt.Fprintln(os.Stderr, "usage: ADMIN_PASSWORD=<6..72 chars> createadmin -email <email> [-name <full name>]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if _, err := logger.Init(cfg.LogLevel, "console"); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := run(ctx, cfg, strings.ToLower(strings.TrimSpace(*email)), *name, password); err != nil {
		logger.L().Error("create admin failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, email, name, password string) error {
	pool, err := database.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}

	hash, err := security.NewPasswordService(cfg.BcryptCost).Hash(password)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		FullName:     name,
		IsActive:     true,
	}
	if err := postgres.NewUserRepository(pool).Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return fmt.Errorf("%s is already registered", email)
		}
		return err
	}

	logger.L().Info("admin created", zap.String("id", admin.ID), zap.String("email", security.MaskEmail(email)))
	return nil
}
