package usecase

import (
	"context"
	"time"
)

// Pinger is anything whose liveness can be probed, e.g. *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
	Healthy(report map[string]string) bool
}

type healthUsecase struct {
	database Pinger
	redis    Pinger
	timeout  time.Duration
}

// NewHealthUsecase checks the database and, when given, redis.
func NewHealthUsecase(database, redis Pinger) HealthUsecase {
	return &healthUsecase{database: database, redis: redis, timeout: 2 * time.Second}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	report := map[string]string{
		"status":   "healthy",
		"database": u.probe(ctx, u.database),
	}
	if u.redis != nil {
		report["redis"] = u.probe(ctx, u.redis)
	}
	if report["database"] != "connected" {
		report["status"] = "unhealthy"
	}
	return report
}

// Healthy reports whether the required dependencies answered. Redis is
// optional and only degrades the report.
func (u *healthUsecase) Healthy(report map[string]string) bool {
	return report["status"] == "healthy"
}

func (u *healthUsecase) probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "not configured"
	}
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}
