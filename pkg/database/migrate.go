package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrations run in order and must stay idempotent.
var migrations = []struct {
	name string
	sql  string
}{
	{"enable pgcrypto", `CREATE EXTENSION IF NOT EXISTS "pgcrypto"`},
	{"create users", `
		CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email         TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL CHECK (role IN ('candidate', 'employer', 'admin')),
			full_name     TEXT NOT NULL,
			company_name  TEXT,
			phone         TEXT,
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"users email unique", `CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email))`},
	{"create jobs", `
		CREATE TABLE IF NOT EXISTS jobs (
			id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title        TEXT NOT NULL,
			company      TEXT NOT NULL,
			location     TEXT NOT NULL,
			salary_min   DOUBLE PRECISION,
			salary_max   DOUBLE PRECISION,
			description  TEXT NOT NULL,
			requirements TEXT[] NOT NULL DEFAULT '{}',
			job_type     TEXT NOT NULL DEFAULT 'full-time',
			employer_id  UUID NOT NULL REFERENCES users (id),
			is_active    BOOLEAN NOT NULL DEFAULT TRUE,
			posted_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"jobs active index", `CREATE INDEX IF NOT EXISTS idx_jobs_active_posted ON jobs (is_active, posted_at DESC)`},
	{"jobs employer index", `CREATE INDEX IF NOT EXISTS idx_jobs_employer ON jobs (employer_id)`},
	{"create resumes", `
		CREATE TABLE IF NOT EXISTS resumes (
			id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id      UUID NOT NULL REFERENCES users (id),
			filename     TEXT NOT NULL,
			file_path    TEXT NOT NULL,
			content_type TEXT NOT NULL,
			size_bytes   BIGINT NOT NULL DEFAULT 0,
			uploaded_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"resumes user index", `CREATE INDEX IF NOT EXISTS idx_resumes_user ON resumes (user_id, uploaded_at DESC)`},
	{"create applications", `
		CREATE TABLE IF NOT EXISTS applications (
			id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			job_id       UUID NOT NULL REFERENCES jobs (id),
			candidate_id UUID NOT NULL REFERENCES users (id),
			resume_id    UUID NOT NULL REFERENCES resumes (id),
			cover_letter TEXT,
			status       TEXT NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'reviewed', 'accepted', 'rejected')),
			notes        TEXT,
			applied_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"applications job candidate unique", `CREATE UNIQUE INDEX IF NOT EXISTS applications_job_candidate_key ON applications (job_id, candidate_id)`},
	{"applications candidate index", `CREATE INDEX IF NOT EXISTS idx_applications_candidate ON applications (candidate_id, applied_at DESC)`},
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, m := range migrations {
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("migration %q: %w", m.name, err)
		}
	}
	return nil
}
