package postgres

import (
	"context"
	"fmt"

	"job-portal-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

const applicationColumns = `id::text, job_id::text, candidate_id::text, resume_id::text, cover_letter, status, notes, applied_at`

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	var status string
	err := row.Scan(&app.ID, &app.JobID, &app.CandidateID, &app.ResumeID, &app.CoverLetter, &status, &app.Notes, &app.AppliedAt)
	if err != nil {
		return nil, err
	}
	app.Status = domain.ApplicationStatus(status)
	return &app, nil
}

func (r *applicationRepo) collect(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	out := []domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, *app)
	}
	return out, rows.Err()
}

// Create relies on applications_job_candidate_key to reject a second
// application for the same job and candidate.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	if app.Status == "" {
		app.Status = domain.ApplicationStatusPending
	}
	query := `INSERT INTO applications (job_id, candidate_id, resume_id, cover_letter, status, notes)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING id::text, applied_at`
	err := r.db.QueryRow(ctx, query,
		app.JobID, app.CandidateID, app.ResumeID, app.CoverLetter, string(app.Status), app.Notes,
	).Scan(&app.ID, &app.AppliedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	app, err := scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return app, nil
}

func (r *applicationRepo) Exists(ctx context.Context, jobID, candidateID string) (bool, error) {
	if !validID(jobID) {
		return false, nil
	}
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = $1 AND candidate_id = $2)`,
		jobID, candidateID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check application: %w", err)
	}
	return exists, nil
}

func (r *applicationRepo) ListByCandidate(ctx context.Context, candidateID string, limit int) ([]domain.Application, error) {
	return r.collect(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE candidate_id = $1 ORDER BY applied_at DESC LIMIT $2`,
		candidateID, limit)
}

func (r *applicationRepo) ListByJobIDs(ctx context.Context, jobIDs []string, limit int) ([]domain.Application, error) {
	if len(jobIDs) == 0 {
		return []domain.Application{}, nil
	}
	return r.collect(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = ANY($1::uuid[]) ORDER BY applied_at DESC LIMIT $2`,
		pq.Array(jobIDs), limit)
}

func (r *applicationRepo) ListAll(ctx context.Context, limit int) ([]domain.Application, error) {
	return r.collect(ctx,
		`SELECT `+applicationColumns+` FROM applications ORDER BY applied_at DESC LIMIT $1`, limit)
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, notes *string) (*domain.Application, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	query := `UPDATE applications
              SET status = $2, notes = COALESCE($3, notes)
              WHERE id = $1
              RETURNING ` + applicationColumns
	app, err := scanApplication(r.db.QueryRow(ctx, query, id, string(status), notes))
	if err != nil {
		return nil, notFound(err)
	}
	return app, nil
}
