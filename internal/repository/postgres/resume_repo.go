package postgres

import (
	"context"
	"fmt"

	"job-portal-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type resumeRepo struct {
	db *pgxpool.Pool
}

func NewResumeRepository(db *pgxpool.Pool) domain.ResumeRepository {
	return &resumeRepo{db: db}
}

const resumeColumns = `id::text, user_id::text, filename, file_path, content_type, size_bytes, uploaded_at`

func scanResume(row pgx.Row) (*domain.Resume, error) {
	var r domain.Resume
	if err := row.Scan(&r.ID, &r.UserID, &r.Filename, &r.FilePath, &r.ContentType, &r.SizeBytes, &r.UploadedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *resumeRepo) Create(ctx context.Context, res *domain.Resume) error {
	query := `INSERT INTO resumes (user_id, filename, file_path, content_type, size_bytes)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id::text, uploaded_at`
	err := r.db.QueryRow(ctx, query, res.UserID, res.Filename, res.FilePath, res.ContentType, res.SizeBytes).
		Scan(&res.ID, &res.UploadedAt)
	if err != nil {
		return fmt.Errorf("insert resume: %w", err)
	}
	return nil
}

func (r *resumeRepo) GetByID(ctx context.Context, id string) (*domain.Resume, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	res, err := scanResume(r.db.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return res, nil
}

func (r *resumeRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY uploaded_at DESC LIMIT $2`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	out := []domain.Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resume: %w", err)
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}
