package postgres

import (
	"context"
	"fmt"
	"strings"

	"job-portal-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `id::text, title, company, location, salary_min, salary_max, description,
	requirements, job_type, employer_id::text, is_active, posted_at`

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	var jobType string
	var requirements []string
	err := row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &job.SalaryMin, &job.SalaryMax, &job.Description,
		&requirements, &jobType, &job.EmployerID, &job.IsActive, &job.PostedAt,
	)
	if err != nil {
		return nil, err
	}
	if requirements == nil {
		requirements = []string{}
	}
	job.Requirements = requirements
	job.JobType = domain.JobType(jobType)
	return &job, nil
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (title, company, location, salary_min, salary_max, description, requirements, job_type, employer_id, is_active)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
              RETURNING id::text, posted_at`
	err := r.db.QueryRow(ctx, query,
		job.Title, job.Company, job.Location, job.SalaryMin, job.SalaryMax, job.Description,
		textArray(job.Requirements), string(job.JobType), job.EmployerID, job.IsActive,
	).Scan(&job.ID, &job.PostedAt)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	job, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return job, nil
}

// textArray never encodes NULL; the column is NOT NULL. Reads scan text[]
// straight into []string, which pgx decodes in either wire format.
func textArray(ss []string) any {
	if ss == nil {
		ss = []string{}
	}
	return pq.Array(ss)
}

// escapeLike makes % _ and \ match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *jobRepo) ListActive(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	args := []any{}
	where := "is_active = TRUE"

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		where += ` AND (title ILIKE $1 ESCAPE '\' OR company ILIKE $1 ESCAPE '\' OR location ILIKE $1 ESCAPE '\')`
	}
	args = append(args, filter.Limit, filter.Skip)

	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY posted_at DESC, id LIMIT $%d OFFSET $%d`,
		jobColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) Update(ctx context.Context, id, employerID string, in domain.JobInput) (*domain.Job, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	query := `UPDATE jobs
              SET title = $3, company = $4, location = $5, salary_min = $6, salary_max = $7,
                  description = $8, requirements = $9, job_type = $10
              WHERE id = $1 AND employer_id = $2
              RETURNING ` + jobColumns
	job, err := scanJob(r.db.QueryRow(ctx, query,
		id, employerID, in.Title, in.Company, in.Location, in.SalaryMin, in.SalaryMax,
		in.Description, textArray(in.Requirements), string(in.JobType),
	))
	if err != nil {
		return nil, notFound(err)
	}
	return job, nil
}

func (r *jobRepo) Deactivate(ctx context.Context, id, employerID string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `UPDATE jobs SET is_active = FALSE WHERE id = $1 AND employer_id = $2`, id, employerID)
	if err != nil {
		return fmt.Errorf("deactivate job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) ListIDsByEmployer(ctx context.Context, employerID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id::text FROM jobs WHERE employer_id = $1`, employerID)
	if err != nil {
		return nil, fmt.Errorf("list employer jobs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
