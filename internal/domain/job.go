package domain

import (
	"context"
	"time"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	SalaryMin    *float64  `json:"salary_min"`
	SalaryMax    *float64  `json:"salary_max"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	JobType      JobType   `json:"job_type"`
	EmployerID   string    `json:"employer_id"`
	PostedAt     time.Time `json:"posted_at"`
	IsActive     bool      `json:"is_active"`
}

// JobInput holds the mutable fields of a Job. Update replaces all of them.
type JobInput struct {
	Title        string
	Company      string
	Location     string
	SalaryMin    *float64
	SalaryMax    *float64
	Description  string
	Requirements []string
	JobType      JobType
}

// JobFilter selects active jobs. Search is a literal, case-insensitive
// substring matched against title, company or location.
type JobFilter struct {
	Search string
	Skip   int
	Limit  int
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	// GetByID returns the job whether or not it is active.
	GetByID(ctx context.Context, id string) (*Job, error)
	ListActive(ctx context.Context, filter JobFilter) ([]Job, error)
	// Update and Deactivate only touch a job owned by employerID and return
	// ErrNotFound otherwise.
	Update(ctx context.Context, id, employerID string, in JobInput) (*Job, error)
	Deactivate(ctx context.Context, id, employerID string) error
	ListIDsByEmployer(ctx context.Context, employerID string) ([]string, error)
}

type JobUsecase interface {
	CreateJob(ctx context.Context, actor *User, in JobInput) (*Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]Job, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	UpdateJob(ctx context.Context, actor *User, id string, in JobInput) (*Job, error)
	DeleteJob(ctx context.Context, actor *User, id string) error
}
