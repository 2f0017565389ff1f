package domain

import (
	"context"
	"fmt"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Any status may follow any other; there is no forward-only ordering.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q", s)
	}
	return st, nil
}

type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job_id"`
	CandidateID string            `json:"candidate_id"`
	ResumeID    string            `json:"resume_id"`
	CoverLetter *string           `json:"cover_letter"`
	Status      ApplicationStatus `json:"status"`
	Notes       *string           `json:"notes"`
	AppliedAt   time.Time         `json:"applied_at"`
}

type ApplyInput struct {
	JobID       string
	ResumeID    string
	CoverLetter *string
}

type ApplicationRepository interface {
	// Create returns ErrDuplicate when the candidate already applied to the job.
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	Exists(ctx context.Context, jobID, candidateID string) (bool, error)
	ListByCandidate(ctx context.Context, candidateID string, limit int) ([]Application, error)
	ListByJobIDs(ctx context.Context, jobIDs []string, limit int) ([]Application, error)
	ListAll(ctx context.Context, limit int) ([]Application, error)
	// UpdateStatus sets status and, when notes is non-nil, overwrites notes.
	UpdateStatus(ctx context.Context, id string, status ApplicationStatus, notes *string) (*Application, error)
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, actor *User, in ApplyInput) (*Application, error)
	List(ctx context.Context, actor *User) ([]Application, error)
	Get(ctx context.Context, actor *User, id string) (*Application, error)
	UpdateStatus(ctx context.Context, actor *User, id, status, notes string) (*Application, error)
	// Export renders the caller's visible applications as an xlsx workbook.
	Export(ctx context.Context, actor *User) ([]byte, error)
}
