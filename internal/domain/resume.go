package domain

import (
	"context"
	"io"
	"time"
)

type Resume struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Filename    string    `json:"filename"`
	FilePath    string    `json:"file_path"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// ResumeUpload is an incoming file. Size is what the client declared and may
// be -1 when unknown.
type ResumeUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type ResumeRepository interface {
	Create(ctx context.Context, r *Resume) error
	GetByID(ctx context.Context, id string) (*Resume, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Resume, error)
}

type ResumeUsecase interface {
	Upload(ctx context.Context, actor *User, file ResumeUpload) (*Resume, error)
	ListOwn(ctx context.Context, actor *User) ([]Resume, error)
}
