package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/logger"
	"job-portal-backend/pkg/security"
	"job-portal-backend/pkg/security/antivirus"
	"job-portal-backend/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errUploadTooLarge = errors.New("upload exceeds size limit")

type ResumeConfig struct {
	MaxUploadBytes int64
	ListLimit      int
}

type resumeUsecase struct {
	resumeRepo domain.ResumeRepository
	blobStore  storage.BlobStore
	scanner    antivirus.Scanner
	cfg        ResumeConfig
}

// NewResumeUsecase wires résumé uploads. scanner may be nil.
func NewResumeUsecase(
	resumeRepo domain.ResumeRepository,
	store storage.BlobStore,
	scanner antivirus.Scanner,
	cfg ResumeConfig,
) domain.ResumeUsecase {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 100
	}
	return &resumeUsecase{
		resumeRepo: resumeRepo,
		blobStore:  store,
		scanner:    scanner,
		cfg:        cfg,
	}
}

// Upload streams the file to the blob store and then records its metadata.
// The two writes are not atomic: if the insert fails the blob is removed on a
// best-effort basis and may be left behind.
func (u *resumeUsecase) Upload(ctx context.Context, actor *domain.User, file domain.ResumeUpload) (*domain.Resume, error) {
	if !domain.CanAccess(actor, domain.Resource{Kind: domain.ResourceResume}, domain.ActionCreate) {
		return nil, apperror.Forbidden("Only candidates can upload resumes")
	}
	if !security.IsAllowedResumeType(file.ContentType) {
		return nil, apperror.UnsupportedMediaType("Only PDF and Word documents are allowed")
	}
	if file.Size > u.cfg.MaxUploadBytes {
		return nil, u.tooLarge()
	}

	head := make([]byte, security.SniffLength)
	n, err := io.ReadFull(file.Content, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, apperror.BadRequest("Could not read uploaded file")
	}
	head = head[:n]
	if n == 0 {
		return nil, apperror.BadRequest("Uploaded file is empty")
	}

	check := security.ValidateResume(file.Filename, file.ContentType, head)
	if !check.Valid {
		return nil, apperror.UnsupportedMediaType(check.Error)
	}

	key := fmt.Sprintf("%s_%s%s", actor.ID, uuid.NewString(), check.Extension)
	body := &limitedReader{
		r:     io.MultiReader(bytes.NewReader(head), file.Content),
		limit: u.cfg.MaxUploadBytes,
	}

	if err := u.persist(ctx, actor.ID, key, body, file.Size, check.ContentType); err != nil {
		return nil, err
	}

	resume := &domain.Resume{
		UserID:      actor.ID,
		Filename:    file.Filename,
		FilePath:    key,
		ContentType: check.ContentType,
		SizeBytes:   body.read,
	}
	if err := u.resumeRepo.Create(ctx, resume); err != nil {
		u.discard(key)
		return nil, apperror.Internal(err)
	}
	return resume, nil
}

// persist writes the blob, scanning it on the way through when a scanner is
// configured. Infected or oversized blobs are deleted again.
func (u *resumeUsecase) persist(ctx context.Context, ownerID, key string, body *limitedReader, size int64, contentType string) error {
	if u.scanner == nil {
		if err := u.blobStore.Put(ctx, key, body, size, contentType); err != nil {
			return u.putError(key, err)
		}
		return nil
	}

	pr, pw := io.Pipe()
	verdict := make(chan scanOutcome, 1)
	go func() {
		res, err := u.scanner.Scan(ctx, pr)
		// keep the tee unblocked if the scanner stopped reading early
		_, _ = io.Copy(io.Discard, pr)
		verdict <- scanOutcome{res, err}
	}()

	putErr := u.blobStore.Put(ctx, key, io.TeeReader(body, pw), size, contentType)
	pw.CloseWithError(putErr)
	outcome := <-verdict

	if putErr != nil {
		return u.putError(key, putErr)
	}
	if outcome.err != nil {
		u.discard(key)
		return apperror.Internal(fmt.Errorf("scan %s: %w", key, outcome.err))
	}
	if outcome.result.Infected {
		u.discard(key)
		security.DefaultLogger().LogUploadRejected(ctx, ownerID, "", "", "malware: "+outcome.result.ThreatName)
		return apperror.BadRequest("File failed the malware scan")
	}
	return nil
}

type scanOutcome struct {
	result antivirus.ScanResult
	err    error
}

func (u *resumeUsecase) putError(key string, err error) error {
	u.discard(key)
	if errors.Is(err, errUploadTooLarge) {
		return u.tooLarge()
	}
	return apperror.Internal(err)
}

func (u *resumeUsecase) tooLarge() error {
	return apperror.PayloadTooLarge(fmt.Sprintf("File exceeds the %d byte limit", u.cfg.MaxUploadBytes))
}

// discard deletes a blob outside the request context, which may already be
// cancelled.
func (u *resumeUsecase) discard(key string) {
	if err := u.blobStore.Delete(context.Background(), key); err != nil {
		logger.L().Warn("failed to remove orphaned resume blob", zap.String("key", key), zap.Error(err))
	}
}

func (u *resumeUsecase) ListOwn(ctx context.Context, actor *domain.User) ([]domain.Resume, error) {
	if !domain.CanAccess(actor, domain.Resource{Kind: domain.ResourceResume}, domain.ActionList) {
		return nil, apperror.Forbidden("Only candidates can view resumes")
	}
	resumes, err := u.resumeRepo.ListByUser(ctx, actor.ID, u.cfg.ListLimit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return resumes, nil
}

// limitedReader fails with errUploadTooLarge once more than limit bytes have
// been read, and counts what it passed through.
type limitedReader struct {
	r     io.Reader
	limit int64
	read  int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.limit {
		return 0, errUploadTooLarge
	}
	return n, err
}
