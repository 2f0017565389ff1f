package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/events"
	"job-portal-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	resumeRepo      domain.ResumeRepository
	publisher       events.Publisher
	listLimit       int
}

// NewApplicationUsecase creates a new application usecase. publisher may be nil.
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	resumeRepo domain.ResumeRepository,
	publisher events.Publisher,
	listLimit int,
) domain.ApplicationUsecase {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if listLimit < 1 {
		listLimit = 100
	}
	return &applicationUsecase{
		applicationRepo: appRepo,
		jobRepo:         jobRepo,
		resumeRepo:      resumeRepo,
		publisher:       publisher,
		listLimit:       listLimit,
	}
}

// Apply submits the caller's application to an active job.
func (uc *applicationUsecase) Apply(ctx context.Context, actor *domain.User, in domain.ApplyInput) (*domain.Application, error) {
	if !domain.CanAccess(actor, domain.Resource{Kind: domain.ResourceApplication}, domain.ActionCreate) {
		return nil, apperror.Forbidden("Only candidates can apply for jobs")
	}

	job, err := uc.jobRepo.GetByID(ctx, in.JobID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if job == nil || !job.IsActive {
		return nil, apperror.NotFound("Job not found")
	}

	resume, err := uc.resumeRepo.GetByID(ctx, in.ResumeID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if resume == nil || !domain.CanAccess(actor, domain.Resource{Kind: domain.ResourceResume, OwnerID: resume.UserID}, domain.ActionRead) {
		return nil, apperror.NotFound("Resume not found")
	}

	exists, err := uc.applicationRepo.Exists(ctx, job.ID, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("Already applied for this job")
	}

	app := &domain.Application{
		JobID:       job.ID,
		CandidateID: actor.ID,
		ResumeID:    resume.ID,
		CoverLetter: in.CoverLetter,
		Status:      domain.ApplicationStatusPending,
	}
	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("Already applied for this job")
		}
		return nil, apperror.Internal(err)
	}

	uc.publish(ctx, events.ApplicationSubmitted, map[string]any{
		"application_id": app.ID,
		"job_id":         app.JobID,
		"candidate_id":   app.CandidateID,
		"employer_id":    job.EmployerID,
	})
	return app, nil
}

// List returns the applications visible to the caller: their own for a
// candidate, those on their jobs for an employer, everything for an admin.
func (uc *applicationUsecase) List(ctx context.Context, actor *domain.User) ([]domain.Application, error) {
	if !domain.CanAccess(actor, domain.Resource{Kind: domain.ResourceApplication}, domain.ActionList) {
		return nil, apperror.Unauthorized("Not authenticated")
	}

	var (
		apps []domain.Application
		err  error
	)
	switch actor.Role {
	case domain.RoleCandidate:
		apps, err = uc.applicationRepo.ListByCandidate(ctx, actor.ID, uc.listLimit)
	case domain.RoleEmployer:
		var jobIDs []string
		jobIDs, err = uc.jobRepo.ListIDsByEmployer(ctx, actor.ID)
		if err == nil {
			apps, err = uc.applicationRepo.ListByJobIDs(ctx, jobIDs, uc.listLimit)
		}
	default:
		apps, err = uc.applicationRepo.ListAll(ctx, uc.listLimit)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

func (uc *applicationUsecase) Get(ctx context.Context, actor *domain.User, id string) (*domain.Application, error) {
	app, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{Kind: domain.ResourceApplication, ApplicantID: app.CandidateID}
	if actor != nil && actor.Role == domain.RoleEmployer {
		if res.OwnerID, err = uc.jobOwner(ctx, app.JobID); err != nil {
			return nil, err
		}
	}
	if !domain.CanAccess(actor, res, domain.ActionRead) {
		return nil, apperror.Forbidden("Access denied")
	}
	return app, nil
}

// UpdateStatus lets the employer owning the job move an application to any
// status. Empty notes leave the stored notes untouched.
func (uc *applicationUsecase) UpdateStatus(ctx context.Context, actor *domain.User, id, status, notes string) (*domain.Application, error) {
	if !domain.CanAccess(actor, domain.Resource{Kind: domain.ResourceApplication}, domain.ActionReview) {
		return nil, apperror.Forbidden("Only employers can update application status")
	}
	newStatus, err := domain.ParseApplicationStatus(status)
	if err != nil {
		return nil, apperror.BadRequest("Status must be one of pending, reviewed, accepted, rejected")
	}

	app, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := uc.jobOwner(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	res := domain.Resource{Kind: domain.ResourceApplication, OwnerID: owner, ApplicantID: app.CandidateID}
	if owner == "" || !domain.CanAccess(actor, res, domain.ActionReview) {
		return nil, apperror.Forbidden("Access denied")
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}
	previous := app.Status
	updated, err := uc.applicationRepo.UpdateStatus(ctx, app.ID, newStatus, notesPtr)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}

	uc.publish(ctx, events.ApplicationStatusChanged, map[string]any{
		"application_id":  updated.ID,
		"job_id":          updated.JobID,
		"candidate_id":    updated.CandidateID,
		"previous_status": previous,
		"status":          updated.Status,
	})
	return updated, nil
}

// Export renders the caller's role-scoped application list as an xlsx workbook.
func (uc *applicationUsecase) Export(ctx context.Context, actor *domain.User) ([]byte, error) {
	if !domain.CanAccess(actor, domain.Resource{Kind: domain.ResourceApplication}, domain.ActionExport) {
		return nil, apperror.Forbidden("Only employers and admins can export applications")
	}

	apps, err := uc.List(ctx, actor)
	if err != nil {
		return nil, err
	}

	titles := make(map[string]string)
	for _, app := range apps {
		if _, ok := titles[app.JobID]; ok {
			continue
		}
		job, err := uc.jobRepo.GetByID(ctx, app.JobID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.Internal(err)
			}
			titles[app.JobID] = ""
			continue
		}
		titles[app.JobID] = job.Title
	}

	data, err := exportApplicationsExcel(apps, titles)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return data, nil
}

func (uc *applicationUsecase) find(ctx context.Context, id string) (*domain.Application, error) {
	app, err := uc.applicationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}
	return app, nil
}

// jobOwner returns the employer of jobID, or "" if the job is gone.
func (uc *applicationUsecase) jobOwner(ctx context.Context, jobID string) (string, error) {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", apperror.Internal(err)
	}
	return job.EmployerID, nil
}

// publish is fire-and-forget; a broker outage never fails the request.
func (uc *applicationUsecase) publish(ctx context.Context, eventType string, payload map[string]any) {
	event := events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		logger.L().Warn("failed to publish event",
			zap.String("type", eventType),
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}
}

var applicationExportHeaders = []string{
	"APPLICATION ID", "JOB ID", "JOB TITLE", "CANDIDATE ID", "RESUME ID",
	"STATUS", "APPLIED AT", "COVER LETTER", "NOTES",
}

func exportApplicationsExcel(apps []domain.Application, jobTitles map[string]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Applications"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, header := range applicationExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(applicationExportHeaders), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, app := range apps {
		row := []any{
			app.ID,
			app.JobID,
			jobTitles[app.JobID],
			app.CandidateID,
			app.ResumeID,
			string(app.Status),
			app.AppliedAt.UTC().Format(time.RFC3339),
			deref(app.CoverLetter),
			deref(app.Notes),
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", rowIdx+2, err)
		}
	}

	for i := range applicationExportHeaders {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
