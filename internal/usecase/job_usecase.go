package usecase

import (
	"context"
	"errors"
	"strings"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
)

const DefaultJobPageSize = 50

type jobUsecase struct {
	jobRepo     domain.JobRepository
	maxPageSize int
}

func NewJobUsecase(jobRepo domain.JobRepository, maxPageSize int) domain.JobUsecase {
	if maxPageSize < 1 {
		maxPageSize = 100
	}
	return &jobUsecase{
		jobRepo:     jobRepo,
		maxPageSize: maxPageSize,
	}
}

func validateJobInput(in *domain.JobInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)

	if in.Title == "" || in.Company == "" || in.Location == "" {
		return apperror.BadRequest("Title, company and location are required")
	}
	if in.JobType == "" {
		in.JobType = domain.JobTypeFullTime
	}
	if !in.JobType.Valid() {
		return apperror.BadRequest("Job type must be one of full-time, part-time, contract, internship")
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > *in.SalaryMax {
		return apperror.BadRequest("salary_min cannot be greater than salary_max")
	}
	if in.Requirements == nil {
		in.Requirements = []string{}
	}
	return nil
}

func (u *jobUsecase) CreateJob(ctx context.Context, actor *domain.User, in domain.JobInput) (*domain.Job, error) {
	if !domain.CanAccess(actor, domain.Resource{Kind: domain.ResourceJob}, domain.ActionCreate) {
		return nil, apperror.Forbidden("Only employers can create jobs")
	}
	if err := validateJobInput(&in); err != nil {
		return nil, err
	}

	job := &domain.Job{
		Title:        in.Title,
		Company:      in.Company,
		Location:     in.Location,
		SalaryMin:    in.SalaryMin,
		SalaryMax:    in.SalaryMax,
		Description:  in.Description,
		Requirements: in.Requirements,
		JobType:      in.JobType,
		EmployerID:   actor.ID,
		IsActive:     true,
	}
	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, apperror.Internal(err)
	}
	return job, nil
}

// ListJobs expects Limit to be set; the handler applies DefaultJobPageSize.
func (u *jobUsecase) ListJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	if filter.Skip < 0 {
		return nil, apperror.BadRequest("skip must not be negative")
	}
	if filter.Limit < 1 {
		return nil, apperror.BadRequest("limit must be at least 1")
	}
	if filter.Limit > u.maxPageSize {
		filter.Limit = u.maxPageSize
	}
	filter.Search = strings.TrimSpace(filter.Search)

	jobs, err := u.jobRepo.ListActive(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return jobs, nil
}

// GetJob hides soft-deleted jobs.
func (u *jobUsecase) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}
	if !job.IsActive {
		return nil, apperror.NotFound("Job not found")
	}
	return job, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, actor *domain.User, id string, in domain.JobInput) (*domain.Job, error) {
	if !domain.CanAccess(actor, domain.Resource{Kind: domain.ResourceJob}, domain.ActionUpdate) {
		return nil, apperror.Forbidden("Only employers can update jobs")
	}
	if err := validateJobInput(&in); err != nil {
		return nil, err
	}

	job, err := u.jobRepo.Update(ctx, id, actor.ID, in)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}
	return job, nil
}

func (u *jobUsecase) DeleteJob(ctx context.Context, actor *domain.User, id string) error {
	if !domain.CanAccess(actor, domain.Resource{Kind: domain.ResourceJob}, domain.ActionDelete) {
		return apperror.Forbidden("Only employers can delete jobs")
	}

	if err := u.jobRepo.Deactivate(ctx, id, actor.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job not found")
		}
		return apperror.Internal(err)
	}
	return nil
}
