package v1_test

import (
	"context"

	"job-portal-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockAuthUC struct {
	mock.Mock
}

func (m *MockAuthUC) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}
func (m *MockAuthUC) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}
func (m *MockAuthUC) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthUC) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockJobUC struct {
	mock.Mock
}

func (m *MockJobUC) CreateJob(ctx context.Context, actor *domain.User, in domain.JobInput) (*domain.Job, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobUC) ListJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}
func (m *MockJobUC) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobUC) UpdateJob(ctx context.Context, actor *domain.User, id string, in domain.JobInput) (*domain.Job, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobUC) DeleteJob(ctx context.Context, actor *domain.User, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockResumeUC struct {
	mock.Mock
}

func (m *MockResumeUC) Upload(ctx context.Context, actor *domain.User, file domain.ResumeUpload) (*domain.Resume, error) {
	args := m.Called(ctx, actor, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}
func (m *MockResumeUC) ListOwn(ctx context.Context, actor *domain.User) ([]domain.Resume, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Resume), args.Error(1)
}

type MockApplicationUC struct {
	mock.Mock
}

func (m *MockApplicationUC) Apply(ctx context.Context, actor *domain.User, in domain.ApplyInput) (*domain.Application, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationUC) List(ctx context.Context, actor *domain.User) ([]domain.Application, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationUC) Get(ctx context.Context, actor *domain.User, id string) (*domain.Application, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationUC) UpdateStatus(ctx context.Context, actor *domain.User, id, status, notes string) (*domain.Application, error) {
	args := m.Called(ctx, actor, id, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationUC) Export(ctx context.Context, actor *domain.User) ([]byte, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
