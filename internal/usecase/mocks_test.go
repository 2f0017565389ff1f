package usecase_test

import (
	"bytes"
	"context"
	"io"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/events"
	"job-portal-backend/pkg/security/antivirus"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobRepo) ListActive(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}
func (m *MockJobRepo) Update(ctx context.Context, id, employerID string, in domain.JobInput) (*domain.Job, error) {
	args := m.Called(ctx, id, employerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobRepo) Deactivate(ctx context.Context, id, employerID string) error {
	return m.Called(ctx, id, employerID).Error(0)
}
func (m *MockJobRepo) ListIDsByEmployer(ctx context.Context, employerID string) ([]string, error) {
	args := m.Called(ctx, employerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockResumeRepo struct {
	mock.Mock
}

func (m *MockResumeRepo) Create(ctx context.Context, r *domain.Resume) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockResumeRepo) GetByID(ctx context.Context, id string) (*domain.Resume, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}
func (m *MockResumeRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Resume, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Resume), args.Error(1)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) Exists(ctx context.Context, jobID, candidateID string) (bool, error) {
	args := m.Called(ctx, jobID, candidateID)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationRepo) ListByCandidate(ctx context.Context, candidateID string, limit int) ([]domain.Application, error) {
	args := m.Called(ctx, candidateID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) ListByJobIDs(ctx context.Context, jobIDs []string, limit int) ([]domain.Application, error) {
	args := m.Called(ctx, jobIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) ListAll(ctx context.Context, limit int) ([]domain.Application, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, notes *string) (*domain.Application, error) {
	args := m.Called(ctx, id, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

type MockBlobStore struct {
	mock.Mock
}

// Put drains r so tee'd scanners see the whole body.
func (m *MockBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return m.Called(ctx, key, data, size, contentType).Error(0)
}
func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
func (m *MockBlobStore) Name() string { return "mock" }

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, e events.Event) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockPublisher) Close() error { return nil }

// fakeScanner reads the whole stream and flags it when it contains marker.
type fakeScanner struct {
	marker  string
	scanned []byte
	err     error
}

func (s *fakeScanner) Scan(ctx context.Context, data io.Reader) (antivirus.ScanResult, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return antivirus.ScanResult{}, err
	}
	s.scanned = b
	if s.err != nil {
		return antivirus.ScanResult{}, s.err
	}
	res := antivirus.ScanResult{Scanner: "fake"}
	if s.marker != "" && bytes.Contains(b, []byte(s.marker)) {
		res.Infected = true
		res.ThreatName = "Eicar-Test-Signature"
	}
	return res, nil
}

func (s *fakeScanner) Name() string { return "fake" }

func strPtr(s string) *string { return &s }
