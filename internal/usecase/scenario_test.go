package usecase_test

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"job-portal-backend/internal/domain"
	"job-portal-backend/internal/usecase"
	"job-portal-backend/pkg/security"
	"job-portal-backend/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore backs every repository interface with maps so that usecases can be
// exercised end to end without a database.
type memStore struct {
	mu      sync.Mutex
	seq     int
	users   map[string]*domain.User
	jobs    map[string]*domain.Job
	resumes map[string]*domain.Resume
	apps    map[string]*domain.Application
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]*domain.User{},
		jobs:    map[string]*domain.Job{},
		resumes: map[string]*domain.Resume{},
		apps:    map[string]*domain.Application{},
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// stamp spaces timestamps apart so newest-first ordering is deterministic.
func (s *memStore) stamp() time.Time {
	return time.Date(2026, 1, 1, 0, 0, s.seq, 0, time.UTC)
}

type memUsers struct{ *memStore }

func (r memUsers) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	u.ID = r.nextID("user")
	u.CreatedAt = r.stamp()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memJobs struct{ *memStore }

func (r memJobs) Create(ctx context.Context, j *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j.ID = r.nextID("job")
	j.PostedAt = r.stamp()
	cp := *j
	r.jobs[j.ID] = &cp
	return nil
}

func (r memJobs) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r memJobs) ListActive(ctx context.Context, f domain.JobFilter) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	term := strings.ToLower(f.Search)
	out := []domain.Job{}
	for _, j := range r.jobs {
		if !j.IsActive {
			continue
		}
		hay := strings.ToLower(j.Title + "\x00" + j.Company + "\x00" + j.Location)
		if term != "" && !strings.Contains(hay, term) {
			continue
		}
		out = append(out, *j)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].PostedAt.After(out[b].PostedAt) })
	if f.Skip >= len(out) {
		return []domain.Job{}, nil
	}
	out = out[f.Skip:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memJobs) Update(ctx context.Context, id, employerID string, in domain.JobInput) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.EmployerID != employerID {
		return nil, domain.ErrNotFound
	}
	j.Title, j.Company, j.Location = in.Title, in.Company, in.Location
	j.SalaryMin, j.SalaryMax = in.SalaryMin, in.SalaryMax
	j.Description, j.Requirements, j.JobType = in.Description, in.Requirements, in.JobType
	cp := *j
	return &cp, nil
}

func (r memJobs) Deactivate(ctx context.Context, id, employerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.EmployerID != employerID {
		return domain.ErrNotFound
	}
	j.IsActive = false
	return nil
}

func (r memJobs) ListIDsByEmployer(ctx context.Context, employerID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []string{}
	for id, j := range r.jobs {
		if j.EmployerID == employerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type memResumes struct{ *memStore }

func (r memResumes) Create(ctx context.Context, res *domain.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res.ID = r.nextID("resume")
	res.UploadedAt = r.stamp()
	cp := *res
	r.resumes[res.ID] = &cp
	return nil
}

func (r memResumes) GetByID(ctx context.Context, id string) (*domain.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res, ok := r.resumes[id]; ok {
		cp := *res
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r memResumes) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Resume{}
	for _, res := range r.resumes {
		if res.UserID == userID {
			out = append(out, *res)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].UploadedAt.After(out[b].UploadedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memApps struct{ *memStore }

func (r memApps) Create(ctx context.Context, app *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.JobID == app.JobID && a.CandidateID == app.CandidateID {
			return domain.ErrDuplicate
		}
	}
	app.ID = r.nextID("app")
	app.AppliedAt = r.stamp()
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r memApps) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.apps[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r memApps) Exists(ctx context.Context, jobID, candidateID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.JobID == jobID && a.CandidateID == candidateID {
			return true, nil
		}
	}
	return false, nil
}

func (r memApps) filter(limit int, keep func(*domain.Application) bool) []domain.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Application{}
	for _, a := range r.apps {
		if keep(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r memApps) ListByCandidate(ctx context.Context, candidateID string, limit int) ([]domain.Application, error) {
	return r.filter(limit, func(a *domain.Application) bool { return a.CandidateID == candidateID }), nil
}

func (r memApps) ListByJobIDs(ctx context.Context, jobIDs []string, limit int) ([]domain.Application, error) {
	set := map[string]bool{}
	for _, id := range jobIDs {
		set[id] = true
	}
	return r.filter(limit, func(a *domain.Application) bool { return set[a.JobID] }), nil
}

func (r memApps) ListAll(ctx context.Context, limit int) ([]domain.Application, error) {
	return r.filter(limit, func(*domain.Application) bool { return true }), nil
}

func (r memApps) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, notes *string) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a.Status = status
	if notes != nil {
		a.Notes = notes
	}
	cp := *a
	return &cp, nil
}

type portal struct {
	store   *memStore
	auth    domain.AuthUsecase
	jobs    domain.JobUsecase
	resumes domain.ResumeUsecase
	apps    domain.ApplicationUsecase
}

func newPortal(t *testing.T) *portal {
	t.Helper()
	store := newMemStore()
	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	tokens, err := security.NewTokenService(testSecret, "job-portal", time.Hour)
	require.NoError(t, err)

	return &portal{
		store:   store,
		auth:    usecase.NewAuthUsecase(memUsers{store}, security.NewPasswordService(4), tokens, false),
		jobs:    usecase.NewJobUsecase(memJobs{store}, 100),
		resumes: usecase.NewResumeUsecase(memResumes{store}, blobs, nil, usecase.ResumeConfig{MaxUploadBytes: 1 << 20}),
		apps:    usecase.NewApplicationUsecase(memApps{store}, memJobs{store}, memResumes{store}, nil, 100),
	}
}

func (p *portal) register(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	res, err := p.auth.Register(context.Background(), domain.RegisterInput{
		Email: email, Password: "secret123", Role: role, FullName: strings.Split(email, "@")[0],
	})
	require.NoError(t, err)

	user, err := p.auth.Authenticate(context.Background(), res.AccessToken)
	require.NoError(t, err)
	return user
}

func TestScenario_HireFlow(t *testing.T) {
	ctx := context.Background()
	p := newPortal(t)

	employer := p.register(t, "boss@acme.example", domain.RoleEmployer)
	job, err := p.jobs.CreateJob(ctx, employer, validJobInput())
	require.NoError(t, err)

	cand := p.register(t, "dev@example.com", domain.RoleCandidate)
	resume, err := p.resumes.Upload(ctx, cand, pdfUpload(pdfBody))
	require.NoError(t, err)

	app, err := p.apps.Apply(ctx, cand, domain.ApplyInput{JobID: job.ID, ResumeID: resume.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)

	_, err = p.apps.Apply(ctx, cand, domain.ApplyInput{JobID: job.ID, ResumeID: resume.ID})
	assertStatus(t, err, http.StatusConflict)

	_, err = p.apps.UpdateStatus(ctx, employer, app.ID, "accepted", "")
	require.NoError(t, err)

	got, err := p.apps.Get(ctx, cand, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusAccepted, got.Status)

	_, err = p.apps.UpdateStatus(ctx, cand, app.ID, "rejected", "")
	assertStatus(t, err, http.StatusForbidden)
}

func TestScenario_DuplicateRegistration(t *testing.T) {
	p := newPortal(t)
	p.register(t, "ada@example.com", domain.RoleCandidate)

	_, err := p.auth.Register(context.Background(), domain.RegisterInput{
		Email: "ADA@example.com", Password: "another1", Role: domain.RoleEmployer, FullName: "Ada",
	})
	assertStatus(t, err, http.StatusConflict)
}

func TestScenario_SoftDelete(t *testing.T) {
	ctx := context.Background()
	p := newPortal(t)
	employer := p.register(t, "boss@acme.example", domain.RoleEmployer)

	job, err := p.jobs.CreateJob(ctx, employer, validJobInput())
	require.NoError(t, err)

	listed, err := p.jobs.ListJobs(ctx, domain.JobFilter{Limit: usecase.DefaultJobPageSize})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// anonymous read while active
	got, err := p.jobs.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)

	require.NoError(t, p.jobs.DeleteJob(ctx, employer, job.ID))

	listed, err = p.jobs.ListJobs(ctx, domain.JobFilter{Limit: usecase.DefaultJobPageSize})
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = p.jobs.GetJob(ctx, job.ID)
	assertStatus(t, err, http.StatusNotFound)

	stored, ok := p.store.jobs[job.ID]
	require.True(t, ok, "record must be retained")
	assert.False(t, stored.IsActive)
}

func TestScenario_SearchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	p := newPortal(t)
	employer := p.register(t, "boss@acme.example", domain.RoleEmployer)

	_, err := p.jobs.CreateJob(ctx, employer, validJobInput())
	require.NoError(t, err)
	other := validJobInput()
	other.Title, other.Company, other.Location = "Designer", "Studio", "Berlin"
	_, err = p.jobs.CreateJob(ctx, employer, other)
	require.NoError(t, err)

	for _, term := range []string{"back", "BACK", "acme", "remote"} {
		jobs, err := p.jobs.ListJobs(ctx, domain.JobFilter{Search: term, Limit: 50})
		require.NoError(t, err)
		require.Len(t, jobs, 1, term)
		assert.Equal(t, "Backend Engineer", jobs[0].Title)
	}
}

func TestScenario_EmployerIsolation(t *testing.T) {
	ctx := context.Background()
	p := newPortal(t)
	empA := p.register(t, "a@acme.example", domain.RoleEmployer)
	empB := p.register(t, "b@rival.example", domain.RoleEmployer)
	cand := p.register(t, "dev@example.com", domain.RoleCandidate)

	job, err := p.jobs.CreateJob(ctx, empA, validJobInput())
	require.NoError(t, err)
	resume, err := p.resumes.Upload(ctx, cand, pdfUpload(pdfBody))
	require.NoError(t, err)
	app, err := p.apps.Apply(ctx, cand, domain.ApplyInput{JobID: job.ID, ResumeID: resume.ID})
	require.NoError(t, err)

	_, err = p.jobs.UpdateJob(ctx, empB, job.ID, validJobInput())
	assertStatus(t, err, http.StatusNotFound)
	assertStatus(t, p.jobs.DeleteJob(ctx, empB, job.ID), http.StatusNotFound)

	_, err = p.apps.Get(ctx, empB, app.ID)
	assertStatus(t, err, http.StatusForbidden)
	_, err = p.apps.UpdateStatus(ctx, empB, app.ID, "rejected", "")
	assertStatus(t, err, http.StatusForbidden)

	visible, err := p.apps.List(ctx, empB)
	require.NoError(t, err)
	assert.Empty(t, visible)

	visible, err = p.apps.List(ctx, empA)
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}
