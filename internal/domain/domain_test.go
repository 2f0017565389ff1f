package domain_test

import (
	"testing"

	"job-portal-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestEnums(t *testing.T) {
	for _, r := range []string{"candidate", "employer", "admin"} {
		_, err := domain.ParseRole(r)
		assert.NoError(t, err, r)
	}
	_, err := domain.ParseRole("superuser")
	assert.Error(t, err)

	for _, s := range []string{"pending", "reviewed", "accepted", "rejected"} {
		_, err := domain.ParseApplicationStatus(s)
		assert.NoError(t, err, s)
	}
	for _, s := range []string{"", "PENDING", "hired"} {
		_, err := domain.ParseApplicationStatus(s)
		assert.Error(t, err, s)
	}

	assert.True(t, domain.JobTypeInternship.Valid())
	assert.False(t, domain.JobType("freelance").Valid())
}

func TestCanAccess(t *testing.T) {
	candidate := &domain.User{ID: "c1", Role: domain.RoleCandidate}
	employer := &domain.User{ID: "e1", Role: domain.RoleEmployer}
	otherEmployer := &domain.User{ID: "e2", Role: domain.RoleEmployer}
	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}

	job := domain.Resource{Kind: domain.ResourceJob}
	ownedJob := domain.Resource{Kind: domain.ResourceJob, OwnerID: "e1"}
	resume := domain.Resource{Kind: domain.ResourceResume, OwnerID: "c1"}
	app := domain.Resource{Kind: domain.ResourceApplication, OwnerID: "e1", ApplicantID: "c1"}

	tests := []struct {
		name   string
		actor  *domain.User
		res    domain.Resource
		action domain.Action
		want   bool
	}{
		{"anonymous reads jobs", nil, job, domain.ActionRead, true},
		{"anonymous lists jobs", nil, job, domain.ActionList, true},
		{"anonymous cannot create jobs", nil, job, domain.ActionCreate, false},
		{"anonymous cannot list applications", nil, domain.Resource{Kind: domain.ResourceApplication}, domain.ActionList, false},

		{"employer creates job", employer, job, domain.ActionCreate, true},
		{"candidate cannot create job", candidate, job, domain.ActionCreate, false},
		{"admin cannot create job", admin, job, domain.ActionCreate, false},
		{"owner updates job", employer, ownedJob, domain.ActionUpdate, true},
		{"other employer cannot update job", otherEmployer, ownedJob, domain.ActionUpdate, false},
		{"other employer cannot delete job", otherEmployer, ownedJob, domain.ActionDelete, false},
		{"candidate cannot delete job", candidate, job, domain.ActionDelete, false},

		{"candidate uploads resume", candidate, domain.Resource{Kind: domain.ResourceResume}, domain.ActionCreate, true},
		{"employer cannot upload resume", employer, domain.Resource{Kind: domain.ResourceResume}, domain.ActionCreate, false},
		{"owner reads resume", candidate, resume, domain.ActionRead, true},
		{"other candidate cannot read resume", &domain.User{ID: "c2", Role: domain.RoleCandidate}, resume, domain.ActionRead, false},

		{"candidate applies", candidate, domain.Resource{Kind: domain.ResourceApplication}, domain.ActionCreate, true},
		{"employer cannot apply", employer, domain.Resource{Kind: domain.ResourceApplication}, domain.ActionCreate, false},
		{"applicant reads application", candidate, app, domain.ActionRead, true},
		{"other candidate cannot read application", &domain.User{ID: "c2", Role: domain.RoleCandidate}, app, domain.ActionRead, false},
		{"job owner reads application", employer, app, domain.ActionRead, true},
		{"other employer cannot read application", otherEmployer, app, domain.ActionRead, false},
		{"admin reads application", admin, app, domain.ActionRead, true},
		{"job owner reviews", employer, app, domain.ActionReview, true},
		{"other employer cannot review", otherEmployer, app, domain.ActionReview, false},
		{"candidate cannot review", candidate, app, domain.ActionReview, false},
		{"admin cannot review", admin, app, domain.ActionReview, false},
		{"employer exports", employer, domain.Resource{Kind: domain.ResourceApplication}, domain.ActionExport, true},
		{"candidate cannot export", candidate, domain.Resource{Kind: domain.ResourceApplication}, domain.ActionExport, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanAccess(tt.actor, tt.res, tt.action))
		})
	}
}
