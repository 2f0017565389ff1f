package domain

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionReview Action = "review"
	ActionExport Action = "export"
)

type ResourceKind string

const (
	ResourceJob         ResourceKind = "job"
	ResourceResume      ResourceKind = "resume"
	ResourceApplication ResourceKind = "application"
)

// Resource describes what is being accessed. An empty OwnerID asks only the
// role question ("may an employer update jobs at all?"); a filled one also
// checks ownership. OwnerID is the job's employer for jobs and applications
// and the uploader for résumés. ApplicantID is set for applications.
type Resource struct {
	Kind        ResourceKind
	OwnerID     string
	ApplicantID string
}

// CanAccess is the single place where role and ownership rules live. actor
// is nil for anonymous requests.
func CanAccess(actor *User, res Resource, action Action) bool {
	if actor == nil {
		return res.Kind == ResourceJob && (action == ActionRead || action == ActionList)
	}

	switch res.Kind {
	case ResourceJob:
		switch action {
		case ActionRead, ActionList:
			return true
		case ActionCreate:
			return actor.Role == RoleEmployer
		case ActionUpdate, ActionDelete:
			return actor.Role == RoleEmployer && ownedBy(actor, res.OwnerID)
		}

	case ResourceResume:
		if actor.Role != RoleCandidate {
			return false
		}
		switch action {
		case ActionCreate, ActionList:
			return true
		case ActionRead:
			return ownedBy(actor, res.OwnerID)
		}

	case ResourceApplication:
		switch action {
		case ActionCreate:
			return actor.Role == RoleCandidate
		case ActionList:
			return true
		case ActionRead:
			switch actor.Role {
			case RoleCandidate:
				return res.ApplicantID == actor.ID
			case RoleEmployer:
				return res.OwnerID == actor.ID
			default:
				return true
			}
		case ActionReview:
			return actor.Role == RoleEmployer && ownedBy(actor, res.OwnerID)
		case ActionExport:
			return actor.Role == RoleEmployer || actor.Role == RoleAdmin
		}
	}
	return false
}

func ownedBy(actor *User, ownerID string) bool {
	return ownerID == "" || ownerID == actor.ID
}
