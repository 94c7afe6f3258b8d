package workflow

import "github.com/alexanderramin/planflow/internal/domain"

// CanManagePlans reports whether actor may create, edit, delete and assign plans.
func CanManagePlans(actor domain.Actor) bool {
	return actor.Role != "" && !actor.Role.IsMember()
}

// CanCreateActivity decides whether actor may append an activity of type t
// to a target owned by ownerID whose current phase is current.
// REVOKED is never accepted here; revocation goes through CanRevoke.
func CanCreateActivity(actor domain.Actor, ownerID string, current domain.Progress, t domain.ActivityType) bool {
	if t == domain.ActivityRevoked {
		return false
	}
	if actor.Role.IsMember() {
		return t == domain.ActivitySubmitted &&
			actor.ID == ownerID &&
			current == domain.ProgressOpen
	}
	if !CanManagePlans(actor) {
		return false
	}
	switch t {
	case domain.ActivityAccepted, domain.ActivityRejected:
		return current == domain.ProgressPending
	case domain.ActivitySubmitted:
		return current != domain.ProgressCompleted
	}
	return false
}

// CanRevoke decides whether actor may revoke an activity written by authorID
// on a target whose current phase is current. Members may only withdraw
// their own activity while it awaits approval; manager-tier roles may
// revoke anything.
func CanRevoke(actor domain.Actor, authorID string, current domain.Progress) bool {
	if actor.Role.IsMember() {
		return actor.ID == authorID && current == domain.ProgressPending
	}
	return CanManagePlans(actor)
}

// CanUnassign reports whether an assignment may be removed: nothing has
// been submitted on the user plan or any of its conditions.
func CanUnassign(up *domain.UserPlan, conds []*domain.UserPlanCondition) bool {
	return domain.Untouched(up, conds)
}
