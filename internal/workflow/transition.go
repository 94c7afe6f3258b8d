// Package workflow holds the approval state machine shared by user plans and
// user plan conditions, the permission guard consulted before every
// transition, and the status roll-up from user plans to their plan.
package workflow

import "github.com/alexanderramin/planflow/internal/domain"

// Next returns the phase a target moves to when an actor with the given
// role records an activity of type t. The second result is false when the
// table has no row for the pair.
//
//	Member       SUBMITTED          -> pending
//	Member       REVOKED            -> open
//	Manager-tier ACCEPTED/SUBMITTED -> completed
//	Manager-tier REJECTED           -> open
//	Manager-tier REVOKED            -> pending
func Next(role domain.Role, t domain.ActivityType) (domain.Progress, bool) {
	if role.IsMember() {
		switch t {
		case domain.ActivitySubmitted:
			return domain.ProgressPending, true
		case domain.ActivityRevoked:
			return domain.ProgressOpen, true
		}
		return 0, false
	}
	switch t {
	case domain.ActivityAccepted, domain.ActivitySubmitted:
		return domain.ProgressCompleted, true
	case domain.ActivityRejected:
		return domain.ProgressOpen, true
	case domain.ActivityRevoked:
		return domain.ProgressPending, true
	}
	return 0, false
}
