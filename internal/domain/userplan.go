package domain

import "time"

// UserPlan is one user's assignment to a plan.
type UserPlan struct {
	ID        string
	PlanID    string
	UserID    string
	Status    UserPlanStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserPlanCondition is one user's progress on one plan condition.
type UserPlanCondition struct {
	ID              string
	UserPlanID      string
	PlanConditionID string
	UserID          string
	Status          ConditionStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (up *UserPlan) OwnerID() string              { return up.UserID }
func (up *UserPlan) Progress() Progress           { return up.Status.Progress() }
func (upc *UserPlanCondition) OwnerID() string    { return upc.UserID }
func (upc *UserPlanCondition) Progress() Progress { return upc.Status.Progress() }

// ApplyProgress moves the user plan to phase p.
func (up *UserPlan) ApplyProgress(p Progress, now time.Time) {
	up.Status = UserPlanStatusFor(p)
	up.UpdatedAt = now
}

// ApplyProgress moves the condition to phase p.
func (upc *UserPlanCondition) ApplyProgress(p Progress, now time.Time) {
	upc.Status = ConditionStatusFor(p)
	upc.UpdatedAt = now
}

// Untouched reports whether no work has been recorded against the
// assignment: the user plan is still open and every condition incomplete.
func Untouched(up *UserPlan, conds []*UserPlanCondition) bool {
	if up.Status != UserPlanInProgress {
		return false
	}
	for _, c := range conds {
		if c.Status != ConditionInComplete {
			return false
		}
	}
	return true
}
