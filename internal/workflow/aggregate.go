package workflow

import "github.com/alexanderramin/planflow/internal/domain"

// RollUpPlanStatus derives a plan's status from its assigned user plans:
// COMPLETED when every user plan is completed, IN_PROGRESS otherwise, and
// NO_START when nobody is assigned.
func RollUpPlanStatus(userPlans []*domain.UserPlan) domain.PlanStatus {
	if len(userPlans) == 0 {
		return domain.PlanNoStart
	}
	for _, up := range userPlans {
		if up.Status != domain.UserPlanCompleted {
			return domain.PlanInProgress
		}
	}
	return domain.PlanCompleted
}

// StatusAfterUnassign derives a plan's status once an assignment has been
// removed. With nobody left the plan returns to NO_START and with everyone
// left completed it becomes COMPLETED; any other mix keeps current.
func StatusAfterUnassign(current domain.PlanStatus, remaining []*domain.UserPlan) domain.PlanStatus {
	if len(remaining) == 0 {
		return domain.PlanNoStart
	}
	if RollUpPlanStatus(remaining) == domain.PlanCompleted {
		return domain.PlanCompleted
	}
	return current
}

// StatusCounts tallies targets by phase.
type StatusCounts struct {
	Total     int
	Open      int
	Pending   int
	Completed int
}

func (c *StatusCounts) add(p domain.Progress) {
	c.Total++
	switch p {
	case domain.ProgressPending:
		c.Pending++
	case domain.ProgressCompleted:
		c.Completed++
	default:
		c.Open++
	}
}

// CountUserPlans tallies user plans by phase.
func CountUserPlans(ups []*domain.UserPlan) StatusCounts {
	var c StatusCounts
	for _, up := range ups {
		c.add(up.Progress())
	}
	return c
}

// CountConditions tallies user plan conditions by phase.
func CountConditions(conds []*domain.UserPlanCondition) StatusCounts {
	var c StatusCounts
	for _, upc := range conds {
		c.add(upc.Progress())
	}
	return c
}
