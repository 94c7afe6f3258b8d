// Package contract holds the read models the plan service returns. Every
// counter in here is computed from live rows when the view is built.
package contract

import (
	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/workflow"
)

// Assignee is one user assigned to a plan.
type Assignee struct {
	UserPlanID string
	UserID     string
	Name       string
	Status     domain.UserPlanStatus
}

// GeneralPlan is a plan with its conditions and roster.
type GeneralPlan struct {
	Plan       *domain.Plan
	Conditions []*domain.PlanCondition
	Assignees  []Assignee
}

// ConditionTotals counts one plan condition's user plan conditions by phase.
type ConditionTotals struct {
	Condition *domain.PlanCondition
	Counts    workflow.StatusCounts
}

// UserPlanSummary is one assignment with its conditions tallied.
type UserPlanSummary struct {
	UserPlan   *domain.UserPlan
	Plan       *domain.Plan
	UserName   string
	Conditions workflow.StatusCounts
}

// PlanDetail is the manager's progress view of a plan.
type PlanDetail struct {
	Plan       *domain.Plan
	Conditions []ConditionTotals
	UserPlans  []UserPlanSummary

	TotalUser           int
	TotalUserComplete   int
	TotalUserPending    int
	TotalUserInProgress int
	// EstTimeTotal sums est_time over the plan's conditions.
	EstTimeTotal int
}

// ConditionDetail is one user's progress on one condition with its log.
type ConditionDetail struct {
	Condition         *domain.PlanCondition
	UserPlanCondition *domain.UserPlanCondition
	Activities        []*domain.Activity
}

// UserPlanDetail is one user's progress on a plan, both activity logs included.
type UserPlanDetail struct {
	Plan       *domain.Plan
	User       *domain.User
	UserPlan   *domain.UserPlan
	Activities []*domain.Activity
	Conditions []ConditionDetail
	Counts     workflow.StatusCounts
}
