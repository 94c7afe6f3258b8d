package domain

import "fmt"

// Role is the organisational role of a user. Every role other than MEMBER
// is manager-tier and carries review authority over members' work.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleLeader  Role = "LEADER"
	RoleMember  Role = "MEMBER"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[Role]bool{
	RoleAdmin: true, RoleManager: true, RoleLeader: true, RoleMember: true,
}

// IsMember reports whether r is the task-owner role.
func (r Role) IsMember() bool {
	return r == RoleMember
}

// ParseRole validates s as a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !ValidRoles[r] {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
	return r, nil
}

type PlanStatus string

const (
	PlanNoStart    PlanStatus = "NO_START"
	PlanInProgress PlanStatus = "IN_PROGRESS"
	PlanCompleted  PlanStatus = "COMPLETED"
)

type UserPlanStatus string

const (
	UserPlanInProgress      UserPlanStatus = "IN_PROGRESS"
	UserPlanPendingApproval UserPlanStatus = "PENDING_APPROVAL"
	UserPlanCompleted       UserPlanStatus = "COMPLETED"
)

type ConditionStatus string

const (
	ConditionInComplete      ConditionStatus = "IN_COMPLETE"
	ConditionPendingApproval ConditionStatus = "PENDING_APPROVAL"
	ConditionCompleted       ConditionStatus = "COMPLETED"
)

type ActivityType string

const (
	ActivityAccepted  ActivityType = "ACCEPTED"
	ActivitySubmitted ActivityType = "SUBMITTED"
	ActivityRejected  ActivityType = "REJECTED"
	ActivityRevoked   ActivityType = "REVOKED"
)

// ParseActivityType validates s as an ActivityType.
func ParseActivityType(s string) (ActivityType, error) {
	switch t := ActivityType(s); t {
	case ActivityAccepted, ActivitySubmitted, ActivityRejected, ActivityRevoked:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown activity type %q", ErrValidation, s)
	}
}

// ActivityTarget selects which of the two activity logs an activity belongs to.
type ActivityTarget string

const (
	TargetUserPlan  ActivityTarget = "user_plan"
	TargetCondition ActivityTarget = "condition"
)

// Progress is the three-phase lifecycle shared by user plans and user plan
// conditions. Open is IN_PROGRESS for a user plan and IN_COMPLETE for a condition.
type Progress int

const (
	ProgressOpen Progress = iota
	ProgressPending
	ProgressCompleted
)

func (p Progress) String() string {
	switch p {
	case ProgressOpen:
		return "open"
	case ProgressPending:
		return "pending"
	case ProgressCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

func (s UserPlanStatus) Progress() Progress {
	switch s {
	case UserPlanPendingApproval:
		return ProgressPending
	case UserPlanCompleted:
		return ProgressCompleted
	default:
		return ProgressOpen
	}
}

// UserPlanStatusFor maps a progress phase to its user plan status.
func UserPlanStatusFor(p Progress) UserPlanStatus {
	switch p {
	case ProgressPending:
		return UserPlanPendingApproval
	case ProgressCompleted:
		return UserPlanCompleted
	default:
		return UserPlanInProgress
	}
}

func (s ConditionStatus) Progress() Progress {
	switch s {
	case ConditionPendingApproval:
		return ProgressPending
	case ConditionCompleted:
		return ProgressCompleted
	default:
		return ProgressOpen
	}
}

// ConditionStatusFor maps a progress phase to its condition status.
func ConditionStatusFor(p Progress) ConditionStatus {
	switch p {
	case ProgressPending:
		return ConditionPendingApproval
	case ProgressCompleted:
		return ConditionCompleted
	default:
		return ConditionInComplete
	}
}

type NotificationKind string

const (
	NotifyAssigned   NotificationKind = "ASSIGNED"
	NotifyUnassigned NotificationKind = "UNASSIGNED"
	NotifySubmitted  NotificationKind = "SUBMITTED"
	NotifyAccepted   NotificationKind = "ACCEPTED"
	NotifyRejected   NotificationKind = "REJECTED"
	NotifyRevoked    NotificationKind = "REVOKED"
)
