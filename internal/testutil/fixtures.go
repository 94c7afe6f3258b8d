package testutil

import (
	"time"

	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/google/uuid"
)

// DefaultTenant is the tenant fixtures belong to unless overridden.
const DefaultTenant = "tenant-test"

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithTenant(id string) UserOption {
	return func(u *domain.User) {
		u.TenantID = id
	}
}

func WithOrganisation(department, division, group string) UserOption {
	return func(u *domain.User) {
		u.DepartmentID = department
		u.DivisionID = division
		u.GroupID = group
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	now := time.Now().UTC()
	u := &domain.User{
		ID:           uuid.New().String(),
		TenantID:     DefaultTenant,
		Name:         name,
		Email:        name + "@example.com",
		Role:         domain.RoleMember,
		DepartmentID: "dept-1",
		DivisionID:   "div-1",
		GroupID:      "grp-1",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Plan options
type PlanOption func(*domain.Plan)

func WithPlanStatus(s domain.PlanStatus) PlanOption {
	return func(p *domain.Plan) {
		p.Status = s
	}
}

func WithPlanTenant(id string) PlanOption {
	return func(p *domain.Plan) {
		p.TenantID = id
	}
}

func WithDates(start, complete time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.StartDate = start
		p.CompleteDate = complete
	}
}

func WithDepartment(id string) PlanOption {
	return func(p *domain.Plan) {
		p.DepartmentID = id
	}
}

func WithCreatedBy(userID string) PlanOption {
	return func(p *domain.Plan) {
		p.CreatedBy = userID
	}
}

func NewTestPlan(name string, opts ...PlanOption) *domain.Plan {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	p := &domain.Plan{
		ID:           uuid.New().String(),
		TenantID:     DefaultTenant,
		Name:         name,
		StartDate:    today,
		CompleteDate: today.AddDate(0, 1, 0),
		DepartmentID: "dept-1",
		DivisionID:   "div-1",
		GroupID:      "grp-1",
		Status:       domain.PlanNoStart,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Condition options
type ConditionOption func(*domain.PlanCondition)

func WithEstTime(minutes int) ConditionOption {
	return func(c *domain.PlanCondition) {
		c.EstTime = minutes
	}
}

func WithOrderIndex(i int) ConditionOption {
	return func(c *domain.PlanCondition) {
		c.OrderIndex = i
	}
}

func WithOverview(s string) ConditionOption {
	return func(c *domain.PlanCondition) {
		c.Overview = s
	}
}

func NewTestCondition(planID, name string, opts ...ConditionOption) *domain.PlanCondition {
	now := time.Now().UTC()
	c := &domain.PlanCondition{
		ID:        uuid.New().String(),
		PlanID:    planID,
		Name:      name,
		EstTime:   30,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewTestUserPlan(planID, userID string) *domain.UserPlan {
	now := time.Now().UTC()
	return &domain.UserPlan{
		ID:        uuid.New().String(),
		PlanID:    planID,
		UserID:    userID,
		Status:    domain.UserPlanInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestUserPlanCondition(userPlanID, conditionID, userID string) *domain.UserPlanCondition {
	now := time.Now().UTC()
	return &domain.UserPlanCondition{
		ID:              uuid.New().String(),
		UserPlanID:      userPlanID,
		PlanConditionID: conditionID,
		UserID:          userID,
		Status:          domain.ConditionInComplete,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Activity options
type ActivityOption func(*domain.Activity)

func WithComment(s string) ActivityOption {
	return func(a *domain.Activity) {
		a.Comment = s
	}
}

func WithFileURL(u string) ActivityOption {
	return func(a *domain.Activity) {
		a.FileURL = u
	}
}

func WithRevokes(id string) ActivityOption {
	return func(a *domain.Activity) {
		a.RevokesID = id
	}
}

func NewTestActivity(target domain.ActivityTarget, targetID, actorID string, typ domain.ActivityType, opts ...ActivityOption) *domain.Activity {
	a := &domain.Activity{
		ID:        uuid.New().String(),
		Target:    target,
		TargetID:  targetID,
		Type:      typ,
		ActorID:   actorID,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func NewTestNotification(recipientID string, kind domain.NotificationKind) *domain.Notification {
	return &domain.Notification{
		ID:          uuid.New().String(),
		TenantID:    DefaultTenant,
		RecipientID: recipientID,
		Kind:        kind,
		Message:     string(kind),
		CreatedAt:   time.Now().UTC(),
	}
}
