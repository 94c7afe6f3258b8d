package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/planflow/internal/domain"
)

// ErrNotFound is returned (wrapped) when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// PlanFilter narrows plan listings. Empty fields do not filter.
type PlanFilter struct {
	TenantID     string
	Status       domain.PlanStatus
	DepartmentID string
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context, filter PlanFilter) ([]*domain.Plan, error)
	Update(ctx context.Context, p *domain.Plan) error
	UpdateStatus(ctx context.Context, id string, status domain.PlanStatus, now time.Time) error
	Delete(ctx context.Context, id string) error
}

type PlanConditionRepo interface {
	Create(ctx context.Context, c *domain.PlanCondition) error
	ListByPlan(ctx context.Context, planID string) ([]*domain.PlanCondition, error)
	Update(ctx context.Context, c *domain.PlanCondition) error
	Delete(ctx context.Context, id string) error
	DeleteByPlan(ctx context.Context, planID string) error
}

type UserPlanRepo interface {
	Create(ctx context.Context, up *domain.UserPlan) error
	GetByID(ctx context.Context, id string) (*domain.UserPlan, error)
	GetByPlanAndUser(ctx context.Context, planID, userID string) (*domain.UserPlan, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.UserPlan, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.UserPlan, error)
	UpdateStatus(ctx context.Context, up *domain.UserPlan) error
	Delete(ctx context.Context, id string) error
}

type UserPlanConditionRepo interface {
	Create(ctx context.Context, upc *domain.UserPlanCondition) error
	GetByID(ctx context.Context, id string) (*domain.UserPlanCondition, error)
	ListByUserPlan(ctx context.Context, userPlanID string) ([]*domain.UserPlanCondition, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.UserPlanCondition, error)
	UpdateStatus(ctx context.Context, upc *domain.UserPlanCondition) error
	DeleteByUserPlan(ctx context.Context, userPlanID string) error
}

// ActivityRepo stores both activity logs. The target on each call selects
// the user plan log or the condition log.
type ActivityRepo interface {
	Append(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, target domain.ActivityTarget, id string) (*domain.Activity, error)
	ListByTarget(ctx context.Context, target domain.ActivityTarget, targetID string) ([]*domain.Activity, error)
}

type NotificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
}
