package service

import (
	"context"

	"github.com/alexanderramin/planflow/internal/contract"
	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/repository"
)

type PlanService interface {
	CreatePlan(ctx context.Context, actor domain.Actor, in contract.PlanInput) (*domain.Plan, error)
	UpdatePlan(ctx context.Context, actor domain.Actor, id string, in contract.PlanInput) (*domain.Plan, error)
	DeletePlan(ctx context.Context, actor domain.Actor, id string) error

	GetAll(ctx context.Context, actor domain.Actor, filter repository.PlanFilter) ([]*domain.Plan, error)
	FindByID(ctx context.Context, actor domain.Actor, id string) (*domain.Plan, error)
	GeneralPlan(ctx context.Context, actor domain.Actor, id string) (*contract.GeneralPlan, error)
	DetailPlan(ctx context.Context, actor domain.Actor, id string) (*contract.PlanDetail, error)
	GetDetailPlanActivityByUser(ctx context.Context, actor domain.Actor, planID, userID string) (*contract.UserPlanDetail, error)
	ListUserPlans(ctx context.Context, actor domain.Actor, userID string) ([]contract.UserPlanSummary, error)
}

type AssignmentService interface {
	Assign(ctx context.Context, actor domain.Actor, planID, userID string) (*domain.UserPlan, error)
	Unassign(ctx context.Context, actor domain.Actor, planID, userID string) error
}

type ActivityService interface {
	CreateActivity(ctx context.Context, actor domain.Actor, in contract.ActivityInput) (*domain.Activity, error)
	// UpdateActivity applies a REVOKED transition to an existing activity.
	UpdateActivity(ctx context.Context, actor domain.Actor, in contract.ActivityUpdate) (*domain.Activity, error)
	ListActivities(ctx context.Context, actor domain.Actor, target domain.ActivityTarget, targetID string) ([]*domain.Activity, error)
}

type UserService interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, tenantID string) ([]*domain.User, error)
	// Actor resolves the identity claims a workflow call runs with.
	Actor(ctx context.Context, id string) (domain.Actor, error)
}

type NotificationService interface {
	List(ctx context.Context, actor domain.Actor, unreadOnly bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, actor domain.Actor, id string) error
}

type ImportService interface {
	// ImportPlan creates a plan from a JSON or YAML plan file.
	ImportPlan(ctx context.Context, actor domain.Actor, path string) (*domain.Plan, error)
	// ReimportPlan updates an existing plan from a plan file.
	ReimportPlan(ctx context.Context, actor domain.Actor, planID, path string) (*domain.Plan, error)
}
