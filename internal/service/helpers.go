package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/notify"
	"github.com/alexanderramin/planflow/internal/repository"
	"github.com/alexanderramin/planflow/internal/workflow"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

func requireManager(actor domain.Actor, action string) error {
	if !workflow.CanManagePlans(actor) {
		return goerr.Wrap(domain.ErrForbidden, "only manager-tier roles may "+action,
			goerr.V("actor_id", actor.ID), goerr.V("role", actor.Role))
	}
	return nil
}

// requireSelfOrManager lets members read only their own progress.
func requireSelfOrManager(actor domain.Actor, userID string) error {
	if actor.Role.IsMember() && actor.ID != userID {
		return goerr.Wrap(domain.ErrForbidden, "members may only view their own plans",
			goerr.V("actor_id", actor.ID), goerr.V("user_id", userID))
	}
	return nil
}

// loadPlan fetches a plan and hides plans of other tenants behind NotFound.
func loadPlan(ctx context.Context, r *repository.Set, actor domain.Actor, id string) (*domain.Plan, error) {
	p, err := r.Plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.TenantID != actor.TenantID {
		return nil, goerr.Wrap(repository.ErrNotFound, "plan not found", goerr.V("plan_id", id))
	}
	return p, nil
}

func loadUser(ctx context.Context, r *repository.Set, actor domain.Actor, id string) (*domain.User, error) {
	u, err := r.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.TenantID != actor.TenantID {
		return nil, goerr.Wrap(repository.ErrNotFound, "user not found", goerr.V("user_id", id))
	}
	return u, nil
}

// rollUpPlan re-derives the plan's status from all of its user plans and
// persists it when it changed.
func rollUpPlan(ctx context.Context, r *repository.Set, plan *domain.Plan, now time.Time) error {
	ups, err := r.UserPlans.ListByPlan(ctx, plan.ID)
	if err != nil {
		return err
	}
	status := workflow.RollUpPlanStatus(ups)
	if status == plan.Status {
		return nil
	}
	if err := r.Plans.UpdateStatus(ctx, plan.ID, status, now); err != nil {
		return err
	}
	plan.Status = status
	plan.UpdatedAt = now
	return nil
}

func newNotification(tenantID, recipientID string, kind domain.NotificationKind, planID, message string) *domain.Notification {
	return &domain.Notification{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		RecipientID: recipientID,
		Kind:        kind,
		PlanID:      planID,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}
}

// deliver sends notifications after a commit. Failures are logged and dropped.
func deliver(ctx context.Context, sender notify.Sender, logger *slog.Logger, notes ...*domain.Notification) {
	if sender == nil {
		return
	}
	for _, n := range notes {
		if n == nil || n.RecipientID == "" {
			continue
		}
		if err := sender.Send(ctx, n); err != nil {
			logger.WarnContext(ctx, "notification delivery failed",
				"notification_id", n.ID,
				"recipient_id", n.RecipientID,
				"kind", n.Kind,
				"plan_id", n.PlanID,
				"error", err)
		}
	}
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}
