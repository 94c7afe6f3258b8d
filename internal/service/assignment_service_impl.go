package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/planflow/internal/db"
	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/notify"
	"github.com/alexanderramin/planflow/internal/repository"
	"github.com/alexanderramin/planflow/internal/workflow"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type assignmentService struct {
	repos    *repository.Set
	uow      db.UnitOfWork
	notifier notify.Sender
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewAssignmentService(repos *repository.Set, uow db.UnitOfWork, notifier notify.Sender, logger *slog.Logger, observers ...UseCaseObserver) AssignmentService {
	return &assignmentService{
		repos:    repos,
		uow:      uow,
		notifier: notifier,
		logger:   loggerOrDiscard(logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

// Assign gives userID a user plan with one open condition per plan
// condition and marks the plan IN_PROGRESS. Assigning an existing pair
// returns the current user plan without writing anything.
func (s *assignmentService) Assign(ctx context.Context, actor domain.Actor, planID, userID string) (up *domain.UserPlan, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"actor_id": actor.ID, "plan_id": planID, "user_id": userID}
	defer func() { observe(ctx, s.observer, "assignment.assign", startedAt, fields, err) }()

	if err := requireManager(actor, "assign plans"); err != nil {
		return nil, err
	}

	var (
		plan    *domain.Plan
		created bool
	)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txr := repository.NewSet(tx)
		now := time.Now().UTC()

		p, err := loadPlan(ctx, txr, actor, planID)
		if err != nil {
			return err
		}
		if _, err := loadUser(ctx, txr, actor, userID); err != nil {
			return err
		}
		plan = p

		existing, err := txr.UserPlans.GetByPlanAndUser(ctx, planID, userID)
		if err == nil {
			up = existing
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		conds, err := txr.Conditions.ListByPlan(ctx, planID)
		if err != nil {
			return err
		}
		up = &domain.UserPlan{
			ID:        uuid.New().String(),
			PlanID:    planID,
			UserID:    userID,
			Status:    domain.UserPlanInProgress,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := txr.UserPlans.Create(ctx, up); err != nil {
			return err
		}
		for _, c := range conds {
			if err := txr.UserPlanConditions.Create(ctx, newUserPlanCondition(up, c, now)); err != nil {
				return goerr.Wrap(err, "creating user plan condition", goerr.V("condition_id", c.ID))
			}
		}
		if p.Status != domain.PlanInProgress {
			if err := txr.Plans.UpdateStatus(ctx, planID, domain.PlanInProgress, now); err != nil {
				return err
			}
			p.Status = domain.PlanInProgress
			p.UpdatedAt = now
		}
		created = true
		return nil
	})
	if err != nil {
		// A concurrent assign of the same pair won the race.
		if db.IsUniqueViolation(err) {
			fields["raced"] = true
			return s.repos.UserPlans.GetByPlanAndUser(ctx, planID, userID)
		}
		return nil, err
	}
	fields["created"] = created
	if !created {
		return up, nil
	}

	deliver(ctx, s.notifier, s.logger, newNotification(actor.TenantID, userID, domain.NotifyAssigned, planID,
		fmt.Sprintf("You have been assigned to plan %q", plan.Name)))
	return up, nil
}

// Unassign removes userID's user plan. It is refused once any work has been
// submitted on the user plan or its conditions.
func (s *assignmentService) Unassign(ctx context.Context, actor domain.Actor, planID, userID string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"actor_id": actor.ID, "plan_id": planID, "user_id": userID}
	defer func() { observe(ctx, s.observer, "assignment.unassign", startedAt, fields, err) }()

	if err := requireManager(actor, "unassign plans"); err != nil {
		return err
	}

	var plan *domain.Plan
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txr := repository.NewSet(tx)
		now := time.Now().UTC()

		p, err := loadPlan(ctx, txr, actor, planID)
		if err != nil {
			return err
		}
		plan = p

		up, err := txr.UserPlans.GetByPlanAndUser(ctx, planID, userID)
		if err != nil {
			return err
		}
		conds, err := txr.UserPlanConditions.ListByUserPlan(ctx, up.ID)
		if err != nil {
			return err
		}
		if !workflow.CanUnassign(up, conds) {
			return goerr.Wrap(domain.ErrForbidden, "assignment already has submitted work",
				goerr.V("user_plan_id", up.ID), goerr.V("status", up.Status))
		}

		if err := txr.UserPlanConditions.DeleteByUserPlan(ctx, up.ID); err != nil {
			return err
		}
		if err := txr.UserPlans.Delete(ctx, up.ID); err != nil {
			return err
		}

		remaining, err := txr.UserPlans.ListByPlan(ctx, planID)
		if err != nil {
			return err
		}
		status := workflow.StatusAfterUnassign(p.Status, remaining)
		fields["plan_status"] = string(status)
		if status == p.Status {
			return nil
		}
		if err := txr.Plans.UpdateStatus(ctx, planID, status, now); err != nil {
			return err
		}
		p.Status = status
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return err
	}

	deliver(ctx, s.notifier, s.logger, newNotification(actor.TenantID, userID, domain.NotifyUnassigned, planID,
		fmt.Sprintf("You have been removed from plan %q", plan.Name)))
	return nil
}
