package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/planflow/internal/contract"
	"github.com/alexanderramin/planflow/internal/db"
	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/repository"
	"github.com/alexanderramin/planflow/internal/workflow"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type planService struct {
	repos    *repository.Set
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPlanService(repos *repository.Set, uow db.UnitOfWork, observers ...UseCaseObserver) PlanService {
	return &planService{
		repos:    repos,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// validatePlanInput runs every check that must pass before anything is written.
func validatePlanInput(in contract.PlanInput) (*domain.Plan, []*domain.PlanCondition, error) {
	p := &domain.Plan{
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		StartDate:    in.StartDate,
		CompleteDate: in.CompleteDate,
	}
	if err := p.Validate(); err != nil {
		return nil, nil, goerr.Wrap(err, "invalid plan", goerr.V("name", in.Name))
	}

	conds := make([]*domain.PlanCondition, 0, len(in.Conditions))
	for i, c := range in.Conditions {
		conds = append(conds, &domain.PlanCondition{
			Name:       strings.TrimSpace(c.Name),
			Overview:   c.Overview,
			EstTime:    c.EstTime,
			OrderIndex: i,
		})
	}
	if err := domain.ValidateConditions(conds); err != nil {
		return nil, nil, goerr.Wrap(err, "invalid plan conditions", goerr.V("name", in.Name))
	}
	return p, conds, nil
}

func (s *planService) CreatePlan(ctx context.Context, actor domain.Actor, in contract.PlanInput) (plan *domain.Plan, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"actor_id": actor.ID, "name": in.Name}
	defer func() { observe(ctx, s.observer, "plan.create", startedAt, fields, err) }()

	if err := requireManager(actor, "create plans"); err != nil {
		return nil, err
	}
	plan, conds, err := validatePlanInput(in)
	if err != nil {
		return nil, err
	}

	owner, err := loadUser(ctx, s.repos, actor, actor.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "loading plan owner", goerr.V("actor_id", actor.ID))
	}

	now := time.Now().UTC()
	plan.ID = uuid.New().String()
	plan.TenantID = actor.TenantID
	plan.Status = domain.PlanNoStart
	plan.CreatedBy = actor.ID
	plan.CreatedAt = now
	plan.UpdatedAt = now
	plan.AssignOrganisation(owner)
	for _, c := range conds {
		c.ID = uuid.New().String()
		c.PlanID = plan.ID
		c.CreatedAt = now
		c.UpdatedAt = now
	}
	fields["plan_id"] = plan.ID
	fields["condition_count"] = len(conds)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txr := repository.NewSet(tx)
		if err := txr.Plans.Create(ctx, plan); err != nil {
			return err
		}
		for _, c := range conds {
			if err := txr.Conditions.Create(ctx, c); err != nil {
				return goerr.Wrap(err, "creating plan condition", goerr.V("condition", c.Name))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePlan reconciles the stored conditions with the request by name:
// matches are edited in place, new names are created and handed to every
// assigned user, and names no longer present are removed with their
// user plan conditions.
func (s *planService) UpdatePlan(ctx context.Context, actor domain.Actor, id string, in contract.PlanInput) (plan *domain.Plan, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"actor_id": actor.ID, "plan_id": id}
	defer func() { observe(ctx, s.observer, "plan.update", startedAt, fields, err) }()

	if err := requireManager(actor, "update plans"); err != nil {
		return nil, err
	}
	desired, conds, err := validatePlanInput(in)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txr := repository.NewSet(tx)
		now := time.Now().UTC()

		current, err := loadPlan(ctx, txr, actor, id)
		if err != nil {
			return err
		}
		current.Name = desired.Name
		current.Description = desired.Description
		current.StartDate = desired.StartDate
		current.CompleteDate = desired.CompleteDate
		current.UpdatedAt = now
		if err := txr.Plans.Update(ctx, current); err != nil {
			return err
		}

		existing, err := txr.Conditions.ListByPlan(ctx, id)
		if err != nil {
			return err
		}
		byName := make(map[string]*domain.PlanCondition, len(existing))
		for _, c := range existing {
			byName[c.Name] = c
		}
		assigned, err := txr.UserPlans.ListByPlan(ctx, id)
		if err != nil {
			return err
		}

		var added, kept int
		for _, c := range conds {
			if old, ok := byName[c.Name]; ok {
				delete(byName, c.Name)
				old.Overview = c.Overview
				old.EstTime = c.EstTime
				old.OrderIndex = c.OrderIndex
				old.UpdatedAt = now
				if err := txr.Conditions.Update(ctx, old); err != nil {
					return err
				}
				kept++
				continue
			}

			c.ID = uuid.New().String()
			c.PlanID = id
			c.CreatedAt = now
			c.UpdatedAt = now
			if err := txr.Conditions.Create(ctx, c); err != nil {
				return goerr.Wrap(err, "creating plan condition", goerr.V("condition", c.Name))
			}
			for _, up := range assigned {
				upc := newUserPlanCondition(up, c, now)
				if err := txr.UserPlanConditions.Create(ctx, upc); err != nil {
					return err
				}
			}
			added++
		}

		for _, old := range byName {
			if err := txr.Conditions.Delete(ctx, old.ID); err != nil {
				return err
			}
		}

		fields["conditions_kept"] = kept
		fields["conditions_added"] = added
		fields["conditions_removed"] = len(byName)
		plan = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) DeletePlan(ctx context.Context, actor domain.Actor, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"actor_id": actor.ID, "plan_id": id}
	defer func() { observe(ctx, s.observer, "plan.delete", startedAt, fields, err) }()

	if err := requireManager(actor, "delete plans"); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txr := repository.NewSet(tx)
		if _, err := loadPlan(ctx, txr, actor, id); err != nil {
			return err
		}
		if err := txr.Conditions.DeleteByPlan(ctx, id); err != nil {
			return err
		}
		return txr.Plans.Delete(ctx, id)
	})
}

func (s *planService) GetAll(ctx context.Context, actor domain.Actor, filter repository.PlanFilter) ([]*domain.Plan, error) {
	filter.TenantID = actor.TenantID
	return s.repos.Plans.List(ctx, filter)
}

func (s *planService) FindByID(ctx context.Context, actor domain.Actor, id string) (*domain.Plan, error) {
	return loadPlan(ctx, s.repos, actor, id)
}

func (s *planService) GeneralPlan(ctx context.Context, actor domain.Actor, id string) (*contract.GeneralPlan, error) {
	plan, err := loadPlan(ctx, s.repos, actor, id)
	if err != nil {
		return nil, err
	}
	conds, err := s.repos.Conditions.ListByPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	ups, err := s.repos.UserPlans.ListByPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	names, err := s.userNames(ctx, ups)
	if err != nil {
		return nil, err
	}
	assignees := make([]contract.Assignee, 0, len(ups))
	for _, up := range ups {
		assignees = append(assignees, contract.Assignee{
			UserPlanID: up.ID,
			UserID:     up.UserID,
			Name:       names[up.UserID],
			Status:     up.Status,
		})
	}
	return &contract.GeneralPlan{Plan: plan, Conditions: conds, Assignees: assignees}, nil
}

func (s *planService) DetailPlan(ctx context.Context, actor domain.Actor, id string) (*contract.PlanDetail, error) {
	if err := requireManager(actor, "view plan progress"); err != nil {
		return nil, err
	}
	plan, err := loadPlan(ctx, s.repos, actor, id)
	if err != nil {
		return nil, err
	}
	conds, err := s.repos.Conditions.ListByPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	ups, err := s.repos.UserPlans.ListByPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	upcs, err := s.repos.UserPlanConditions.ListByPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	names, err := s.userNames(ctx, ups)
	if err != nil {
		return nil, err
	}

	byCondition := make(map[string][]*domain.UserPlanCondition, len(conds))
	byUserPlan := make(map[string][]*domain.UserPlanCondition, len(ups))
	for _, upc := range upcs {
		byCondition[upc.PlanConditionID] = append(byCondition[upc.PlanConditionID], upc)
		byUserPlan[upc.UserPlanID] = append(byUserPlan[upc.UserPlanID], upc)
	}

	detail := &contract.PlanDetail{Plan: plan}
	for _, c := range conds {
		detail.EstTimeTotal += c.EstTime
		detail.Conditions = append(detail.Conditions, contract.ConditionTotals{
			Condition: c,
			Counts:    workflow.CountConditions(byCondition[c.ID]),
		})
	}
	for _, up := range ups {
		detail.UserPlans = append(detail.UserPlans, contract.UserPlanSummary{
			UserPlan:   up,
			Plan:       plan,
			UserName:   names[up.UserID],
			Conditions: workflow.CountConditions(byUserPlan[up.ID]),
		})
	}

	counts := workflow.CountUserPlans(ups)
	detail.TotalUser = counts.Total
	detail.TotalUserComplete = counts.Completed
	detail.TotalUserPending = counts.Pending
	detail.TotalUserInProgress = counts.Open
	return detail, nil
}

func (s *planService) GetDetailPlanActivityByUser(ctx context.Context, actor domain.Actor, planID, userID string) (*contract.UserPlanDetail, error) {
	if err := requireSelfOrManager(actor, userID); err != nil {
		return nil, err
	}
	plan, err := loadPlan(ctx, s.repos, actor, planID)
	if err != nil {
		return nil, err
	}
	user, err := loadUser(ctx, s.repos, actor, userID)
	if err != nil {
		return nil, err
	}
	up, err := s.repos.UserPlans.GetByPlanAndUser(ctx, planID, userID)
	if err != nil {
		return nil, err
	}
	acts, err := s.repos.Activities.ListByTarget(ctx, domain.TargetUserPlan, up.ID)
	if err != nil {
		return nil, err
	}
	conds, err := s.repos.Conditions.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	condByID := make(map[string]*domain.PlanCondition, len(conds))
	for _, c := range conds {
		condByID[c.ID] = c
	}
	upcs, err := s.repos.UserPlanConditions.ListByUserPlan(ctx, up.ID)
	if err != nil {
		return nil, err
	}

	detail := &contract.UserPlanDetail{
		Plan:       plan,
		User:       user,
		UserPlan:   up,
		Activities: acts,
		Counts:     workflow.CountConditions(upcs),
	}
	for _, upc := range upcs {
		condActs, err := s.repos.Activities.ListByTarget(ctx, domain.TargetCondition, upc.ID)
		if err != nil {
			return nil, err
		}
		detail.Conditions = append(detail.Conditions, contract.ConditionDetail{
			Condition:         condByID[upc.PlanConditionID],
			UserPlanCondition: upc,
			Activities:        condActs,
		})
	}
	return detail, nil
}

func (s *planService) ListUserPlans(ctx context.Context, actor domain.Actor, userID string) ([]contract.UserPlanSummary, error) {
	if err := requireSelfOrManager(actor, userID); err != nil {
		return nil, err
	}
	user, err := loadUser(ctx, s.repos, actor, userID)
	if err != nil {
		return nil, err
	}
	ups, err := s.repos.UserPlans.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]contract.UserPlanSummary, 0, len(ups))
	for _, up := range ups {
		plan, err := s.repos.Plans.GetByID(ctx, up.PlanID)
		if err != nil {
			return nil, err
		}
		upcs, err := s.repos.UserPlanConditions.ListByUserPlan(ctx, up.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, contract.UserPlanSummary{
			UserPlan:   up,
			Plan:       plan,
			UserName:   user.Name,
			Conditions: workflow.CountConditions(upcs),
		})
	}
	return out, nil
}

// userNames maps user ids to display names. A user deleted behind the
// assignment's back shows with an empty name.
func (s *planService) userNames(ctx context.Context, ups []*domain.UserPlan) (map[string]string, error) {
	names := make(map[string]string, len(ups))
	for _, up := range ups {
		if _, ok := names[up.UserID]; ok {
			continue
		}
		u, err := s.repos.Users.GetByID(ctx, up.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				names[up.UserID] = ""
				continue
			}
			return nil, err
		}
		names[up.UserID] = u.Name
	}
	return names, nil
}

func newUserPlanCondition(up *domain.UserPlan, c *domain.PlanCondition, now time.Time) *domain.UserPlanCondition {
	return &domain.UserPlanCondition{
		ID:              uuid.New().String(),
		UserPlanID:      up.ID,
		PlanConditionID: c.ID,
		UserID:          up.UserID,
		Status:          domain.ConditionInComplete,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
