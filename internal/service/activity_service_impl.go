package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/planflow/internal/contract"
	"github.com/alexanderramin/planflow/internal/db"
	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/notify"
	"github.com/alexanderramin/planflow/internal/repository"
	"github.com/alexanderramin/planflow/internal/storage"
	"github.com/alexanderramin/planflow/internal/workflow"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type activityService struct {
	repos    *repository.Set
	uow      db.UnitOfWork
	store    storage.Store
	policy   storage.Policy
	notifier notify.Sender
	logger   *slog.Logger
	observer UseCaseObserver
}

// ActivityServiceDeps groups the collaborators of the activity service.
// Store may be nil when attachments are not configured; Policy defaults to
// fail-open.
type ActivityServiceDeps struct {
	Repos    *repository.Set
	UoW      db.UnitOfWork
	Store    storage.Store
	Policy   storage.Policy
	Notifier notify.Sender
	Logger   *slog.Logger
}

func NewActivityService(deps ActivityServiceDeps, observers ...UseCaseObserver) ActivityService {
	policy := deps.Policy
	if policy == "" {
		policy = storage.PolicyFailOpen
	}
	return &activityService{
		repos:    deps.Repos,
		uow:      deps.UoW,
		store:    deps.Store,
		policy:   policy,
		notifier: deps.Notifier,
		logger:   loggerOrDiscard(deps.Logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

// target is the user plan or user plan condition an activity is recorded
// against, together with the plan that owns it.
type target struct {
	kind     domain.ActivityTarget
	plan     *domain.Plan
	userPlan *domain.UserPlan
	cond     *domain.UserPlanCondition
}

func (t *target) id() string {
	if t.kind == domain.TargetCondition {
		return t.cond.ID
	}
	return t.userPlan.ID
}

func (t *target) ownerID() string {
	if t.kind == domain.TargetCondition {
		return t.cond.OwnerID()
	}
	return t.userPlan.OwnerID()
}

func (t *target) progress() domain.Progress {
	if t.kind == domain.TargetCondition {
		return t.cond.Progress()
	}
	return t.userPlan.Progress()
}

func (t *target) status() string {
	if t.kind == domain.TargetCondition {
		return string(t.cond.Status)
	}
	return string(t.userPlan.Status)
}

// advance moves the target to p, persists it and, for user plans,
// re-derives the plan status.
func (t *target) advance(ctx context.Context, r *repository.Set, p domain.Progress, now time.Time) error {
	if t.kind == domain.TargetCondition {
		t.cond.ApplyProgress(p, now)
		return r.UserPlanConditions.UpdateStatus(ctx, t.cond)
	}
	t.userPlan.ApplyProgress(p, now)
	if err := r.UserPlans.UpdateStatus(ctx, t.userPlan); err != nil {
		return err
	}
	return rollUpPlan(ctx, r, t.plan, now)
}

func loadTarget(ctx context.Context, r *repository.Set, actor domain.Actor, kind domain.ActivityTarget, id string) (*target, error) {
	t := &target{kind: kind}
	switch kind {
	case domain.TargetUserPlan:
		up, err := r.UserPlans.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		t.userPlan = up
	case domain.TargetCondition:
		upc, err := r.UserPlanConditions.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		up, err := r.UserPlans.GetByID(ctx, upc.UserPlanID)
		if err != nil {
			return nil, err
		}
		t.cond = upc
		t.userPlan = up
	default:
		return nil, goerr.Wrap(domain.ErrValidation, "unknown activity target", goerr.V("target", kind))
	}

	plan, err := loadPlan(ctx, r, actor, t.userPlan.PlanID)
	if err != nil {
		return nil, err
	}
	t.plan = plan
	return t, nil
}

func checkCreate(actor domain.Actor, t *target, typ domain.ActivityType) error {
	if !workflow.CanCreateActivity(actor, t.ownerID(), t.progress(), typ) {
		return goerr.Wrap(domain.ErrForbidden, "activity not allowed in current state",
			goerr.V("actor_id", actor.ID),
			goerr.V("role", actor.Role),
			goerr.V("type", typ),
			goerr.V("target_id", t.id()),
			goerr.V("status", t.status()))
	}
	return nil
}

func (s *activityService) CreateActivity(ctx context.Context, actor domain.Actor, in contract.ActivityInput) (act *domain.Activity, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"actor_id":  actor.ID,
		"target":    string(in.Target),
		"target_id": in.TargetID,
		"type":      string(in.Type),
	}
	defer func() { observe(ctx, s.observer, "activity.create", startedAt, fields, err) }()

	typ, err := domain.ParseActivityType(string(in.Type))
	if err != nil {
		return nil, err
	}
	if typ == domain.ActivityRevoked {
		return nil, goerr.Wrap(domain.ErrValidation, "REVOKED is applied through an activity update",
			goerr.V("target_id", in.TargetID))
	}
	if in.Attachment != nil && in.Target != domain.TargetCondition {
		return nil, goerr.Wrap(domain.ErrValidation, "attachments are only accepted on condition activities",
			goerr.V("target", in.Target))
	}

	// Checked before the upload so a refused activity never stores a file.
	pre, err := loadTarget(ctx, s.repos, actor, in.Target, in.TargetID)
	if err != nil {
		return nil, err
	}
	if err := checkCreate(actor, pre, typ); err != nil {
		return nil, err
	}

	fileURL, err := s.upload(ctx, in.Attachment)
	if err != nil {
		return nil, err
	}
	fields["has_file"] = fileURL != ""

	next, ok := workflow.Next(actor.Role, typ)
	if !ok {
		return nil, goerr.Wrap(domain.ErrForbidden, "no transition for role",
			goerr.V("role", actor.Role), goerr.V("type", typ))
	}

	var t *target
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txr := repository.NewSet(tx)
		now := time.Now().UTC()

		var err error
		t, err = loadTarget(ctx, txr, actor, in.Target, in.TargetID)
		if err != nil {
			return err
		}
		if err := checkCreate(actor, t, typ); err != nil {
			return err
		}

		act = &domain.Activity{
			ID:        uuid.New().String(),
			Target:    in.Target,
			TargetID:  in.TargetID,
			Type:      typ,
			Comment:   in.Comment,
			FileURL:   fileURL,
			ActorID:   actor.ID,
			CreatedAt: now,
		}
		if err := txr.Activities.Append(ctx, act); err != nil {
			return err
		}
		return t.advance(ctx, txr, next, now)
	})
	if err != nil {
		s.discardFile(ctx, fileURL)
		return nil, err
	}
	fields["status"] = t.status()
	fields["plan_status"] = string(t.plan.Status)

	s.notifyCreated(ctx, actor, t, act)
	return act, nil
}

// upload stores the attachment per the configured policy. Under fail-open a
// failed upload is logged and the activity is recorded without a file.
func (s *activityService) upload(ctx context.Context, a *contract.Attachment) (string, error) {
	if a == nil {
		return "", nil
	}
	var (
		url string
		err error
	)
	if s.store == nil {
		err = goerr.New("attachment storage is not configured")
	} else {
		url, err = s.store.Upload(ctx, a.Name, a.Body)
	}
	if err == nil {
		return url, nil
	}
	if s.policy == storage.PolicyFailClosed {
		return "", goerr.Wrap(err, "attachment upload failed", goerr.V("file", a.Name))
	}
	s.logger.WarnContext(ctx, "attachment upload failed, recording activity without file",
		"file", a.Name, "error", err)
	return "", nil
}

func (s *activityService) discardFile(ctx context.Context, url string) {
	if url == "" || s.store == nil {
		return
	}
	if _, err := s.store.Delete(ctx, url); err != nil {
		s.logger.WarnContext(ctx, "attachment cleanup failed", "file_url", url, "error", err)
	}
}

func (s *activityService) notifyCreated(ctx context.Context, actor domain.Actor, t *target, act *domain.Activity) {
	var n *domain.Notification
	switch {
	case actor.Role.IsMember():
		if t.plan.CreatedBy == "" || t.plan.CreatedBy == actor.ID {
			return
		}
		n = newNotification(actor.TenantID, t.plan.CreatedBy, domain.NotifySubmitted, t.plan.ID,
			fmt.Sprintf("Work submitted on plan %q awaits review", t.plan.Name))
	case act.Type == domain.ActivityAccepted:
		n = newNotification(actor.TenantID, t.ownerID(), domain.NotifyAccepted, t.plan.ID,
			fmt.Sprintf("Your work on plan %q was accepted", t.plan.Name))
	case act.Type == domain.ActivityRejected:
		n = newNotification(actor.TenantID, t.ownerID(), domain.NotifyRejected, t.plan.ID,
			fmt.Sprintf("Your work on plan %q was rejected", t.plan.Name))
	default:
		return
	}
	if n.RecipientID == actor.ID {
		return
	}
	deliver(ctx, s.notifier, s.logger, n)
}

// UpdateActivity revokes an activity by appending a REVOKED entry that
// references it. Only the most recent effective activity on a target can
// be revoked.
func (s *activityService) UpdateActivity(ctx context.Context, actor domain.Actor, in contract.ActivityUpdate) (rev *domain.Activity, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"actor_id":    actor.ID,
		"target":      string(in.Target),
		"activity_id": in.ActivityID,
		"type":        string(in.Type),
	}
	defer func() { observe(ctx, s.observer, "activity.revoke", startedAt, fields, err) }()

	if in.Type != domain.ActivityRevoked {
		return nil, goerr.Wrap(domain.ErrValidation, "only REVOKED may be applied to an existing activity",
			goerr.V("type", in.Type))
	}
	next, ok := workflow.Next(actor.Role, domain.ActivityRevoked)
	if !ok {
		return nil, goerr.Wrap(domain.ErrForbidden, "no transition for role", goerr.V("role", actor.Role))
	}

	var (
		t        *target
		original *domain.Activity
	)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txr := repository.NewSet(tx)
		now := time.Now().UTC()

		a, err := txr.Activities.GetByID(ctx, in.Target, in.ActivityID)
		if err != nil {
			return err
		}
		t, err = loadTarget(ctx, txr, actor, in.Target, a.TargetID)
		if err != nil {
			return err
		}
		if !workflow.CanRevoke(actor, a.ActorID, t.progress()) {
			return goerr.Wrap(domain.ErrForbidden, "revocation not allowed",
				goerr.V("actor_id", actor.ID),
				goerr.V("author_id", a.ActorID),
				goerr.V("status", t.status()))
		}

		log, err := txr.Activities.ListByTarget(ctx, in.Target, a.TargetID)
		if err != nil {
			return err
		}
		latest := domain.LatestEffective(log)
		if latest == nil || latest.ID != a.ID {
			return goerr.Wrap(domain.ErrConflict, "only the latest effective activity can be revoked",
				goerr.V("activity_id", a.ID))
		}
		original = latest

		rev = &domain.Activity{
			ID:        uuid.New().String(),
			Target:    in.Target,
			TargetID:  a.TargetID,
			Type:      domain.ActivityRevoked,
			Comment:   in.Comment,
			RevokesID: a.ID,
			ActorID:   actor.ID,
			CreatedAt: now,
		}
		if err := txr.Activities.Append(ctx, rev); err != nil {
			return err
		}
		return t.advance(ctx, txr, next, now)
	})
	if err != nil {
		return nil, err
	}
	fields["status"] = t.status()
	fields["plan_status"] = string(t.plan.Status)

	if actor.Role.IsMember() {
		if t.kind == domain.TargetCondition && original.FileURL != "" {
			s.deleteRevokedFile(ctx, original.FileURL)
		}
		return rev, nil
	}
	if owner := t.ownerID(); owner != actor.ID {
		deliver(ctx, s.notifier, s.logger, newNotification(actor.TenantID, owner, domain.NotifyRevoked, t.plan.ID,
			fmt.Sprintf("A review on plan %q was revoked", t.plan.Name)))
	}
	return rev, nil
}

func (s *activityService) deleteRevokedFile(ctx context.Context, url string) {
	if s.store == nil {
		return
	}
	ok, err := s.store.Delete(ctx, url)
	if err != nil {
		s.logger.WarnContext(ctx, "revoked attachment delete failed", "file_url", url, "error", err)
		return
	}
	if !ok {
		s.logger.InfoContext(ctx, "revoked attachment already gone", "file_url", url)
	}
}

func (s *activityService) ListActivities(ctx context.Context, actor domain.Actor, kind domain.ActivityTarget, targetID string) ([]*domain.Activity, error) {
	t, err := loadTarget(ctx, s.repos, actor, kind, targetID)
	if err != nil {
		return nil, err
	}
	if err := requireSelfOrManager(actor, t.ownerID()); err != nil {
		return nil, err
	}
	return s.repos.Activities.ListByTarget(ctx, kind, targetID)
}
