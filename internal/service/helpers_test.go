package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/planflow/internal/contract"
	"github.com/alexanderramin/planflow/internal/db"
	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/repository"
	"github.com/alexanderramin/planflow/internal/storage"
	"github.com/alexanderramin/planflow/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv wires every service over one in-memory database.
type testEnv struct {
	db       *db.DB
	repos    *repository.Set
	uow      db.UnitOfWork
	store    *testutil.MemoryStore
	notifier *testutil.RecordingNotifier
	observer *recordingObserver

	plans    PlanService
	assign   AssignmentService
	acts     ActivityService
	notes    NotificationService
	users    UserService
	importer ImportService

	manager *domain.User
	member  *domain.User
	member2 *domain.User
}

type envOption func(*envConfig)

type envConfig struct {
	uow     func(*db.DB) db.UnitOfWork
	policy  storage.Policy
	noStore bool
}

func withUoW(fn func(*db.DB) db.UnitOfWork) envOption {
	return func(c *envConfig) { c.uow = fn }
}

func withPolicy(p storage.Policy) envOption {
	return func(c *envConfig) { c.policy = p }
}

func withoutStore() envOption {
	return func(c *envConfig) { c.noStore = true }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	cfg := envConfig{uow: testutil.NewTestUoW, policy: storage.PolicyFailOpen}
	for _, opt := range opts {
		opt(&cfg)
	}

	database := testutil.NewTestDB(t)
	repos := repository.NewSet(database.Conn())
	env := &testEnv{
		db:       database,
		repos:    repos,
		uow:      cfg.uow(database),
		store:    testutil.NewMemoryStore(),
		notifier: &testutil.RecordingNotifier{},
		observer: &recordingObserver{},
	}

	var store storage.Store = env.store
	if cfg.noStore {
		store = nil
	}
	env.plans = NewPlanService(repos, env.uow, env.observer)
	env.assign = NewAssignmentService(repos, env.uow, env.notifier, nil, env.observer)
	env.acts = NewActivityService(ActivityServiceDeps{
		Repos:    repos,
		UoW:      env.uow,
		Store:    store,
		Policy:   cfg.policy,
		Notifier: env.notifier,
	}, env.observer)
	env.notes = NewNotificationService(repos.Notifications)
	env.users = NewUserService(repos.Users)
	env.importer = NewImportService(env.plans)

	ctx := context.Background()
	env.manager = testutil.NewTestUser("manager", testutil.WithRole(domain.RoleManager),
		testutil.WithOrganisation("dept-m", "div-m", "grp-m"))
	env.member = testutil.NewTestUser("member")
	env.member2 = testutil.NewTestUser("member2")
	for _, u := range []*domain.User{env.manager, env.member, env.member2} {
		require.NoError(t, repos.Users.Create(ctx, u))
	}
	return env
}

func (e *testEnv) mgr() domain.Actor { return e.manager.Actor() }
func (e *testEnv) mem() domain.Actor { return e.member.Actor() }

func planInput(name string, conds ...contract.ConditionInput) contract.PlanInput {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return contract.PlanInput{
		Name:         name,
		Description:  name + " description",
		StartDate:    start,
		CompleteDate: start.AddDate(0, 1, 0),
		Conditions:   conds,
	}
}

func cond(name string, est int) contract.ConditionInput {
	return contract.ConditionInput{Name: name, Overview: name + " overview", EstTime: est}
}

// createPlan creates a plan with the given conditions as the env's manager.
func (e *testEnv) createPlan(t *testing.T, name string, conds ...contract.ConditionInput) *domain.Plan {
	t.Helper()
	plan, err := e.plans.CreatePlan(context.Background(), e.mgr(), planInput(name, conds...))
	require.NoError(t, err)
	return plan
}

// assignUser assigns u and returns its user plan and conditions in plan order.
func (e *testEnv) assignUser(t *testing.T, planID string, u *domain.User) (*domain.UserPlan, []*domain.UserPlanCondition) {
	t.Helper()
	ctx := context.Background()
	up, err := e.assign.Assign(ctx, e.mgr(), planID, u.ID)
	require.NoError(t, err)
	upcs, err := e.repos.UserPlanConditions.ListByUserPlan(ctx, up.ID)
	require.NoError(t, err)
	return up, upcs
}

func (e *testEnv) record(t *testing.T, actor domain.Actor, target domain.ActivityTarget, targetID string, typ domain.ActivityType) *domain.Activity {
	t.Helper()
	act, err := e.acts.CreateActivity(context.Background(), actor, contract.ActivityInput{
		Target:   target,
		TargetID: targetID,
		Type:     typ,
		Comment:  string(typ),
	})
	require.NoError(t, err)
	return act
}

func (e *testEnv) planStatus(t *testing.T, id string) domain.PlanStatus {
	t.Helper()
	p, err := e.repos.Plans.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Status
}

func (e *testEnv) userPlan(t *testing.T, id string) *domain.UserPlan {
	t.Helper()
	up, err := e.repos.UserPlans.GetByID(context.Background(), id)
	require.NoError(t, err)
	return up
}

func (e *testEnv) condition(t *testing.T, id string) *domain.UserPlanCondition {
	t.Helper()
	upc, err := e.repos.UserPlanConditions.GetByID(context.Background(), id)
	require.NoError(t, err)
	return upc
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) last(name string) (UseCaseEvent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.events) - 1; i >= 0; i-- {
		if o.events[i].Name == name {
			return o.events[i], true
		}
	}
	return UseCaseEvent{}, false
}
