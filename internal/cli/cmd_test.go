package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/notify"
	"github.com/alexanderramin/planflow/internal/repository"
	"github.com/alexanderramin/planflow/internal/service"
	"github.com/alexanderramin/planflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	app     *App
	repos   *repository.Set
	store   *testutil.MemoryStore
	manager *domain.User
	member  *domain.User
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *testFixture {
	t.Helper()
	t.Setenv(ActorEnv, "")
	database := testutil.NewTestDB(t)
	repos := repository.NewSet(database.Conn())
	uow := testutil.NewTestUoW(database)
	store := testutil.NewMemoryStore()
	sender := notify.NewStoreSender(repos.Notifications)

	plans := service.NewPlanService(repos, uow)
	app := &App{
		Users:       service.NewUserService(repos.Users),
		Plans:       plans,
		Assignments: service.NewAssignmentService(repos, uow, sender, nil),
		Activities: service.NewActivityService(service.ActivityServiceDeps{
			Repos: repos, UoW: uow, Store: store, Notifier: sender,
		}),
		Notifications: service.NewNotificationService(repos.Notifications),
		Import:        service.NewImportService(plans),
	}

	ctx := context.Background()
	manager := testutil.NewTestUser("manager", testutil.WithRole(domain.RoleManager))
	member := testutil.NewTestUser("member")
	require.NoError(t, repos.Users.Create(ctx, manager))
	require.NoError(t, repos.Users.Create(ctx, member))

	return &testFixture{app: app, repos: repos, store: store, manager: manager, member: member}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func (f *testFixture) onlyPlan(t *testing.T) *domain.Plan {
	t.Helper()
	plans, err := f.repos.Plans.List(context.Background(), repository.PlanFilter{TenantID: testutil.DefaultTenant})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	return plans[0]
}

func TestRootCmd_RequiresActor(t *testing.T) {
	f := testApp(t)
	_, err := executeCmd(t, f.app, "plan", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ActorEnv)
}

func TestRootCmd_ActorFromEnv(t *testing.T) {
	f := testApp(t)
	t.Setenv(ActorEnv, f.manager.ID)

	out, err := executeCmd(t, f.app, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No plans found.")
}

func TestUserCmd_AddAndList(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "--as", f.manager.ID, "user", "add",
		"--name", "lead", "--role", "leader", "--department", "ops")
	require.NoError(t, err)
	assert.Contains(t, out, "Created user lead")
	assert.Contains(t, out, "LEADER")

	out, err = executeCmd(t, f.app, "--as", f.manager.ID, "user", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "lead")
	assert.Contains(t, out, "Leader")
	assert.Contains(t, out, "member")

	_, err = executeCmd(t, f.app, "user", "add", "--name", "x", "--role", "owner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")

	out, err = executeCmd(t, f.app, "user", "add", "--name", "bootstrap", "--tenant", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "MEMBER")
	users, err := f.repos.Users.ListByTenant(context.Background(), "acme")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestPlanCmd_CreateFromFlags(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "--as", f.manager.ID, "plan", "create",
		"--name", "Onboarding", "--start", "2026-03-01", "--complete", "2026-03-31",
		"-c", "Read handbook:30", "-c", "Setup laptop")
	require.NoError(t, err)
	assert.Contains(t, out, "Created plan Onboarding")

	plan := f.onlyPlan(t)
	conds, err := f.repos.Conditions.ListByPlan(context.Background(), plan.ID)
	require.NoError(t, err)
	require.Len(t, conds, 2)
	assert.Equal(t, 30, conds[0].EstTime)
	assert.Equal(t, 0, conds[1].EstTime)

	out, err = executeCmd(t, f.app, "--as", f.member.ID, "plan", "show", plan.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Read handbook")
	assert.Contains(t, out, "Nobody assigned.")
}

func TestPlanCmd_CreateValidation(t *testing.T) {
	f := testApp(t)

	_, err := executeCmd(t, f.app, "--as", f.manager.ID, "plan", "create",
		"--name", "Backwards", "--start", "2026-03-31", "--complete", "2026-03-01")
	require.Error(t, err)
	assert.Equal(t, ExitValidation, ExitCode(err))

	_, err = executeCmd(t, f.app, "--as", f.manager.ID, "plan", "create",
		"--name", "Bad", "--start", "03/01/2026", "--complete", "2026-03-31")
	assert.Equal(t, ExitValidation, ExitCode(err))

	_, err = executeCmd(t, f.app, "--as", f.manager.ID, "plan", "create",
		"--name", "Bad", "--start", "2026-03-01", "--complete", "2026-03-31", "-c", "x:soon")
	assert.Equal(t, ExitValidation, ExitCode(err))

	_, err = executeCmd(t, f.app, "--as", f.member.ID, "plan", "create",
		"--name", "Mine", "--start", "2026-03-01", "--complete", "2026-03-31")
	assert.Equal(t, ExitForbidden, ExitCode(err))
}

func TestPlanCmd_CreateAndUpdateFromFile(t *testing.T) {
	f := testApp(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: From file
start_date: "2026-03-01"
complete_date: "2026-03-31"
conditions:
  - name: one
    est_time: 10
`), 0o644))

	_, err := executeCmd(t, f.app, "--as", f.manager.ID, "plan", "create", "--file", path)
	require.NoError(t, err)
	plan := f.onlyPlan(t)
	assert.Equal(t, "From file", plan.Name)

	require.NoError(t, os.WriteFile(path, []byte(`
name: From file v2
start_date: "2026-03-01"
complete_date: "2026-04-30"
conditions:
  - name: one
    est_time: 15
  - name: two
`), 0o644))
	out, err := executeCmd(t, f.app, "--as", f.manager.ID, "plan", "update", plan.ID, "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Updated plan From file v2")

	conds, err := f.repos.Conditions.ListByPlan(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Len(t, conds, 2)

	_, err = executeCmd(t, f.app, "--as", f.manager.ID, "plan", "create", "--file", path, "--name", "x")
	assert.Error(t, err, "--file and --name are exclusive")
}

func TestWorkflowThroughCLI(t *testing.T) {
	f := testApp(t)
	ctx := context.Background()
	mgr := func(args ...string) string {
		t.Helper()
		out, err := executeCmd(t, f.app, append([]string{"--as", f.manager.ID}, args...)...)
		require.NoError(t, err, "args %v", args)
		return out
	}
	mem := func(args ...string) string {
		t.Helper()
		out, err := executeCmd(t, f.app, append([]string{"--as", f.member.ID}, args...)...)
		require.NoError(t, err, "args %v", args)
		return out
	}

	mgr("plan", "create", "--name", "Onboarding", "--start", "2026-03-01", "--complete", "2026-03-31",
		"-c", "Read handbook:3")
	plan := f.onlyPlan(t)

	out := mgr("assign", plan.ID, f.member.ID)
	assert.Contains(t, out, "Assigned")
	up, err := f.repos.UserPlans.GetByPlanAndUser(ctx, plan.ID, f.member.ID)
	require.NoError(t, err)
	upcs, err := f.repos.UserPlanConditions.ListByUserPlan(ctx, up.ID)
	require.NoError(t, err)
	require.Len(t, upcs, 1)

	attachment := filepath.Join(t.TempDir(), "proof.txt")
	require.NoError(t, os.WriteFile(attachment, []byte("done"), 0o644))
	out = mem("activity", "submit", upcs[0].ID, "-m", "read it", "--file", attachment)
	assert.Contains(t, out, "SUBMITTED")
	assert.Contains(t, out, "Attachment: mem://")
	assert.Equal(t, 1, f.store.Len())

	mgr("activity", "accept", upcs[0].ID, "--on", "condition")
	mem("activity", "submit", up.ID, "--on", "plan")
	out = mgr("activity", "accept", up.ID, "--on", "plan")
	assert.Contains(t, out, "ACCEPTED")

	out = mgr("plan", "list", "--status", "completed")
	assert.Contains(t, out, "Onboarding")

	out = mgr("plan", "detail", plan.ID)
	assert.Contains(t, out, "member")
	assert.Contains(t, out, "100%")

	out = mem("plan", "mine")
	assert.Contains(t, out, "Onboarding")

	out = mem("plan", "progress", plan.ID)
	assert.Contains(t, out, "Read handbook")
	assert.Contains(t, out, "read it")

	acts, err := f.repos.Activities.ListByTarget(ctx, domain.TargetUserPlan, up.ID)
	require.NoError(t, err)
	out = mgr("activity", "revoke", acts[len(acts)-1].ID, "--on", "plan", "-m", "too early")
	assert.Contains(t, out, "Revoked")

	out = mgr("activity", "list", up.ID, "--on", "plan")
	assert.Contains(t, out, "REVOKED")
	assert.Contains(t, out, "too early")

	out = mem("notification", "list", "--unread")
	assert.Contains(t, out, "ASSIGNED")
	assert.Contains(t, out, "ACCEPTED")
	assert.Contains(t, out, "REVOKED")

	notes, err := f.repos.Notifications.ListByRecipient(ctx, f.member.ID, true)
	require.NoError(t, err)
	args := []string{"notification", "read"}
	for _, n := range notes {
		args = append(args, n.ID)
	}
	mem(args...)
	out = mem("notification", "list", "--unread")
	assert.Contains(t, out, "No notifications.")
}

func TestUnassignCmd_RefusedAfterSubmission(t *testing.T) {
	f := testApp(t)
	ctx := context.Background()

	_, err := executeCmd(t, f.app, "--as", f.manager.ID, "plan", "create",
		"--name", "P", "--start", "2026-03-01", "--complete", "2026-03-31", "-c", "c1")
	require.NoError(t, err)
	plan := f.onlyPlan(t)
	_, err = executeCmd(t, f.app, "--as", f.manager.ID, "assign", plan.ID, f.member.ID)
	require.NoError(t, err)
	up, err := f.repos.UserPlans.GetByPlanAndUser(ctx, plan.ID, f.member.ID)
	require.NoError(t, err)
	_, err = executeCmd(t, f.app, "--as", f.member.ID, "activity", "submit", up.ID, "--on", "plan")
	require.NoError(t, err)

	_, err = executeCmd(t, f.app, "--as", f.manager.ID, "unassign", plan.ID, f.member.ID)
	require.Error(t, err)
	assert.Equal(t, ExitForbidden, ExitCode(err))
	assert.Equal(t, "forbidden", ErrorKind(err))
}

func TestActivityCmd_InvalidTarget(t *testing.T) {
	f := testApp(t)
	_, err := executeCmd(t, f.app, "--as", f.member.ID, "activity", "submit", "x", "--on", "project")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
		kind string
	}{
		{nil, ExitOK, "error"},
		{errors.New("boom"), ExitFailure, "error"},
		{fmt.Errorf("wrapped: %w", domain.ErrValidation), ExitValidation, "invalid"},
		{fmt.Errorf("wrapped: %w", domain.ErrForbidden), ExitForbidden, "forbidden"},
		{fmt.Errorf("wrapped: %w", repository.ErrNotFound), ExitNotFound, "not found"},
		{fmt.Errorf("wrapped: %w", domain.ErrConflict), ExitConflict, "conflict"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, ExitCode(tt.err))
		if tt.err != nil {
			assert.Equal(t, tt.kind, ErrorKind(tt.err))
		}
	}
}
