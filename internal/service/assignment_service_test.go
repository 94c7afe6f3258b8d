package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/repository"
	"github.com/alexanderramin/planflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssign_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := env.createPlan(t, "P", cond("c1", 1), cond("c2", 2))

	first, err := env.assign.Assign(ctx, env.mgr(), plan.ID, env.member.ID)
	require.NoError(t, err)
	second, err := env.assign.Assign(ctx, env.mgr(), plan.ID, env.member.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	ups, err := env.repos.UserPlans.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, ups, 1)
	upcs, err := env.repos.UserPlanConditions.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, upcs, 2)

	assert.Equal(t, []domain.NotificationKind{domain.NotifyAssigned}, env.notifier.Kinds(env.member.ID))
	event, ok := env.observer.last("assignment.assign")
	require.True(t, ok)
	assert.Equal(t, false, event.Fields["created"])
}

func TestAssign_ResetsCompletedPlanToInProgress(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "P", cond("c1", 1))
	up, _ := env.assignUser(t, plan.ID, env.member)
	env.record(t, env.mgr(), domain.TargetUserPlan, up.ID, domain.ActivitySubmitted)
	require.Equal(t, domain.PlanCompleted, env.planStatus(t, plan.ID))

	env.assignUser(t, plan.ID, env.member2)
	assert.Equal(t, domain.PlanInProgress, env.planStatus(t, plan.ID))
}

func TestAssign_PlanWithoutConditions(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Empty")

	up, upcs := env.assignUser(t, plan.ID, env.member)
	assert.Equal(t, domain.UserPlanInProgress, up.Status)
	assert.Empty(t, upcs)
	assert.Equal(t, domain.PlanInProgress, env.planStatus(t, plan.ID))
}

func TestAssign_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := env.createPlan(t, "P", cond("c1", 1))

	_, err := env.assign.Assign(ctx, env.mem(), plan.ID, env.member.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = env.assign.Assign(ctx, env.mgr(), "missing", env.member.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.assign.Assign(ctx, env.mgr(), plan.ID, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	outsider := testutil.NewTestUser("outsider", testutil.WithTenant("other"))
	require.NoError(t, env.repos.Users.Create(ctx, outsider))
	_, err = env.assign.Assign(ctx, env.mgr(), plan.ID, outsider.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.Equal(t, domain.PlanNoStart, env.planStatus(t, plan.ID))
	assert.Empty(t, env.notifier.Sent())
}

func TestAssign_ConcurrentSamePair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := env.createPlan(t, "P", cond("c1", 1))

	const workers = 5
	var wg sync.WaitGroup
	ids := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			up, err := env.assign.Assign(ctx, env.mgr(), plan.ID, env.member.ID)
			errs[i] = err
			if err == nil {
				ids[i] = up.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	ups, err := env.repos.UserPlans.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, ups, 1)
}

func TestUnassign(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := env.createPlan(t, "P", cond("c1", 1), cond("c2", 2))
	up, _ := env.assignUser(t, plan.ID, env.member)

	require.NoError(t, env.assign.Unassign(ctx, env.mgr(), plan.ID, env.member.ID))

	_, err := env.repos.UserPlans.GetByID(ctx, up.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	upcs, err := env.repos.UserPlanConditions.ListByUserPlan(ctx, up.ID)
	require.NoError(t, err)
	assert.Empty(t, upcs)
	assert.Equal(t, domain.PlanNoStart, env.planStatus(t, plan.ID))

	assert.Equal(t, []domain.NotificationKind{domain.NotifyAssigned, domain.NotifyUnassigned},
		env.notifier.Kinds(env.member.ID))

	event, ok := env.observer.last("assignment.unassign")
	require.True(t, ok)
	assert.True(t, event.Success)
}

func TestUnassign_RefusedOnceWorkIsSubmitted(t *testing.T) {
	ctx := context.Background()

	t.Run("condition submitted", func(t *testing.T) {
		env := newTestEnv(t)
		plan := env.createPlan(t, "P", cond("c1", 1), cond("c2", 2))
		up, upcs := env.assignUser(t, plan.ID, env.member)
		env.record(t, env.mem(), domain.TargetCondition, upcs[1].ID, domain.ActivitySubmitted)

		err := env.assign.Unassign(ctx, env.mgr(), plan.ID, env.member.ID)
		assert.True(t, errors.Is(err, domain.ErrForbidden))
		assert.Equal(t, domain.UserPlanInProgress, env.userPlan(t, up.ID).Status)
		after, err := env.repos.UserPlanConditions.ListByUserPlan(ctx, up.ID)
		require.NoError(t, err)
		assert.Len(t, after, 2)
	})

	t.Run("user plan submitted", func(t *testing.T) {
		env := newTestEnv(t)
		plan := env.createPlan(t, "P", cond("c1", 1))
		up, _ := env.assignUser(t, plan.ID, env.member)
		env.record(t, env.mem(), domain.TargetUserPlan, up.ID, domain.ActivitySubmitted)

		err := env.assign.Unassign(ctx, env.mgr(), plan.ID, env.member.ID)
		assert.True(t, errors.Is(err, domain.ErrForbidden))
		assert.Equal(t, domain.UserPlanPendingApproval, env.userPlan(t, up.ID).Status)
	})

	t.Run("rejected work reopens the assignment", func(t *testing.T) {
		env := newTestEnv(t)
		plan := env.createPlan(t, "P", cond("c1", 1))
		_, upcs := env.assignUser(t, plan.ID, env.member)
		env.record(t, env.mem(), domain.TargetCondition, upcs[0].ID, domain.ActivitySubmitted)
		env.record(t, env.mgr(), domain.TargetCondition, upcs[0].ID, domain.ActivityRejected)

		require.NoError(t, env.assign.Unassign(ctx, env.mgr(), plan.ID, env.member.ID))
	})
}

func TestUnassign_PlanStatusFollowsRemainingRoster(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := env.createPlan(t, "P", cond("c1", 1))
	done, _ := env.assignUser(t, plan.ID, env.member)
	env.assignUser(t, plan.ID, env.member2)
	env.record(t, env.mgr(), domain.TargetUserPlan, done.ID, domain.ActivitySubmitted)
	require.Equal(t, domain.PlanInProgress, env.planStatus(t, plan.ID))

	require.NoError(t, env.assign.Unassign(ctx, env.mgr(), plan.ID, env.member2.ID))
	assert.Equal(t, domain.PlanCompleted, env.planStatus(t, plan.ID))
}

func TestUnassign_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := env.createPlan(t, "P", cond("c1", 1))
	env.assignUser(t, plan.ID, env.member)

	assert.True(t, errors.Is(env.assign.Unassign(ctx, env.mem(), plan.ID, env.member.ID), domain.ErrForbidden))
	assert.ErrorIs(t, env.assign.Unassign(ctx, env.mgr(), plan.ID, env.member2.ID), repository.ErrNotFound)
	assert.ErrorIs(t, env.assign.Unassign(ctx, env.mgr(), "missing", env.member.ID), repository.ErrNotFound)
}
