package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/planflow/internal/db"
	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assignmentFixture struct {
	user  *domain.User
	plan  *domain.Plan
	conds []*domain.PlanCondition
}

func seedAssignmentFixture(t *testing.T, conn db.DBTX, condNames ...string) assignmentFixture {
	t.Helper()
	ctx := context.Background()

	f := assignmentFixture{
		user: testutil.NewTestUser("assignee"),
		plan: testutil.NewTestPlan("Assignable"),
	}
	require.NoError(t, NewSQLUserRepo(conn).Create(ctx, f.user))
	require.NoError(t, NewSQLPlanRepo(conn).Create(ctx, f.plan))
	condRepo := NewSQLPlanConditionRepo(conn)
	for i, name := range condNames {
		c := testutil.NewTestCondition(f.plan.ID, name, testutil.WithOrderIndex(i))
		require.NoError(t, condRepo.Create(ctx, c))
		f.conds = append(f.conds, c)
	}
	return f
}

func TestUserPlanRepo_UniquePerPlanAndUser(t *testing.T) {
	database := testutil.NewTestDB(t)
	conn := database.Conn()
	ctx := context.Background()
	f := seedAssignmentFixture(t, conn)

	repo := NewSQLUserPlanRepo(conn)
	require.NoError(t, repo.Create(ctx, testutil.NewTestUserPlan(f.plan.ID, f.user.ID)))

	err := repo.Create(ctx, testutil.NewTestUserPlan(f.plan.ID, f.user.ID))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
}

func TestUserPlanRepo_LookupsAndStatus(t *testing.T) {
	database := testutil.NewTestDB(t)
	conn := database.Conn()
	ctx := context.Background()
	f := seedAssignmentFixture(t, conn)

	repo := NewSQLUserPlanRepo(conn)
	up := testutil.NewTestUserPlan(f.plan.ID, f.user.ID)
	require.NoError(t, repo.Create(ctx, up))

	got, err := repo.GetByPlanAndUser(ctx, f.plan.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, up.ID, got.ID)

	_, err = repo.GetByPlanAndUser(ctx, f.plan.ID, "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)

	byUser, err := repo.ListByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	up.ApplyProgress(domain.ProgressPending, time.Now().UTC())
	require.NoError(t, repo.UpdateStatus(ctx, up))

	got, err = repo.GetByID(ctx, up.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserPlanPendingApproval, got.Status)
}

func TestUserPlanConditionRepo_ListFollowsConditionOrder(t *testing.T) {
	database := testutil.NewTestDB(t)
	conn := database.Conn()
	ctx := context.Background()
	f := seedAssignmentFixture(t, conn, "first", "second", "third")

	up := testutil.NewTestUserPlan(f.plan.ID, f.user.ID)
	require.NoError(t, NewSQLUserPlanRepo(conn).Create(ctx, up))

	repo := NewSQLUserPlanConditionRepo(conn)
	// Insert in reverse so ordering must come from the plan conditions.
	for i := len(f.conds) - 1; i >= 0; i-- {
		require.NoError(t, repo.Create(ctx, testutil.NewTestUserPlanCondition(up.ID, f.conds[i].ID, f.user.ID)))
	}

	upcs, err := repo.ListByUserPlan(ctx, up.ID)
	require.NoError(t, err)
	require.Len(t, upcs, 3)
	for i, upc := range upcs {
		assert.Equal(t, f.conds[i].ID, upc.PlanConditionID)
		assert.Equal(t, domain.ConditionInComplete, upc.Status)
	}

	byPlan, err := repo.ListByPlan(ctx, f.plan.ID)
	require.NoError(t, err)
	assert.Len(t, byPlan, 3)

	upcs[1].ApplyProgress(domain.ProgressCompleted, time.Now().UTC())
	require.NoError(t, repo.UpdateStatus(ctx, upcs[1]))
	got, err := repo.GetByID(ctx, upcs[1].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConditionCompleted, got.Status)

	require.NoError(t, repo.DeleteByUserPlan(ctx, up.ID))
	upcs, err = repo.ListByUserPlan(ctx, up.ID)
	require.NoError(t, err)
	assert.Empty(t, upcs)
}
