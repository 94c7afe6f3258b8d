package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLPlanRepo(database.Conn())
	ctx := context.Background()

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	plan := testutil.NewTestPlan("Onboarding",
		testutil.WithDates(start, start.AddDate(0, 0, 14)),
		testutil.WithCreatedBy("admin-1"),
	)
	plan.Description = "first two weeks"
	require.NoError(t, repo.Create(ctx, plan))

	got, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Onboarding", got.Name)
	assert.Equal(t, "first two weeks", got.Description)
	assert.True(t, got.StartDate.Equal(start))
	assert.True(t, got.CompleteDate.Equal(start.AddDate(0, 0, 14)))
	assert.Equal(t, domain.PlanNoStart, got.Status)
	assert.Equal(t, "admin-1", got.CreatedBy)
	assert.True(t, got.CreatedAt.Equal(plan.CreatedAt.Truncate(time.Second)))
}

func TestPlanRepo_CreateDefaultsStatus(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLPlanRepo(database.Conn())
	ctx := context.Background()

	plan := testutil.NewTestPlan("No status", testutil.WithPlanStatus(""))
	require.NoError(t, repo.Create(ctx, plan))
	assert.Equal(t, domain.PlanNoStart, plan.Status)
}

func TestPlanRepo_GetByID_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLPlanRepo(database.Conn())

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_ListFilters(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLPlanRepo(database.Conn())
	ctx := context.Background()

	a := testutil.NewTestPlan("A", testutil.WithDepartment("sales"))
	b := testutil.NewTestPlan("B", testutil.WithPlanStatus(domain.PlanInProgress))
	c := testutil.NewTestPlan("C", testutil.WithPlanTenant("other"))
	for _, p := range []*domain.Plan{a, b, c} {
		require.NoError(t, repo.Create(ctx, p))
	}

	all, err := repo.List(ctx, PlanFilter{TenantID: testutil.DefaultTenant})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inProgress, err := repo.List(ctx, PlanFilter{TenantID: testutil.DefaultTenant, Status: domain.PlanInProgress})
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, b.ID, inProgress[0].ID)

	sales, err := repo.List(ctx, PlanFilter{DepartmentID: "sales"})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, a.ID, sales[0].ID)

	everything, err := repo.List(ctx, PlanFilter{})
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}

func TestPlanRepo_UpdateAndStatus(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLPlanRepo(database.Conn())
	ctx := context.Background()

	plan := testutil.NewTestPlan("Before")
	require.NoError(t, repo.Create(ctx, plan))

	plan.Name = "After"
	plan.UpdatedAt = plan.UpdatedAt.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, plan))

	now := time.Now().UTC()
	require.NoError(t, repo.UpdateStatus(ctx, plan.ID, domain.PlanCompleted, now))

	got, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, domain.PlanCompleted, got.Status)

	err = repo.UpdateStatus(ctx, "missing", domain.PlanCompleted, now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLPlanRepo(database.Conn())
	ctx := context.Background()

	plan := testutil.NewTestPlan("Gone")
	require.NoError(t, repo.Create(ctx, plan))
	require.NoError(t, repo.Delete(ctx, plan.ID))

	_, err := repo.GetByID(ctx, plan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, plan.ID), ErrNotFound)
}

func TestPlanConditionRepo_OrderAndUpdate(t *testing.T) {
	database := testutil.NewTestDB(t)
	conn := database.Conn()
	ctx := context.Background()

	plan := testutil.NewTestPlan("Ordered")
	require.NoError(t, NewSQLPlanRepo(conn).Create(ctx, plan))

	repo := NewSQLPlanConditionRepo(conn)
	second := testutil.NewTestCondition(plan.ID, "Second", testutil.WithOrderIndex(1))
	first := testutil.NewTestCondition(plan.ID, "First", testutil.WithOrderIndex(0), testutil.WithEstTime(90))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))

	conds, err := repo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, conds, 2)
	assert.Equal(t, "First", conds[0].Name)
	assert.Equal(t, 90, conds[0].EstTime)
	assert.Equal(t, "Second", conds[1].Name)

	second.Overview = "updated"
	second.EstTime = 5
	require.NoError(t, repo.Update(ctx, second))

	conds, err = repo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", conds[1].Overview)
	assert.Equal(t, 5, conds[1].EstTime)

	require.NoError(t, repo.DeleteByPlan(ctx, plan.ID))
	conds, err = repo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, conds)
}
