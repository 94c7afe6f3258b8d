package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertPlan(ctx context.Context, tx DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO plans (id, tenant_id, name, start_date, complete_date, created_at, updated_at)
		 VALUES (?, 't1', 'plan', ?, ?, ?, ?)`, id, ts, ts, ts, ts)
	return err
}

func insertCondition(ctx context.Context, tx DBTX, id, planID string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO plan_conditions (id, plan_id, name, created_at, updated_at) VALUES (?, ?, 'c', ?, ?)`,
		id, planID, ts, ts)
	return err
}

func TestWithinTx_CommitsPlanWithConditions(t *testing.T) {
	d := openTestDB(t)
	uow := NewUnitOfWork(d)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		if err := insertPlan(ctx, tx, "p1"); err != nil {
			return err
		}
		if err := insertCondition(ctx, tx, "c1", "p1"); err != nil {
			return err
		}
		return insertCondition(ctx, tx, "c2", "p1")
	})
	require.NoError(t, err)

	assert.Equal(t, 1, count(t, d, "plans"))
	assert.Equal(t, 2, count(t, d, "plan_conditions"))
}

func TestWithinTx_ForeignKeyFailureRollsBackEarlierWrites(t *testing.T) {
	d := openTestDB(t)
	uow := NewUnitOfWork(d)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		if err := insertPlan(ctx, tx, "p1"); err != nil {
			return err
		}
		return insertCondition(ctx, tx, "c1", "missing-plan")
	})
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))

	assert.Equal(t, 0, count(t, d, "plans"), "plan insert is rolled back with the condition")
}

func TestWithinTx_UniqueViolationSurfacesUnwrapped(t *testing.T) {
	d := openTestDB(t)
	uow := NewUnitOfWork(d)
	ctx := context.Background()

	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		return insertPlan(ctx, tx, "p1")
	}))

	err := uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		return insertPlan(ctx, tx, "p1")
	})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.Equal(t, 1, count(t, d, "plans"))
}

func TestWithinTx_CallbackErrorIsReturned(t *testing.T) {
	d := openTestDB(t)
	uow := NewUnitOfWork(d)
	sentinel := errors.New("stop")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		if err := insertPlan(ctx, tx, "p1"); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 0, count(t, d, "plans"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	d := openTestDB(t)
	uow := NewUnitOfWork(d)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
			_ = insertPlan(ctx, tx, "p1")
			panic("boom")
		})
	})

	assert.Equal(t, 0, count(t, d, "plans"))
}

func TestWithinTx_BindsTxToDialect(t *testing.T) {
	sqlite := openTestDB(t)

	var got DBTX
	require.NoError(t, NewUnitOfWork(sqlite).WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		got = tx
		return nil
	}))
	_, isTx := got.(*sql.Tx)
	assert.True(t, isTx, "sqlite transactions are passed through untouched")

	// Same handle, Postgres dialect: the tx must rewrite placeholders.
	pg := &DB{DB: sqlite.DB, Dialect: DialectPostgres}
	require.NoError(t, NewUnitOfWork(pg).WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		got = tx
		var one int
		return tx.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
	}))
	rb, ok := got.(*rebinder)
	require.True(t, ok, "postgres transactions are wrapped in a rebinder")
	_, isTx = rb.DBTX.(*sql.Tx)
	assert.True(t, isTx)
}
