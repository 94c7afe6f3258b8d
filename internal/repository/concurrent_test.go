package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/planflow/internal/db"
	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *db.DB {
	t.Helper()
	dir := t.TempDir()
	database, err := db.OpenDB(filepath.Join(dir, "concurrent_test.db"))
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringWrite verifies that listing user plans while
// assignments are being written returns consistent rows.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	conn := database.Conn()
	ctx := context.Background()

	userRepo := NewSQLUserRepo(conn)
	planRepo := NewSQLPlanRepo(conn)
	upRepo := NewSQLUserPlanRepo(conn)

	plan := testutil.NewTestPlan("ReadWrite")
	require.NoError(t, planRepo.Create(ctx, plan))

	const assignees = 20
	users := make([]*domain.User, assignees)
	for i := range users {
		users[i] = testutil.NewTestUser(fmt.Sprintf("user-%d", i))
		require.NoError(t, userRepo.Create(ctx, users[i]))
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i, u := range users {
			if err := upRepo.Create(ctx, testutil.NewTestUserPlan(plan.ID, u.ID)); err != nil {
				t.Errorf("writer: create user plan %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				ups, err := upRepo.ListByPlan(ctx, plan.ID)
				if err != nil {
					t.Errorf("reader %d: list user plans: %v", reader, err)
					return
				}
				for _, up := range ups {
					if up.ID == "" || up.UserID == "" {
						t.Errorf("reader %d: got user plan with empty ID", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	ups, err := upRepo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, ups, assignees)
}

func TestConcurrentAccess_ActivitySequence_NoDuplicateSeq(t *testing.T) {
	database := newConcurrentTestDB(t)
	conn := database.Conn()
	ctx := context.Background()

	userRepo := NewSQLUserRepo(conn)
	planRepo := NewSQLPlanRepo(conn)
	upRepo := NewSQLUserPlanRepo(conn)
	actRepo := NewSQLActivityRepo(conn)
	uow := db.NewUnitOfWork(database)

	user := testutil.NewTestUser("seq")
	require.NoError(t, userRepo.Create(ctx, user))
	plan := testutil.NewTestPlan("Seq Concurrency")
	require.NoError(t, planRepo.Create(ctx, plan))
	up := testutil.NewTestUserPlan(plan.ID, user.ID)
	require.NoError(t, upRepo.Create(ctx, up))

	// Seed one entry so allocation starts from an existing seq.
	require.NoError(t, actRepo.Append(ctx,
		testutil.NewTestActivity(domain.TargetUserPlan, up.ID, user.ID, domain.ActivitySubmitted)))

	retryTx := func(fn func() error) error {
		const maxRetries = 20
		var err error
		for attempt := 0; attempt < maxRetries; attempt++ {
			if err = fn(); err == nil {
				return nil
			}
			backoff := time.Millisecond * time.Duration(1<<min(attempt, 7))
			time.Sleep(backoff)
		}
		return err
	}

	const workers = 20
	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := retryTx(func() error {
				return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
					typ := domain.ActivityRejected
					if i%2 == 0 {
						typ = domain.ActivitySubmitted
					}
					return NewSQLActivityRepo(tx).Append(ctx,
						testutil.NewTestActivity(domain.TargetUserPlan, up.ID, user.ID, typ))
				})
			})
			if err != nil {
				errCh <- err
			}
		}(i)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	acts, err := actRepo.ListByTarget(ctx, domain.TargetUserPlan, up.ID)
	require.NoError(t, err)
	require.Len(t, acts, workers+1)

	for i, a := range acts {
		assert.Equalf(t, i+1, a.Seq, "activity %s out of sequence", a.ID)
	}
}
