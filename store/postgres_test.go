package store

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"task-tracker/utils"
)

// setupTestPool connects to TEST_DATABASE_URL and empties the Tasks table.
// Tests are skipped when no database is configured or reachable.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Skipping test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := utils.OpenPostgres(ctx, url, utils.RetryPolicy{})
	if err != nil {
		t.Skipf("Skipping test: database not available: %v", err)
	}

	if _, err := pool.Exec(ctx, `DELETE FROM "Tasks"`); err != nil {
		pool.Close()
		t.Fatalf("failed to clean up test data: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) TaskStore {
		return NewPostgresStore(setupTestPool(t), utils.RetryPolicy{})
	})
}
