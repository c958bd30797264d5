package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripcrew/tripcrew-api/internal/adapters/postgres"
)

// OpenMigratedPool connects to the database named by TEST_DATABASE_URL,
// applies the schema, and truncates all tables. Tests are skipped when the
// variable is unset so the suite stays runnable without a local Postgres.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres tests")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{})
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := postgres.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE trip_invites, trip_members, trips, verification_tokens, users CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}
