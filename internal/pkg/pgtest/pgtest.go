// Package pgtest starts a throwaway Postgres with the application schema for
// repository tests.
package pgtest

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/quickcart/internal/pkg/migration"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// Image is the Postgres image used by repository tests.
const Image = "postgres:17-alpine"

// NewDSN starts an empty Postgres and returns its connection string. The test
// is skipped with -short or when no container runtime is reachable.
func NewDSN(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := postgres.Run(ctx, Image,
		postgres.WithDatabase("quickcart"),
		postgres.WithUsername("quickcart"),
		postgres.WithPassword("quickcart"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return dsn
}

// NewPool returns a pool on a freshly migrated Postgres.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := NewDSN(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migration.Up(ctx, pool))

	return pool
}
