//go:build integration

package postgresql_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// TestDatabaseSetup owns a throwaway PostgreSQL container with the schema
// migrated.
type TestDatabaseSetup struct {
	DB *database.DB
}

func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("attendance_test"),
		postgrescontainer.WithUsername("attendance"),
		postgrescontainer.WithPassword("attendance"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.RetryPolicy{Attempts: 5, Backoff: 200 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))
	return &TestDatabaseSetup{DB: db}
}

// TruncateAllTables clears every table between tests.
func (s *TestDatabaseSetup) TruncateAllTables(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	tables := []string{
		"attendance_validity_overrides",
		"attendance_events",
		"refresh_tokens",
		"users",
		"companies",
	}
	for _, table := range tables {
		_, err := s.DB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}
