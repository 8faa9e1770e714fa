package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/blogrelay/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds connection and migration during test setup.
const TestTimeout = 10 * time.Second

// Environment variables checked, in order, for the test database URL.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvTestDBURL   = "BLOGRELAY_TEST_DB_URL"
)

// GetTestDatabaseURL returns the first non-empty test database URL.
func GetTestDatabaseURL() string {
	for _, name := range []string{EnvDatabaseURL, EnvTestDBURL} {
		if url := os.Getenv(name); url != "" {
			return url
		}
	}
	return ""
}

// SkipIfNoDatabase skips t when no test database is configured.
func SkipIfNoDatabase(t *testing.T) {
	t.Helper()
	if GetTestDatabaseURL() == "" {
		t.Skipf("%s not set; skipping database test", EnvDatabaseURL)
	}
}

// OpenTestDB connects to the test database and applies all migrations.
// The connection is closed when t finishes.
func OpenTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	SkipIfNoDatabase(t)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Connect(ctx, GetTestDatabaseURL())
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	require.NoError(t, postgres.Migrate(ctx, db.DB, "up", nil), "failed to migrate test database")
	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sqlx.DB, fn func(t *testing.T, tx *sqlx.Tx)) {
	t.Helper()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
