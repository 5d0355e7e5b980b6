// Package testdb provides migrated databases for tests.
//
// SQLite databases live in a per-test temp dir and need no setup. Postgres
// tests run only when POSTPONE_TEST_DATABASE_URL is set; they should isolate
// themselves with WithTx, which always rolls back.
package testdb

import (
	"context"
	"database/sql"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/phrazzld/postpone/internal/platform/migrate"
	"github.com/phrazzld/postpone/internal/platform/postgres"
	"github.com/phrazzld/postpone/internal/platform/sqlite"
	"github.com/stretchr/testify/require"
)

// PostgresURLEnv names the variable holding the Postgres test database URL.
const PostgresURLEnv = "POSTPONE_TEST_DATABASE_URL"

const setupTimeout = 30 * time.Second

// SQLite returns a migrated database in a temp file, closed on cleanup.
func SQLite(t *testing.T) *sql.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "postpone.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrateUp(ctx, t, db, sqlite.Dialect.Name, sqlite.Migrations())
	return db
}

// Postgres returns a migrated connection to the database named by
// PostgresURLEnv, skipping the test when the variable is unset.
func Postgres(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv(PostgresURLEnv)
	if url == "" {
		t.Skipf("%s not set - skipping Postgres test", PostgresURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, url, 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrateUp(ctx, t, db, postgres.Dialect.Name, postgres.Migrations())
	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("rollback failed: %v", err)
		}
	}()
	fn(t, tx)
}

func migrateUp(ctx context.Context, t *testing.T, db *sql.DB, dialect string, fsys fs.FS) {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	runner, err := migrate.NewRunner(db, dialect, fsys, log)
	require.NoError(t, err)
	_, err = runner.Up(ctx)
	require.NoError(t, err)
}
