package migrate_test

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/phrazzld/postpone/internal/platform/migrate"
	"github.com/phrazzld/postpone/internal/platform/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T) *migrate.Runner {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log, _ := logger.NewTestLogger(t)
	runner, err := migrate.NewRunner(db, sqlite.Dialect.Name, sqlite.Migrations(), log)
	require.NoError(t, err)
	return runner
}

func TestRunnerLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	runner := newRunner(t)

	version, err := runner.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	applied, err := runner.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	// a second run is a no-op
	applied, err = runner.Up(ctx)
	require.NoError(t, err)
	assert.Zero(t, applied)

	version, err = runner.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	statuses, err := runner.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Applied)
	assert.Equal(t, int64(1), statuses[0].Version)

	require.NoError(t, runner.Down(ctx))
	version, err = runner.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	// rolling back an empty schema is not an error
	require.NoError(t, runner.Down(ctx))
}

func TestRunnerRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	runner := newRunner(t)

	for _, cmd := range []string{
		migrate.CommandUp,
		migrate.CommandStatus,
		migrate.CommandVersion,
		migrate.CommandReset,
	} {
		require.NoError(t, runner.Run(ctx, cmd), cmd)
	}

	version, err := runner.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	err = runner.Run(ctx, "sideways")
	assert.ErrorIs(t, err, migrate.ErrUnknownCommand)
}

func TestNewRunnerRejectsEmptySource(t *testing.T) {
	t.Parallel()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = migrate.NewRunner(db, sqlite.Dialect.Name, fstest.MapFS{}, nil)
	assert.Error(t, err)
}
