package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/phrazzld/postpone/internal/config"
	"github.com/phrazzld/postpone/internal/platform/migrate"
	"github.com/phrazzld/postpone/internal/platform/postgres"
	"github.com/phrazzld/postpone/internal/platform/sqlite"
	"github.com/phrazzld/postpone/internal/platform/sqlstore"
)

// database is an open connection plus the driver-specific pieces the
// stores and the migration runner need.
type database struct {
	db         *sql.DB
	dialect    sqlstore.Dialect
	migrations fs.FS
}

// openDatabase connects to the configured backend.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*database, error) {
	var (
		d   database
		err error
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		d.db, err = postgres.Open(ctx, cfg.URL, cfg.MaxOpenConns)
		d.dialect, d.migrations = postgres.Dialect, postgres.Migrations()
	case config.DriverSQLite:
		d.db, err = sqlite.Open(ctx, cfg.URL)
		d.dialect, d.migrations = sqlite.Dialect, sqlite.Migrations()
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	logger.Info("database connection established", slog.String("driver", cfg.Driver))
	return &d, nil
}

func (d *database) migrator(logger *slog.Logger) (*migrate.Runner, error) {
	return migrate.NewRunner(d.db, d.dialect.Name, d.migrations, logger)
}

func (d *database) close(logger *slog.Logger) {
	if err := d.db.Close(); err != nil {
		logger.Error("error closing database connection", slog.String("error", err.Error()))
	}
}
