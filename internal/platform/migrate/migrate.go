// Package migrate runs the embedded schema migrations of a SQL backend with
// goose and reports their state.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
)

// Supported migration commands
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// ErrUnknownCommand is returned by Run for commands it does not support.
var ErrUnknownCommand = errors.New("unknown migration command")

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error.
// It does NOT call os.Exit; failures surface as returned errors.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Status describes one migration and whether it has been applied.
type Status struct {
	Version   int64     `json:"version"`
	Source    string    `json:"source"`
	Applied   bool      `json:"applied"`
	AppliedAt time.Time `json:"applied_at,omitempty"`
}

// Runner applies migrations from one filesystem to one database.
type Runner struct {
	provider *goose.Provider
	logger   *slog.Logger
}

// NewRunner creates a Runner for the given goose dialect name ("postgres" or
// "sqlite3"). migrations must hold the .sql files at its root.
func NewRunner(db *sql.DB, dialect string, migrations fs.FS, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "migrations"))

	provider, err := goose.NewProvider(
		goose.Dialect(dialect),
		db,
		migrations,
		goose.WithLogger(&slogGooseLogger{logger: logger}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Runner{provider: provider, logger: logger}, nil
}

// Up applies every pending migration and returns how many were applied.
func (r *Runner) Up(ctx context.Context) (int, error) {
	start := time.Now()
	results, err := r.provider.Up(ctx)
	if err != nil {
		r.logger.Error("migration up failed",
			slog.String("error", err.Error()),
			slog.Int("applied", len(results)))
		return len(results), fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, res := range results {
		r.logResult(res)
	}
	r.logger.Info("migrations applied",
		slog.Int("count", len(results)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return len(results), nil
}

// Down rolls back the most recent migration.
func (r *Runner) Down(ctx context.Context) error {
	res, err := r.provider.Down(ctx)
	if err != nil {
		if errors.Is(err, goose.ErrNoNextVersion) {
			r.logger.Info("no migrations to roll back")
			return nil
		}
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	r.logResult(res)
	return nil
}

// Reset rolls back every applied migration.
func (r *Runner) Reset(ctx context.Context) error {
	results, err := r.provider.DownTo(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to reset migrations: %w", err)
	}
	for _, res := range results {
		r.logResult(res)
	}
	r.logger.Info("migrations reset", slog.Int("count", len(results)))
	return nil
}

// Version returns the current schema version, 0 when nothing is applied.
func (r *Runner) Version(ctx context.Context) (int64, error) {
	version, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Status lists every known migration in version order.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	statuses, err := r.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make([]Status, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Status{
			Version:   s.Source.Version,
			Source:    s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

// Run executes a named command. Status and version results are logged.
func (r *Runner) Run(ctx context.Context, command string) error {
	switch command {
	case CommandUp:
		_, err := r.Up(ctx)
		return err
	case CommandDown:
		return r.Down(ctx)
	case CommandReset:
		return r.Reset(ctx)
	case CommandStatus:
		statuses, err := r.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			r.logger.Info("migration status",
				slog.Int64("version", s.Version),
				slog.String("source", s.Source),
				slog.Bool("applied", s.Applied))
		}
		return nil
	case CommandVersion:
		version, err := r.Version(ctx)
		if err != nil {
			return err
		}
		r.logger.Info("schema version", slog.Int64("version", version))
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
}

func (r *Runner) logResult(res *goose.MigrationResult) {
	if res == nil || res.Source == nil {
		return
	}
	r.logger.Info("migration finished",
		slog.Int64("version", res.Source.Version),
		slog.String("source", res.Source.Path),
		slog.String("direction", res.Direction),
		slog.Int64("duration_ms", res.Duration.Milliseconds()))
}
