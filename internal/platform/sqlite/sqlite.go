package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/phrazzld/postpone/internal/platform/sqlstore"
	"github.com/phrazzld/postpone/internal/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Dialect configures the shared SQL repositories for SQLite.
var Dialect = sqlstore.Dialect{
	Name:        "sqlite3",
	Placeholder: sq.Question,
	MapError:    MapError,
}

// Migrations returns the bundled SQLite migrations, rooted at the directory
// holding the .sql files.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		// ALLOW-PANIC: the embedded directory is fixed at compile time
		panic(err)
	}
	return sub
}

// Open opens (creating if needed) the database file at path. Foreign keys are
// enabled on every connection and the pool is limited to one connection,
// since SQLite serializes writers anyway.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// DSN builds the driver connection string for path. Existing query
// parameters are kept.
func DSN(path string) string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "busy_timeout(5000)")
	params.Set("_time_format", "sqlite")

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params.Encode()
}

// MapError maps a SQLite error to an appropriate store error.
// It wraps the original error to preserve context for debugging.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return fmt.Errorf("%w: foreign key violation: %v", store.ErrInvalidEntity, err)
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return fmt.Errorf("%w: check constraint violation: %v", store.ErrInvalidEntity, err)
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return fmt.Errorf("%w: not null violation: %v", store.ErrInvalidEntity, err)
	}

	// primary result code without an extended code
	if sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: constraint violation: %v", store.ErrInvalidEntity, err)
	}

	return err
}
