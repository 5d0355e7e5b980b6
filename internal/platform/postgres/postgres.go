package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/postpone/internal/platform/sqlstore"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Dialect configures the shared SQL repositories for PostgreSQL.
var Dialect = sqlstore.Dialect{
	Name:        "postgres",
	Placeholder: sq.Dollar,
	MapError:    MapError,
}

// Migrations returns the bundled PostgreSQL migrations, rooted at the
// directory holding the .sql files.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		// ALLOW-PANIC: the embedded directory is fixed at compile time
		panic(err)
	}
	return sub
}

// Open establishes a pooled connection to PostgreSQL and verifies it with a ping.
func Open(ctx context.Context, url string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(max(maxOpenConns/2, 1))
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
