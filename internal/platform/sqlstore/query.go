package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/postpone/internal/store"
)

// selectInto runs q and scans every row into dest, a pointer to a slice of
// db-tagged records.
func selectInto(ctx context.Context, db store.DBTX, q sq.Sqlizer, dest any) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	return sqlx.StructScan(rows, dest)
}

func execute(ctx context.Context, db store.DBTX, q sq.Sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build statement: %w", err)
	}
	return db.ExecContext(ctx, query, args...)
}
