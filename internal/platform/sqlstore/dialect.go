package sqlstore

import (
	sq "github.com/Masterminds/squirrel"
)

// Dialect describes the driver-specific parts of a SQL backend.
type Dialect struct {
	// Name is the goose dialect name, e.g. "postgres" or "sqlite3".
	Name string
	// Placeholder is the bind parameter style of the driver.
	Placeholder sq.PlaceholderFormat
	// MapError translates driver errors into store errors
	// (store.ErrDuplicate, store.ErrInvalidEntity, ...). Unknown errors are
	// returned unchanged.
	MapError func(error) error
}

func (d Dialect) builder() sq.StatementBuilderType {
	placeholder := d.Placeholder
	if placeholder == nil {
		placeholder = sq.Question
	}
	return sq.StatementBuilder.PlaceholderFormat(placeholder)
}

func (d Dialect) mapError(err error) error {
	if err == nil || d.MapError == nil {
		return err
	}
	return d.MapError(err)
}
