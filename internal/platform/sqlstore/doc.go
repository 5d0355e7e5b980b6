// Package sqlstore implements the store interfaces on top of database/sql.
//
// The same repositories serve PostgreSQL and SQLite. Queries are built with
// squirrel so placeholders follow the target dialect, and rows are scanned
// into db-tagged records with sqlx. Driver-specific concerns (placeholder
// style and error classification) are supplied through a Dialect by the
// postgres and sqlite packages.
package sqlstore
