// Package postgres wires the shared SQL repositories to PostgreSQL through
// the pgx stdlib driver. It owns the PostgreSQL connection setup, the
// mapping of PostgreSQL error codes onto store errors and the bundled
// schema migrations.
package postgres
