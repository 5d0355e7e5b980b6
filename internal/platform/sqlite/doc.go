// Package sqlite wires the shared SQL repositories to an embedded SQLite
// database through the pure-Go modernc.org/sqlite driver. It is the default
// backend for single-user installs.
package sqlite
