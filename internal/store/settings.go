package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
)

// SettingsStore defines the interface for per-user settings persistence.
type SettingsStore interface {
	// Get retrieves the user's saved settings.
	// Returns ErrSettingsNotFound if the user never saved any.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Settings, error)

	// Upsert inserts or replaces the user's settings.
	Upsert(ctx context.Context, settings *domain.Settings) error

	// WithTx returns a SettingsStore that runs its statements inside tx.
	WithTx(tx *sql.Tx) SettingsStore
}
