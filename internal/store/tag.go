package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
)

// TagStore defines the interface for tag data persistence.
type TagStore interface {
	// Create saves a new tag.
	// Returns ErrTagNameExists if the user already has a tag with the same
	// name ignoring case.
	Create(ctx context.Context, tag *domain.Tag) error

	// GetByID retrieves a tag.
	// Returns ErrTagNotFound if the tag does not exist for userID.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Tag, error)

	// GetByName retrieves a tag by name, ignoring case and surrounding spaces.
	// Returns ErrTagNotFound if no such tag exists for userID.
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error)

	// ListByUser retrieves every tag owned by userID ordered by name.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Tag, error)

	// Delete removes a tag and, by cascade, its task associations.
	// Returns ErrTagNotFound if the tag does not exist for userID.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// WithTx returns a TagStore that runs its statements inside tx.
	WithTx(tx *sql.Tx) TagStore
}
