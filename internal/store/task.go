package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Every read and write is scoped to the owning user; a task belonging to
// someone else is reported as ErrTaskNotFound.
type TaskStore interface {
	// Create saves a new task together with its tag associations.
	// The task's tags must already exist. Callers creating tags on the fly
	// should run both steps in one transaction via WithTx and RunInTransaction.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task and its tags.
	// Returns ErrTaskNotFound if the task does not exist for userID.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)

	// ListByUser retrieves every task owned by userID, tags included, ordered
	// by creation time. Ordering for display is the query engine's job.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Update persists the mutable fields of a task: title, description,
	// due date, completion flag and update timestamp. Tags are not touched.
	// Returns ErrTaskNotFound if the task does not exist for its user.
	Update(ctx context.Context, task *domain.Task) error

	// ReplaceTags swaps the tag associations of a task for tagIDs.
	ReplaceTags(ctx context.Context, taskID uuid.UUID, tagIDs []uuid.UUID) error

	// Delete removes a task. Tag associations are removed by cascade.
	// Returns ErrTaskNotFound if the task does not exist for userID.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// WithTx returns a TaskStore that runs its statements inside tx.
	WithTx(tx *sql.Tx) TaskStore
}
