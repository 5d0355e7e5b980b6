package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/phrazzld/postpone/internal/store"
)

// TaskStore implements the store.TaskStore interface.
type TaskStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewTaskStore creates a TaskStore over db, which may be a connection pool or a
// transaction. If logger is nil, the default logger is used.
func NewTaskStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// WithTx implements store.TaskStore.WithTx.
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	insert := s.dialect.builder().
		Insert("tasks").
		Columns(taskColumns...).
		Values(task.ID, task.UserID, task.Title, task.Description, task.DueDate.UTC(),
			task.Completed, task.CreatedAt.UTC(), task.UpdatedAt.UTC())

	if _, err := execute(ctx, s.db, insert); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return s.dialect.mapError(err)
	}

	if err := s.insertLinks(ctx, task.ID, tagIDs(task.Tags)); err != nil {
		log.Error("failed to link tags to new task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()),
		slog.Int("tag_count", len(task.Tags)))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	q := s.dialect.builder().
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id, "user_id": userID})

	var records []taskRecord
	if err := selectInto(ctx, s.db, q, &records); err != nil {
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, s.dialect.mapError(err)
	}
	if len(records) == 0 {
		log.Debug("task not found", slog.String("task_id", id.String()))
		return nil, store.ErrTaskNotFound
	}

	task := records[0].toDomain()
	tags, err := s.tagsFor(ctx, sq.Eq{"tt.task_id": id})
	if err != nil {
		log.Error("failed to load task tags",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}
	task.Tags = append(task.Tags, tags[id]...)

	return task, nil
}

// ListByUser implements store.TaskStore.ListByUser.
func (s *TaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	q := s.dialect.builder().
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at", "id")

	var records []taskRecord
	if err := selectInto(ctx, s.db, q, &records); err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, s.dialect.mapError(err)
	}

	tags, err := s.tagsFor(ctx, sq.Eq{"t.user_id": userID})
	if err != nil {
		log.Error("failed to load tags for tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	tasks := make([]*domain.Task, 0, len(records))
	for _, r := range records {
		task := r.toDomain()
		task.Tags = append(task.Tags, tags[task.ID]...)
		tasks = append(tasks, task)
	}

	log.Debug("listed tasks",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	update := s.dialect.builder().
		Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("due_date", task.DueDate.UTC()).
		Set("completed", task.Completed).
		Set("updated_at", task.UpdatedAt.UTC()).
		Where(sq.Eq{"id": task.ID, "user_id": task.UserID})

	result, err := execute(ctx, s.db, update)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return s.dialect.mapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task update affected no rows", slog.String("task_id", task.ID.String()))
		return err
	}
	return nil
}

// ReplaceTags implements store.TaskStore.ReplaceTags.
func (s *TaskStore) ReplaceTags(ctx context.Context, taskID uuid.UUID, ids []uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	del := s.dialect.builder().Delete("task_tags").Where(sq.Eq{"task_id": taskID})
	if _, err := execute(ctx, s.db, del); err != nil {
		log.Error("failed to clear task tags",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return s.dialect.mapError(err)
	}

	return s.insertLinks(ctx, taskID, ids)
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	del := s.dialect.builder().Delete("tasks").Where(sq.Eq{"id": id, "user_id": userID})
	result, err := execute(ctx, s.db, del)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return s.dialect.mapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

func (s *TaskStore) insertLinks(ctx context.Context, taskID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	insert := s.dialect.builder().Insert("task_tags").Columns("task_id", "tag_id")
	for _, id := range ids {
		insert = insert.Values(taskID, id)
	}
	if _, err := execute(ctx, s.db, insert); err != nil {
		return s.dialect.mapError(err)
	}
	return nil
}

// tagsFor loads tag associations matching where, grouped by task ID.
func (s *TaskStore) tagsFor(ctx context.Context, where sq.Sqlizer) (map[uuid.UUID][]domain.Tag, error) {
	q := s.dialect.builder().
		Select("tt.task_id", "t.id", "t.user_id", "t.name", "t.color", "t.created_at").
		From("task_tags tt").
		Join("tags t ON t.id = tt.tag_id").
		Where(where).
		OrderBy("t.name_key")

	var records []taskTagRecord
	if err := selectInto(ctx, s.db, q, &records); err != nil {
		return nil, s.dialect.mapError(err)
	}

	byTask := make(map[uuid.UUID][]domain.Tag)
	for _, r := range records {
		byTask[r.TaskID] = append(byTask[r.TaskID], r.tag())
	}
	return byTask, nil
}

func tagIDs(tags []domain.Tag) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}
