package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/cache"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/domain/duedate"
	"github.com/phrazzld/postpone/internal/domain/query"
	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/phrazzld/postpone/internal/store"
)

// CreateTaskInput carries the fields of a new task. A nil DueDate asks for a
// generated one.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Tags        []string
}

// UpdateTaskInput carries a partial edit. Nil fields are left unchanged; a
// non-nil Tags replaces the whole tag set.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Completed   *bool
	Tags        *[]string
}

// ListTasksInput selects and orders tasks. A nil Seed uses the workspace's
// current shuffle seed; Limit <= 0 means no limit.
type ListTasksInput struct {
	Status query.Status
	Tags   []string
	Sort   query.SortMode
	Seed   *int
	Limit  int
}

// TaskService provides task-related operations
type TaskService interface {
	// CreateTask stores a new task. Missing tags are created on the fly in
	// the same transaction.
	CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error)

	// GetTask returns one of the user's tasks.
	GetTask(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)

	// ListTasks runs the query engine over the user's tasks.
	ListTasks(ctx context.Context, userID uuid.UUID, input ListTasksInput) ([]*domain.Task, error)

	// UpdateTask applies a partial edit.
	UpdateTask(ctx context.Context, userID, id uuid.UUID, input UpdateTaskInput) (*domain.Task, error)

	// ToggleComplete flips the completion flag.
	ToggleComplete(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, userID, id uuid.UUID) error

	// RegenerateDueDate gives a task a fresh generated due date.
	RegenerateDueDate(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)

	// RescheduleOverdue regenerates the due date of every overdue task and
	// returns the rescheduled tasks.
	RescheduleOverdue(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Reshuffle bumps the user's shuffle seed and returns the new value.
	Reshuffle(ctx context.Context, userID uuid.UUID) (int, error)

	// PreviewDueDate returns a due date generated from the current settings
	// without storing anything.
	PreviewDueDate(ctx context.Context, userID uuid.UUID) (time.Time, error)
}

// TaskServiceOption customizes a TaskService.
type TaskServiceOption func(*taskServiceImpl)

// WithClock sets the clock used for overdue checks and due-date generation.
func WithClock(clock func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) {
		if clock != nil {
			s.now = clock
		}
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	db        *sql.DB
	taskStore store.TaskStore
	tagStore  store.TagStore
	settings  SettingsService
	generator duedate.Generator
	cache     *cache.Cache
	now       func() time.Time
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	db *sql.DB,
	taskStore store.TaskStore,
	tagStore store.TagStore,
	settings SettingsService,
	generator duedate.Generator,
	workspaces *cache.Cache,
	logger *slog.Logger,
	opts ...TaskServiceOption,
) (TaskService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if taskStore == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil", domain.ErrValidation)
	}
	if tagStore == nil {
		return nil, domain.NewValidationError("tagStore", "cannot be nil", domain.ErrValidation)
	}
	if settings == nil {
		return nil, domain.NewValidationError("settings", "cannot be nil", domain.ErrValidation)
	}
	if generator == nil {
		return nil, domain.NewValidationError("generator", "cannot be nil", domain.ErrValidation)
	}
	if workspaces == nil {
		return nil, domain.NewValidationError("cache", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		db:        db,
		taskStore: taskStore,
		tagStore:  tagStore,
		settings:  settings,
		generator: generator,
		cache:     workspaces,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "task_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var due time.Time
	if input.DueDate != nil {
		due = *input.DueDate
	} else {
		generated, err := s.generate(ctx, userID)
		if err != nil {
			return nil, NewServiceError("create_task", "failed to generate due date", err)
		}
		due = generated
	}

	// validate before touching the store so no tags are created for a bad task
	task, err := domain.NewTask(userID, input.Title, input.Description, due, nil)
	if err != nil {
		return nil, NewServiceError("create_task", "invalid task", err)
	}

	var created []domain.Tag
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tags, newTags, err := resolveTags(ctx, s.tagStore.WithTx(tx), userID, input.Tags)
		if err != nil {
			return err
		}
		if err := task.ReplaceTags(tags); err != nil {
			return err
		}
		task.UpdatedAt = task.CreatedAt
		created = newTags
		return s.taskStore.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("create_task", "failed to save task", err)
	}

	s.cache.Apply(userID, func(ws *cache.Workspace) {
		for _, tag := range created {
			ws.PutTag(tag)
		}
		ws.PutTask(task)
	})

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.Int("tag_count", len(task.Tags)),
		slog.Int("new_tag_count", len(created)))
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	task, err := s.current(ctx, userID, id)
	if err != nil {
		return nil, NewServiceError("get_task", "failed to load task", err)
	}
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	input ListTasksInput,
) ([]*domain.Task, error) {
	ws, err := s.cache.Workspace(ctx, userID)
	if err != nil {
		return nil, NewServiceError("list_tasks", "failed to load tasks", err)
	}

	seed := ws.Seed()
	if input.Seed != nil {
		seed = *input.Seed
	}

	result := query.Tasks(ws.Tasks(), query.Options{
		Status:      input.Status,
		Tags:        input.Tags,
		Sort:        input.Sort,
		ShuffleSeed: seed,
	})
	if input.Limit > 0 {
		result = query.Limit(result, input.Limit)
	}
	return result, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, id uuid.UUID,
	input UpdateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.current(ctx, userID, id)
	if err != nil {
		return nil, NewServiceError("update_task", "failed to load task", err)
	}

	if input.Title != nil || input.Description != nil {
		title, description := task.Title, task.Description
		if input.Title != nil {
			title = *input.Title
		}
		if input.Description != nil {
			description = *input.Description
		}
		if err := task.Edit(title, description); err != nil {
			return nil, NewServiceError("update_task", "invalid task", err)
		}
	}
	if input.DueDate != nil {
		if err := task.Reschedule(*input.DueDate); err != nil {
			return nil, NewServiceError("update_task", "invalid due date", err)
		}
	}
	if input.Completed != nil {
		task.SetCompleted(*input.Completed)
	}

	var created []domain.Tag
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if input.Tags != nil {
			tags, newTags, err := resolveTags(ctx, s.tagStore.WithTx(tx), userID, *input.Tags)
			if err != nil {
				return err
			}
			if err := task.ReplaceTags(tags); err != nil {
				return err
			}
			created = newTags
			if err := s.taskStore.WithTx(tx).ReplaceTags(ctx, task.ID, tagIDs(tags)); err != nil {
				return err
			}
		}
		task.UpdatedAt = s.stamp()
		return s.taskStore.WithTx(tx).Update(ctx, task)
	})
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, NewServiceError("update_task", "failed to save task", err)
	}

	s.cache.Apply(userID, func(ws *cache.Workspace) {
		for _, tag := range created {
			ws.PutTag(tag)
		}
		ws.PutTask(task)
	})
	return task, nil
}

// ToggleComplete implements TaskService.ToggleComplete
func (s *taskServiceImpl) ToggleComplete(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	task, err := s.current(ctx, userID, id)
	if err != nil {
		return nil, NewServiceError("toggle_complete", "failed to load task", err)
	}

	task.SetCompleted(!task.Completed)
	if err := s.persist(ctx, task); err != nil {
		return nil, NewServiceError("toggle_complete", "failed to save task", err)
	}
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.taskStore.Delete(ctx, userID, id); err != nil {
		log.Warn("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return NewServiceError("delete_task", "failed to delete task", err)
	}

	s.cache.Apply(userID, func(ws *cache.Workspace) { ws.RemoveTask(id) })
	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// RegenerateDueDate implements TaskService.RegenerateDueDate
func (s *taskServiceImpl) RegenerateDueDate(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	task, err := s.current(ctx, userID, id)
	if err != nil {
		return nil, NewServiceError("regenerate_due_date", "failed to load task", err)
	}

	due, err := s.generate(ctx, userID)
	if err != nil {
		return nil, NewServiceError("regenerate_due_date", "failed to generate due date", err)
	}
	if err := task.Reschedule(due); err != nil {
		return nil, NewServiceError("regenerate_due_date", "invalid due date", err)
	}

	if err := s.persist(ctx, task); err != nil {
		return nil, NewServiceError("regenerate_due_date", "failed to save task", err)
	}
	return task, nil
}

// RescheduleOverdue implements TaskService.RescheduleOverdue
func (s *taskServiceImpl) RescheduleOverdue(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ws, err := s.cache.Workspace(ctx, userID)
	if err != nil {
		return nil, NewServiceError("reschedule_overdue", "failed to load tasks", err)
	}

	settings, err := s.settings.GetSettings(ctx, userID)
	if err != nil {
		return nil, NewServiceError("reschedule_overdue", "failed to load settings", err)
	}

	now := s.now()
	rescheduled := []*domain.Task{}
	for _, task := range ws.Tasks() {
		if !task.IsOverdue(now) {
			continue
		}
		if err := task.Reschedule(s.generator.GenerateAt(*settings, now)); err != nil {
			return nil, NewServiceError("reschedule_overdue", "invalid due date", err)
		}
		task.UpdatedAt = s.stamp()
		rescheduled = append(rescheduled, task)
	}
	if len(rescheduled) == 0 {
		return rescheduled, nil
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.taskStore.WithTx(tx)
		for _, task := range rescheduled {
			if err := txTasks.Update(ctx, task); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to reschedule overdue tasks",
			slog.String("error", err.Error()),
			slog.Int("count", len(rescheduled)))
		return nil, NewServiceError("reschedule_overdue", "failed to save tasks", err)
	}

	s.cache.Apply(userID, func(ws *cache.Workspace) {
		for _, task := range rescheduled {
			ws.PutTask(task)
		}
	})

	log.Info("overdue tasks rescheduled", slog.Int("count", len(rescheduled)))
	return rescheduled, nil
}

// Reshuffle implements TaskService.Reshuffle
func (s *taskServiceImpl) Reshuffle(ctx context.Context, userID uuid.UUID) (int, error) {
	ws, err := s.cache.Workspace(ctx, userID)
	if err != nil {
		return 0, NewServiceError("reshuffle", "failed to load tasks", err)
	}
	return ws.BumpSeed(), nil
}

// PreviewDueDate implements TaskService.PreviewDueDate
func (s *taskServiceImpl) PreviewDueDate(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	due, err := s.generate(ctx, userID)
	if err != nil {
		return time.Time{}, NewServiceError("preview_due_date", "failed to generate due date", err)
	}
	return due, nil
}

// current returns a private copy of one of the user's tasks.
func (s *taskServiceImpl) current(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	ws, err := s.cache.Workspace(ctx, userID)
	if err != nil {
		return nil, err
	}
	task, ok := ws.Task(id)
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// persist saves the mutable fields of task and mirrors them into the cache.
func (s *taskServiceImpl) persist(ctx context.Context, task *domain.Task) error {
	task.UpdatedAt = s.stamp()
	if err := s.taskStore.Update(ctx, task); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}
	s.cache.Apply(task.UserID, func(ws *cache.Workspace) { ws.PutTask(task) })
	return nil
}

func (s *taskServiceImpl) generate(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	settings, err := s.settings.GetSettings(ctx, userID)
	if err != nil {
		return time.Time{}, err
	}
	return s.generator.GenerateAt(*settings, s.now()), nil
}

// stamp returns the service clock in UTC at the precision databases keep.
func (s *taskServiceImpl) stamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func tagIDs(tags []domain.Tag) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}
