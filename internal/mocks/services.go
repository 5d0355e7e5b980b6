package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/service"
)

// MockTaskService implements service.TaskService for handler tests.
// Unset functions return zero values.
type MockTaskService struct {
	CreateTaskFn        func(ctx context.Context, userID uuid.UUID, input service.CreateTaskInput) (*domain.Task, error)
	GetTaskFn           func(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)
	ListTasksFn         func(ctx context.Context, userID uuid.UUID, input service.ListTasksInput) ([]*domain.Task, error)
	UpdateTaskFn        func(ctx context.Context, userID, id uuid.UUID, input service.UpdateTaskInput) (*domain.Task, error)
	ToggleCompleteFn    func(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)
	DeleteTaskFn        func(ctx context.Context, userID, id uuid.UUID) error
	RegenerateDueDateFn func(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)
	RescheduleOverdueFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	ReshuffleFn         func(ctx context.Context, userID uuid.UUID) (int, error)
	PreviewDueDateFn    func(ctx context.Context, userID uuid.UUID) (time.Time, error)
}

var _ service.TaskService = (*MockTaskService)(nil)

// CreateTask implements service.TaskService.
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input service.CreateTaskInput,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, userID, input)
	}
	return nil, nil
}

// GetTask implements service.TaskService.
func (m *MockTaskService) GetTask(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, userID, id)
	}
	return nil, nil
}

// ListTasks implements service.TaskService.
func (m *MockTaskService) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	input service.ListTasksInput,
) ([]*domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, userID, input)
	}
	return nil, nil
}

// UpdateTask implements service.TaskService.
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	userID, id uuid.UUID,
	input service.UpdateTaskInput,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, userID, id, input)
	}
	return nil, nil
}

// ToggleComplete implements service.TaskService.
func (m *MockTaskService) ToggleComplete(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	if m.ToggleCompleteFn != nil {
		return m.ToggleCompleteFn(ctx, userID, id)
	}
	return nil, nil
}

// DeleteTask implements service.TaskService.
func (m *MockTaskService) DeleteTask(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, userID, id)
	}
	return nil
}

// RegenerateDueDate implements service.TaskService.
func (m *MockTaskService) RegenerateDueDate(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	if m.RegenerateDueDateFn != nil {
		return m.RegenerateDueDateFn(ctx, userID, id)
	}
	return nil, nil
}

// RescheduleOverdue implements service.TaskService.
func (m *MockTaskService) RescheduleOverdue(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	if m.RescheduleOverdueFn != nil {
		return m.RescheduleOverdueFn(ctx, userID)
	}
	return []*domain.Task{}, nil
}

// Reshuffle implements service.TaskService.
func (m *MockTaskService) Reshuffle(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.ReshuffleFn != nil {
		return m.ReshuffleFn(ctx, userID)
	}
	return 0, nil
}

// PreviewDueDate implements service.TaskService.
func (m *MockTaskService) PreviewDueDate(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	if m.PreviewDueDateFn != nil {
		return m.PreviewDueDateFn(ctx, userID)
	}
	return time.Time{}, nil
}

// MockTagService implements service.TagService for handler tests.
type MockTagService struct {
	ListTagsFn  func(ctx context.Context, userID uuid.UUID) ([]domain.Tag, error)
	CreateTagFn func(ctx context.Context, userID uuid.UUID, name, color string) (*domain.Tag, bool, error)
	DeleteTagFn func(ctx context.Context, userID, id uuid.UUID) error
}

var _ service.TagService = (*MockTagService)(nil)

// ListTags implements service.TagService.
func (m *MockTagService) ListTags(ctx context.Context, userID uuid.UUID) ([]domain.Tag, error) {
	if m.ListTagsFn != nil {
		return m.ListTagsFn(ctx, userID)
	}
	return []domain.Tag{}, nil
}

// CreateTag implements service.TagService.
func (m *MockTagService) CreateTag(
	ctx context.Context,
	userID uuid.UUID,
	name, color string,
) (*domain.Tag, bool, error) {
	if m.CreateTagFn != nil {
		return m.CreateTagFn(ctx, userID, name, color)
	}
	return nil, false, nil
}

// DeleteTag implements service.TagService.
func (m *MockTagService) DeleteTag(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteTagFn != nil {
		return m.DeleteTagFn(ctx, userID, id)
	}
	return nil
}

// MockSettingsService implements service.SettingsService for handler tests.
// Without functions set it serves domain defaults.
type MockSettingsService struct {
	GetSettingsFn    func(ctx context.Context, userID uuid.UUID) (*domain.Settings, error)
	UpdateSettingsFn func(ctx context.Context, userID uuid.UUID, input service.SettingsInput) (*domain.Settings, error)
	ResetSettingsFn  func(ctx context.Context, userID uuid.UUID) (*domain.Settings, error)
}

var _ service.SettingsService = (*MockSettingsService)(nil)

// GetSettings implements service.SettingsService.
func (m *MockSettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*domain.Settings, error) {
	if m.GetSettingsFn != nil {
		return m.GetSettingsFn(ctx, userID)
	}
	s := domain.DefaultSettings(userID)
	return &s, nil
}

// UpdateSettings implements service.SettingsService.
func (m *MockSettingsService) UpdateSettings(
	ctx context.Context,
	userID uuid.UUID,
	input service.SettingsInput,
) (*domain.Settings, error) {
	if m.UpdateSettingsFn != nil {
		return m.UpdateSettingsFn(ctx, userID, input)
	}
	return nil, nil
}

// ResetSettings implements service.SettingsService.
func (m *MockSettingsService) ResetSettings(ctx context.Context, userID uuid.UUID) (*domain.Settings, error) {
	if m.ResetSettingsFn != nil {
		return m.ResetSettingsFn(ctx, userID)
	}
	s := domain.DefaultSettings(userID)
	return &s, nil
}
