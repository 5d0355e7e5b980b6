package mocks

import (
	"context"
	"database/sql"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	CreateFn      func(ctx context.Context, task *domain.Task) error
	GetByIDFn     func(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)
	ListByUserFn  func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	UpdateFn      func(ctx context.Context, task *domain.Task) error
	ReplaceTagsFn func(ctx context.Context, taskID uuid.UUID, tagIDs []uuid.UUID) error
	DeleteFn      func(ctx context.Context, userID, id uuid.UUID) error

	mu    sync.Mutex
	tasks []*domain.Task
	// Tags resolves tag IDs passed to ReplaceTags. Optional.
	Tags *MockTagStore
	// ListCalls counts ListByUser invocations.
	ListCalls int
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty in-memory task store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{}
}

// Seed adds tasks directly, bypassing validation.
func (m *MockTaskStore) Seed(tasks ...*domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tasks {
		m.tasks = append(m.tasks, t.Clone())
	}
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task.Clone())
	return nil
}

// GetByID implements store.TaskStore.
func (m *MockTaskStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.index(userID, id); i >= 0 {
		return m.tasks[i].Clone(), nil
	}
	return nil, store.ErrTaskNotFound
}

// ListByUser implements store.TaskStore.
func (m *MockTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()

	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Task{}
	for _, t := range m.tasks {
		if t.UserID == userID {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(task.UserID, task.ID)
	if i < 0 {
		return store.ErrTaskNotFound
	}
	tags := m.tasks[i].Tags
	m.tasks[i] = task.Clone()
	m.tasks[i].Tags = tags
	return nil
}

// ReplaceTags implements store.TaskStore.
func (m *MockTaskStore) ReplaceTags(ctx context.Context, taskID uuid.UUID, tagIDs []uuid.UUID) error {
	if m.ReplaceTagsFn != nil {
		return m.ReplaceTagsFn(ctx, taskID, tagIDs)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.tasks, func(t *domain.Task) bool { return t.ID == taskID })
	if i < 0 {
		return store.ErrTaskNotFound
	}
	tags := []domain.Tag{}
	for _, id := range tagIDs {
		if m.Tags == nil {
			tags = append(tags, domain.Tag{ID: id, UserID: m.tasks[i].UserID})
			continue
		}
		tag, err := m.Tags.GetByID(ctx, m.tasks[i].UserID, id)
		if err != nil {
			return store.ErrInvalidEntity
		}
		tags = append(tags, *tag)
	}
	m.tasks[i].Tags = tags
	return nil
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(userID, id)
	if i < 0 {
		return store.ErrTaskNotFound
	}
	m.tasks = slices.Delete(m.tasks, i, i+1)
	return nil
}

// WithTx implements store.TaskStore. The mock ignores the transaction.
func (m *MockTaskStore) WithTx(_ *sql.Tx) store.TaskStore {
	return m
}

func (m *MockTaskStore) index(userID, id uuid.UUID) int {
	return slices.IndexFunc(m.tasks, func(t *domain.Task) bool {
		return t.ID == id && t.UserID == userID
	})
}
