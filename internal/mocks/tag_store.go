package mocks

import (
	"context"
	"database/sql"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/store"
)

// MockTagStore implements store.TagStore for testing
type MockTagStore struct {
	CreateFn     func(ctx context.Context, tag *domain.Tag) error
	GetByIDFn    func(ctx context.Context, userID, id uuid.UUID) (*domain.Tag, error)
	GetByNameFn  func(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error)
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]domain.Tag, error)
	DeleteFn     func(ctx context.Context, userID, id uuid.UUID) error

	mu   sync.Mutex
	tags []domain.Tag
}

var _ store.TagStore = (*MockTagStore)(nil)

// NewMockTagStore creates an empty in-memory tag store.
func NewMockTagStore() *MockTagStore {
	return &MockTagStore{}
}

// Create implements store.TagStore.
func (m *MockTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tag)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tags {
		if t.UserID == tag.UserID && t.Key() == tag.Key() {
			return store.ErrTagNameExists
		}
	}
	m.tags = append(m.tags, *tag)
	return nil
}

// GetByID implements store.TagStore.
func (m *MockTagStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Tag, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tags {
		if t.UserID == userID && t.ID == id {
			tag := t
			return &tag, nil
		}
	}
	return nil, store.ErrTagNotFound
}

// GetByName implements store.TagStore.
func (m *MockTagStore) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, userID, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := domain.TagKey(name)
	for _, t := range m.tags {
		if t.UserID == userID && t.Key() == key {
			tag := t
			return &tag, nil
		}
	}
	return nil, store.ErrTagNotFound
}

// ListByUser implements store.TagStore.
func (m *MockTagStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Tag, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Tag{}
	for _, t := range m.tags {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Tag) int { return strings.Compare(a.Key(), b.Key()) })
	return out, nil
}

// Delete implements store.TagStore.
func (m *MockTagStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.tags, func(t domain.Tag) bool { return t.UserID == userID && t.ID == id })
	if i < 0 {
		return store.ErrTagNotFound
	}
	m.tags = slices.Delete(m.tags, i, i+1)
	return nil
}

// WithTx implements store.TagStore. The mock ignores the transaction.
func (m *MockTagStore) WithTx(_ *sql.Tx) store.TagStore {
	return m
}
