package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/store"
)

// MockSettingsStore implements store.SettingsStore for testing
type MockSettingsStore struct {
	GetFn    func(ctx context.Context, userID uuid.UUID) (*domain.Settings, error)
	UpsertFn func(ctx context.Context, settings *domain.Settings) error

	mu       sync.Mutex
	settings map[uuid.UUID]domain.Settings
}

var _ store.SettingsStore = (*MockSettingsStore)(nil)

// NewMockSettingsStore creates an empty in-memory settings store.
func NewMockSettingsStore() *MockSettingsStore {
	return &MockSettingsStore{settings: make(map[uuid.UUID]domain.Settings)}
}

// Get implements store.SettingsStore.
func (m *MockSettingsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Settings, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settings[userID]
	if !ok {
		return nil, store.ErrSettingsNotFound
	}
	return &s, nil
}

// Upsert implements store.SettingsStore.
func (m *MockSettingsStore) Upsert(ctx context.Context, settings *domain.Settings) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, settings)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		m.settings = make(map[uuid.UUID]domain.Settings)
	}
	m.settings[settings.UserID] = *settings
	return nil
}

// WithTx implements store.SettingsStore. The mock ignores the transaction.
func (m *MockSettingsStore) WithTx(_ *sql.Tx) store.SettingsStore {
	return m
}
