package mocks

import (
	"time"

	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/domain/duedate"
)

// MockGenerator implements duedate.Generator for testing
type MockGenerator struct {
	GenerateAtFn func(settings domain.Settings, now time.Time) time.Time

	// Due is returned by default when GenerateAtFn is nil.
	Due time.Time
	// Calls records the settings of every call.
	Calls []domain.Settings
}

var _ duedate.Generator = (*MockGenerator)(nil)

// Generate implements duedate.Generator.
func (m *MockGenerator) Generate(settings domain.Settings) time.Time {
	return m.GenerateAt(settings, time.Now())
}

// GenerateAt implements duedate.Generator.
func (m *MockGenerator) GenerateAt(settings domain.Settings, now time.Time) time.Time {
	m.Calls = append(m.Calls, settings)
	if m.GenerateAtFn != nil {
		return m.GenerateAtFn(settings, now)
	}
	return m.Due
}
