// Package mocks provides centralized mock implementations for testing.
//
// Each mock exposes function fields (CreateFn, GetByIDFn, ...) that override
// a method when set. Store mocks otherwise fall back to a small in-memory
// implementation guarded by a mutex, so they can stand in for a real store
// in service and cache tests:
//
//	tasks := mocks.NewMockTaskStore()
//	tasks.CreateFn = func(ctx context.Context, task *domain.Task) error {
//	    return store.ErrInvalidEntity
//	}
package mocks
