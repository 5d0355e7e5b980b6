package cache

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
)

// Workspace is the in-memory view of one user's tasks, tags and shuffle
// seed. It is safe for concurrent use. Values handed out are copies, so
// callers may mutate them freely.
type Workspace struct {
	mu     sync.RWMutex
	userID uuid.UUID
	tasks  []*domain.Task
	tags   []domain.Tag
	seed   int
}

// NewWorkspace creates a workspace holding copies of tasks and tags.
func NewWorkspace(userID uuid.UUID, tasks []*domain.Task, tags []domain.Tag) *Workspace {
	ws := &Workspace{
		userID: userID,
		tasks:  make([]*domain.Task, 0, len(tasks)),
		tags:   append([]domain.Tag(nil), tags...),
	}
	for _, t := range tasks {
		if t != nil {
			ws.tasks = append(ws.tasks, t.Clone())
		}
	}
	return ws
}

// UserID returns the owner of the workspace.
func (w *Workspace) UserID() uuid.UUID {
	return w.userID
}

// Tasks returns copies of every task in insertion order.
func (w *Workspace) Tasks() []*domain.Task {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*domain.Task, 0, len(w.tasks))
	for _, t := range w.tasks {
		out = append(out, t.Clone())
	}
	return out
}

// Task returns a copy of the task with the given ID.
func (w *Workspace) Task(id uuid.UUID) (*domain.Task, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if i := w.taskIndex(id); i >= 0 {
		return w.tasks[i].Clone(), true
	}
	return nil, false
}

// PutTask inserts task, or replaces the task with the same ID in place.
func (w *Workspace) PutTask(task *domain.Task) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c := task.Clone()
	if i := w.taskIndex(task.ID); i >= 0 {
		w.tasks[i] = c
		return
	}
	w.tasks = append(w.tasks, c)
}

// RemoveTask drops the task with the given ID, if present.
func (w *Workspace) RemoveTask(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tasks = slices.DeleteFunc(w.tasks, func(t *domain.Task) bool { return t.ID == id })
}

// Tags returns a copy of the user's tags.
func (w *Workspace) Tags() []domain.Tag {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return append([]domain.Tag(nil), w.tags...)
}

// TagByName finds a tag ignoring case and surrounding spaces.
func (w *Workspace) TagByName(name string) (domain.Tag, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	key := domain.TagKey(name)
	for _, t := range w.tags {
		if t.Key() == key {
			return t, true
		}
	}
	return domain.Tag{}, false
}

// PutTag adds tag unless a tag with the same ID is already present.
func (w *Workspace) PutTag(tag domain.Tag) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if slices.ContainsFunc(w.tags, func(t domain.Tag) bool { return t.ID == tag.ID }) {
		return
	}
	w.tags = append(w.tags, tag)
	slices.SortStableFunc(w.tags, func(a, b domain.Tag) int {
		return strings.Compare(a.Key(), b.Key())
	})
}

// RemoveTag drops the tag and detaches it from every task.
func (w *Workspace) RemoveTag(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tags = slices.DeleteFunc(w.tags, func(t domain.Tag) bool { return t.ID == id })
	for i, task := range w.tasks {
		if !slices.ContainsFunc(task.Tags, func(t domain.Tag) bool { return t.ID == id }) {
			continue
		}
		c := task.Clone()
		c.Tags = slices.DeleteFunc(c.Tags, func(t domain.Tag) bool { return t.ID == id })
		w.tasks[i] = c
	}
}

// Seed returns the current shuffle seed.
func (w *Workspace) Seed() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.seed
}

// BumpSeed increments the shuffle seed and returns the new value.
func (w *Workspace) BumpSeed() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seed++
	return w.seed
}

func (w *Workspace) taskIndex(id uuid.UUID) int {
	return slices.IndexFunc(w.tasks, func(t *domain.Task) bool { return t.ID == id })
}

