// Package query filters and orders a user's tasks for display.
//
// Tasks is a pure function: it never mutates its input and always returns a
// fresh slice. All orderings are stable, so tasks that compare equal keep the
// order they were given in.
package query

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/phrazzld/postpone/internal/domain"
)

// Status selects tasks by completion state.
type Status string

// Supported status filters.
const (
	StatusAll       Status = "all"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// SortMode selects the result ordering.
type SortMode string

// Supported sort modes.
const (
	SortDueDate   SortMode = "due_date"
	SortCreatedAt SortMode = "created_at"
	SortRandom    SortMode = "random"
)

var (
	ErrUnknownStatus   = errors.New("unknown status filter")
	ErrUnknownSortMode = errors.New("unknown sort mode")
)

// Options describe one query. The zero value lists every task by due date.
type Options struct {
	Status Status
	// Tags matches tasks carrying at least one of these names, ignoring case.
	// Empty matches everything.
	Tags        []string
	Sort        SortMode
	ShuffleSeed int
}

// ParseStatus converts a request value into a Status. Empty means StatusAll.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// ParseSortMode converts a request value into a SortMode. Empty means SortDueDate.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortDueDate:
		return SortDueDate, nil
	case SortCreatedAt:
		return SortCreatedAt, nil
	case SortRandom:
		return SortRandom, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortMode, s)
}

// Tasks returns the tasks that pass both the status and the tag filter,
// ordered by opts.Sort.
func Tasks(tasks []*domain.Task, opts Options) []*domain.Task {
	wanted := tagSet(opts.Tags)

	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t == nil || !matchesStatus(t, opts.Status) || !matchesTags(t, wanted) {
			continue
		}
		out = append(out, t)
	}

	switch opts.Sort {
	case SortCreatedAt:
		slices.SortStableFunc(out, func(a, b *domain.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortRandom:
		sortRandom(out, opts.ShuffleSeed)
	default:
		slices.SortStableFunc(out, func(a, b *domain.Task) int {
			return a.DueDate.Compare(b.DueDate)
		})
	}

	return out
}

// Limit returns at most n tasks. n <= 0 means no limit.
func Limit(tasks []*domain.Task, n int) []*domain.Task {
	if n <= 0 || n >= len(tasks) {
		return tasks
	}
	return tasks[:n:n]
}

func matchesStatus(t *domain.Task, s Status) bool {
	switch s {
	case StatusPending:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	default:
		return true
	}
}

func tagSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		if key := domain.TagKey(name); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

func matchesTags(t *domain.Task, wanted map[string]struct{}) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, tag := range t.Tags {
		if _, ok := wanted[tag.Key()]; ok {
			return true
		}
	}
	return false
}

// sortRandom orders tasks by a key derived from each ID and the seed. The
// same seed and task set always yield the same order.
func sortRandom(tasks []*domain.Task, seed int) {
	keys := make(map[*domain.Task]float64, len(tasks))
	for _, t := range tasks {
		keys[t] = shuffleKey(t.ID.String(), seed)
	}
	slices.SortStableFunc(tasks, func(a, b *domain.Task) int {
		ka, kb := keys[a], keys[b]
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	})
}

// shuffleKey returns frac(sin(hash+seed) * 10000), where hash is the sum of
// the character codes of id.
func shuffleKey(id string, seed int) float64 {
	hash := 0
	for _, r := range id {
		hash += int(r)
	}
	x := math.Sin(float64(hash+seed)) * 10000
	return x - math.Floor(x)
}
