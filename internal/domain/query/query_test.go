package query

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testUser = uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	base     = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
)

// stableID returns the same UUID for the same label across runs.
func stableID(label string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(label))
}

func newTask(label string, completed bool, due, created time.Duration, tags ...string) *domain.Task {
	t := &domain.Task{
		ID:        stableID(label),
		UserID:    testUser,
		Title:     label,
		DueDate:   base.Add(due),
		Completed: completed,
		CreatedAt: base.Add(created),
	}
	for _, name := range tags {
		t.Tags = append(t.Tags, domain.Tag{ID: stableID("tag-" + name), UserID: testUser, Name: name})
	}
	return t
}

func titles(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func sample() []*domain.Task {
	return []*domain.Task{
		newTask("laundry", false, 48*time.Hour, -3*time.Hour, "home"),
		newTask("report", true, 24*time.Hour, -1*time.Hour, "Work"),
		newTask("dentist", false, 72*time.Hour, -5*time.Hour, "health", "errands"),
		newTask("groceries", true, 12*time.Hour, -2*time.Hour, "errands", "home"),
		newTask("read", false, 96*time.Hour, -4*time.Hour),
	}
}

func TestTasksStatusFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status Status
		want   []string
	}{
		{StatusAll, []string{"groceries", "report", "laundry", "dentist", "read"}},
		{StatusPending, []string{"laundry", "dentist", "read"}},
		{StatusCompleted, []string{"groceries", "report"}},
		{"", []string{"groceries", "report", "laundry", "dentist", "read"}},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			got := Tasks(sample(), Options{Status: tc.status, Sort: SortDueDate})
			assert.Equal(t, tc.want, titles(got))
			for _, task := range got {
				switch tc.status {
				case StatusPending:
					assert.False(t, task.Completed)
				case StatusCompleted:
					assert.True(t, task.Completed)
				}
			}
		})
	}
}

func TestTasksTagFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status Status
		tags   []string
		want   []string
	}{
		{"empty filter passes everything", StatusAll, nil, []string{"groceries", "report", "laundry", "dentist", "read"}},
		{"single tag", StatusAll, []string{"home"}, []string{"groceries", "laundry"}},
		{"any of several tags", StatusAll, []string{"work", "health"}, []string{"report", "dentist"}},
		{"case insensitive", StatusAll, []string{"ERRANDS"}, []string{"groceries", "dentist"}},
		{"combined with status", StatusPending, []string{"home", "errands"}, []string{"laundry", "dentist"}},
		{"unknown tag", StatusAll, []string{"nope"}, []string{}},
		{"blank names ignored", StatusAll, []string{" ", ""}, []string{"groceries", "report", "laundry", "dentist", "read"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Tasks(sample(), Options{Status: tc.status, Tags: tc.tags})
			assert.Equal(t, tc.want, titles(got))
		})
	}
}

func TestTasksSortByDueDateIsNonDecreasing(t *testing.T) {
	t.Parallel()

	got := Tasks(sample(), Options{Sort: SortDueDate})
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].DueDate.Before(got[i-1].DueDate))
	}
}

func TestTasksSortByCreatedAtNewestFirst(t *testing.T) {
	t.Parallel()

	got := Tasks(sample(), Options{Sort: SortCreatedAt})
	assert.Equal(t, []string{"report", "groceries", "laundry", "read", "dentist"}, titles(got))
}

func TestTasksSortIsStable(t *testing.T) {
	t.Parallel()

	tasks := []*domain.Task{
		newTask("first", false, time.Hour, 0),
		newTask("second", false, time.Hour, 0),
		newTask("third", false, time.Hour, 0),
	}

	assert.Equal(t, []string{"first", "second", "third"}, titles(Tasks(tasks, Options{Sort: SortDueDate})))
	assert.Equal(t, []string{"first", "second", "third"}, titles(Tasks(tasks, Options{Sort: SortCreatedAt})))
}

func manyTasks(n int) []*domain.Task {
	tasks := make([]*domain.Task, 0, n)
	for i := 0; i < n; i++ {
		tasks = append(tasks, newTask(fmt.Sprintf("task-%02d", i), false, time.Duration(i)*time.Hour, 0))
	}
	return tasks
}

func TestTasksRandomIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()

	tasks := manyTasks(20)
	first := titles(Tasks(tasks, Options{Sort: SortRandom, ShuffleSeed: 3}))
	second := titles(Tasks(tasks, Options{Sort: SortRandom, ShuffleSeed: 3}))

	assert.Equal(t, first, second)
	assert.ElementsMatch(t, titles(tasks), first)
}

func TestTasksRandomChangesWithSeed(t *testing.T) {
	t.Parallel()

	tasks := manyTasks(20)
	orders := map[string]bool{}
	for seed := 0; seed < 5; seed++ {
		orders[fmt.Sprint(titles(Tasks(tasks, Options{Sort: SortRandom, ShuffleSeed: seed})))] = true
	}
	assert.Greater(t, len(orders), 1)
}

func TestShuffleKey(t *testing.T) {
	t.Parallel()

	// "ab" sums to 97+98.
	assert.InDelta(t, shuffleKey("ab", 5), shuffleKey("ba", 5), 1e-12)
	for seed := -3; seed < 3; seed++ {
		k := shuffleKey("a1b2", seed)
		assert.GreaterOrEqual(t, k, 0.0)
		assert.Less(t, k, 1.0)
	}
}

func TestTasksRandomOrdersByShuffleKey(t *testing.T) {
	t.Parallel()

	// All zeros sums to 32*'0' + 4*'-' = 1716.
	nilKey := math.Sin(1716+4) * 10000
	assert.InDelta(t, nilKey-math.Floor(nilKey), shuffleKey(uuid.Nil.String(), 4), 1e-9)

	ids := []string{
		"00000000-0000-0000-0000-000000000000",
		"ffffffff-ffff-ffff-ffff-ffffffffffff",
		"123e4567-e89b-12d3-a456-426614174000",
		"9b2f6c1e-3d4a-4f5b-8c7d-0e1f2a3b4c5d",
		"7d444840-9dc0-11d1-b245-5ffdce74fad2",
	}
	tasks := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, &domain.Task{ID: uuid.MustParse(id), UserID: testUser, Title: id, DueDate: base, CreatedAt: base})
	}

	for _, seed := range []int{0, 1, 17, -9} {
		key := func(id string) float64 {
			sum := 0
			for i := 0; i < len(id); i++ {
				sum += int(id[i])
			}
			x := math.Sin(float64(sum+seed)) * 10000
			return x - math.Floor(x)
		}
		want := slices.Clone(ids)
		sort.SliceStable(want, func(i, j int) bool { return key(want[i]) < key(want[j]) })

		got := titles(Tasks(tasks, Options{Sort: SortRandom, ShuffleSeed: seed}))
		assert.Equal(t, want, got, "seed %d", seed)
	}
}

func TestTasksPendingExample(t *testing.T) {
	t.Parallel()

	a := newTask("a", false, time.Hour, 0)
	b := newTask("b", true, 2*time.Hour, 0)

	got := Tasks([]*domain.Task{a, b}, Options{Status: StatusPending, Sort: SortDueDate})
	assert.Equal(t, []*domain.Task{a}, got)
}

func TestTasksDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	tasks := sample()
	before := titles(tasks)

	for _, mode := range []SortMode{SortDueDate, SortCreatedAt, SortRandom} {
		got := Tasks(tasks, Options{Sort: mode, ShuffleSeed: 1})
		require.Len(t, got, len(tasks))
		assert.Equal(t, before, titles(tasks))
	}
}

func TestTasksEmptyInput(t *testing.T) {
	t.Parallel()

	got := Tasks(nil, Options{Sort: SortRandom})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLimit(t *testing.T) {
	t.Parallel()

	tasks := sample()
	assert.Len(t, Limit(tasks, 3), 3)
	assert.Len(t, Limit(tasks, 0), 5)
	assert.Len(t, Limit(tasks, 10), 5)

	recent := Limit(Tasks(tasks, Options{Sort: SortCreatedAt}), 3)
	assert.Equal(t, []string{"report", "groceries", "laundry"}, titles(recent))
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Status{"": StatusAll, "all": StatusAll, "Pending": StatusPending, " completed ": StatusCompleted} {
		got, err := ParseStatus(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseStatus("archived")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestParseSortMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]SortMode{"": SortDueDate, "due_date": SortDueDate, "created_at": SortCreatedAt, "RANDOM": SortRandom} {
		got, err := ParseSortMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseSortMode("title")
	assert.ErrorIs(t, err, ErrUnknownSortMode)
}
