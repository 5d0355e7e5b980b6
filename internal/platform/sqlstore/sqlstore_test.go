package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUniqueViolation = errors.New("unique violation")

// testDialect mimics a driver whose unique violations surface as errUniqueViolation.
var testDialect = Dialect{
	Name:        "test",
	Placeholder: sq.Question,
	MapError: func(err error) error {
		if errors.Is(err, errUniqueViolation) {
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		}
		return err
	},
}

var tagJoinColumns = []string{"task_id", "id", "user_id", "name", "color", "created_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func fixtureTask(t *testing.T, userID uuid.UUID, tags ...domain.Tag) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(userID, "Water plants", "", time.Now().Add(24*time.Hour), tags)
	require.NoError(t, err)
	return task
}

func TestTaskStoreCreate(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	userID := uuid.New()
	home := domain.Tag{ID: uuid.New(), UserID: userID, Name: "home"}
	work := domain.Tag{ID: uuid.New(), UserID: userID, Name: "work"}
	task := fixtureTask(t, userID, home, work)

	mock.ExpectExec("INSERT INTO tasks").
		WithArgs(task.ID, userID, "Water plants", "", sqlmock.AnyArg(), false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO task_tags").
		WithArgs(task.ID, home.ID, task.ID, work.ID).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := NewTaskStore(db, testDialect, nil).Create(context.Background(), task)
	assert.NoError(t, err)
}

func TestTaskStoreCreateWithoutTagsSkipsJoin(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	task := fixtureTask(t, uuid.New())

	mock.ExpectExec("INSERT INTO tasks").WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, NewTaskStore(db, testDialect, nil).Create(context.Background(), task))
}

func TestTaskStoreCreateRejectsInvalidTask(t *testing.T) {
	t.Parallel()
	db, _ := newMock(t)

	err := NewTaskStore(db, testDialect, nil).Create(context.Background(), &domain.Task{ID: uuid.New(), UserID: uuid.New()})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
}

func TestTaskStoreGetByID(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	userID, taskID, tagID := uuid.New(), uuid.New(), uuid.New()
	due := time.Date(2026, time.May, 2, 9, 15, 0, 0, time.UTC)
	created := due.Add(-72 * time.Hour)

	mock.ExpectQuery(`SELECT .+ FROM tasks WHERE`).
		WithArgs(taskID, userID).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(taskID.String(), userID.String(), "Call mom", "weekly", due, true, created, created))
	mock.ExpectQuery(`FROM task_tags tt JOIN tags t`).
		WithArgs(taskID).
		WillReturnRows(sqlmock.NewRows(tagJoinColumns).
			AddRow(taskID.String(), tagID.String(), userID.String(), "Family", "#ff0000", created))

	task, err := NewTaskStore(db, testDialect, nil).GetByID(context.Background(), userID, taskID)
	require.NoError(t, err)

	assert.Equal(t, taskID, task.ID)
	assert.Equal(t, "Call mom", task.Title)
	assert.Equal(t, "weekly", task.Description)
	assert.True(t, task.Completed)
	assert.True(t, task.DueDate.Equal(due))
	require.Len(t, task.Tags, 1)
	assert.Equal(t, "Family", task.Tags[0].Name)
	assert.Equal(t, tagID, task.Tags[0].ID)
}

func TestTaskStoreGetByIDNotFound(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	mock.ExpectQuery(`FROM tasks`).WillReturnRows(sqlmock.NewRows(taskColumns))

	_, err := NewTaskStore(db, testDialect, nil).GetByID(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTaskStoreListByUserAttachesTags(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	userID, first, second, tagID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM tasks WHERE user_id = \? ORDER BY created_at, id`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(first.String(), userID.String(), "first", "", now, false, now, now).
			AddRow(second.String(), userID.String(), "second", "", now, false, now, now))
	mock.ExpectQuery(`FROM task_tags tt JOIN tags t ON t.id = tt.tag_id WHERE t.user_id = \?`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(tagJoinColumns).
			AddRow(second.String(), tagID.String(), userID.String(), "errands", "", now))

	tasks, err := NewTaskStore(db, testDialect, nil).ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Empty(t, tasks[0].Tags)
	assert.NotNil(t, tasks[0].Tags)
	assert.Equal(t, []string{"errands"}, tasks[1].TagNames())
}

func TestTaskStoreUpdate(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		db, mock := newMock(t)
		task := fixtureTask(t, uuid.New())
		task.SetCompleted(true)

		mock.ExpectExec(`UPDATE tasks SET title = \?, description = \?, due_date = \?, completed = \?, updated_at = \? WHERE id = \? AND user_id = \?`).
			WithArgs(task.Title, task.Description, sqlmock.AnyArg(), true, sqlmock.AnyArg(), task.ID, task.UserID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewTaskStore(db, testDialect, nil).Update(context.Background(), task))
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec("UPDATE tasks").WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewTaskStore(db, testDialect, nil).Update(context.Background(), fixtureTask(t, uuid.New()))
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskStoreReplaceTags(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	taskID, tagID := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE FROM task_tags WHERE task_id = \?`).
		WithArgs(taskID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO task_tags").
		WithArgs(taskID, tagID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, NewTaskStore(db, testDialect, nil).ReplaceTags(context.Background(), taskID, []uuid.UUID{tagID}))
}

func TestTaskStoreDelete(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		db, mock := newMock(t)
		userID, id := uuid.New(), uuid.New()
		mock.ExpectExec(`DELETE FROM tasks WHERE id = \? AND user_id = \?`).
			WithArgs(id, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewTaskStore(db, testDialect, nil).Delete(context.Background(), userID, id))
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec("DELETE FROM tasks").WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewTaskStore(db, testDialect, nil).Delete(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskStoreWithTx(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO tasks").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := NewTaskStore(db, testDialect, nil)
	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return s.WithTx(tx).Create(ctx, fixtureTask(t, userID))
	})
	assert.NoError(t, err)
}

func TestTagStoreCreate(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		db, mock := newMock(t)
		tag, err := domain.NewTag(uuid.New(), "Errands", "#00ff00")
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO tags").
			WithArgs(tag.ID, tag.UserID, "Errands", "errands", "#00ff00", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewTagStore(db, testDialect, nil).Create(context.Background(), tag))
	})

	t.Run("duplicate name", func(t *testing.T) {
		db, mock := newMock(t)
		tag, err := domain.NewTag(uuid.New(), "ERRANDS", "")
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO tags").WillReturnError(errUniqueViolation)

		err = NewTagStore(db, testDialect, nil).Create(context.Background(), tag)
		assert.ErrorIs(t, err, store.ErrTagNameExists)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("other failure passes through", func(t *testing.T) {
		db, mock := newMock(t)
		tag, err := domain.NewTag(uuid.New(), "x", "")
		require.NoError(t, err)

		boom := errors.New("disk full")
		mock.ExpectExec("INSERT INTO tags").WillReturnError(boom)

		err = NewTagStore(db, testDialect, nil).Create(context.Background(), tag)
		assert.ErrorIs(t, err, boom)
	})
}

func TestTagStoreGetByNameIgnoresCase(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	userID, tagID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM tags WHERE name_key = \? AND user_id = \?`).
		WithArgs("work", userID).
		WillReturnRows(sqlmock.NewRows(tagColumns).
			AddRow(tagID.String(), userID.String(), "Work", "", time.Now()))

	tag, err := NewTagStore(db, testDialect, nil).GetByName(context.Background(), userID, "  WORK ")
	require.NoError(t, err)
	assert.Equal(t, "Work", tag.Name)
	assert.Equal(t, tagID, tag.ID)
}

func TestTagStoreGetByIDNotFound(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	mock.ExpectQuery("FROM tags").WillReturnRows(sqlmock.NewRows(tagColumns))

	_, err := NewTagStore(db, testDialect, nil).GetByID(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTagNotFound)
}

func TestTagStoreListAndDelete(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM tags WHERE user_id = \? ORDER BY name_key`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(tagColumns).
			AddRow(uuid.NewString(), userID.String(), "alpha", "", now).
			AddRow(uuid.NewString(), userID.String(), "Beta", "#abc", now))
	mock.ExpectExec(`DELETE FROM tags`).WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewTagStore(db, testDialect, nil)
	tags, err := s.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Beta", tags[1].Name)
	assert.Equal(t, "#abc", tags[1].Color)

	assert.ErrorIs(t, s.Delete(context.Background(), userID, uuid.New()), store.ErrTagNotFound)
}

func TestSettingsStoreGet(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		db, mock := newMock(t)
		userID := uuid.New()
		mock.ExpectQuery(`FROM user_settings WHERE user_id = \?`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(settingsColumns).
				AddRow(userID.String(), 2, 6, 9, 18, "Europe/Paris", time.Now()))

		settings, err := NewSettingsStore(db, testDialect, nil).Get(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, 2, settings.MinDaysAhead)
		assert.Equal(t, 6, settings.MaxDaysAhead)
		assert.Equal(t, 9, settings.EarliestHour)
		assert.Equal(t, 18, settings.LatestHour)
		assert.Equal(t, "Europe/Paris", settings.Timezone)
	})

	t.Run("never saved", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery("FROM user_settings").WillReturnRows(sqlmock.NewRows(settingsColumns))

		_, err := NewSettingsStore(db, testDialect, nil).Get(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrSettingsNotFound)
	})
}

func TestSettingsStoreUpsert(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		db, mock := newMock(t)
		settings := domain.DefaultSettings(uuid.New())

		mock.ExpectExec(`(?s)INSERT INTO user_settings .* ON CONFLICT \(user_id\) DO UPDATE`).
			WithArgs(settings.UserID, 1, 4, 8, 23, "UTC", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewSettingsStore(db, testDialect, nil).Upsert(context.Background(), &settings))
	})

	t.Run("invalid settings never reach the database", func(t *testing.T) {
		db, _ := newMock(t)
		settings := domain.DefaultSettings(uuid.New())
		settings.MinDaysAhead = 9

		err := NewSettingsStore(db, testDialect, nil).Upsert(context.Background(), &settings)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrDaysRangeInverted)
	})
}
