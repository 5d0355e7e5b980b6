package sqlstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
)

var (
	taskColumns     = []string{"id", "user_id", "title", "description", "due_date", "completed", "created_at", "updated_at"}
	tagColumns      = []string{"id", "user_id", "name", "color", "created_at"}
	settingsColumns = []string{"user_id", "min_days_ahead", "max_days_ahead", "earliest_hour", "latest_hour", "timezone", "updated_at"}
)

type taskRecord struct {
	ID          uuid.UUID `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	DueDate     time.Time `db:"due_date"`
	Completed   bool      `db:"completed"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r taskRecord) toDomain() *domain.Task {
	return &domain.Task{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate.UTC(),
		Completed:   r.Completed,
		Tags:        []domain.Tag{},
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type tagRecord struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	Color     string    `db:"color"`
	CreatedAt time.Time `db:"created_at"`
}

func (r tagRecord) toDomain() domain.Tag {
	return domain.Tag{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		Color:     r.Color,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// taskTagRecord is one row of the task_tags join with its tag expanded.
type taskTagRecord struct {
	TaskID    uuid.UUID `db:"task_id"`
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	Color     string    `db:"color"`
	CreatedAt time.Time `db:"created_at"`
}

func (r taskTagRecord) tag() domain.Tag {
	return tagRecord{ID: r.ID, UserID: r.UserID, Name: r.Name, Color: r.Color, CreatedAt: r.CreatedAt}.toDomain()
}

type settingsRecord struct {
	UserID       uuid.UUID `db:"user_id"`
	MinDaysAhead int       `db:"min_days_ahead"`
	MaxDaysAhead int       `db:"max_days_ahead"`
	EarliestHour int       `db:"earliest_hour"`
	LatestHour   int       `db:"latest_hour"`
	Timezone     string    `db:"timezone"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r settingsRecord) toDomain() *domain.Settings {
	return &domain.Settings{
		UserID:       r.UserID,
		MinDaysAhead: r.MinDaysAhead,
		MaxDaysAhead: r.MaxDaysAhead,
		EarliestHour: r.EarliestHour,
		LatestHour:   r.LatestHour,
		Timezone:     r.Timezone,
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}
