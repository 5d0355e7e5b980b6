package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Length limits for task text fields, in characters.
const (
	MaxTaskTitleLength       = 100
	MaxTaskDescriptionLength = 500
)

// Validation errors for Task
var (
	ErrEmptyTaskID          = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID      = errors.New("task user ID cannot be empty")
	ErrEmptyTaskTitle       = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrTaskTitleTooLong     = fmt.Errorf("%w: task title must be at most %d characters", ErrValidation, MaxTaskTitleLength)
	ErrTaskDescTooLong      = fmt.Errorf("%w: task description must be at most %d characters", ErrValidation, MaxTaskDescriptionLength)
	ErrEmptyTaskDueDate     = fmt.Errorf("%w: task due date cannot be empty", ErrValidation)
	ErrTaskTagOwnerMismatch = fmt.Errorf("%w: tag belongs to another user", ErrValidation)
)

// Task is a postponable item owned by a single user. Its due date is usually
// produced by the due-date generator, but it can be edited by hand.
type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     time.Time `json:"due_date"`
	Completed   bool      `json:"completed"`
	Tags        []Tag     `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a pending Task for userID. Title and description are trimmed.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, title, description string, dueDate time.Time, tags []Tag) (*Task, error) {
	created := now()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		DueDate:     dueDate,
		Tags:        append([]Tag(nil), tags...),
		CreatedAt:   created,
		UpdatedAt:   created,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}
	if err := validateTaskText(t.Title, t.Description); err != nil {
		return err
	}
	if t.DueDate.IsZero() {
		return ErrEmptyTaskDueDate
	}
	for _, tag := range t.Tags {
		if tag.UserID != t.UserID {
			return ErrTaskTagOwnerMismatch
		}
	}
	return nil
}

func validateTaskText(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTaskTitle
	}
	if utf8.RuneCountInString(title) > MaxTaskTitleLength {
		return ErrTaskTitleTooLong
	}
	if utf8.RuneCountInString(description) > MaxTaskDescriptionLength {
		return ErrTaskDescTooLong
	}
	return nil
}

// Edit replaces the title and description.
func (t *Task) Edit(title, description string) error {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if err := validateTaskText(title, description); err != nil {
		return err
	}
	t.Title = title
	t.Description = description
	t.UpdatedAt = now()
	return nil
}

// Reschedule moves the due date.
func (t *Task) Reschedule(dueDate time.Time) error {
	if dueDate.IsZero() {
		return ErrEmptyTaskDueDate
	}
	t.DueDate = dueDate
	t.UpdatedAt = now()
	return nil
}

// SetCompleted sets the completion flag.
func (t *Task) SetCompleted(completed bool) {
	t.Completed = completed
	t.UpdatedAt = now()
}

// ReplaceTags swaps the task's tag set.
func (t *Task) ReplaceTags(tags []Tag) error {
	for _, tag := range tags {
		if tag.UserID != t.UserID {
			return ErrTaskTagOwnerMismatch
		}
	}
	t.Tags = append([]Tag(nil), tags...)
	t.UpdatedAt = now()
	return nil
}

// IsOverdue reports whether the task is still pending and its due date has passed.
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate.Before(now)
}

// TagNames returns the names of the task's tags in their stored order.
func (t *Task) TagNames() []string {
	names := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (t *Task) Clone() *Task {
	c := *t
	c.Tags = append([]Tag(nil), t.Tags...)
	return &c
}

// now returns the current time in UTC at the precision databases keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
