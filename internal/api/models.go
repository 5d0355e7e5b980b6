package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
)

// CreateTaskRequest is the body of POST /api/tasks. A missing due date is
// generated from the user's settings.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=100"`
	Description string     `json:"description" validate:"max=500"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags"        validate:"dive,max=50"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/{id}. Omitted fields are
// left unchanged; a present tags array replaces the task's tags.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=500"`
	DueDate     *time.Time `json:"due_date"`
	Completed   *bool      `json:"completed"`
	Tags        *[]string  `json:"tags"`
}

// CreateTagRequest is the body of POST /api/tags.
type CreateTagRequest struct {
	Name  string `json:"name"  validate:"required,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// SettingsRequest is the body of PUT /api/settings.
type SettingsRequest struct {
	MinDaysAhead int    `json:"min_days_ahead" validate:"min=1,max=30,ltefield=MaxDaysAhead"`
	MaxDaysAhead int    `json:"max_days_ahead" validate:"min=1,max=30"`
	EarliestHour int    `json:"earliest_hour"  validate:"min=0,max=23,ltefield=LatestHour"`
	LatestHour   int    `json:"latest_hour"    validate:"min=0,max=23"`
	Timezone     string `json:"timezone"       validate:"omitempty,timezone"`
}

// TagResponse is the API view of a tag.
type TagResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskResponse is the API view of a task.
type TaskResponse struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	DueDate     time.Time     `json:"due_date"`
	Completed   bool          `json:"completed"`
	Overdue     bool          `json:"overdue"`
	Tags        []TagResponse `json:"tags"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TaskListResponse wraps a list of tasks.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

// ShuffleResponse carries the new shuffle seed.
type ShuffleResponse struct {
	Seed int `json:"seed"`
}

// DueDatePreviewResponse carries a generated but unsaved due date.
type DueDatePreviewResponse struct {
	DueDate  time.Time `json:"due_date"`
	Timezone string    `json:"timezone"`
}

// SettingsResponse is the API view of a user's settings.
type SettingsResponse struct {
	MinDaysAhead int        `json:"min_days_ahead"`
	MaxDaysAhead int        `json:"max_days_ahead"`
	EarliestHour int        `json:"earliest_hour"`
	LatestHour   int        `json:"latest_hour"`
	Timezone     string     `json:"timezone"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func tagToResponse(tag domain.Tag) TagResponse {
	return TagResponse{
		ID:        tag.ID,
		Name:      tag.Name,
		Color:     tag.Color,
		CreatedAt: tag.CreatedAt,
	}
}

func tagsToResponse(tags []domain.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tagToResponse(tag))
	}
	return out
}

func taskToResponse(task *domain.Task, now time.Time) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Completed:   task.Completed,
		Overdue:     task.IsOverdue(now),
		Tags:        tagsToResponse(task.Tags),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task, now time.Time) TaskListResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task, now))
	}
	return TaskListResponse{Tasks: out, Count: len(out)}
}

func settingsToResponse(s *domain.Settings) SettingsResponse {
	resp := SettingsResponse{
		MinDaysAhead: s.MinDaysAhead,
		MaxDaysAhead: s.MaxDaysAhead,
		EarliestHour: s.EarliestHour,
		LatestHour:   s.LatestHour,
		Timezone:     s.Timezone,
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
