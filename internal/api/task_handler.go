package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/postpone/internal/api/shared"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/domain/query"
	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/phrazzld/postpone/internal/service"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService     service.TaskService
	settingsService service.SettingsService
	logger          *slog.Logger
	now             func() time.Time
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(
	taskService service.TaskService,
	settingsService service.SettingsService,
	logger *slog.Logger,
) *TaskHandler {
	if taskService == nil || settingsService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("services cannot be nil for TaskHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService:     taskService,
		settingsService: settingsService,
		logger:          logger.With(slog.String("component", "task_handler")),
		now:             time.Now,
	}
}

// ListTasks handles GET /api/tasks.
// Query parameters: status, tags (comma separated), sort, seed, limit.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	params := r.URL.Query()
	status, err := query.ParseStatus(params.Get("status"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	sortMode, err := query.ParseSortMode(params.Get("sort"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	limit, _, err := optionalInt(r, "limit")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if limit < 0 {
		HandleAPIError(w, r, domain.NewValidationError("limit", "cannot be negative", domain.ErrValidation), "")
		return
	}

	input := service.ListTasksInput{
		Status: status,
		Tags:   splitList(params.Get("tags")),
		Sort:   sortMode,
		Limit:  limit,
	}
	seed, hasSeed, err := optionalInt(r, "seed")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if hasSeed {
		input.Seed = &seed
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks, h.now()))
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task created",
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task, h.now()))
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, h.now()))
}

// UpdateTask handles PUT /api/tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), userID, taskID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
		Tags:        req.Tags,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, h.now()))
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task deleted",
		slog.String("task_id", taskID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ToggleComplete handles POST /api/tasks/{id}/complete.
func (h *TaskHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskService.ToggleComplete(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, h.now()))
}

// RegenerateDueDate handles POST /api/tasks/{id}/regenerate.
func (h *TaskHandler) RegenerateDueDate(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskService.RegenerateDueDate(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to regenerate due date")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, h.now()))
}

// RescheduleOverdue handles POST /api/tasks/reschedule-overdue.
func (h *TaskHandler) RescheduleOverdue(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	tasks, err := h.taskService.RescheduleOverdue(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reschedule overdue tasks")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("rescheduled overdue tasks",
		slog.Int("count", len(tasks)))
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks, h.now()))
}

// Shuffle handles POST /api/tasks/shuffle.
func (h *TaskHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	seed, err := h.taskService.Reshuffle(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to shuffle tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ShuffleResponse{Seed: seed})
}

// PreviewDueDate handles GET /api/due-date/preview.
func (h *TaskHandler) PreviewDueDate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	settings, err := h.settingsService.GetSettings(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to preview due date")
		return
	}
	due, err := h.taskService.PreviewDueDate(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to preview due date")
		return
	}

	loc := settings.Location()
	shared.RespondWithJSON(w, r, http.StatusOK, DueDatePreviewResponse{
		DueDate:  due.In(loc),
		Timezone: loc.String(),
	})
}
