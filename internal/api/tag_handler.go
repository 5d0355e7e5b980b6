package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/postpone/internal/api/shared"
	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/phrazzld/postpone/internal/service"
)

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	tagService service.TagService
	logger     *slog.Logger
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService service.TagService, logger *slog.Logger) *TagHandler {
	if tagService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tagService cannot be nil for TagHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TagHandler")
	}
	return &TagHandler{
		tagService: tagService,
		logger:     logger.With(slog.String("component", "tag_handler")),
	}
}

// ListTags handles GET /api/tags.
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	tags, err := h.tagService.ListTags(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tags")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tagsToResponse(tags))
}

// CreateTag handles POST /api/tags. An existing tag with the same name,
// ignoring case, is returned with 200 instead of 201.
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateTagRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tag, created, err := h.tagService.CreateTag(r.Context(), userID, req.Name, req.Color)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create tag")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("tag created",
			slog.String("tag_id", tag.ID.String()))
	}
	shared.RespondWithJSON(w, r, status, tagToResponse(*tag))
}

// DeleteTag handles DELETE /api/tags/{id}.
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	userID, tagID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.tagService.DeleteTag(r.Context(), userID, tagID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete tag")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
