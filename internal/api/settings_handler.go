package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/postpone/internal/api/shared"
	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/phrazzld/postpone/internal/service"
)

// SettingsHandler handles the due-date settings endpoints.
type SettingsHandler struct {
	settingsService service.SettingsService
	logger          *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService service.SettingsService, logger *slog.Logger) *SettingsHandler {
	if settingsService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("settingsService cannot be nil for SettingsHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SettingsHandler")
	}
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger.With(slog.String("component", "settings_handler")),
	}
}

// GetSettings handles GET /api/settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	settings, err := h.settingsService.GetSettings(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settingsToResponse(settings))
}

// UpdateSettings handles PUT /api/settings.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req SettingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	settings, err := h.settingsService.UpdateSettings(r.Context(), userID, service.SettingsInput{
		MinDaysAhead: req.MinDaysAhead,
		MaxDaysAhead: req.MaxDaysAhead,
		EarliestHour: req.EarliestHour,
		LatestHour:   req.LatestHour,
		Timezone:     req.Timezone,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save settings")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("settings updated")
	shared.RespondWithJSON(w, r, http.StatusOK, settingsToResponse(settings))
}

// ResetSettings handles POST /api/settings/reset.
func (h *SettingsHandler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	settings, err := h.settingsService.ResetSettings(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reset settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settingsToResponse(settings))
}
