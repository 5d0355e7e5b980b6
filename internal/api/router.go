package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/postpone/internal/api/middleware"
	"github.com/phrazzld/postpone/internal/api/shared"
)

// RouterConfig bundles what NewRouter needs.
type RouterConfig struct {
	Auth     *middleware.AuthMiddleware
	Tasks    *TaskHandler
	Tags     *TagHandler
	Settings *SettingsHandler
	Logger   *slog.Logger
}

// NewRouter registers every route. Everything under /api requires a bearer
// token; /health does not.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewTraceMiddleware(cfg.Logger))

	r.Get("/health", Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(cfg.Auth.Authenticate)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", cfg.Tasks.ListTasks)
			r.Post("/", cfg.Tasks.CreateTask)
			r.Post("/reschedule-overdue", cfg.Tasks.RescheduleOverdue)
			r.Post("/shuffle", cfg.Tasks.Shuffle)

			r.Get("/{id}", cfg.Tasks.GetTask)
			r.Put("/{id}", cfg.Tasks.UpdateTask)
			r.Delete("/{id}", cfg.Tasks.DeleteTask)
			r.Post("/{id}/complete", cfg.Tasks.ToggleComplete)
			r.Post("/{id}/regenerate", cfg.Tasks.RegenerateDueDate)
		})

		r.Get("/due-date/preview", cfg.Tasks.PreviewDueDate)

		r.Get("/tags", cfg.Tags.ListTags)
		r.Post("/tags", cfg.Tags.CreateTag)
		r.Delete("/tags/{id}", cfg.Tags.DeleteTag)

		r.Get("/settings", cfg.Settings.GetSettings)
		r.Put("/settings", cfg.Settings.UpdateSettings)
		r.Post("/settings/reset", cfg.Settings.ResetSettings)
	})

	return r
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
