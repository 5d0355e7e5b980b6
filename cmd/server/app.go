package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/postpone/internal/api"
	"github.com/phrazzld/postpone/internal/api/middleware"
	"github.com/phrazzld/postpone/internal/cache"
	"github.com/phrazzld/postpone/internal/config"
	"github.com/phrazzld/postpone/internal/domain/duedate"
	"github.com/phrazzld/postpone/internal/platform/sqlstore"
	"github.com/phrazzld/postpone/internal/service"
	"github.com/phrazzld/postpone/internal/service/auth"
)

// application holds the shared dependencies so they can be built once and
// cleaned up together.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *database

	workspaces *cache.Cache

	jwtService      auth.JWTService
	taskService     service.TaskService
	tagService      service.TagService
	settingsService service.SettingsService
}

// newApplication wires stores, cache and services on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *database) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	taskStore := sqlstore.NewTaskStore(db.db, db.dialect, logger)
	tagStore := sqlstore.NewTagStore(db.db, db.dialect, logger)
	settingsStore := sqlstore.NewSettingsStore(db.db, db.dialect, logger)

	app.workspaces = cache.New(taskStore, tagStore, cache.Options{
		MaxUsers: cfg.Cache.MaxUsers,
		TTL:      cfg.Cache.TTL(),
	}, logger)

	app.settingsService, err = service.NewSettingsService(settingsStore, cfg.Defaults, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create settings service: %w", err)
	}

	app.tagService, err = service.NewTagService(tagStore, app.workspaces, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag service: %w", err)
	}

	app.taskService, err = service.NewTaskService(
		db.db,
		taskStore,
		tagStore,
		app.settingsService,
		duedate.NewGenerator(),
		app.workspaces,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized",
		slog.Int("cache_max_users", cfg.Cache.MaxUsers),
		slog.Duration("cache_ttl", cfg.Cache.TTL()))
	return app, nil
}

// setupRouter builds the HTTP handler tree.
func (app *application) setupRouter() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Auth:     middleware.NewAuthMiddleware(app.jwtService),
		Tasks:    api.NewTaskHandler(app.taskService, app.settingsService, app.logger),
		Tags:     api.NewTagHandler(app.tagService, app.logger),
		Settings: api.NewSettingsHandler(app.settingsService, app.logger),
		Logger:   app.logger,
	})
}

// Run serves HTTP until ctx is canceled or the server fails.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources on shutdown.
func (app *application) cleanup() {
	app.db.close(app.logger)
	app.logger.Info("application shutdown completed")
}
