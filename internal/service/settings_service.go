package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/config"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/phrazzld/postpone/internal/store"
)

// SettingsInput carries the user-editable settings fields.
type SettingsInput struct {
	MinDaysAhead int
	MaxDaysAhead int
	EarliestHour int
	LatestHour   int
	Timezone     string
}

// SettingsService provides settings-related operations
type SettingsService interface {
	// GetSettings returns the user's saved settings, or the configured
	// defaults when nothing was ever saved.
	GetSettings(ctx context.Context, userID uuid.UUID) (*domain.Settings, error)

	// UpdateSettings validates and saves new settings.
	UpdateSettings(ctx context.Context, userID uuid.UUID, input SettingsInput) (*domain.Settings, error)

	// ResetSettings saves the configured defaults for the user.
	ResetSettings(ctx context.Context, userID uuid.UUID) (*domain.Settings, error)
}

// settingsServiceImpl implements the SettingsService interface
type settingsServiceImpl struct {
	settingsStore store.SettingsStore
	defaults      config.DefaultsConfig
	logger        *slog.Logger
}

// NewSettingsService creates a new SettingsService.
// It returns an error if any of the required dependencies are nil.
func NewSettingsService(
	settingsStore store.SettingsStore,
	defaults config.DefaultsConfig,
	logger *slog.Logger,
) (SettingsService, error) {
	if settingsStore == nil {
		return nil, domain.NewValidationError("settingsStore", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if defaults == (config.DefaultsConfig{}) {
		defaults = config.DefaultsConfig{
			MinDaysAhead: domain.DefaultMinDaysAhead,
			MaxDaysAhead: domain.DefaultMaxDaysAhead,
			EarliestHour: domain.DefaultEarliestHour,
			LatestHour:   domain.DefaultLatestHour,
			Timezone:     domain.DefaultTimezone,
		}
	}

	return &settingsServiceImpl{
		settingsStore: settingsStore,
		defaults:      defaults,
		logger:        logger.With(slog.String("component", "settings_service")),
	}, nil
}

// GetSettings implements SettingsService.GetSettings
func (s *settingsServiceImpl) GetSettings(ctx context.Context, userID uuid.UUID) (*domain.Settings, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	settings, err := s.settingsStore.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrSettingsNotFound) {
			log.Debug("no saved settings, using defaults", slog.String("user_id", userID.String()))
			defaults := s.defaultsFor(userID)
			return &defaults, nil
		}
		log.Error("failed to load settings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("get_settings", "failed to load settings", err)
	}

	return settings, nil
}

// UpdateSettings implements SettingsService.UpdateSettings
func (s *settingsServiceImpl) UpdateSettings(
	ctx context.Context,
	userID uuid.UUID,
	input SettingsInput,
) (*domain.Settings, error) {
	settings := domain.Settings{
		UserID:       userID,
		MinDaysAhead: input.MinDaysAhead,
		MaxDaysAhead: input.MaxDaysAhead,
		EarliestHour: input.EarliestHour,
		LatestHour:   input.LatestHour,
		Timezone:     input.Timezone,
	}
	if settings.Timezone == "" {
		settings.Timezone = domain.DefaultTimezone
	}

	return s.save(ctx, "update_settings", settings)
}

// ResetSettings implements SettingsService.ResetSettings
func (s *settingsServiceImpl) ResetSettings(ctx context.Context, userID uuid.UUID) (*domain.Settings, error) {
	return s.save(ctx, "reset_settings", s.defaultsFor(userID))
}

func (s *settingsServiceImpl) save(ctx context.Context, op string, settings domain.Settings) (*domain.Settings, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := settings.Validate(); err != nil {
		log.Debug("settings rejected",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return nil, NewServiceError(op, "invalid settings", err)
	}
	settings.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	if err := s.settingsStore.Upsert(ctx, &settings); err != nil {
		log.Error("failed to save settings",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return nil, NewServiceError(op, "failed to save settings", err)
	}

	log.Info("settings saved",
		slog.String("user_id", settings.UserID.String()),
		slog.String("operation", op))
	return &settings, nil
}

func (s *settingsServiceImpl) defaultsFor(userID uuid.UUID) domain.Settings {
	return domain.Settings{
		UserID:       userID,
		MinDaysAhead: s.defaults.MinDaysAhead,
		MaxDaysAhead: s.defaults.MaxDaysAhead,
		EarliestHour: s.defaults.EarliestHour,
		LatestHour:   s.defaults.LatestHour,
		Timezone:     s.defaults.Timezone,
	}
}
