package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/phrazzld/postpone/internal/store"
)

// SettingsStore implements the store.SettingsStore interface.
type SettingsStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewSettingsStore creates a SettingsStore over db. If logger is nil, the default logger is used.
func NewSettingsStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *SettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "settings_store")),
	}
}

var _ store.SettingsStore = (*SettingsStore)(nil)

// WithTx implements store.SettingsStore.WithTx.
func (s *SettingsStore) WithTx(tx *sql.Tx) store.SettingsStore {
	return &SettingsStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Get implements store.SettingsStore.Get.
func (s *SettingsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Settings, error) {
	q := s.dialect.builder().
		Select(settingsColumns...).
		From("user_settings").
		Where(sq.Eq{"user_id": userID})

	var records []settingsRecord
	if err := selectInto(ctx, s.db, q, &records); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get settings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, s.dialect.mapError(err)
	}
	if len(records) == 0 {
		return nil, store.ErrSettingsNotFound
	}
	return records[0].toDomain(), nil
}

// Upsert implements store.SettingsStore.Upsert.
func (s *SettingsStore) Upsert(ctx context.Context, settings *domain.Settings) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	insert := s.dialect.builder().
		Insert("user_settings").
		Columns(settingsColumns...).
		Values(settings.UserID, settings.MinDaysAhead, settings.MaxDaysAhead,
			settings.EarliestHour, settings.LatestHour, settings.Timezone, settings.UpdatedAt.UTC()).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			min_days_ahead = excluded.min_days_ahead,
			max_days_ahead = excluded.max_days_ahead,
			earliest_hour = excluded.earliest_hour,
			latest_hour = excluded.latest_hour,
			timezone = excluded.timezone,
			updated_at = excluded.updated_at`)

	if _, err := execute(ctx, s.db, insert); err != nil {
		log.Error("failed to upsert settings",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return s.dialect.mapError(err)
	}

	log.Debug("settings saved", slog.String("user_id", settings.UserID.String()))
	return nil
}
