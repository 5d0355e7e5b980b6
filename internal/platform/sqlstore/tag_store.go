package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/phrazzld/postpone/internal/store"
)

// TagStore implements the store.TagStore interface. Name uniqueness is
// enforced by a unique index on (user_id, name_key), where name_key is the
// normalized name computed by domain.TagKey.
type TagStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewTagStore creates a TagStore over db. If logger is nil, the default logger is used.
func NewTagStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *TagStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TagStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "tag_store")),
	}
}

var _ store.TagStore = (*TagStore)(nil)

// WithTx implements store.TagStore.WithTx.
func (s *TagStore) WithTx(tx *sql.Tx) store.TagStore {
	return &TagStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Create implements store.TagStore.Create.
func (s *TagStore) Create(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tag.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	insert := s.dialect.builder().
		Insert("tags").
		Columns("id", "user_id", "name", "name_key", "color", "created_at").
		Values(tag.ID, tag.UserID, tag.Name, tag.Key(), tag.Color, tag.CreatedAt.UTC())

	if _, err := execute(ctx, s.db, insert); err != nil {
		mapped := s.dialect.mapError(err)
		if errors.Is(mapped, store.ErrDuplicate) {
			log.Debug("tag name already exists",
				slog.String("user_id", tag.UserID.String()),
				slog.String("name", tag.Name))
			return store.ErrTagNameExists
		}
		log.Error("failed to create tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return mapped
	}

	log.Debug("tag created",
		slog.String("tag_id", tag.ID.String()),
		slog.String("user_id", tag.UserID.String()))
	return nil
}

// GetByID implements store.TagStore.GetByID.
func (s *TagStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Tag, error) {
	return s.getOne(ctx, sq.Eq{"id": id, "user_id": userID})
}

// GetByName implements store.TagStore.GetByName.
func (s *TagStore) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Tag, error) {
	return s.getOne(ctx, sq.Eq{"name_key": domain.TagKey(name), "user_id": userID})
}

func (s *TagStore) getOne(ctx context.Context, where sq.Eq) (*domain.Tag, error) {
	q := s.dialect.builder().Select(tagColumns...).From("tags").Where(where)

	var records []tagRecord
	if err := selectInto(ctx, s.db, q, &records); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get tag",
			slog.String("error", err.Error()))
		return nil, s.dialect.mapError(err)
	}
	if len(records) == 0 {
		return nil, store.ErrTagNotFound
	}

	tag := records[0].toDomain()
	return &tag, nil
}

// ListByUser implements store.TagStore.ListByUser.
func (s *TagStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Tag, error) {
	q := s.dialect.builder().
		Select(tagColumns...).
		From("tags").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("name_key")

	var records []tagRecord
	if err := selectInto(ctx, s.db, q, &records); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tags",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, s.dialect.mapError(err)
	}

	tags := make([]domain.Tag, 0, len(records))
	for _, r := range records {
		tags = append(tags, r.toDomain())
	}
	return tags, nil
}

// Delete implements store.TagStore.Delete.
func (s *TagStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	del := s.dialect.builder().Delete("tags").Where(sq.Eq{"id": id, "user_id": userID})
	result, err := execute(ctx, s.db, del)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", id.String()))
		return s.dialect.mapError(err)
	}
	return CheckRowsAffected(result, store.ErrTagNotFound)
}
