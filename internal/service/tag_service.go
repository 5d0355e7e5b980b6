package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/cache"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/phrazzld/postpone/internal/store"
)

// TagService provides tag-related operations
type TagService interface {
	// ListTags returns the user's tags ordered by name.
	ListTags(ctx context.Context, userID uuid.UUID) ([]domain.Tag, error)

	// CreateTag returns the user's tag matching name ignoring case, creating it
	// when none exists. created reports whether a new tag was stored.
	CreateTag(ctx context.Context, userID uuid.UUID, name, color string) (tag *domain.Tag, created bool, err error)

	// DeleteTag removes a tag from the user's tag list and from every task.
	DeleteTag(ctx context.Context, userID, id uuid.UUID) error
}

// tagServiceImpl implements the TagService interface
type tagServiceImpl struct {
	tagStore store.TagStore
	cache    *cache.Cache
	logger   *slog.Logger
}

// NewTagService creates a new TagService.
// It returns an error if any of the required dependencies are nil.
func NewTagService(tagStore store.TagStore, workspaces *cache.Cache, logger *slog.Logger) (TagService, error) {
	if tagStore == nil {
		return nil, domain.NewValidationError("tagStore", "cannot be nil", domain.ErrValidation)
	}
	if workspaces == nil {
		return nil, domain.NewValidationError("cache", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &tagServiceImpl{
		tagStore: tagStore,
		cache:    workspaces,
		logger:   logger.With(slog.String("component", "tag_service")),
	}, nil
}

// ListTags implements TagService.ListTags
func (s *tagServiceImpl) ListTags(ctx context.Context, userID uuid.UUID) ([]domain.Tag, error) {
	ws, err := s.cache.Workspace(ctx, userID)
	if err != nil {
		return nil, NewServiceError("list_tags", "failed to load tags", err)
	}
	return ws.Tags(), nil
}

// CreateTag implements TagService.CreateTag
func (s *tagServiceImpl) CreateTag(
	ctx context.Context,
	userID uuid.UUID,
	name, color string,
) (*domain.Tag, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ws, err := s.cache.Workspace(ctx, userID)
	if err != nil {
		return nil, false, NewServiceError("create_tag", "failed to load tags", err)
	}
	if existing, ok := ws.TagByName(name); ok {
		log.Debug("tag already exists", slog.String("tag_id", existing.ID.String()))
		return &existing, false, nil
	}

	tag, created, err := findOrCreateTag(ctx, s.tagStore, userID, name, color)
	if err != nil {
		log.Error("failed to create tag",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, false, NewServiceError("create_tag", "failed to create tag", err)
	}

	s.cache.Apply(userID, func(ws *cache.Workspace) { ws.PutTag(*tag) })
	return tag, created, nil
}

// DeleteTag implements TagService.DeleteTag
func (s *tagServiceImpl) DeleteTag(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.tagStore.Delete(ctx, userID, id); err != nil {
		if !errors.Is(err, store.ErrTagNotFound) {
			log.Error("failed to delete tag",
				slog.String("error", err.Error()),
				slog.String("tag_id", id.String()))
		}
		return NewServiceError("delete_tag", "failed to delete tag", err)
	}

	s.cache.Apply(userID, func(ws *cache.Workspace) { ws.RemoveTag(id) })
	log.Info("tag deleted", slog.String("tag_id", id.String()))
	return nil
}

// findOrCreateTag looks a tag up by name ignoring case and creates it when
// missing. A concurrent creation of the same name is resolved by reading
// the winner back.
func findOrCreateTag(
	ctx context.Context,
	tags store.TagStore,
	userID uuid.UUID,
	name, color string,
) (*domain.Tag, bool, error) {
	existing, err := tags.GetByName(ctx, userID, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrTagNotFound) {
		return nil, false, err
	}

	tag, err := domain.NewTag(userID, name, color)
	if err != nil {
		return nil, false, err
	}

	if err := tags.Create(ctx, tag); err != nil {
		if errors.Is(err, store.ErrTagNameExists) {
			winner, getErr := tags.GetByName(ctx, userID, name)
			if getErr != nil {
				return nil, false, getErr
			}
			return winner, false, nil
		}
		return nil, false, err
	}
	return tag, true, nil
}

// resolveTags finds or creates one tag per distinct name. It returns every
// resolved tag ordered by name, the way stores return them, plus the subset
// that was created.
func resolveTags(
	ctx context.Context,
	tags store.TagStore,
	userID uuid.UUID,
	names []string,
) (resolved, created []domain.Tag, err error) {
	unique := domain.UniqueTagNames(names)
	resolved = make([]domain.Tag, 0, len(unique))
	for _, name := range unique {
		tag, isNew, err := findOrCreateTag(ctx, tags, userID, name, "")
		if err != nil {
			return nil, nil, err
		}
		resolved = append(resolved, *tag)
		if isNew {
			created = append(created, *tag)
		}
	}
	slices.SortStableFunc(resolved, func(a, b domain.Tag) int { return strings.Compare(a.Key(), b.Key()) })
	return resolved, created, nil
}
