package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		created    bool
		wantStatus int
	}{
		{"new tag", true, http.StatusCreated},
		{"existing tag ignoring case", false, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t)
			s.tags.CreateTagFn = func(ctx context.Context, userID uuid.UUID, name, color string) (*domain.Tag, bool, error) {
				assert.Equal(t, "Work", name)
				assert.Equal(t, "#336699", color)
				return &domain.Tag{ID: uuid.New(), UserID: userID, Name: "work", Color: color}, tc.created, nil
			}

			rr := s.do(t, http.MethodPost, "/api/tags", CreateTagRequest{Name: "Work", Color: "#336699"})
			require.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())
			assert.Equal(t, "work", decodeBody[TagResponse](t, rr).Name)
		})
	}

	t.Run("bad color", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		rr := s.do(t, http.MethodPost, "/api/tags", CreateTagRequest{Name: "Work", Color: "blue"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid Color: must be a hex color", decodeError(t, rr).Error)
	})

	t.Run("duplicate surfaced by the store", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		s.tags.CreateTagFn = func(context.Context, uuid.UUID, string, string) (*domain.Tag, bool, error) {
			return nil, false, store.ErrTagNameExists
		}
		rr := s.do(t, http.MethodPost, "/api/tags", CreateTagRequest{Name: "Work"})
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "Tag name already exists", decodeError(t, rr).Error)
	})
}

func TestListAndDeleteTags(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	tag := domain.Tag{ID: uuid.New(), UserID: s.userID, Name: "home"}
	s.tags.ListTagsFn = func(context.Context, uuid.UUID) ([]domain.Tag, error) {
		return []domain.Tag{tag}, nil
	}
	s.tags.DeleteTagFn = func(ctx context.Context, userID, id uuid.UUID) error {
		if id != tag.ID {
			return store.ErrTagNotFound
		}
		return nil
	}

	rr := s.do(t, http.MethodGet, "/api/tags", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	tags := decodeBody[[]TagResponse](t, rr)
	require.Len(t, tags, 1)
	assert.Equal(t, "home", tags[0].Name)

	rr = s.do(t, http.MethodDelete, "/api/tags/"+tag.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodDelete, "/api/tags/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Tag not found", decodeError(t, rr).Error)
}
