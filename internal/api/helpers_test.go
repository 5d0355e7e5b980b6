package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/api/middleware"
	"github.com/phrazzld/postpone/internal/api/shared"
	"github.com/phrazzld/postpone/internal/mocks"
	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/phrazzld/postpone/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

// testServer routes requests through the full router with mocked services.
type testServer struct {
	userID   uuid.UUID
	tasks    *mocks.MockTaskService
	tags     *mocks.MockTagService
	settings *mocks.MockSettingsService
	logs     *logger.TestLogBuffer
	handler  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log, buf := logger.NewTestLogger(t)
	s := &testServer{
		userID:   uuid.New(),
		tasks:    &mocks.MockTaskService{},
		tags:     &mocks.MockTagService{},
		settings: &mocks.MockSettingsService{},
		logs:     buf,
	}

	jwtService := &mocks.MockJWTService{
		ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			if token != testToken {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{UserID: s.userID}, nil
		},
	}

	taskHandler := NewTaskHandler(s.tasks, s.settings, log)
	taskHandler.now = func() time.Time { return testNow }

	s.handler = NewRouter(RouterConfig{
		Auth:     middleware.NewAuthMiddleware(jwtService),
		Tasks:    taskHandler,
		Tags:     NewTagHandler(s.tags, log),
		Settings: NewSettingsHandler(s.settings, log),
		Logger:   log,
	})
	return s
}

// do sends an authenticated request. A non-nil body is JSON encoded unless
// it is already a string.
func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v), rr.Body.String())
	return v
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, rr)
}
