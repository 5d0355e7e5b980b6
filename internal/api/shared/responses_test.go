package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	RespondWithJSON(rr, req, http.StatusCreated, map[string]int{"count": 3})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":3}`, rr.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		opts      []ResponseOption
		wantLevel string
	}{
		{"server error", http.StatusInternalServerError, nil, "ERROR"},
		{"client error", http.StatusNotFound, nil, "DEBUG"},
		{"elevated client error", http.StatusUnauthorized, []ResponseOption{WithElevatedLogLevel()}, "WARN"},
		{"rate limited", http.StatusTooManyRequests, nil, "WARN"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, buf := logger.NewTestLogger(t)
			ctx := logger.WithLogger(SetTraceID(context.Background()), log)
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil).WithContext(ctx)
			rr := httptest.NewRecorder()

			secret := errors.New("dial tcp postgres://admin:hunter2@db:5432 failed")
			RespondWithErrorAndLog(rr, req, tc.status, "Something went wrong", secret, tc.opts...)

			assert.Equal(t, tc.status, rr.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, "Something went wrong", body.Error)
			assert.Equal(t, GetTraceID(ctx), body.TraceID)

			entries, err := buf.Entries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tc.wantLevel, entries[0]["level"])
			assert.Equal(t, body.TraceID, entries[0]["trace_id"])
			assert.NotContains(t, buf.String(), "hunter2")
		})
	}
}
