package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := logger.ParseLevel(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.New(&buf, "warn")
	l.Info("hidden message")
	l.Warn("visible message", "component", "test")

	out := buf.String()
	assert.NotContains(t, out, "hidden message")
	assert.Contains(t, out, "visible message")
	assert.Contains(t, out, `"component":"test"`)
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	fallback, _ := logger.NewTestLogger(t)
	scoped, buf := logger.NewTestLogger(t)

	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, logger.FromContext(context.Background()))

	ctx := logger.WithLogger(context.Background(), scoped.With("trace_id", "abc"))
	logger.FromContextOrDefault(ctx, fallback).Info("from context")

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "from context", entries[0]["msg"])
	assert.Equal(t, "abc", entries[0]["trace_id"])
}
