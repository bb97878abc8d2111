package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Level(true, true))
	assert.Equal(t, slog.LevelInfo, Level(false, true))
	assert.Equal(t, slog.LevelWarn, Level(false, false))
}

func TestContextLogger(t *testing.T) {
	t.Run("falls back to the default logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("With attaches attributes", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		ctx := WithLogger(context.Background(), New(&buf, slog.LevelDebug, false, false))

		// Act
		ctx = With(ctx, "repo", "octo/repo")
		Info(ctx, "searching", "count", 3)
		Error(ctx, "failed", assert.AnError)

		// Assert
		out := buf.String()
		assert.Contains(t, out, "repo=octo/repo")
		assert.Contains(t, out, "count=3")
		assert.Contains(t, out, "msg=failed")
		assert.Contains(t, out, assert.AnError.Error())
	})
}

func TestPrettyHandler(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	t.Run("filters below level", func(t *testing.T) {
		var buf bytes.Buffer
		l := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

		l.Info("hidden")
		l.Warn("shown", "status", 403)

		assert.NotContains(t, buf.String(), "hidden")
		assert.Equal(t, "[WARN]  shown status=403\n", buf.String())
	})

	t.Run("prefixes grouped attributes", func(t *testing.T) {
		var buf bytes.Buffer
		l := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		l.WithGroup("github").With("org", "acme").Debug("listing", "page", 2)

		assert.Equal(t, "[DEBUG] listing github.org=acme github.page=2\n", buf.String())
	})
}
