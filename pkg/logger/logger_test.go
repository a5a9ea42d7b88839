package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, parseLevel("INFO"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelDebug, parseLevel(""))
}

func TestInitReplacesLogger(t *testing.T) {
	before := Log
	Init("error")
	assert.NotSame(t, before, Log)
	assert.False(t, Log.Enabled(context.Background(), slog.LevelInfo))
}
