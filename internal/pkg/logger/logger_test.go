package logger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	log, level, err := New(Config{Level: "warn", Format: "console"})
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, zapcore.WarnLevel, level.Level())

	level.SetLevel(zapcore.DebugLevel)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, _, err := New(Config{File: path, MaxSizeMB: 1})
	require.NoError(t, err)
	log.Info("hello")
	_ = log.Sync()
	assert.FileExists(t, path)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, _, err := New(Config{Level: "loud"})
	assert.Error(t, err)

	_, _, err = New(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestRequestIDContext(t *testing.T) {
	assert.Empty(t, FromContext(context.Background()))

	ctx := WithRequestID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", FromContext(ctx))

	core, logs := observer.New(zap.InfoLevel)
	For(ctx, zap.New(core)).Info("scoped")
	For(context.Background(), zap.New(core)).Info("unscoped")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "abc-123", entries[0].ContextMap()["request_id"])
	assert.NotContains(t, entries[1].ContextMap(), "request_id")
}
