package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mockLogLevel int8 = 0 // zapcore.InfoLevel

func TestGetReturnsSameInstanceOnSubsequentCalls(t *testing.T) {
	logger1 := Get(mockLogLevel)
	logger2 := Get(mockLogLevel)
	require.NotNil(t, logger1)
	assert.Same(t, logger1, logger2)
}

func TestGetReturnsNoopLoggerIfGlobalLoggerNil(t *testing.T) {
	Get(mockLogLevel)
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	assert.Same(t, &defaultNoopLogger, Get(mockLogLevel))
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	lgr := New(&buf, -1)

	lgr.V(1).Info("tree rebuilt", "items", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "tree rebuilt", entry[MessageKey])
	assert.EqualValues(t, 3, entry["items"])
	assert.Contains(t, entry, TimeStampKey)
	assert.Contains(t, entry, VersionKey)
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lgr := New(&buf, 0)

	lgr.V(1).Info("hidden")
	assert.Empty(t, buf.String())

	lgr.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	logger := Get(mockLogLevel)

	ctxWithLogger := WithLogger(ctx, logger)
	assert.Same(t, logger, ctxWithLogger.Value(loggerContextKey{}))
	assert.Equal(t, ctxWithLogger, WithLogger(ctxWithLogger, logger), "same logger keeps the context")

	other := logr.Discard()
	replaced := WithLogger(ctxWithLogger, &other)
	assert.Same(t, &other, replaced.Value(loggerContextKey{}))
}

func TestFromContext(t *testing.T) {
	global := Get(mockLogLevel)
	assert.Same(t, global, FromContext(context.Background()))

	other := logr.Discard()
	assert.Same(t, &other, FromContext(WithLogger(context.Background(), &other)))

	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()
	assert.Same(t, &defaultNoopLogger, FromContext(context.Background()))
}

func TestSyncDoesNotPanicWhenGlobalZapLoggerIsNil(t *testing.T) {
	orig := globalZapLogger
	globalZapLogger = nil
	defer func() { globalZapLogger = orig }()

	assert.NotPanics(t, Sync)
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, isIgnorableSyncError(syscall.ENOTTY))
	assert.True(t, isIgnorableSyncError(&os.PathError{Op: "sync", Path: "/dev/stderr", Err: syscall.EINVAL}))
	assert.True(t, isIgnorableSyncError(errors.New("sync: The handle is invalid.")))
	assert.False(t, isIgnorableSyncError(errors.New("disk full")))
}

func TestGetGlobalLogger(t *testing.T) {
	orig := globalLogrLogger
	defer func() { globalLogrLogger = orig }()

	mockLogger := logr.Discard()
	globalLogrLogger = &mockLogger
	assert.Same(t, &mockLogger, GetGlobalLogger())

	globalLogrLogger = nil
	assert.Same(t, &defaultNoopLogger, GetGlobalLogger())
}

func TestGetNoopLogger(t *testing.T) {
	logger := GetNoopLogger()
	assert.Same(t, &defaultNoopLogger, logger)
	assert.NotPanics(t, func() { logger.Info("This should do nothing") })
}

func TestWithValuesReturnsNewLogger(t *testing.T) {
	logger := Get(mockLogLevel)

	newLogger := WithValues(logger, "testKey", "testValue")
	require.NotNil(t, newLogger)
	assert.NotSame(t, logger, newLogger)
	assert.NotSame(t, logger, WithValues(logger))
}

func TestWithValuesPanicsOnNilLogger(t *testing.T) {
	var logger *logr.Logger
	assert.Panics(t, func() { _ = WithValues(logger, "key", "value") })
}

func TestForBundle(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, 0)

	ForBundle(&base, "messages").Info("loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "messages", entry[BundleKey])
}
