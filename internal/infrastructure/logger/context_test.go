package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestWithContext(t *testing.T) {
	t.Run("stores and retrieves logger", func(t *testing.T) {
		logger := zap.NewNop()
		ctx := WithContext(context.Background(), logger)

		assert.Same(t, logger, FromContext(ctx))
	})

	t.Run("returns noop logger when absent", func(t *testing.T) {
		retrieved := FromContext(context.Background())
		require.NotNil(t, retrieved)
		retrieved.Info("safe")
	})
}

func TestWithRequestID(t *testing.T) {
	logger, logs := newObservedLogger()
	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))

	enriched.Info("test")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-123", logs.All()[0].ContextMap()["request_id"])

	t.Run("context logger carries the field too", func(t *testing.T) {
		FromContext(ctx).Info("via context")
		require.Equal(t, 2, logs.Len())
		assert.Equal(t, "req-123", logs.All()[1].ContextMap()["request_id"])
	})
}

func TestWithTenantID(t *testing.T) {
	logger, logs := newObservedLogger()
	ctx, enriched := WithTenantID(context.Background(), logger, "tenant-42")

	assert.Equal(t, "tenant-42", ctx.Value(TenantIDKey))

	enriched.Info("test")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "tenant-42", logs.All()[0].ContextMap()["tenant_id"])
}

func TestGetRequestID_EmptyContext(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestWithTraceContext_NoSpan(t *testing.T) {
	logger := zap.NewNop()
	// Without an active span the logger passes through unchanged
	assert.Same(t, logger, WithTraceContext(context.Background(), logger))
}
