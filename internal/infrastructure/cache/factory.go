package cache

import (
	"fmt"

	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// IdempotencyStoreFactory picks the dedupe store at startup: Redis when
// reachable, otherwise the in-memory store if fallback is allowed.
type IdempotencyStoreFactory struct {
	cfg           config.RedisConfig
	logger        *zap.Logger
	allowFallback bool
}

// IdempotencyStoreFactoryOption configures the factory.
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the factory logger.
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) { f.logger = logger }
}

// WithInMemoryFallback controls the fallback when Redis is unreachable.
// Production disables it because an in-memory store cannot dedupe across
// instances.
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) { f.allowFallback = allow }
}

// NewIdempotencyStoreFactory creates a factory for cfg. Fallback defaults to
// allowed.
func NewIdempotencyStoreFactory(cfg config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		cfg:           cfg,
		logger:        zap.NewNop(),
		allowFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore dials Redis and returns a Redis-backed store, or the in-memory
// store when Redis is unreachable and fallback is allowed.
func (f *IdempotencyStoreFactory) CreateStore() (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(f.cfg)
	if err == nil {
		f.logger.Info("using redis idempotency store",
			zap.String("host", f.cfg.Host),
			zap.Int("port", f.cfg.Port),
		)
		return store, nil
	}

	if !f.allowFallback {
		return nil, fmt.Errorf("redis required for event deduplication: %w", err)
	}

	f.logger.Warn("redis unreachable, using in-memory idempotency store",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}
