package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed event IDs so an outbound side effect
// (an SMS, for instance) runs at most once per event. Ledger writes do not
// use this store; their idempotency record lives inside the unit of work
// where it commits or rolls back with the write itself.
type IdempotencyStore interface {
	// MarkProcessed records eventID with the given TTL. It returns true when
	// the ID was newly recorded and false when it was already present.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether eventID has already been recorded.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close releases the store's resources.
	Close() error
}

// IdempotencyConfig tunes event-handler deduplication. With Enabled false
// every event is handled, which is only acceptable when the handler's side
// effect is harmless to repeat.
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig enables deduplication with a 24 hour window.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{TTL: 24 * time.Hour, Enabled: true}
}
