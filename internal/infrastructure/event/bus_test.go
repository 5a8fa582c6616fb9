package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/domain/shared/valueobject"
	"github.com/ledgerpos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type collectingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *collectingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.events = append(h.events, event)
	return nil
}

func (h *collectingHandler) EventTypes() []string { return h.types }

func (h *collectingHandler) received() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.events))
	copy(out, h.events)
	return out
}

func newReminderEvent() shared.DomainEvent {
	return trade.NewBalanceReminderEvent(uuid.New(), uuid.New(), valueobject.NewMoneyGHS(decimal.NewFromInt(42)))
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to matching handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &collectingHandler{types: []string{trade.EventTypeBalanceReminder}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newReminderEvent()))
		assert.Len(t, handler.received(), 1)
	})

	t.Run("does not deliver to non-matching handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &collectingHandler{types: []string{trade.EventTypeSaleRecorded}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newReminderEvent()))
		assert.Empty(t, handler.received())
	})

	t.Run("wildcard handler receives all events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &collectingHandler{}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newReminderEvent(), newReminderEvent()))
		assert.Len(t, handler.received(), 2)
	})

	t.Run("handler error does not stop other handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &collectingHandler{types: []string{trade.EventTypeBalanceReminder}, err: errors.New("boom")}
		healthy := &collectingHandler{types: []string{trade.EventTypeBalanceReminder}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newReminderEvent()))
		assert.Len(t, healthy.received(), 1)
	})

	t.Run("handler panic is recovered", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &collectingHandler{types: []string{trade.EventTypeBalanceReminder}, panics: true}
		healthy := &collectingHandler{types: []string{trade.EventTypeBalanceReminder}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NotPanics(t, func() {
			require.NoError(t, bus.Publish(ctx, newReminderEvent()))
		})
		assert.Len(t, healthy.received(), 1)
	})

	t.Run("unsubscribed handler receives nothing", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &collectingHandler{types: []string{trade.EventTypeBalanceReminder}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		require.NoError(t, bus.Publish(ctx, newReminderEvent()))
		assert.Empty(t, handler.received())
	})
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Stop(ctx))
}

func TestInMemoryEventBus_Subscribe(t *testing.T) {
	t.Run("explicit types override the handler's own list", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &collectingHandler{types: []string{trade.EventTypeSaleRecorded}}
		bus.Subscribe(handler, trade.EventTypeBalanceReminder)

		require.NoError(t, bus.Publish(context.Background(), newReminderEvent()))
		assert.Len(t, handler.received(), 1)
	})

	t.Run("handler registered for several types keeps the rest after unsubscribe of another", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		kept := &collectingHandler{}
		dropped := &collectingHandler{}
		bus.Subscribe(kept, trade.EventTypeBalanceReminder, trade.EventTypeSaleRecorded)
		bus.Subscribe(dropped, trade.EventTypeBalanceReminder)
		bus.Unsubscribe(dropped)

		require.NoError(t, bus.Publish(context.Background(), newReminderEvent()))
		assert.Len(t, kept.received(), 1)
		assert.Empty(t, dropped.received())
	})
}
