package inventory

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T, onHand int64) *Item {
	t.Helper()
	item, err := NewItem(uuid.New(), "SKU001", "Test Item", decimal.NewFromInt(5), decimal.NewFromInt(8))
	require.NoError(t, err)
	item.OnHandQuantity = decimal.NewFromInt(onHand)
	return item
}

func qty(v int64) valueobject.Quantity {
	return valueobject.NewQuantityFromInt(v)
}

func TestLedgerApplyDelta(t *testing.T) {
	ledger := NewLedger()

	t.Run("positive delta increases quantity", func(t *testing.T) {
		item := newTestItem(t, 10)

		newQty, err := ledger.ApplyDelta(item, qty(5), "purchase", false)

		require.NoError(t, err)
		assert.True(t, newQty.Equal(decimal.NewFromInt(15)))
		assert.True(t, item.OnHandQuantity.Equal(decimal.NewFromInt(15)))
	})

	t.Run("negative delta decreases quantity", func(t *testing.T) {
		item := newTestItem(t, 10)

		newQty, err := ledger.ApplyDelta(item, qty(-4), "sale", false)

		require.NoError(t, err)
		assert.True(t, newQty.Equal(decimal.NewFromInt(6)))
	})

	t.Run("delta to exactly zero is allowed", func(t *testing.T) {
		item := newTestItem(t, 4)

		newQty, err := ledger.ApplyDelta(item, qty(-4), "sale", false)

		require.NoError(t, err)
		assert.True(t, newQty.IsZero())
	})

	t.Run("rejects delta below zero without backorder", func(t *testing.T) {
		item := newTestItem(t, 2)

		_, err := ledger.ApplyDelta(item, qty(-5), "sale", false)

		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.True(t, stockErr.CurrentQuantity.Equal(decimal.NewFromInt(2)))
		assert.True(t, stockErr.RequestedDelta.Equal(decimal.NewFromInt(-5)))
		// Quantity unchanged on rejection
		assert.True(t, item.OnHandQuantity.Equal(decimal.NewFromInt(2)))
		assert.Empty(t, item.GetDomainEvents())
	})

	t.Run("allows negative quantity with backorder", func(t *testing.T) {
		item := newTestItem(t, 2)

		newQty, err := ledger.ApplyDelta(item, qty(-5), "sale", true)

		require.NoError(t, err)
		assert.True(t, newQty.Equal(decimal.NewFromInt(-3)))
	})

	t.Run("rejects zero delta", func(t *testing.T) {
		item := newTestItem(t, 2)

		_, err := ledger.ApplyDelta(item, valueobject.ZeroQuantity(), "noop", false)

		assert.Error(t, err)
	})

	t.Run("rejects nil item", func(t *testing.T) {
		_, err := ledger.ApplyDelta(nil, qty(1), "purchase", false)

		assert.Error(t, err)
	})

	t.Run("emits stock events and bumps version", func(t *testing.T) {
		item := newTestItem(t, 10)
		versionBefore := item.GetVersion()

		_, err := ledger.ApplyDelta(item, qty(3), "purchase", false)
		require.NoError(t, err)
		_, err = ledger.ApplyDelta(item, qty(-2), "sale", false)
		require.NoError(t, err)

		events := item.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeStockIncreased, events[0].EventType())
		assert.Equal(t, EventTypeStockDecreased, events[1].EventType())
		assert.Equal(t, versionBefore+2, item.GetVersion())
	})
}

func TestStockInvariantReplay(t *testing.T) {
	// quantity == initial + purchases - sales + customer returns - supplier
	// returns + signed adjustments, for any sequence of deltas.
	ledger := NewLedger()
	item := newTestItem(t, 100)

	deltas := []int64{20, -15, 3, -40, -8, 12, -1}
	expected := int64(100)
	for _, d := range deltas {
		_, err := ledger.ApplyDelta(item, qty(d), "replay", false)
		require.NoError(t, err)
		expected += d
	}

	assert.True(t, item.OnHandQuantity.Equal(decimal.NewFromInt(expected)))
	assert.False(t, item.OnHandQuantity.IsNegative())
}

func TestInsufficientStockErrorIsNotConflict(t *testing.T) {
	err := &InsufficientStockError{ItemID: uuid.New(), CurrentQuantity: decimal.NewFromInt(2), RequestedDelta: decimal.NewFromInt(-5)}

	assert.Equal(t, "INSUFFICIENT_STOCK", err.Code())
	assert.Contains(t, err.Error(), "insufficient stock")
	assert.False(t, errors.Is(err, errors.New("other")))
}
