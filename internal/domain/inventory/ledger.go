package inventory

import (
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Ledger owns all mutations of an item's on-hand quantity. Purchases, sales,
// returns, and manual adjustments are expressed as signed deltas; nothing
// above this service writes the quantity field directly.
//
// Idempotency of a delta is the caller's responsibility: the transaction
// coordinator records the triggering event's idempotency key in the same unit
// of work, so a retried event never reaches the ledger twice.
type Ledger struct{}

// NewLedger creates a new inventory ledger service
func NewLedger() *Ledger {
	return &Ledger{}
}

// ApplyDelta applies a signed quantity delta to the item and returns the new
// on-hand quantity. A delta that would push the quantity below zero is
// rejected with *InsufficientStockError unless the tenant allows backorder.
func (l *Ledger) ApplyDelta(item *Item, delta valueobject.Quantity, reason string, allowBackorder bool) (decimal.Decimal, error) {
	if item == nil {
		return decimal.Zero, shared.NewDomainError("INVALID_ITEM", "Item cannot be nil")
	}
	if delta.IsZero() {
		return item.OnHandQuantity, shared.NewDomainError("INVALID_QUANTITY", "Quantity delta cannot be zero")
	}

	d := delta.Decimal()
	newQuantity := item.OnHandQuantity.Add(d)
	if newQuantity.IsNegative() && !allowBackorder {
		return item.OnHandQuantity, &InsufficientStockError{
			ItemID:          item.ID,
			CurrentQuantity: item.OnHandQuantity,
			RequestedDelta:  d,
		}
	}

	previous := item.OnHandQuantity
	item.applyQuantityDelta(d)

	if delta.IsPositive() {
		item.AddDomainEvent(NewStockIncreasedEvent(item, previous, d, reason))
	} else {
		item.AddDomainEvent(NewStockDecreasedEvent(item, previous, d, reason))
	}

	return item.OnHandQuantity, nil
}
