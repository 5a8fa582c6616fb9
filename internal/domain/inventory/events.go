package inventory

import (
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the inventory context
const (
	EventTypeStockIncreased = "inventory.stock_increased"
	EventTypeStockDecreased = "inventory.stock_decreased"
)

// StockIncreasedEvent is emitted when an item's on-hand quantity increases
type StockIncreasedEvent struct {
	shared.BaseDomainEvent
	SKU            string          `json:"sku"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	Delta          decimal.Decimal `json:"delta"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Reason         string          `json:"reason"`
}

// NewStockIncreasedEvent creates a new StockIncreasedEvent
func NewStockIncreasedEvent(item *Item, before, delta decimal.Decimal, reason string) *StockIncreasedEvent {
	return &StockIncreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIncreased, "Item", item.ID, item.TenantID),
		SKU:             item.SKU,
		QuantityBefore:  before,
		Delta:           delta,
		QuantityAfter:   item.OnHandQuantity,
		Reason:          reason,
	}
}

// StockDecreasedEvent is emitted when an item's on-hand quantity decreases
type StockDecreasedEvent struct {
	shared.BaseDomainEvent
	SKU            string          `json:"sku"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	Delta          decimal.Decimal `json:"delta"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Reason         string          `json:"reason"`
}

// NewStockDecreasedEvent creates a new StockDecreasedEvent
func NewStockDecreasedEvent(item *Item, before, delta decimal.Decimal, reason string) *StockDecreasedEvent {
	return &StockDecreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDecreased, "Item", item.ID, item.TenantID),
		SKU:             item.SKU,
		QuantityBefore:  before,
		Delta:           delta,
		QuantityAfter:   item.OnHandQuantity,
		Reason:          reason,
	}
}
