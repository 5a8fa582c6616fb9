package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InsufficientStockError is returned when a delta would push an item's
// quantity below zero and the tenant has not enabled backorder. It carries
// enough context for the caller to prompt for backorder approval.
type InsufficientStockError struct {
	ItemID          uuid.UUID
	CurrentQuantity decimal.Decimal
	RequestedDelta  decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: on hand %s, requested delta %s",
		e.ItemID, e.CurrentQuantity, e.RequestedDelta)
}

// Code returns the domain error code
func (e *InsufficientStockError) Code() string {
	return "INSUFFICIENT_STOCK"
}
