package partner

import (
	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the partner context
const (
	EventTypeCustomerBalanceChanged = "partner.customer_balance_changed"
	EventTypeSupplierBalanceChanged = "partner.supplier_balance_changed"
)

// CustomerBalanceChangedEvent is emitted when a customer's balance moves
type CustomerBalanceChangedEvent struct {
	shared.BaseDomainEvent
	BalanceBefore decimal.Decimal `json:"balance_before"`
	Delta         decimal.Decimal `json:"delta"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Reason        string          `json:"reason"`
}

// NewCustomerBalanceChangedEvent creates a new CustomerBalanceChangedEvent
func NewCustomerBalanceChangedEvent(tenantID, customerID uuid.UUID, before, delta, after decimal.Decimal, reason string) *CustomerBalanceChangedEvent {
	return &CustomerBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerBalanceChanged, "Customer", customerID, tenantID),
		BalanceBefore:   before,
		Delta:           delta,
		BalanceAfter:    after,
		Reason:          reason,
	}
}

// SupplierBalanceChangedEvent is emitted when a supplier's balance moves
type SupplierBalanceChangedEvent struct {
	shared.BaseDomainEvent
	BalanceBefore decimal.Decimal `json:"balance_before"`
	Delta         decimal.Decimal `json:"delta"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Reason        string          `json:"reason"`
}

// NewSupplierBalanceChangedEvent creates a new SupplierBalanceChangedEvent
func NewSupplierBalanceChangedEvent(tenantID, supplierID uuid.UUID, before, delta, after decimal.Decimal, reason string) *SupplierBalanceChangedEvent {
	return &SupplierBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierBalanceChanged, "Supplier", supplierID, tenantID),
		BalanceBefore:   before,
		Delta:           delta,
		BalanceAfter:    after,
		Reason:          reason,
	}
}
