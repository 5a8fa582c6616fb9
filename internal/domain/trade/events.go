package trade

import (
	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/partner"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Event types for the trade context. These are the commit events the
// transaction coordinator publishes for external consumption; the
// notification collaborator subscribes to them.
const (
	EventTypeSaleRecorded            = "trade.sale_recorded"
	EventTypePurchaseRecorded        = "trade.purchase_recorded"
	EventTypePaymentRecorded         = "trade.payment_recorded"
	EventTypeReturnRecorded          = "trade.return_recorded"
	EventTypeStockAdjustmentRecorded = "trade.stock_adjustment_recorded"
	EventTypeBalanceReminder         = "trade.balance_reminder"
)

// SaleRecordedEvent is emitted after a sale commits
type SaleRecordedEvent struct {
	shared.BaseDomainEvent
	CustomerID  *uuid.UUID      `json:"customer_id,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Balance     decimal.Decimal `json:"balance"`
}

// NewSaleRecordedEvent creates a new SaleRecordedEvent
func NewSaleRecordedEvent(sale *Sale, balance decimal.Decimal) *SaleRecordedEvent {
	return &SaleRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleRecorded, "Sale", sale.ID, sale.TenantID),
		CustomerID:      sale.CustomerID,
		TotalAmount:     sale.TotalAmount,
		PaidAmount:      sale.PaidAmount,
		Balance:         balance,
	}
}

// PurchaseRecordedEvent is emitted after a purchase commits
type PurchaseRecordedEvent struct {
	shared.BaseDomainEvent
	SupplierID  uuid.UUID       `json:"supplier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Balance     decimal.Decimal `json:"balance"`
}

// NewPurchaseRecordedEvent creates a new PurchaseRecordedEvent
func NewPurchaseRecordedEvent(purchase *Purchase, balance decimal.Decimal) *PurchaseRecordedEvent {
	return &PurchaseRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRecorded, "Purchase", purchase.ID, purchase.TenantID),
		SupplierID:      purchase.SupplierID,
		TotalAmount:     purchase.TotalAmount,
		PaidAmount:      purchase.PaidAmount,
		Balance:         balance,
	}
}

// PaymentRecordedEvent is emitted after a standalone payment commits
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	Role           partner.Role    `json:"role"`
	Amount         decimal.Decimal `json:"amount"`
	Balance        decimal.Decimal `json:"balance"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(tenantID, paymentID, counterpartyID uuid.UUID, role partner.Role, amount, balance decimal.Decimal) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, "Payment", paymentID, tenantID),
		CounterpartyID:  counterpartyID,
		Role:            role,
		Amount:          amount,
		Balance:         balance,
	}
}

// ReturnRecordedEvent is emitted after a return commits
type ReturnRecordedEvent struct {
	shared.BaseDomainEvent
	ItemID         uuid.UUID       `json:"item_id"`
	CounterpartyID *uuid.UUID      `json:"counterparty_id,omitempty"`
	Role           partner.Role    `json:"role"`
	ReturnType     ReturnType      `json:"return_type"`
	Quantity       decimal.Decimal `json:"quantity"`
	Amount         decimal.Decimal `json:"amount"`
}

// NewReturnRecordedEvent creates a new ReturnRecordedEvent
func NewReturnRecordedEvent(tenantID, returnID, itemID uuid.UUID, counterpartyID *uuid.UUID, role partner.Role, returnType ReturnType, quantity, amount decimal.Decimal) *ReturnRecordedEvent {
	return &ReturnRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRecorded, "Return", returnID, tenantID),
		ItemID:          itemID,
		CounterpartyID:  counterpartyID,
		Role:            role,
		ReturnType:      returnType,
		Quantity:        quantity,
		Amount:          amount,
	}
}

// StockAdjustmentRecordedEvent is emitted after a manual stock correction commits
type StockAdjustmentRecordedEvent struct {
	shared.BaseDomainEvent
	ItemID        uuid.UUID       `json:"item_id"`
	SignedDelta   decimal.Decimal `json:"signed_delta"`
	QuantityAfter decimal.Decimal `json:"quantity_after"`
	Reason        string          `json:"reason"`
}

// NewStockAdjustmentRecordedEvent creates a new StockAdjustmentRecordedEvent
func NewStockAdjustmentRecordedEvent(tenantID, adjustmentID, itemID uuid.UUID, signedDelta, quantityAfter decimal.Decimal, reason string) *StockAdjustmentRecordedEvent {
	return &StockAdjustmentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjustmentRecorded, "StockAdjustment", adjustmentID, tenantID),
		ItemID:          itemID,
		SignedDelta:     signedDelta,
		QuantityAfter:   quantityAfter,
		Reason:          reason,
	}
}

// BalanceReminderEvent asks the notification collaborator to remind a
// customer of their outstanding balance, denominated in the tenant's
// currency. It carries no mutation.
type BalanceReminderEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID         `json:"customer_id"`
	Balance    valueobject.Money `json:"balance"`
}

// NewBalanceReminderEvent creates a new BalanceReminderEvent
func NewBalanceReminderEvent(tenantID, customerID uuid.UUID, balance valueobject.Money) *BalanceReminderEvent {
	return &BalanceReminderEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBalanceReminder, "Customer", customerID, tenantID),
		CustomerID:      customerID,
		Balance:         balance,
	}
}
