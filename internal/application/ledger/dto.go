package ledger

import (
	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/inventory"
	"github.com/ledgerpos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// RecordSaleInput carries everything needed to record a sale
type RecordSaleInput struct {
	TenantID       uuid.UUID
	Actor          string
	IdempotencyKey string
	CustomerID     *uuid.UUID
	PaymentType    trade.PaymentType
	PaidAmount     decimal.Decimal
	Lines          []trade.SaleLineInput
}

// RecordPurchaseInput carries everything needed to record a purchase
type RecordPurchaseInput struct {
	TenantID       uuid.UUID
	Actor          string
	IdempotencyKey string
	SupplierID     uuid.UUID
	PaymentType    trade.PaymentType
	PaidAmount     decimal.Decimal
	Lines          []trade.PurchaseLineInput
}

// RecordPaymentInput carries a standalone payment against a counterparty balance
type RecordPaymentInput struct {
	TenantID       uuid.UUID
	Actor          string
	IdempotencyKey string
	CounterpartyID uuid.UUID
	Amount         decimal.Decimal
	Method         trade.PaymentMethod
}

// RecordCustomerReturnInput carries a return of goods from a customer
type RecordCustomerReturnInput struct {
	TenantID       uuid.UUID
	Actor          string
	IdempotencyKey string
	SaleID         uuid.UUID
	SaleLineID     uuid.UUID
	Quantity       decimal.Decimal
	ReturnType     trade.ReturnType
	Amount         decimal.Decimal
}

// RecordSupplierReturnInput carries a return of goods to a supplier
type RecordSupplierReturnInput struct {
	TenantID       uuid.UUID
	Actor          string
	IdempotencyKey string
	PurchaseID     uuid.UUID
	PurchaseLineID uuid.UUID
	Quantity       decimal.Decimal
	ReturnType     trade.ReturnType
	Amount         decimal.Decimal
}

// RecordStockAdjustmentInput carries a manual stock correction
type RecordStockAdjustmentInput struct {
	TenantID       uuid.UUID
	Actor          string
	IdempotencyKey string
	ItemID         uuid.UUID
	Type           inventory.AdjustmentType
	Quantity       decimal.Decimal
	Reason         string
}

// SaleResult is the committed outcome of RecordSale. Results are stored under
// the request's idempotency key, so a replayed request returns the same value.
type SaleResult struct {
	SaleID       uuid.UUID        `json:"sale_id"`
	TotalAmount  decimal.Decimal  `json:"total_amount"`
	PaidAmount   decimal.Decimal  `json:"paid_amount"`
	BalanceAfter *decimal.Decimal `json:"balance_after,omitempty"`
	Replayed     bool             `json:"-"`
}

// PurchaseResult is the committed outcome of RecordPurchase
type PurchaseResult struct {
	PurchaseID   uuid.UUID        `json:"purchase_id"`
	TotalAmount  decimal.Decimal  `json:"total_amount"`
	PaidAmount   decimal.Decimal  `json:"paid_amount"`
	BalanceAfter *decimal.Decimal `json:"balance_after,omitempty"`
	Replayed     bool             `json:"-"`
}

// PaymentResult is the committed outcome of a standalone payment
type PaymentResult struct {
	PaymentID    uuid.UUID       `json:"payment_id"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Replayed     bool            `json:"-"`
}

// ReturnResult is the committed outcome of a return
type ReturnResult struct {
	ReturnID      uuid.UUID        `json:"return_id"`
	QuantityAfter decimal.Decimal  `json:"quantity_after"`
	BalanceAfter  *decimal.Decimal `json:"balance_after,omitempty"`
	Replayed      bool             `json:"-"`
}

// AdjustmentResult is the committed outcome of a stock adjustment
type AdjustmentResult struct {
	AdjustmentID   uuid.UUID       `json:"adjustment_id"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Replayed       bool            `json:"-"`
}

// ReminderResult is the outcome of SendBalanceReminder
type ReminderResult struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
}
