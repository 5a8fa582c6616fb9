package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerPayment is an immutable record of money received against a
// customer's outstanding balance
type CustomerPayment struct {
	shared.BaseEntity
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method     PaymentMethod   `gorm:"type:varchar(20);not null"`
	PaidAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerPayment) TableName() string {
	return "customer_payments"
}

// NewCustomerPayment creates a new customer payment record
func NewCustomerPayment(tenantID, customerID uuid.UUID, amount decimal.Decimal, method PaymentMethod) (*CustomerPayment, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}

	return &CustomerPayment{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		CustomerID: customerID,
		Amount:     amount,
		Method:     method,
		PaidAt:     time.Now(),
	}, nil
}

// SupplierPayment is an immutable record of money paid to a supplier against
// what the business owes them
type SupplierPayment struct {
	shared.BaseEntity
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method     PaymentMethod   `gorm:"type:varchar(20);not null"`
	PaidAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SupplierPayment) TableName() string {
	return "supplier_payments"
}

// NewSupplierPayment creates a new supplier payment record
func NewSupplierPayment(tenantID, supplierID uuid.UUID, amount decimal.Decimal, method PaymentMethod) (*SupplierPayment, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}

	return &SupplierPayment{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		SupplierID: supplierID,
		Amount:     amount,
		Method:     method,
		PaidAt:     time.Now(),
	}, nil
}
