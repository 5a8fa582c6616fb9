package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerReturn is an immutable record of goods a customer brought back,
// referencing the original sale line
type CustomerReturn struct {
	shared.BaseEntity
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleLineID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Type       ReturnType      `gorm:"type:varchar(20);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReturnedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerReturn) TableName() string {
	return "customer_returns"
}

// NewCustomerReturn creates a new customer return record
func NewCustomerReturn(tenantID, saleID, saleLineID, itemID uuid.UUID, customerID *uuid.UUID, quantity decimal.Decimal, returnType ReturnType, amount decimal.Decimal) (*CustomerReturn, error) {
	if err := validateReturn(tenantID, saleID, saleLineID, itemID, quantity, returnType, amount); err != nil {
		return nil, err
	}
	if returnType == ReturnTypeCredit && customerID == nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Credit return requires a customer")
	}

	return &CustomerReturn{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		SaleID:     saleID,
		SaleLineID: saleLineID,
		ItemID:     itemID,
		CustomerID: customerID,
		Quantity:   quantity,
		Type:       returnType,
		Amount:     amount,
		ReturnedAt: time.Now(),
	}, nil
}

// SupplierReturn is an immutable record of goods sent back to a supplier,
// referencing the original purchase line
type SupplierReturn struct {
	shared.BaseEntity
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseLineID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Type           ReturnType      `gorm:"type:varchar(20);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReturnedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SupplierReturn) TableName() string {
	return "supplier_returns"
}

// NewSupplierReturn creates a new supplier return record
func NewSupplierReturn(tenantID, purchaseID, purchaseLineID, itemID, supplierID uuid.UUID, quantity decimal.Decimal, returnType ReturnType, amount decimal.Decimal) (*SupplierReturn, error) {
	if err := validateReturn(tenantID, purchaseID, purchaseLineID, itemID, quantity, returnType, amount); err != nil {
		return nil, err
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	return &SupplierReturn{
		BaseEntity:     shared.NewBaseEntity(),
		TenantID:       tenantID,
		PurchaseID:     purchaseID,
		PurchaseLineID: purchaseLineID,
		ItemID:         itemID,
		SupplierID:     supplierID,
		Quantity:       quantity,
		Type:           returnType,
		Amount:         amount,
		ReturnedAt:     time.Now(),
	}, nil
}

func validateReturn(tenantID, docID, lineID, itemID uuid.UUID, quantity decimal.Decimal, returnType ReturnType, amount decimal.Decimal) error {
	if tenantID == uuid.Nil {
		return shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if docID == uuid.Nil || lineID == uuid.Nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Return must reference the original document line")
	}
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}
	if !returnType.IsValid() {
		return shared.NewDomainError("INVALID_RETURN_TYPE", "Invalid return type")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Return amount cannot be negative")
	}
	if (returnType == ReturnTypeCash || returnType == ReturnTypeCredit) && !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Cash and credit returns require a positive amount")
	}
	return nil
}
