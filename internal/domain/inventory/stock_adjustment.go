package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdjustmentType represents the direction of a manual stock correction
type AdjustmentType string

const (
	AdjustmentTypeIncrease AdjustmentType = "INCREASE"
	AdjustmentTypeDecrease AdjustmentType = "DECREASE"
)

// IsValid returns true if the adjustment type is valid
func (t AdjustmentType) IsValid() bool {
	return t == AdjustmentTypeIncrease || t == AdjustmentTypeDecrease
}

// StockAdjustment is an immutable record of a manual stock correction.
// Once committed it is never updated or deleted; a wrong adjustment is
// corrected by recording a compensating adjustment.
type StockAdjustment struct {
	shared.BaseEntity
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type           AdjustmentType  `gorm:"type:varchar(20);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason         string          `gorm:"type:text;not null"`
	QuantityBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AdjustedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}

// NewStockAdjustment creates a new stock adjustment record.
// Quantity is always positive; direction comes from the type.
func NewStockAdjustment(
	tenantID, itemID uuid.UUID,
	adjustmentType AdjustmentType,
	quantity decimal.Decimal,
	reason string,
	quantityBefore, quantityAfter decimal.Decimal,
) (*StockAdjustment, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !adjustmentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Invalid stock adjustment type")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity must be positive")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Adjustment reason cannot be empty")
	}

	return &StockAdjustment{
		BaseEntity:     shared.NewBaseEntity(),
		TenantID:       tenantID,
		ItemID:         itemID,
		Type:           adjustmentType,
		Quantity:       quantity,
		Reason:         reason,
		QuantityBefore: quantityBefore,
		QuantityAfter:  quantityAfter,
		AdjustedAt:     time.Now(),
	}, nil
}

// SignedQuantity returns the delta this adjustment applies to the item
func (a *StockAdjustment) SignedQuantity() decimal.Decimal {
	if a.Type == AdjustmentTypeDecrease {
		return a.Quantity.Neg()
	}
	return a.Quantity
}
