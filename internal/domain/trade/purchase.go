package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseLine is one item position on a purchase
type PurchaseLine struct {
	shared.BaseEntity
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PurchaseLine) TableName() string {
	return "purchase_lines"
}

// Purchase is an immutable record of goods received from a supplier
type Purchase struct {
	shared.BaseEntity
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentType PaymentType     `gorm:"type:varchar(20);not null"`
	PurchasedAt time.Time       `gorm:"not null"`
	Lines       []PurchaseLine  `gorm:"foreignKey:PurchaseID;references:ID"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseLineInput describes one line of a new purchase
type PurchaseLineInput struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// NewPurchase creates a new purchase record with its lines
func NewPurchase(tenantID, supplierID uuid.UUID, paymentType PaymentType, paidAmount decimal.Decimal, lines []PurchaseLineInput) (*Purchase, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Purchase requires a supplier")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Invalid payment type")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_LINES", "Purchase must have at least one line")
	}
	if paidAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}

	purchase := &Purchase{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		SupplierID:  supplierID,
		PaidAmount:  paidAmount,
		PaymentType: paymentType,
		PurchasedAt: time.Now(),
		Lines:       make([]PurchaseLine, 0, len(lines)),
	}

	total := decimal.Zero
	for _, in := range lines {
		if in.ItemID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_ITEM", "Purchase line item ID cannot be empty")
		}
		if !in.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Purchase line quantity must be positive")
		}
		if in.UnitCost.IsNegative() {
			return nil, shared.NewDomainError("INVALID_COST", "Purchase line cost cannot be negative")
		}
		lineTotal := in.Quantity.Mul(in.UnitCost)
		purchase.Lines = append(purchase.Lines, PurchaseLine{
			BaseEntity: shared.NewBaseEntity(),
			PurchaseID: purchase.ID,
			ItemID:     in.ItemID,
			Quantity:   in.Quantity,
			UnitCost:   in.UnitCost,
			LineTotal:  lineTotal,
		})
		total = total.Add(lineTotal)
	}
	purchase.TotalAmount = total

	return purchase, nil
}

// GetLine returns the line with the given ID, or nil
func (p *Purchase) GetLine(lineID uuid.UUID) *PurchaseLine {
	for i := range p.Lines {
		if p.Lines[i].ID == lineID {
			return &p.Lines[i]
		}
	}
	return nil
}

// OutstandingAmount returns the part of the total deferred to the supplier balance
func (p *Purchase) OutstandingAmount() decimal.Decimal {
	return p.TotalAmount.Sub(p.PaidAmount)
}
