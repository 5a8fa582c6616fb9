package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleLine is one item position on a sale. Lines are immutable once the sale
// is committed; returns reference them by ID.
type SaleLine struct {
	shared.BaseEntity
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleLine) TableName() string {
	return "sale_lines"
}

// Sale is an immutable record of a completed sale. Once committed it is never
// updated or deleted; corrections are modeled as returns or adjustments.
// A CASH sale needs no customer; a CREDIT sale must name one because the
// outstanding amount moves to that customer's balance.
type Sale struct {
	shared.BaseEntity
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID  *uuid.UUID      `gorm:"type:uuid;index"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentType PaymentType     `gorm:"type:varchar(20);not null"`
	SoldAt      time.Time       `gorm:"not null"`
	Lines       []SaleLine      `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SaleLineInput describes one line of a new sale
type SaleLineInput struct {
	ItemID    uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// NewSale creates a new sale record with its lines. The total must equal the
// sum of line totals; payment amounts are validated by the allocator before
// the record is built.
func NewSale(tenantID uuid.UUID, customerID *uuid.UUID, paymentType PaymentType, paidAmount decimal.Decimal, lines []SaleLineInput) (*Sale, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Invalid payment type")
	}
	if paymentType == PaymentTypeCredit && customerID == nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Credit sale requires a customer")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_LINES", "Sale must have at least one line")
	}
	if paidAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}

	sale := &Sale{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		CustomerID:  customerID,
		PaidAmount:  paidAmount,
		PaymentType: paymentType,
		SoldAt:      time.Now(),
		Lines:       make([]SaleLine, 0, len(lines)),
	}

	total := decimal.Zero
	for _, in := range lines {
		if in.ItemID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_ITEM", "Sale line item ID cannot be empty")
		}
		if !in.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Sale line quantity must be positive")
		}
		if in.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Sale line price cannot be negative")
		}
		lineTotal := in.Quantity.Mul(in.UnitPrice)
		sale.Lines = append(sale.Lines, SaleLine{
			BaseEntity: shared.NewBaseEntity(),
			SaleID:     sale.ID,
			ItemID:     in.ItemID,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			LineTotal:  lineTotal,
		})
		total = total.Add(lineTotal)
	}
	sale.TotalAmount = total

	return sale, nil
}

// GetLine returns the line with the given ID, or nil
func (s *Sale) GetLine(lineID uuid.UUID) *SaleLine {
	for i := range s.Lines {
		if s.Lines[i].ID == lineID {
			return &s.Lines[i]
		}
	}
	return nil
}

// OutstandingAmount returns the part of the total deferred to the customer balance
func (s *Sale) OutstandingAmount() decimal.Decimal {
	return s.TotalAmount.Sub(s.PaidAmount)
}
