package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Item represents a stocked product belonging to a tenant and a manufacturer.
// It is the aggregate root for inventory operations; OnHandQuantity is the
// authoritative running stock total and is mutated only through the Ledger.
type Item struct {
	shared.TenantAggregateRoot
	SKU            string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_item_tenant_sku,priority:2"`
	Name           string           `gorm:"type:varchar(200);not null"`
	Manufacturer   string           `gorm:"type:varchar(200)"`
	OnHandQuantity decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	CostPrice      decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice   decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	RetailPrice    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	WholesalePrice *decimal.Decimal `gorm:"type:decimal(18,4)"`
	PromoPrice     *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new item with zero stock
func NewItem(tenantID uuid.UUID, sku, name string, costPrice, sellingPrice decimal.Decimal) (*Item, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Item SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if costPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	return &Item{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 strings.ToUpper(sku),
		Name:                name,
		OnHandQuantity:      decimal.Zero,
		CostPrice:           costPrice,
		SellingPrice:        sellingPrice,
	}, nil
}

// SetManufacturer sets the manufacturer name
func (i *Item) SetManufacturer(name string) {
	i.Manufacturer = name
	i.UpdatedAt = time.Now()
}

// SetTieredPrices sets the optional retail/wholesale/promo prices.
// A nil price clears the tier.
func (i *Item) SetTieredPrices(retail, wholesale, promo *decimal.Decimal) error {
	for _, p := range []*decimal.Decimal{retail, wholesale, promo} {
		if p != nil && p.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Tiered price cannot be negative")
		}
	}
	i.RetailPrice = retail
	i.WholesalePrice = wholesale
	i.PromoPrice = promo
	i.UpdatedAt = time.Now()
	return nil
}

// applyQuantityDelta mutates the on-hand quantity. Only the Ledger calls this;
// the non-negative policy is checked there so the error can carry policy context.
func (i *Item) applyQuantityDelta(delta decimal.Decimal) decimal.Decimal {
	i.OnHandQuantity = i.OnHandQuantity.Add(delta)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return i.OnHandQuantity
}
