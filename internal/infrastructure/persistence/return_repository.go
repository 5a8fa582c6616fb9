package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCustomerReturnRepository implements trade.CustomerReturnRepository
// using GORM. Returns are append-only records.
type GormCustomerReturnRepository struct {
	db *gorm.DB
}

// NewGormCustomerReturnRepository creates a new GORM customer return repository
func NewGormCustomerReturnRepository(db *gorm.DB) *GormCustomerReturnRepository {
	return &GormCustomerReturnRepository{db: db}
}

// Create persists a new customer return record
func (r *GormCustomerReturnRepository) Create(ctx context.Context, ret *trade.CustomerReturn) error {
	if err := r.db.WithContext(ctx).Create(ret).Error; err != nil {
		return fmt.Errorf("failed to create customer return: %w", err)
	}
	return nil
}

// SumQuantityForSaleLine returns the cumulative quantity already returned
// against one sale line. The over-return check reads this inside the same
// transaction that inserts the new return, so two concurrent returns cannot
// both pass the check against stale totals.
func (r *GormCustomerReturnRepository) SumQuantityForSaleLine(ctx context.Context, tenantID, saleLineID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&trade.CustomerReturn{}).
		Select("SUM(quantity)").
		Where("tenant_id = ? AND sale_line_id = ?", tenantID, saleLineID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum returned quantity: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// FindBySale lists returns recorded against one sale
func (r *GormCustomerReturnRepository) FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]trade.CustomerReturn, error) {
	var returns []trade.CustomerReturn
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sale_id = ?", tenantID, saleID).
		Order("returned_at DESC").
		Find(&returns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list customer returns: %w", err)
	}
	return returns, nil
}

// GormSupplierReturnRepository implements trade.SupplierReturnRepository using GORM
type GormSupplierReturnRepository struct {
	db *gorm.DB
}

// NewGormSupplierReturnRepository creates a new GORM supplier return repository
func NewGormSupplierReturnRepository(db *gorm.DB) *GormSupplierReturnRepository {
	return &GormSupplierReturnRepository{db: db}
}

// Create persists a new supplier return record
func (r *GormSupplierReturnRepository) Create(ctx context.Context, ret *trade.SupplierReturn) error {
	if err := r.db.WithContext(ctx).Create(ret).Error; err != nil {
		return fmt.Errorf("failed to create supplier return: %w", err)
	}
	return nil
}

// SumQuantityForPurchaseLine returns the cumulative quantity already returned
// against one purchase line
func (r *GormSupplierReturnRepository) SumQuantityForPurchaseLine(ctx context.Context, tenantID, purchaseLineID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&trade.SupplierReturn{}).
		Select("SUM(quantity)").
		Where("tenant_id = ? AND purchase_line_id = ?", tenantID, purchaseLineID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum returned quantity: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// FindByPurchase lists returns recorded against one purchase
func (r *GormSupplierReturnRepository) FindByPurchase(ctx context.Context, tenantID, purchaseID uuid.UUID) ([]trade.SupplierReturn, error) {
	var returns []trade.SupplierReturn
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND purchase_id = ?", tenantID, purchaseID).
		Order("returned_at DESC").
		Find(&returns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list supplier returns: %w", err)
	}
	return returns, nil
}

// Ensure return repositories implement their interfaces
var (
	_ trade.CustomerReturnRepository = (*GormCustomerReturnRepository)(nil)
	_ trade.SupplierReturnRepository = (*GormSupplierReturnRepository)(nil)
)
