package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/domain/trade"
	"gorm.io/gorm"
)

var purchaseSortFields = map[string]bool{
	"purchased_at": true,
	"total_amount": true,
}

// GormPurchaseRepository implements trade.PurchaseRepository using GORM.
// Purchases are append-only records.
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GORM purchase repository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// Create persists a new purchase record with its lines
func (r *GormPurchaseRepository) Create(ctx context.Context, purchase *trade.Purchase) error {
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}
	return nil
}

// FindByIDForTenant finds a purchase with its lines by ID within a tenant
func (r *GormPurchaseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find purchase: %w", err)
	}
	return &purchase, nil
}

// FindAllForTenant lists purchases for a tenant with pagination
func (r *GormPurchaseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Purchase, error) {
	var purchases []trade.Purchase
	query := r.db.WithContext(ctx).Preload("Lines").Where("tenant_id = ?", tenantID)

	if supplierID, ok := filter.Filters["supplier_id"]; ok {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if paymentType, ok := filter.Filters["payment_type"]; ok {
		query = query.Where("payment_type = ?", paymentType)
	}

	query = applyFilter(query, filter, purchaseSortFields)
	if err := query.Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, nil
}

// Ensure GormPurchaseRepository implements trade.PurchaseRepository
var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)
