package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/inventory"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var adjustmentSortFields = map[string]bool{
	"adjusted_at": true,
}

// GormStockAdjustmentRepository implements inventory.StockAdjustmentRepository
// using GORM. Adjustments are append-only records.
type GormStockAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormStockAdjustmentRepository creates a new GORM stock adjustment repository
func NewGormStockAdjustmentRepository(db *gorm.DB) *GormStockAdjustmentRepository {
	return &GormStockAdjustmentRepository{db: db}
}

// Create persists a new stock adjustment record
func (r *GormStockAdjustmentRepository) Create(ctx context.Context, adjustment *inventory.StockAdjustment) error {
	if err := r.db.WithContext(ctx).Create(adjustment).Error; err != nil {
		return fmt.Errorf("failed to create stock adjustment: %w", err)
	}
	return nil
}

// FindByIDForTenant finds a stock adjustment by ID within a tenant
func (r *GormStockAdjustmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockAdjustment, error) {
	var adjustment inventory.StockAdjustment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&adjustment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find stock adjustment: %w", err)
	}
	return &adjustment, nil
}

// FindByItem lists adjustments for one item with pagination
func (r *GormStockAdjustmentRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]inventory.StockAdjustment, error) {
	var adjustments []inventory.StockAdjustment
	query := r.db.WithContext(ctx).Where("tenant_id = ? AND item_id = ?", tenantID, itemID)
	query = applyFilter(query, filter, adjustmentSortFields)
	if err := query.Find(&adjustments).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock adjustments: %w", err)
	}
	return adjustments, nil
}

// Ensure GormStockAdjustmentRepository implements inventory.StockAdjustmentRepository
var _ inventory.StockAdjustmentRepository = (*GormStockAdjustmentRepository)(nil)
