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

var itemSortFields = map[string]bool{
	"sku":              true,
	"name":             true,
	"manufacturer":     true,
	"on_hand_quantity": true,
}

// GormItemRepository implements inventory.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GORM item repository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByIDForTenant finds an item by ID within a tenant
func (r *GormItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Item, error) {
	var item inventory.Item
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}
	return &item, nil
}

// FindBySKU finds an item by SKU within a tenant
func (r *GormItemRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*inventory.Item, error) {
	var item inventory.Item
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sku = ?", tenantID, sku).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find item by SKU: %w", err)
	}
	return &item, nil
}

// FindAllForTenant lists items for a tenant with pagination
func (r *GormItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	var items []inventory.Item
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("sku ILIKE ? OR name ILIKE ?", pattern, pattern)
	}

	query = applyFilter(query, filter, itemSortFields)
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// Save persists an item. Updates carry an optimistic-concurrency check on the
// aggregate version: a stale write affects zero rows and surfaces as
// shared.ErrConcurrencyConflict so the caller can reload and retry.
func (r *GormItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&inventory.Item{}).Where("id = ?", item.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check item existence: %w", err)
	}

	if count == 0 {
		if err := db.Create(item).Error; err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		return nil
	}

	result := db.Model(&inventory.Item{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"sku":              item.SKU,
			"name":             item.Name,
			"manufacturer":     item.Manufacturer,
			"on_hand_quantity": item.OnHandQuantity,
			"cost_price":       item.CostPrice,
			"selling_price":    item.SellingPrice,
			"retail_price":     item.RetailPrice,
			"wholesale_price":  item.WholesalePrice,
			"promo_price":      item.PromoPrice,
			"version":          item.Version,
			"updated_at":       item.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormItemRepository implements inventory.ItemRepository
var _ inventory.ItemRepository = (*GormItemRepository)(nil)
