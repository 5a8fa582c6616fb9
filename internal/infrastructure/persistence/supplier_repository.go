package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/partner"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var supplierSortFields = map[string]bool{
	"code":    true,
	"name":    true,
	"balance": true,
}

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GORM supplier repository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByIDForTenant finds a supplier by ID within a tenant
func (r *GormSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	var supplier partner.Supplier
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find supplier: %w", err)
	}
	return &supplier, nil
}

// FindByCode finds a supplier by code within a tenant
func (r *GormSupplierRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Supplier, error) {
	var supplier partner.Supplier
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find supplier by code: %w", err)
	}
	return &supplier, nil
}

// FindAllForTenant lists suppliers for a tenant with pagination
func (r *GormSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	var suppliers []partner.Supplier
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}

	query = applyFilter(query, filter, supplierSortFields)
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

// Save persists a supplier with an optimistic-concurrency check on updates
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&partner.Supplier{}).Where("id = ?", supplier.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check supplier existence: %w", err)
	}

	if count == 0 {
		if err := db.Create(supplier).Error; err != nil {
			return fmt.Errorf("failed to create supplier: %w", err)
		}
		return nil
	}

	result := db.Model(&partner.Supplier{}).
		Where("id = ? AND version = ?", supplier.ID, supplier.Version-1).
		Updates(map[string]interface{}{
			"code":       supplier.Code,
			"name":       supplier.Name,
			"phone":      supplier.Phone,
			"status":     supplier.Status,
			"balance":    supplier.Balance,
			"version":    supplier.Version,
			"updated_at": supplier.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update supplier: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormSupplierRepository implements partner.SupplierRepository
var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
