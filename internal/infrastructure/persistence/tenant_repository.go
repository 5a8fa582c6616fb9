package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/domain/tenant"
	"gorm.io/gorm"
)

// GormTenantRepository implements tenant.Repository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GORM tenant repository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}
	return &t, nil
}

// FindByCode finds a tenant by its unique code
func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant by code: %w", err)
	}
	return &t, nil
}

// Save persists a tenant, creating it if new or updating it with an
// optimistic-concurrency check on the aggregate version.
func (r *GormTenantRepository) Save(ctx context.Context, t *tenant.Tenant) error {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&tenant.Tenant{}).Where("id = ?", t.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check tenant existence: %w", err)
	}

	if count == 0 {
		if err := db.Create(t).Error; err != nil {
			return fmt.Errorf("failed to create tenant: %w", err)
		}
		return nil
	}

	result := db.Model(&tenant.Tenant{}).
		Where("id = ? AND version = ?", t.ID, t.Version-1).
		Updates(map[string]interface{}{
			"name":                        t.Name,
			"status":                      t.Status,
			"phone":                       t.Phone,
			"config_currency":             t.Config.Currency,
			"config_allow_backorder":      t.Config.AllowBackorder,
			"config_enforce_credit_limit": t.Config.EnforceCreditLimit,
			"version":                     t.Version,
			"updated_at":                  t.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update tenant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormTenantRepository implements tenant.Repository
var _ tenant.Repository = (*GormTenantRepository)(nil)
