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

var customerSortFields = map[string]bool{
	"code":         true,
	"name":         true,
	"balance":      true,
	"credit_limit": true,
}

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GORM customer repository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForTenant finds a customer by ID within a tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

// FindByCode finds a customer by code within a tenant
func (r *GormCustomerRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Customer, error) {
	var customer partner.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by code: %w", err)
	}
	return &customer, nil
}

// FindAllForTenant lists customers for a tenant with pagination
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	var customers []partner.Customer
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
	}

	query = applyFilter(query, filter, customerSortFields)
	if err := query.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// Save persists a customer. Balance updates race with concurrent payments and
// credit sales, so updates check the aggregate version and report a stale
// write as shared.ErrConcurrencyConflict.
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&partner.Customer{}).Where("id = ?", customer.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check customer existence: %w", err)
	}

	if count == 0 {
		if err := db.Create(customer).Error; err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}
		return nil
	}

	result := db.Model(&partner.Customer{}).
		Where("id = ? AND version = ?", customer.ID, customer.Version-1).
		Updates(map[string]interface{}{
			"code":         customer.Code,
			"name":         customer.Name,
			"phone":        customer.Phone,
			"status":       customer.Status,
			"balance":      customer.Balance,
			"credit_limit": customer.CreditLimit,
			"version":      customer.Version,
			"updated_at":   customer.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormCustomerRepository implements partner.CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
