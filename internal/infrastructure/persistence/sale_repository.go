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

var saleSortFields = map[string]bool{
	"sold_at":      true,
	"total_amount": true,
}

// GormSaleRepository implements trade.SaleRepository using GORM.
// Sales are append-only records: Create inserts the sale and its lines in
// one go, and there is no update path.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GORM sale repository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Create persists a new sale record with its lines
func (r *GormSaleRepository) Create(ctx context.Context, sale *trade.Sale) error {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}
	return nil
}

// FindByIDForTenant finds a sale with its lines by ID within a tenant
func (r *GormSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sale: %w", err)
	}
	return &sale, nil
}

// FindAllForTenant lists sales for a tenant with pagination
func (r *GormSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Sale, error) {
	var sales []trade.Sale
	query := r.db.WithContext(ctx).Preload("Lines").Where("tenant_id = ?", tenantID)

	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if paymentType, ok := filter.Filters["payment_type"]; ok {
		query = query.Where("payment_type = ?", paymentType)
	}

	query = applyFilter(query, filter, saleSortFields)
	if err := query.Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

// Ensure GormSaleRepository implements trade.SaleRepository
var _ trade.SaleRepository = (*GormSaleRepository)(nil)
