package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/domain/trade"
	"gorm.io/gorm"
)

var paymentSortFields = map[string]bool{
	"paid_at": true,
	"amount":  true,
}

// GormCustomerPaymentRepository implements trade.CustomerPaymentRepository
// using GORM. Payments are append-only records.
type GormCustomerPaymentRepository struct {
	db *gorm.DB
}

// NewGormCustomerPaymentRepository creates a new GORM customer payment repository
func NewGormCustomerPaymentRepository(db *gorm.DB) *GormCustomerPaymentRepository {
	return &GormCustomerPaymentRepository{db: db}
}

// Create persists a new customer payment record
func (r *GormCustomerPaymentRepository) Create(ctx context.Context, payment *trade.CustomerPayment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create customer payment: %w", err)
	}
	return nil
}

// FindByCustomer lists payments received from one customer
func (r *GormCustomerPaymentRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]trade.CustomerPayment, error) {
	var payments []trade.CustomerPayment
	query := r.db.WithContext(ctx).Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)
	query = applyFilter(query, filter, paymentSortFields)
	if err := query.Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list customer payments: %w", err)
	}
	return payments, nil
}

// GormSupplierPaymentRepository implements trade.SupplierPaymentRepository using GORM
type GormSupplierPaymentRepository struct {
	db *gorm.DB
}

// NewGormSupplierPaymentRepository creates a new GORM supplier payment repository
func NewGormSupplierPaymentRepository(db *gorm.DB) *GormSupplierPaymentRepository {
	return &GormSupplierPaymentRepository{db: db}
}

// Create persists a new supplier payment record
func (r *GormSupplierPaymentRepository) Create(ctx context.Context, payment *trade.SupplierPayment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create supplier payment: %w", err)
	}
	return nil
}

// FindBySupplier lists payments made to one supplier
func (r *GormSupplierPaymentRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]trade.SupplierPayment, error) {
	var payments []trade.SupplierPayment
	query := r.db.WithContext(ctx).Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID)
	query = applyFilter(query, filter, paymentSortFields)
	if err := query.Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list supplier payments: %w", err)
	}
	return payments, nil
}

// Ensure payment repositories implement their interfaces
var (
	_ trade.CustomerPaymentRepository = (*GormCustomerPaymentRepository)(nil)
	_ trade.SupplierPaymentRepository = (*GormSupplierPaymentRepository)(nil)
)
