package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// All repositories in this file cover append-only record families: they
// expose Create and read operations only. History is never updated or
// deleted; corrections are new compensating records.

// SaleRepository defines persistence operations for sales
type SaleRepository interface {
	Create(ctx context.Context, sale *Sale) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Sale, error)
}

// PurchaseRepository defines persistence operations for purchases
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *Purchase) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Purchase, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Purchase, error)
}

// CustomerPaymentRepository defines persistence operations for customer payments
type CustomerPaymentRepository interface {
	Create(ctx context.Context, payment *CustomerPayment) error
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]CustomerPayment, error)
}

// SupplierPaymentRepository defines persistence operations for supplier payments
type SupplierPaymentRepository interface {
	Create(ctx context.Context, payment *SupplierPayment) error
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]SupplierPayment, error)
}

// CustomerReturnRepository defines persistence operations for customer returns.
// SumQuantityForSaleLine resolves the cumulative prior returns against one
// sale line, which the return processor consults before approving a return.
type CustomerReturnRepository interface {
	Create(ctx context.Context, ret *CustomerReturn) error
	SumQuantityForSaleLine(ctx context.Context, tenantID, saleLineID uuid.UUID) (decimal.Decimal, error)
	FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]CustomerReturn, error)
}

// SupplierReturnRepository defines persistence operations for supplier returns
type SupplierReturnRepository interface {
	Create(ctx context.Context, ret *SupplierReturn) error
	SumQuantityForPurchaseLine(ctx context.Context, tenantID, purchaseLineID uuid.UUID) (decimal.Decimal, error)
	FindByPurchase(ctx context.Context, tenantID, purchaseID uuid.UUID) ([]SupplierReturn, error)
}
