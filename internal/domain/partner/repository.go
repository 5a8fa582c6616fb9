package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
)

// CustomerRepository defines persistence operations for customers.
// Save must perform an optimistic-concurrency check on the aggregate version
// and return shared.ErrConcurrencyConflict on a stale write.
type CustomerRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Customer, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)
	Save(ctx context.Context, customer *Customer) error
}

// SupplierRepository defines persistence operations for suppliers
type SupplierRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Supplier, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Supplier, error)
	Save(ctx context.Context, supplier *Supplier) error
}
