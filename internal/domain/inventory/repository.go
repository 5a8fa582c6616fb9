package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
)

// ItemRepository defines persistence operations for items.
// Save must perform an optimistic-concurrency check on the aggregate version
// and return shared.ErrConcurrencyConflict when the row was modified by
// another process.
type ItemRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Item, error)
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Item, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Item, error)
	Save(ctx context.Context, item *Item) error
}

// StockAdjustmentRepository defines persistence operations for stock
// adjustments. The record family is append-only: there is no update or
// delete operation.
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adjustment *StockAdjustment) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockAdjustment, error)
	FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]StockAdjustment, error)
}
