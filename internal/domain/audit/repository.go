package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
)

// Repository defines persistence operations for audit entries. Entries are
// append-only; there is no update or delete.
type Repository interface {
	Create(ctx context.Context, log *Log) error
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Log, error)
	FindByReference(ctx context.Context, tenantID, referenceID uuid.UUID) ([]Log, error)
}
