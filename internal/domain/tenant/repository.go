package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for tenants
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error
}
