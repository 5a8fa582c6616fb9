package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
)

// RequestRecord stores the outcome of an operation under its idempotency key.
// It is written in the same unit of work as the operation's mutations, so a
// key is recorded exactly when the operation committed. A retried request
// finds the record and gets the stored result back without mutating anything.
type RequestRecord struct {
	shared.BaseEntity
	TenantID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_request_tenant_key,priority:1"`
	IdempotencyKey string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_request_tenant_key,priority:2"`
	Operation      string    `gorm:"type:varchar(40);not null"`
	Result         string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (RequestRecord) TableName() string {
	return "request_records"
}

// NewRequestRecord creates a new request record
func NewRequestRecord(tenantID uuid.UUID, key, operation, result string) *RequestRecord {
	return &RequestRecord{
		BaseEntity:     shared.NewBaseEntity(),
		TenantID:       tenantID,
		IdempotencyKey: key,
		Operation:      operation,
		Result:         result,
	}
}

// RequestRepository defines persistence operations for request records.
// FindByKey returns nil without error when no record exists for the key.
type RequestRepository interface {
	FindByKey(ctx context.Context, tenantID uuid.UUID, key string) (*RequestRecord, error)
	Create(ctx context.Context, record *RequestRecord) error
}
