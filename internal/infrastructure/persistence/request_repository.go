package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/application/ledger"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRequestRepository implements ledger.RequestRepository using GORM.
// Request records are written in the same transaction as the operation they
// guard; the unique (tenant_id, idempotency_key) index is the final defense
// against two concurrent requests committing under the same key.
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GORM request repository
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// FindByKey finds the stored record for an idempotency key.
// Returns (nil, nil) when the key has never been used.
func (r *GormRequestRepository) FindByKey(ctx context.Context, tenantID uuid.UUID, key string) (*ledger.RequestRecord, error) {
	var record ledger.RequestRecord
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND idempotency_key = ?", tenantID, key).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find request record: %w", err)
	}
	return &record, nil
}

// Create persists a new request record. A unique-index violation means a
// concurrent request committed under the same key first; it is surfaced as a
// concurrency conflict so the caller retries and replays the stored result.
func (r *GormRequestRepository) Create(ctx context.Context, record *ledger.RequestRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("request record for key %q already committed: %w", record.IdempotencyKey, shared.ErrConcurrencyConflict)
		}
		return fmt.Errorf("failed to create request record: %w", err)
	}
	return nil
}

// Ensure GormRequestRepository implements ledger.RequestRepository
var _ ledger.RequestRepository = (*GormRequestRepository)(nil)
