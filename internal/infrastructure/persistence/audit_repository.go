package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/audit"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var auditSortFields = map[string]bool{
	"occurred_at": true,
	"action":      true,
	"actor":       true,
}

// GormAuditRepository implements audit.Repository using GORM.
// Audit entries are append-only.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM audit repository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Create persists a new audit entry
func (r *GormAuditRepository) Create(ctx context.Context, log *audit.Log) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// FindAllForTenant lists audit entries for a tenant with pagination
func (r *GormAuditRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]audit.Log, error) {
	var logs []audit.Log
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)

	if action, ok := filter.Filters["action"]; ok {
		query = query.Where("action = ?", action)
	}
	if actor, ok := filter.Filters["actor"]; ok {
		query = query.Where("actor = ?", actor)
	}

	query = applyFilter(query, filter, auditSortFields)
	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}

// FindByReference lists audit entries for one business record
func (r *GormAuditRepository) FindByReference(ctx context.Context, tenantID, referenceID uuid.UUID) ([]audit.Log, error) {
	var logs []audit.Log
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reference_id = ?", tenantID, referenceID).
		Order("occurred_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find audit logs by reference: %w", err)
	}
	return logs, nil
}

// Ensure GormAuditRepository implements audit.Repository
var _ audit.Repository = (*GormAuditRepository)(nil)
