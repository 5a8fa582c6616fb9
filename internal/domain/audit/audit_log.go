package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
)

// Action identifies the business operation an audit entry describes
type Action string

const (
	ActionSaleRecorded            Action = "SALE_RECORDED"
	ActionPurchaseRecorded        Action = "PURCHASE_RECORDED"
	ActionPaymentRecorded         Action = "PAYMENT_RECORDED"
	ActionReturnRecorded          Action = "RETURN_RECORDED"
	ActionStockAdjustmentRecorded Action = "STOCK_ADJUSTMENT_RECORDED"
)

// IsValid returns true if the action is valid
func (a Action) IsValid() bool {
	switch a {
	case ActionSaleRecorded, ActionPurchaseRecorded, ActionPaymentRecorded,
		ActionReturnRecorded, ActionStockAdjustmentRecorded:
		return true
	}
	return false
}

// EntityRef names one aggregate touched by an audited operation together with
// its balance or quantity before and after the change
type EntityRef struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Before     string `json:"before,omitempty"`
	After      string `json:"after,omitempty"`
}

// Log is an append-only audit entry written in the same unit of work as the
// operation it describes, so an entry exists exactly when the operation
// committed
type Log struct {
	shared.BaseEntity
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Actor       string    `gorm:"type:varchar(128);not null"`
	Action      Action    `gorm:"type:varchar(40);not null;index"`
	ReferenceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Entities    string    `gorm:"type:text"`
	OccurredAt  time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Log) TableName() string {
	return "audit_logs"
}

// NewLog creates a new audit entry. referenceID is the ID of the transaction
// record the operation produced.
func NewLog(tenantID uuid.UUID, actor string, action Action, referenceID uuid.UUID, entities []EntityRef) (*Log, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if actor == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor cannot be empty")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Invalid audit action")
	}
	if referenceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Audit entry must reference the recorded transaction")
	}

	payload, err := json.Marshal(entities)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ENTITIES", "Audit entities cannot be serialized")
	}

	return &Log{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		Actor:       actor,
		Action:      action,
		ReferenceID: referenceID,
		Entities:    string(payload),
		OccurredAt:  time.Now(),
	}, nil
}

// EntityRefs decodes the affected-entity snapshots
func (l *Log) EntityRefs() ([]EntityRef, error) {
	if l.Entities == "" {
		return nil, nil
	}
	var refs []EntityRef
	if err := json.Unmarshal([]byte(l.Entities), &refs); err != nil {
		return nil, err
	}
	return refs, nil
}
