package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// Supplier represents a supplying counterparty in the partner context.
// Balance is the amount the business owes the supplier: credit purchases push
// it up, payments and credit returns bring it down.
type Supplier struct {
	shared.TenantAggregateRoot
	Code    string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_supplier_tenant_code,priority:2"`
	Name    string          `gorm:"type:varchar(200);not null"`
	Phone   string          `gorm:"type:varchar(50);index"`
	Status  SupplierStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	Balance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier with zero balance
func NewSupplier(tenantID uuid.UUID, code, name string) (*Supplier, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Supplier code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}

	return &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              SupplierStatusActive,
		Balance:             decimal.Zero,
	}, nil
}

// SetPhone sets the supplier's phone number
func (s *Supplier) SetPhone(phone string) {
	s.Phone = phone
	s.UpdatedAt = time.Now()
}

// CurrentBalance returns the amount the business owes the supplier
func (s *Supplier) CurrentBalance() decimal.Decimal {
	return s.Balance
}

// counterpartyRole identifies the supplier side of the ledger
func (s *Supplier) counterpartyRole() Role {
	return RoleSupplier
}

// applyBalanceDelta mutates the balance. Only the AccountLedger calls this.
func (s *Supplier) applyBalanceDelta(delta decimal.Decimal) decimal.Decimal {
	s.Balance = s.Balance.Add(delta)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return s.Balance
}
