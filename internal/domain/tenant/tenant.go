package tenant

import (
	"strings"
	"time"

	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the status of a tenant
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Config holds configurable ledger policy for a tenant
type Config struct {
	Currency valueobject.Currency `json:"currency"`
	// AllowBackorder permits an item's on-hand quantity to go negative
	// pending restock
	AllowBackorder bool `json:"allow_backorder"`
	// EnforceCreditLimit rejects balance deltas that would push a customer's
	// balance above their configured credit limit
	EnforceCreditLimit bool `json:"enforce_credit_limit"`
}

// Money denominates an amount in the tenant's configured currency.
func (c Config) Money(amount decimal.Decimal) valueobject.Money {
	return valueobject.MoneyIn(amount, c.Currency)
}

// DefaultConfig returns the default configuration for a new tenant
func DefaultConfig() Config {
	return Config{
		Currency:           valueobject.DefaultCurrency,
		AllowBackorder:     false,
		EnforceCreditLimit: false,
	}
}

// Tenant represents an isolated business account in the multi-tenant system.
// It is the aggregate root for tenant-related operations.
type Tenant struct {
	shared.BaseAggregateRoot
	Code   string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name   string `gorm:"type:varchar(200);not null"`
	Status Status `gorm:"type:varchar(20);not null;default:'active'"`
	Phone  string `gorm:"type:varchar(50)"`
	Config Config `gorm:"embedded;embeddedPrefix:config_"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant with default configuration
func NewTenant(code, name string) (*Tenant, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Tenant code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            StatusActive,
		Config:            DefaultConfig(),
	}, nil
}

// IsActive returns true if the tenant can record transactions
func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}

// EnableBackorder allows stock quantities to go negative
func (t *Tenant) EnableBackorder() {
	t.Config.AllowBackorder = true
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// DisableBackorder enforces the non-negative stock policy
func (t *Tenant) DisableBackorder() {
	t.Config.AllowBackorder = false
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// EnableCreditLimit turns on customer credit ceiling checks
func (t *Tenant) EnableCreditLimit() {
	t.Config.EnforceCreditLimit = true
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// Suspend suspends the tenant; suspended tenants reject all mutating operations
func (t *Tenant) Suspend() error {
	if t.Status == StatusSuspended {
		return shared.ErrInvalidState
	}
	t.Status = StatusSuspended
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Activate re-activates a suspended or inactive tenant
func (t *Tenant) Activate() {
	t.Status = StatusActive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}
