package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

var customerCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Customer represents a buying counterparty in the partner context.
// It is the aggregate root for customer-related operations.
// Balance is the amount the customer owes the business: credit sales push it
// up, payments and credit returns bring it down. A negative balance is credit
// in the customer's favor (e.g., from an overpayment).
type Customer struct {
	shared.TenantAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_customer_tenant_code,priority:2"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Phone       string          `gorm:"type:varchar(50);index"`
	Status      CustomerStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	Balance     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with zero balance
func NewCustomer(tenantID uuid.UUID, code, name string) (*Customer, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if !customerCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Customer code can only contain letters, digits, hyphen and underscore")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}

	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              CustomerStatusActive,
		Balance:             decimal.Zero,
		CreditLimit:         decimal.Zero,
	}, nil
}

// SetPhone sets the customer's phone number (raw; normalization is the
// notification collaborator's concern)
func (c *Customer) SetPhone(phone string) {
	c.Phone = phone
	c.UpdatedAt = time.Now()
}

// SetCreditLimit sets the credit ceiling consulted by the account ledger
func (c *Customer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	c.CreditLimit = limit
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// CurrentBalance returns the customer's outstanding balance
func (c *Customer) CurrentBalance() decimal.Decimal {
	return c.Balance
}

// counterpartyRole identifies the customer side of the ledger
func (c *Customer) counterpartyRole() Role {
	return RoleCustomer
}

// applyBalanceDelta mutates the balance. Only the AccountLedger calls this.
func (c *Customer) applyBalanceDelta(delta decimal.Decimal) decimal.Decimal {
	c.Balance = c.Balance.Add(delta)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return c.Balance
}
