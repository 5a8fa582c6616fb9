package partner

import (
	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Role distinguishes the sign convention of a counterparty's balance:
// a customer balance is what the customer owes the business, a supplier
// balance is what the business owes the supplier.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSupplier Role = "supplier"
)

// IsValid returns true if the role is valid
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleSupplier
}

// Counterparty is either a Customer or a Supplier. The balance mutator is
// unexported so nothing outside this package can write balances directly.
type Counterparty interface {
	shared.AggregateRoot
	CurrentBalance() decimal.Decimal
	counterpartyRole() Role
	applyBalanceDelta(delta decimal.Decimal) decimal.Decimal
}

// AccountLedger owns all mutations of counterparty balances. Credit sales and
// purchases, payments, and credit returns are expressed as signed deltas; a
// positive delta always increases what the counterparty side owes under its
// role's convention.
//
// There is no lower bound: a customer may carry a negative balance (credit in
// their favor from an overpayment or credit return). An optional ceiling
// check rejects customer deltas that would exceed the configured credit limit.
type AccountLedger struct{}

// NewAccountLedger creates a new account ledger service
func NewAccountLedger() *AccountLedger {
	return &AccountLedger{}
}

// ApplyDelta applies a signed balance delta, denominated in the tenant's
// currency, and returns the new balance. When enforceCreditLimit is set and
// the counterparty is a customer with a positive credit limit, a delta
// pushing the balance above that limit is rejected with
// *CreditLimitExceededError.
func (l *AccountLedger) ApplyDelta(cp Counterparty, role Role, delta valueobject.Money, reason string, enforceCreditLimit bool) (decimal.Decimal, error) {
	if cp == nil {
		return decimal.Zero, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty cannot be nil")
	}
	if !role.IsValid() {
		return decimal.Zero, shared.NewDomainError("INVALID_ROLE", "Invalid counterparty role")
	}
	if role != cp.counterpartyRole() {
		return decimal.Zero, shared.NewDomainError("INVALID_ROLE", "Role does not match counterparty")
	}
	if delta.IsZero() {
		return cp.CurrentBalance(), shared.NewDomainError("INVALID_AMOUNT", "Balance delta cannot be zero")
	}

	amount := delta.Amount()
	before := cp.CurrentBalance()
	newBalance := before.Add(amount)

	if enforceCreditLimit && role == RoleCustomer {
		if customer, ok := cp.(*Customer); ok && customer.CreditLimit.IsPositive() && newBalance.GreaterThan(customer.CreditLimit) {
			return before, &CreditLimitExceededError{
				CounterpartyID: customer.ID,
				CurrentBalance: before,
				RequestedDelta: amount,
				CreditLimit:    customer.CreditLimit,
			}
		}
	}

	cp.applyBalanceDelta(amount)
	cp.AddDomainEvent(newBalanceChangedEvent(cp, role, before, amount, reason))

	return newBalance, nil
}

// newBalanceChangedEvent builds the role-appropriate balance event
func newBalanceChangedEvent(cp Counterparty, role Role, before, delta decimal.Decimal, reason string) shared.DomainEvent {
	var tenantID, aggID uuid.UUID
	switch v := cp.(type) {
	case *Customer:
		tenantID, aggID = v.TenantID, v.ID
	case *Supplier:
		tenantID, aggID = v.TenantID, v.ID
	}
	if role == RoleSupplier {
		return NewSupplierBalanceChangedEvent(tenantID, aggID, before, delta, cp.CurrentBalance(), reason)
	}
	return NewCustomerBalanceChangedEvent(tenantID, aggID, before, delta, cp.CurrentBalance(), reason)
}
