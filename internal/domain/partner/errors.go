package partner

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditLimitExceededError is returned when a balance delta would push a
// customer's balance above the tenant-configured credit ceiling. It carries
// enough context for the caller to decide next steps.
type CreditLimitExceededError struct {
	CounterpartyID uuid.UUID
	CurrentBalance decimal.Decimal
	RequestedDelta decimal.Decimal
	CreditLimit    decimal.Decimal
}

// Error implements the error interface
func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("credit limit exceeded for counterparty %s: balance %s, requested delta %s, limit %s",
		e.CounterpartyID, e.CurrentBalance, e.RequestedDelta, e.CreditLimit)
}

// Code returns the domain error code
func (e *CreditLimitExceededError) Code() string {
	return "CREDIT_LIMIT_EXCEEDED"
}
