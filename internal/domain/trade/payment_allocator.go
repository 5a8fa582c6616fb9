package trade

import (
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Allocation splits a settled amount into the part received now and the part
// deferred to the counterparty balance
type Allocation struct {
	ImmediateCash decimal.Decimal
	BalanceDelta  decimal.Decimal
}

// PaymentAllocator decides how much of a sale or purchase is paid now versus
// added to the counterparty's outstanding balance
type PaymentAllocator struct{}

// NewPaymentAllocator creates a new payment allocator
func NewPaymentAllocator() *PaymentAllocator {
	return &PaymentAllocator{}
}

// Allocate computes the allocation for a sale or purchase.
// CASH requires paid == total and defers nothing. CREDIT defers total - paid;
// paying more than the total on a credit transaction is a validation error,
// never silently clamped.
func (a *PaymentAllocator) Allocate(totalAmount, paidAmount decimal.Decimal, paymentType PaymentType) (Allocation, error) {
	if totalAmount.IsNegative() {
		return Allocation{}, shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}
	if paidAmount.IsNegative() {
		return Allocation{}, shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}

	switch paymentType {
	case PaymentTypeCash:
		if !paidAmount.Equal(totalAmount) {
			return Allocation{}, shared.NewDomainError("INVALID_AMOUNT", "Cash transaction must be paid in full")
		}
		return Allocation{ImmediateCash: totalAmount, BalanceDelta: decimal.Zero}, nil

	case PaymentTypeCredit:
		if paidAmount.GreaterThan(totalAmount) {
			return Allocation{}, shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot exceed total on a credit transaction")
		}
		return Allocation{ImmediateCash: paidAmount, BalanceDelta: totalAmount.Sub(paidAmount)}, nil

	default:
		return Allocation{}, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Invalid payment type")
	}
}
