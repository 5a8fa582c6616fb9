package trade

import (
	"fmt"

	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReturnEffects are the signed deltas a return applies to the item quantity
// and the counterparty balance
type ReturnEffects struct {
	InventoryDelta decimal.Decimal
	BalanceDelta   decimal.Decimal
}

// ReturnProcessor computes the inventory and balance effects of a return from
// its disposition and the referenced original line.
//
// An EXCHANGE yields only the inbound delta for the returned item; the
// replacement item's outflow is a separate ordinary sale line the caller must
// record. This keeps the return atomic to its own item.
type ReturnProcessor struct{}

// NewReturnProcessor creates a new return processor
func NewReturnProcessor() *ReturnProcessor {
	return &ReturnProcessor{}
}

// ProcessCustomerReturn computes the effects of goods coming back from a
// customer. priorReturnedQuantity is the cumulative quantity already returned
// against the same sale line; the new return must not push the total past the
// originally sold quantity.
func (p *ReturnProcessor) ProcessCustomerReturn(ret *CustomerReturn, originalLine *SaleLine, priorReturnedQuantity decimal.Decimal) (ReturnEffects, error) {
	if ret == nil || originalLine == nil {
		return ReturnEffects{}, shared.NewDomainError("INVALID_REFERENCE", "Return and original sale line are required")
	}
	if ret.SaleLineID != originalLine.ID {
		return ReturnEffects{}, shared.NewDomainError("INVALID_REFERENCE", "Return does not reference the given sale line")
	}
	if ret.ItemID != originalLine.ItemID {
		return ReturnEffects{}, shared.NewDomainError("INVALID_ITEM", "Return item does not match the sale line item")
	}
	if err := checkOverReturn(ret.Quantity, priorReturnedQuantity, originalLine.Quantity); err != nil {
		return ReturnEffects{}, err
	}

	effects := ReturnEffects{InventoryDelta: ret.Quantity, BalanceDelta: decimal.Zero}
	if ret.Type == ReturnTypeCredit {
		// Credit note: the customer owes that much less.
		effects.BalanceDelta = ret.Amount.Neg()
	}
	return effects, nil
}

// ProcessSupplierReturn computes the effects of goods sent back to a
// supplier. Stock leaves the shelf; a CREDIT disposition reduces what the
// business owes the supplier.
func (p *ReturnProcessor) ProcessSupplierReturn(ret *SupplierReturn, originalLine *PurchaseLine, priorReturnedQuantity decimal.Decimal) (ReturnEffects, error) {
	if ret == nil || originalLine == nil {
		return ReturnEffects{}, shared.NewDomainError("INVALID_REFERENCE", "Return and original purchase line are required")
	}
	if ret.PurchaseLineID != originalLine.ID {
		return ReturnEffects{}, shared.NewDomainError("INVALID_REFERENCE", "Return does not reference the given purchase line")
	}
	if ret.ItemID != originalLine.ItemID {
		return ReturnEffects{}, shared.NewDomainError("INVALID_ITEM", "Return item does not match the purchase line item")
	}
	if err := checkOverReturn(ret.Quantity, priorReturnedQuantity, originalLine.Quantity); err != nil {
		return ReturnEffects{}, err
	}

	effects := ReturnEffects{InventoryDelta: ret.Quantity.Neg(), BalanceDelta: decimal.Zero}
	if ret.Type == ReturnTypeCredit {
		effects.BalanceDelta = ret.Amount.Neg()
	}
	return effects, nil
}

func checkOverReturn(quantity, priorReturned, originalQuantity decimal.Decimal) error {
	if priorReturned.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Prior returned quantity cannot be negative")
	}
	cumulative := priorReturned.Add(quantity)
	if cumulative.GreaterThan(originalQuantity) {
		return shared.NewDomainError("OVER_RETURN",
			fmt.Sprintf("cumulative returned quantity %s exceeds originally recorded quantity %s", cumulative, originalQuantity))
	}
	return nil
}
