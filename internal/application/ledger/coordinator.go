package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/audit"
	"github.com/ledgerpos/backend/internal/domain/inventory"
	"github.com/ledgerpos/backend/internal/domain/partner"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/domain/shared/valueobject"
	"github.com/ledgerpos/backend/internal/domain/tenant"
	"github.com/ledgerpos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Operation names recorded under idempotency keys. A key replayed against a
// different operation is a client error, not a replay.
const (
	opSale            = "sale"
	opPurchase        = "purchase"
	opCustomerPayment = "customer_payment"
	opSupplierPayment = "supplier_payment"
	opCustomerReturn  = "customer_return"
	opSupplierReturn  = "supplier_return"
	opStockAdjustment = "stock_adjustment"
)

// Config holds retry tuning for the coordinator
type Config struct {
	// MaxRetries bounds how many times a unit of work is re-run after an
	// optimistic-lock conflict
	MaxRetries int
	// RetryBackoff is the delay before the first retry; it doubles per attempt
	RetryBackoff time.Duration
}

// DefaultConfig returns the default coordinator configuration
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		RetryBackoff: 25 * time.Millisecond,
	}
}

// TransactionCoordinator orchestrates the ledger operations. Every operation
// follows the same shape: validate the input, load the touched aggregates
// inside one unit of work, apply deltas through the domain services, persist
// the transaction record plus the audit entry, and publish the commit events
// after the transaction is durable. An optimistic-lock conflict re-runs the
// whole unit of work from fresh reads, up to the configured retry bound.
type TransactionCoordinator struct {
	uow       UnitOfWork
	publisher shared.EventPublisher
	logger    *zap.Logger
	cfg       Config

	stock     *inventory.Ledger
	accounts  *partner.AccountLedger
	allocator *trade.PaymentAllocator
	returns   *trade.ReturnProcessor
}

// NewTransactionCoordinator creates a new transaction coordinator
func NewTransactionCoordinator(uow UnitOfWork, publisher shared.EventPublisher, logger *zap.Logger, cfg Config) *TransactionCoordinator {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultConfig().RetryBackoff
	}
	return &TransactionCoordinator{
		uow:       uow,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
		stock:     inventory.NewLedger(),
		accounts:  partner.NewAccountLedger(),
		allocator: trade.NewPaymentAllocator(),
		returns:   trade.NewReturnProcessor(),
	}
}

// RecordSale records a sale: stock leaves per line, and on a credit sale the
// unpaid remainder moves onto the customer's balance.
func (c *TransactionCoordinator) RecordSale(ctx context.Context, input RecordSaleInput) (*SaleResult, error) {
	if input.Actor == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor cannot be empty")
	}

	result := &SaleResult{}
	replayed, err := c.runAtomic(ctx, input.TenantID, input.IdempotencyKey, opSale, result,
		func(ctx context.Context, repos Repos, t *tenant.Tenant) ([]shared.DomainEvent, error) {
			sale, err := trade.NewSale(input.TenantID, input.CustomerID, input.PaymentType, input.PaidAmount, input.Lines)
			if err != nil {
				return nil, err
			}
			alloc, err := c.allocator.Allocate(sale.TotalAmount, sale.PaidAmount, sale.PaymentType)
			if err != nil {
				return nil, err
			}

			var events []shared.DomainEvent
			var refs []audit.EntityRef
			for i := range sale.Lines {
				line := &sale.Lines[i]
				item, err := repos.Items.FindByIDForTenant(ctx, input.TenantID, line.ItemID)
				if err != nil {
					return nil, err
				}
				before := item.OnHandQuantity
				if _, err := c.stock.ApplyDelta(item, valueobject.NewQuantity(line.Quantity).Neg(), "sale", t.Config.AllowBackorder); err != nil {
					return nil, err
				}
				if err := repos.Items.Save(ctx, item); err != nil {
					return nil, err
				}
				events = append(events, item.GetDomainEvents()...)
				item.ClearDomainEvents()
				refs = append(refs, audit.EntityRef{
					EntityType: "Item",
					EntityID:   item.ID.String(),
					Before:     before.String(),
					After:      item.OnHandQuantity.String(),
				})
			}

			// A sale that names a customer must reference a real one in this
			// tenant even when fully paid, so the lookup happens regardless of
			// whether any balance moves.
			var balanceAfter *decimal.Decimal
			balance := decimal.Zero
			if sale.CustomerID != nil {
				customer, err := repos.Customers.FindByIDForTenant(ctx, input.TenantID, *sale.CustomerID)
				if err != nil {
					return nil, err
				}
				if !alloc.BalanceDelta.IsZero() {
					before := customer.Balance
					newBalance, err := c.accounts.ApplyDelta(customer, partner.RoleCustomer, t.Config.Money(alloc.BalanceDelta), "credit sale", t.Config.EnforceCreditLimit)
					if err != nil {
						return nil, err
					}
					if err := repos.Customers.Save(ctx, customer); err != nil {
						return nil, err
					}
					events = append(events, customer.GetDomainEvents()...)
					customer.ClearDomainEvents()
					refs = append(refs, audit.EntityRef{
						EntityType: "Customer",
						EntityID:   customer.ID.String(),
						Before:     before.String(),
						After:      newBalance.String(),
					})
					balanceAfter = &newBalance
					balance = newBalance
				}
			}

			if err := repos.Sales.Create(ctx, sale); err != nil {
				return nil, err
			}
			if err := c.writeAudit(ctx, repos, input.TenantID, input.Actor, audit.ActionSaleRecorded, sale.ID, refs); err != nil {
				return nil, err
			}

			events = append(events, trade.NewSaleRecordedEvent(sale, balance))
			*result = SaleResult{
				SaleID:       sale.ID,
				TotalAmount:  sale.TotalAmount,
				PaidAmount:   sale.PaidAmount,
				BalanceAfter: balanceAfter,
			}
			return events, nil
		})
	if err != nil {
		return nil, err
	}
	result.Replayed = replayed
	return result, nil
}

// RecordPurchase records goods received from a supplier: stock comes in per
// line, and on a credit purchase the unpaid remainder is added to what the
// business owes the supplier.
func (c *TransactionCoordinator) RecordPurchase(ctx context.Context, input RecordPurchaseInput) (*PurchaseResult, error) {
	if input.Actor == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor cannot be empty")
	}

	result := &PurchaseResult{}
	replayed, err := c.runAtomic(ctx, input.TenantID, input.IdempotencyKey, opPurchase, result,
		func(ctx context.Context, repos Repos, t *tenant.Tenant) ([]shared.DomainEvent, error) {
			purchase, err := trade.NewPurchase(input.TenantID, input.SupplierID, input.PaymentType, input.PaidAmount, input.Lines)
			if err != nil {
				return nil, err
			}
			alloc, err := c.allocator.Allocate(purchase.TotalAmount, purchase.PaidAmount, purchase.PaymentType)
			if err != nil {
				return nil, err
			}

			var events []shared.DomainEvent
			var refs []audit.EntityRef
			for i := range purchase.Lines {
				line := &purchase.Lines[i]
				item, err := repos.Items.FindByIDForTenant(ctx, input.TenantID, line.ItemID)
				if err != nil {
					return nil, err
				}
				before := item.OnHandQuantity
				if _, err := c.stock.ApplyDelta(item, valueobject.NewQuantity(line.Quantity), "purchase", t.Config.AllowBackorder); err != nil {
					return nil, err
				}
				if err := repos.Items.Save(ctx, item); err != nil {
					return nil, err
				}
				events = append(events, item.GetDomainEvents()...)
				item.ClearDomainEvents()
				refs = append(refs, audit.EntityRef{
					EntityType: "Item",
					EntityID:   item.ID.String(),
					Before:     before.String(),
					After:      item.OnHandQuantity.String(),
				})
			}

			// The supplier reference is mandatory on a purchase, so it is
			// resolved even when the document is fully paid and no balance
			// moves.
			supplier, err := repos.Suppliers.FindByIDForTenant(ctx, input.TenantID, purchase.SupplierID)
			if err != nil {
				return nil, err
			}

			var balanceAfter *decimal.Decimal
			balance := decimal.Zero
			if !alloc.BalanceDelta.IsZero() {
				before := supplier.Balance
				newBalance, err := c.accounts.ApplyDelta(supplier, partner.RoleSupplier, t.Config.Money(alloc.BalanceDelta), "credit purchase", false)
				if err != nil {
					return nil, err
				}
				if err := repos.Suppliers.Save(ctx, supplier); err != nil {
					return nil, err
				}
				events = append(events, supplier.GetDomainEvents()...)
				supplier.ClearDomainEvents()
				refs = append(refs, audit.EntityRef{
					EntityType: "Supplier",
					EntityID:   supplier.ID.String(),
					Before:     before.String(),
					After:      newBalance.String(),
				})
				balanceAfter = &newBalance
				balance = newBalance
			}

			if err := repos.Purchases.Create(ctx, purchase); err != nil {
				return nil, err
			}
			if err := c.writeAudit(ctx, repos, input.TenantID, input.Actor, audit.ActionPurchaseRecorded, purchase.ID, refs); err != nil {
				return nil, err
			}

			events = append(events, trade.NewPurchaseRecordedEvent(purchase, balance))
			*result = PurchaseResult{
				PurchaseID:   purchase.ID,
				TotalAmount:  purchase.TotalAmount,
				PaidAmount:   purchase.PaidAmount,
				BalanceAfter: balanceAfter,
			}
			return events, nil
		})
	if err != nil {
		return nil, err
	}
	result.Replayed = replayed
	return result, nil
}

// RecordCustomerPayment records money received from a customer and reduces
// their outstanding balance. Overpayment is allowed and leaves the customer
// with credit in their favor.
func (c *TransactionCoordinator) RecordCustomerPayment(ctx context.Context, input RecordPaymentInput) (*PaymentResult, error) {
	if input.Actor == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor cannot be empty")
	}

	result := &PaymentResult{}
	replayed, err := c.runAtomic(ctx, input.TenantID, input.IdempotencyKey, opCustomerPayment, result,
		func(ctx context.Context, repos Repos, t *tenant.Tenant) ([]shared.DomainEvent, error) {
			payment, err := trade.NewCustomerPayment(input.TenantID, input.CounterpartyID, input.Amount, input.Method)
			if err != nil {
				return nil, err
			}
			customer, err := repos.Customers.FindByIDForTenant(ctx, input.TenantID, input.CounterpartyID)
			if err != nil {
				return nil, err
			}

			before := customer.Balance
			newBalance, err := c.accounts.ApplyDelta(customer, partner.RoleCustomer, t.Config.Money(payment.Amount.Neg()), "payment received", false)
			if err != nil {
				return nil, err
			}
			if err := repos.Customers.Save(ctx, customer); err != nil {
				return nil, err
			}
			if err := repos.CustomerPayments.Create(ctx, payment); err != nil {
				return nil, err
			}

			refs := []audit.EntityRef{{
				EntityType: "Customer",
				EntityID:   customer.ID.String(),
				Before:     before.String(),
				After:      newBalance.String(),
			}}
			if err := c.writeAudit(ctx, repos, input.TenantID, input.Actor, audit.ActionPaymentRecorded, payment.ID, refs); err != nil {
				return nil, err
			}

			events := append(customer.GetDomainEvents(),
				trade.NewPaymentRecordedEvent(input.TenantID, payment.ID, customer.ID, partner.RoleCustomer, payment.Amount, newBalance))
			customer.ClearDomainEvents()

			*result = PaymentResult{PaymentID: payment.ID, Amount: payment.Amount, BalanceAfter: newBalance}
			return events, nil
		})
	if err != nil {
		return nil, err
	}
	result.Replayed = replayed
	return result, nil
}

// RecordSupplierPayment records money paid to a supplier and reduces what the
// business owes them
func (c *TransactionCoordinator) RecordSupplierPayment(ctx context.Context, input RecordPaymentInput) (*PaymentResult, error) {
	if input.Actor == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor cannot be empty")
	}

	result := &PaymentResult{}
	replayed, err := c.runAtomic(ctx, input.TenantID, input.IdempotencyKey, opSupplierPayment, result,
		func(ctx context.Context, repos Repos, t *tenant.Tenant) ([]shared.DomainEvent, error) {
			payment, err := trade.NewSupplierPayment(input.TenantID, input.CounterpartyID, input.Amount, input.Method)
			if err != nil {
				return nil, err
			}
			supplier, err := repos.Suppliers.FindByIDForTenant(ctx, input.TenantID, input.CounterpartyID)
			if err != nil {
				return nil, err
			}

			before := supplier.Balance
			newBalance, err := c.accounts.ApplyDelta(supplier, partner.RoleSupplier, t.Config.Money(payment.Amount.Neg()), "payment sent", false)
			if err != nil {
				return nil, err
			}
			if err := repos.Suppliers.Save(ctx, supplier); err != nil {
				return nil, err
			}
			if err := repos.SupplierPayments.Create(ctx, payment); err != nil {
				return nil, err
			}

			refs := []audit.EntityRef{{
				EntityType: "Supplier",
				EntityID:   supplier.ID.String(),
				Before:     before.String(),
				After:      newBalance.String(),
			}}
			if err := c.writeAudit(ctx, repos, input.TenantID, input.Actor, audit.ActionPaymentRecorded, payment.ID, refs); err != nil {
				return nil, err
			}

			events := append(supplier.GetDomainEvents(),
				trade.NewPaymentRecordedEvent(input.TenantID, payment.ID, supplier.ID, partner.RoleSupplier, payment.Amount, newBalance))
			supplier.ClearDomainEvents()

			*result = PaymentResult{PaymentID: payment.ID, Amount: payment.Amount, BalanceAfter: newBalance}
			return events, nil
		})
	if err != nil {
		return nil, err
	}
	result.Replayed = replayed
	return result, nil
}

// RecordCustomerReturn records goods a customer brought back. Stock returns to
// the shelf; a credit disposition also reduces the customer's balance. The
// cumulative returned quantity per sale line can never exceed what was sold.
func (c *TransactionCoordinator) RecordCustomerReturn(ctx context.Context, input RecordCustomerReturnInput) (*ReturnResult, error) {
	if input.Actor == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor cannot be empty")
	}

	result := &ReturnResult{}
	replayed, err := c.runAtomic(ctx, input.TenantID, input.IdempotencyKey, opCustomerReturn, result,
		func(ctx context.Context, repos Repos, t *tenant.Tenant) ([]shared.DomainEvent, error) {
			sale, err := repos.Sales.FindByIDForTenant(ctx, input.TenantID, input.SaleID)
			if err != nil {
				return nil, err
			}
			line := sale.GetLine(input.SaleLineID)
			if line == nil {
				return nil, shared.NewDomainError("INVALID_REFERENCE", "Sale line not found on the referenced sale")
			}

			ret, err := trade.NewCustomerReturn(input.TenantID, sale.ID, line.ID, line.ItemID, sale.CustomerID,
				input.Quantity, input.ReturnType, input.Amount)
			if err != nil {
				return nil, err
			}
			prior, err := repos.CustomerReturns.SumQuantityForSaleLine(ctx, input.TenantID, line.ID)
			if err != nil {
				return nil, err
			}
			effects, err := c.returns.ProcessCustomerReturn(ret, line, prior)
			if err != nil {
				return nil, err
			}

			item, err := repos.Items.FindByIDForTenant(ctx, input.TenantID, ret.ItemID)
			if err != nil {
				return nil, err
			}
			quantityBefore := item.OnHandQuantity
			if _, err := c.stock.ApplyDelta(item, valueobject.NewQuantity(effects.InventoryDelta), "customer return", t.Config.AllowBackorder); err != nil {
				return nil, err
			}
			if err := repos.Items.Save(ctx, item); err != nil {
				return nil, err
			}
			events := append([]shared.DomainEvent{}, item.GetDomainEvents()...)
			item.ClearDomainEvents()
			refs := []audit.EntityRef{{
				EntityType: "Item",
				EntityID:   item.ID.String(),
				Before:     quantityBefore.String(),
				After:      item.OnHandQuantity.String(),
			}}

			var balanceAfter *decimal.Decimal
			if !effects.BalanceDelta.IsZero() {
				customer, err := repos.Customers.FindByIDForTenant(ctx, input.TenantID, *ret.CustomerID)
				if err != nil {
					return nil, err
				}
				before := customer.Balance
				newBalance, err := c.accounts.ApplyDelta(customer, partner.RoleCustomer, t.Config.Money(effects.BalanceDelta), "credit return", false)
				if err != nil {
					return nil, err
				}
				if err := repos.Customers.Save(ctx, customer); err != nil {
					return nil, err
				}
				events = append(events, customer.GetDomainEvents()...)
				customer.ClearDomainEvents()
				refs = append(refs, audit.EntityRef{
					EntityType: "Customer",
					EntityID:   customer.ID.String(),
					Before:     before.String(),
					After:      newBalance.String(),
				})
				balanceAfter = &newBalance
			}

			if err := repos.CustomerReturns.Create(ctx, ret); err != nil {
				return nil, err
			}
			if err := c.writeAudit(ctx, repos, input.TenantID, input.Actor, audit.ActionReturnRecorded, ret.ID, refs); err != nil {
				return nil, err
			}

			events = append(events, trade.NewReturnRecordedEvent(input.TenantID, ret.ID, ret.ItemID, ret.CustomerID,
				partner.RoleCustomer, ret.Type, ret.Quantity, ret.Amount))
			*result = ReturnResult{ReturnID: ret.ID, QuantityAfter: item.OnHandQuantity, BalanceAfter: balanceAfter}
			return events, nil
		})
	if err != nil {
		return nil, err
	}
	result.Replayed = replayed
	return result, nil
}

// RecordSupplierReturn records goods sent back to a supplier. Stock leaves the
// shelf; a credit disposition also reduces what the business owes the supplier.
func (c *TransactionCoordinator) RecordSupplierReturn(ctx context.Context, input RecordSupplierReturnInput) (*ReturnResult, error) {
	if input.Actor == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor cannot be empty")
	}

	result := &ReturnResult{}
	replayed, err := c.runAtomic(ctx, input.TenantID, input.IdempotencyKey, opSupplierReturn, result,
		func(ctx context.Context, repos Repos, t *tenant.Tenant) ([]shared.DomainEvent, error) {
			purchase, err := repos.Purchases.FindByIDForTenant(ctx, input.TenantID, input.PurchaseID)
			if err != nil {
				return nil, err
			}
			line := purchase.GetLine(input.PurchaseLineID)
			if line == nil {
				return nil, shared.NewDomainError("INVALID_REFERENCE", "Purchase line not found on the referenced purchase")
			}

			ret, err := trade.NewSupplierReturn(input.TenantID, purchase.ID, line.ID, line.ItemID, purchase.SupplierID,
				input.Quantity, input.ReturnType, input.Amount)
			if err != nil {
				return nil, err
			}
			prior, err := repos.SupplierReturns.SumQuantityForPurchaseLine(ctx, input.TenantID, line.ID)
			if err != nil {
				return nil, err
			}
			effects, err := c.returns.ProcessSupplierReturn(ret, line, prior)
			if err != nil {
				return nil, err
			}

			item, err := repos.Items.FindByIDForTenant(ctx, input.TenantID, ret.ItemID)
			if err != nil {
				return nil, err
			}
			quantityBefore := item.OnHandQuantity
			if _, err := c.stock.ApplyDelta(item, valueobject.NewQuantity(effects.InventoryDelta), "supplier return", t.Config.AllowBackorder); err != nil {
				return nil, err
			}
			if err := repos.Items.Save(ctx, item); err != nil {
				return nil, err
			}
			events := append([]shared.DomainEvent{}, item.GetDomainEvents()...)
			item.ClearDomainEvents()
			refs := []audit.EntityRef{{
				EntityType: "Item",
				EntityID:   item.ID.String(),
				Before:     quantityBefore.String(),
				After:      item.OnHandQuantity.String(),
			}}

			var balanceAfter *decimal.Decimal
			if !effects.BalanceDelta.IsZero() {
				supplier, err := repos.Suppliers.FindByIDForTenant(ctx, input.TenantID, ret.SupplierID)
				if err != nil {
					return nil, err
				}
				before := supplier.Balance
				newBalance, err := c.accounts.ApplyDelta(supplier, partner.RoleSupplier, t.Config.Money(effects.BalanceDelta), "credit return", false)
				if err != nil {
					return nil, err
				}
				if err := repos.Suppliers.Save(ctx, supplier); err != nil {
					return nil, err
				}
				events = append(events, supplier.GetDomainEvents()...)
				supplier.ClearDomainEvents()
				refs = append(refs, audit.EntityRef{
					EntityType: "Supplier",
					EntityID:   supplier.ID.String(),
					Before:     before.String(),
					After:      newBalance.String(),
				})
				balanceAfter = &newBalance
			}

			if err := repos.SupplierReturns.Create(ctx, ret); err != nil {
				return nil, err
			}
			if err := c.writeAudit(ctx, repos, input.TenantID, input.Actor, audit.ActionReturnRecorded, ret.ID, refs); err != nil {
				return nil, err
			}

			supplierID := ret.SupplierID
			events = append(events, trade.NewReturnRecordedEvent(input.TenantID, ret.ID, ret.ItemID, &supplierID,
				partner.RoleSupplier, ret.Type, ret.Quantity, ret.Amount))
			*result = ReturnResult{ReturnID: ret.ID, QuantityAfter: item.OnHandQuantity, BalanceAfter: balanceAfter}
			return events, nil
		})
	if err != nil {
		return nil, err
	}
	result.Replayed = replayed
	return result, nil
}

// RecordStockAdjustment records a manual stock correction with its reason
func (c *TransactionCoordinator) RecordStockAdjustment(ctx context.Context, input RecordStockAdjustmentInput) (*AdjustmentResult, error) {
	if input.Actor == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor cannot be empty")
	}
	if !input.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Invalid stock adjustment type")
	}
	if !input.Quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity must be positive")
	}

	result := &AdjustmentResult{}
	replayed, err := c.runAtomic(ctx, input.TenantID, input.IdempotencyKey, opStockAdjustment, result,
		func(ctx context.Context, repos Repos, t *tenant.Tenant) ([]shared.DomainEvent, error) {
			item, err := repos.Items.FindByIDForTenant(ctx, input.TenantID, input.ItemID)
			if err != nil {
				return nil, err
			}

			signed := input.Quantity
			if input.Type == inventory.AdjustmentTypeDecrease {
				signed = signed.Neg()
			}
			before := item.OnHandQuantity
			after, err := c.stock.ApplyDelta(item, valueobject.NewQuantity(signed), input.Reason, t.Config.AllowBackorder)
			if err != nil {
				return nil, err
			}
			adjustment, err := inventory.NewStockAdjustment(input.TenantID, item.ID, input.Type, input.Quantity, input.Reason, before, after)
			if err != nil {
				return nil, err
			}

			if err := repos.Items.Save(ctx, item); err != nil {
				return nil, err
			}
			if err := repos.StockAdjustments.Create(ctx, adjustment); err != nil {
				return nil, err
			}
			refs := []audit.EntityRef{{
				EntityType: "Item",
				EntityID:   item.ID.String(),
				Before:     before.String(),
				After:      after.String(),
			}}
			if err := c.writeAudit(ctx, repos, input.TenantID, input.Actor, audit.ActionStockAdjustmentRecorded, adjustment.ID, refs); err != nil {
				return nil, err
			}

			events := append(item.GetDomainEvents(),
				trade.NewStockAdjustmentRecordedEvent(input.TenantID, adjustment.ID, item.ID, signed, after, input.Reason))
			item.ClearDomainEvents()

			*result = AdjustmentResult{AdjustmentID: adjustment.ID, QuantityBefore: before, QuantityAfter: after}
			return events, nil
		})
	if err != nil {
		return nil, err
	}
	result.Replayed = replayed
	return result, nil
}

// SendBalanceReminder publishes a reminder event for a customer carrying an
// outstanding balance. It mutates nothing; delivery is the notification
// subscriber's job.
func (c *TransactionCoordinator) SendBalanceReminder(ctx context.Context, tenantID, customerID uuid.UUID) (*ReminderResult, error) {
	var ten *tenant.Tenant
	var customer *partner.Customer
	err := c.uow.Execute(ctx, func(ctx context.Context, repos Repos) error {
		var err error
		ten, err = repos.Tenants.FindByID(ctx, tenantID)
		if err != nil {
			return err
		}
		customer, err = repos.Customers.FindByIDForTenant(ctx, tenantID, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !customer.Balance.IsPositive() {
		return nil, shared.NewDomainError("NO_OUTSTANDING_BALANCE", "Customer has no outstanding balance")
	}

	c.publish(ctx, trade.NewBalanceReminderEvent(tenantID, customerID, ten.Config.Money(customer.Balance)))
	return &ReminderResult{CustomerID: customerID, Balance: customer.Balance}, nil
}

// runAtomic runs one operation inside the unit of work with idempotency and
// bounded conflict retries. The callback receives the active tenant and
// returns the events to publish after commit; on a replayed request the stored
// result is decoded into result and no events are published.
func (c *TransactionCoordinator) runAtomic(
	ctx context.Context,
	tenantID uuid.UUID,
	key, operation string,
	result interface{},
	fn func(ctx context.Context, repos Repos, t *tenant.Tenant) ([]shared.DomainEvent, error),
) (bool, error) {
	var events []shared.DomainEvent
	var replayed bool

	for attempt := 0; ; attempt++ {
		events = nil
		replayed = false

		err := c.uow.Execute(ctx, func(ctx context.Context, repos Repos) error {
			if key != "" {
				record, err := repos.Requests.FindByKey(ctx, tenantID, key)
				if err != nil {
					return err
				}
				if record != nil {
					if record.Operation != operation {
						return shared.NewDomainError("IDEMPOTENCY_CONFLICT", "Idempotency key was used for a different operation")
					}
					replayed = true
					return json.Unmarshal([]byte(record.Result), result)
				}
			}

			t, err := repos.Tenants.FindByID(ctx, tenantID)
			if err != nil {
				return err
			}
			if !t.IsActive() {
				return shared.NewDomainError("TENANT_NOT_ACTIVE", "Tenant cannot record transactions")
			}

			evts, err := fn(ctx, repos, t)
			if err != nil {
				return err
			}
			events = evts

			if key != "" {
				payload, err := json.Marshal(result)
				if err != nil {
					return err
				}
				if err := repos.Requests.Create(ctx, NewRequestRecord(tenantID, key, operation, string(payload))); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return false, err
		}
		if attempt >= c.cfg.MaxRetries {
			// Conflicts roll the transaction back, so the commit state is known.
			return false, shared.NewTransientError(err, false)
		}

		c.logger.Warn("optimistic lock conflict, retrying",
			zap.String("operation", operation),
			zap.String("tenant_id", tenantID.String()),
			zap.Int("attempt", attempt+1),
		)
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(c.backoffDelay(attempt)):
		}
	}

	if !replayed {
		c.publish(ctx, events...)
	}
	return replayed, nil
}

func (c *TransactionCoordinator) writeAudit(ctx context.Context, repos Repos, tenantID uuid.UUID, actor string, action audit.Action, referenceID uuid.UUID, refs []audit.EntityRef) error {
	log, err := audit.NewLog(tenantID, actor, action, referenceID, refs)
	if err != nil {
		return err
	}
	return repos.AuditLogs.Create(ctx, log)
}

// publish delivers commit events. Publication happens after the transaction
// is durable; a delivery failure is logged, never rolled back.
func (c *TransactionCoordinator) publish(ctx context.Context, events ...shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := c.publisher.Publish(ctx, events...); err != nil {
		c.logger.Error("failed to publish domain events", zap.Error(err), zap.Int("count", len(events)))
	}
}

func (c *TransactionCoordinator) backoffDelay(attempt int) time.Duration {
	delay := c.cfg.RetryBackoff
	for i := 0; i < attempt; i++ {
		delay *= 2
	}
	return delay
}
