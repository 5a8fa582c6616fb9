package ledger

import (
	"context"

	"github.com/ledgerpos/backend/internal/domain/audit"
	"github.com/ledgerpos/backend/internal/domain/inventory"
	"github.com/ledgerpos/backend/internal/domain/partner"
	"github.com/ledgerpos/backend/internal/domain/tenant"
	"github.com/ledgerpos/backend/internal/domain/trade"
)

// Repos bundles the transaction-scoped repositories handed to a unit of work
// callback. Every repository in one Repos value operates on the same database
// transaction.
type Repos struct {
	Tenants          tenant.Repository
	Items            inventory.ItemRepository
	StockAdjustments inventory.StockAdjustmentRepository
	Customers        partner.CustomerRepository
	Suppliers        partner.SupplierRepository
	Sales            trade.SaleRepository
	Purchases        trade.PurchaseRepository
	CustomerPayments trade.CustomerPaymentRepository
	SupplierPayments trade.SupplierPaymentRepository
	CustomerReturns  trade.CustomerReturnRepository
	SupplierReturns  trade.SupplierReturnRepository
	AuditLogs        audit.Repository
	Requests         RequestRepository
}

// UnitOfWork runs a callback inside one atomic transaction. If the callback
// returns an error every write it performed is rolled back; otherwise all
// writes commit together. Implementations must surface
// shared.ErrConcurrencyConflict unchanged so the coordinator can retry.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
