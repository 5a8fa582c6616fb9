package persistence

import (
	"context"

	"github.com/ledgerpos/backend/internal/application/ledger"
	"github.com/ledgerpos/backend/internal/infrastructure/telemetry"
	"gorm.io/gorm"
)

// GormUnitOfWork implements ledger.UnitOfWork on top of a GORM transaction.
// Every repository handed to the callback shares the transaction, so the
// callback's writes commit or roll back as one unit.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GORM-backed unit of work
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back and the
// error is returned unchanged; shared.ErrConcurrencyConflict in particular
// passes through so the coordinator can retry.
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, repos ledger.Repos) error) error {
	ctx, span := telemetry.StartSpan(ctx, "unit_of_work.execute")
	defer span.End()

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, newTransactionalRepos(tx))
	})
	if err != nil {
		telemetry.RecordError(span, err)
	}
	return err
}

// newTransactionalRepos builds the full repository set bound to one transaction
func newTransactionalRepos(tx *gorm.DB) ledger.Repos {
	return ledger.Repos{
		Tenants:          NewGormTenantRepository(tx),
		Items:            NewGormItemRepository(tx),
		StockAdjustments: NewGormStockAdjustmentRepository(tx),
		Customers:        NewGormCustomerRepository(tx),
		Suppliers:        NewGormSupplierRepository(tx),
		Sales:            NewGormSaleRepository(tx),
		Purchases:        NewGormPurchaseRepository(tx),
		CustomerPayments: NewGormCustomerPaymentRepository(tx),
		SupplierPayments: NewGormSupplierPaymentRepository(tx),
		CustomerReturns:  NewGormCustomerReturnRepository(tx),
		SupplierReturns:  NewGormSupplierReturnRepository(tx),
		AuditLogs:        NewGormAuditRepository(tx),
		Requests:         NewGormRequestRepository(tx),
	}
}

// Ensure GormUnitOfWork implements ledger.UnitOfWork
var _ ledger.UnitOfWork = (*GormUnitOfWork)(nil)
