package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/partner"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCustomerRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds existing customer", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormCustomerRepository(db)

		tenantID := uuid.New()
		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "name", "status", "balance", "credit_limit", "version"}).
			AddRow(customerID, tenantID, "CUST-1", "Ama Mensah", "active", decimal.NewFromInt(60), decimal.Zero, 1)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, customerID, 1).
			WillReturnRows(rows)

		customer, err := repo.FindByIDForTenant(context.Background(), tenantID, customerID)
		require.NoError(t, err)
		assert.Equal(t, "Ama Mensah", customer.Name)
		assert.True(t, customer.Balance.Equal(decimal.NewFromInt(60)))
	})

	t.Run("tenant mismatch reads as not found", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormCustomerRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "customers"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByIDForTenant(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCustomerRepository_Save(t *testing.T) {
	t.Run("stale balance write surfaces as conflict", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormCustomerRepository(db)

		customer, err := partner.NewCustomer(uuid.New(), "CUST-1", "Ama Mensah")
		require.NoError(t, err)
		customer.Version = 3

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE id = \$1`).
			WithArgs(customer.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec(`UPDATE "customers" SET .* WHERE id = .* AND version = .*`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Save(context.Background(), customer)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}
