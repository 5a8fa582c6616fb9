package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/inventory"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM handle backed by a mocked SQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormItemRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds existing item", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormItemRepository(db)

		tenantID := uuid.New()
		itemID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "sku", "name", "on_hand_quantity", "version"}).
			AddRow(itemID, tenantID, "PARA-500", "Paracetamol 500mg", decimal.NewFromInt(10), 1)

		mock.ExpectQuery(`SELECT \* FROM "items" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, itemID, 1).
			WillReturnRows(rows)

		item, err := repo.FindByIDForTenant(context.Background(), tenantID, itemID)
		require.NoError(t, err)
		assert.Equal(t, "PARA-500", item.SKU)
		assert.True(t, item.OnHandQuantity.Equal(decimal.NewFromInt(10)))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing item", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormItemRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "items"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByIDForTenant(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormItemRepository_Save(t *testing.T) {
	newItem := func(t *testing.T) *inventory.Item {
		t.Helper()
		item, err := inventory.NewItem(uuid.New(), "PARA-500", "Paracetamol 500mg",
			decimal.NewFromInt(5), decimal.NewFromInt(8))
		require.NoError(t, err)
		return item
	}

	t.Run("creates item when not yet persisted", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormItemRepository(db)
		item := newItem(t)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "items" WHERE id = \$1`).
			WithArgs(item.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`INSERT INTO "items"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Save(context.Background(), item))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("updates item with version check", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormItemRepository(db)
		item := newItem(t)
		item.Version = 2 // simulates one domain mutation on a loaded aggregate

		mock.ExpectQuery(`SELECT count\(\*\) FROM "items" WHERE id = \$1`).
			WithArgs(item.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec(`UPDATE "items" SET .* WHERE id = .* AND version = .*`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Save(context.Background(), item))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version surfaces as concurrency conflict", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormItemRepository(db)
		item := newItem(t)
		item.Version = 2

		mock.ExpectQuery(`SELECT count\(\*\) FROM "items" WHERE id = \$1`).
			WithArgs(item.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec(`UPDATE "items" SET .* WHERE id = .* AND version = .*`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Save(context.Background(), item)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}
