package trade

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSoldLine(t *testing.T, tenantID uuid.UUID, quantity int64) (*Sale, *SaleLine) {
	t.Helper()
	sale, err := NewSale(tenantID, nil, PaymentTypeCash, decimal.NewFromInt(quantity*10), []SaleLineInput{
		{ItemID: uuid.New(), Quantity: decimal.NewFromInt(quantity), UnitPrice: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	return sale, &sale.Lines[0]
}

func newPurchasedLine(t *testing.T, tenantID uuid.UUID, quantity int64) (*Purchase, *PurchaseLine) {
	t.Helper()
	purchase, err := NewPurchase(tenantID, uuid.New(), PaymentTypeCash, decimal.NewFromInt(quantity*7), []PurchaseLineInput{
		{ItemID: uuid.New(), Quantity: decimal.NewFromInt(quantity), UnitCost: decimal.NewFromInt(7)},
	})
	require.NoError(t, err)
	return purchase, &purchase.Lines[0]
}

func TestReturnProcessor_ProcessCustomerReturn(t *testing.T) {
	processor := NewReturnProcessor()
	tenantID := uuid.New()

	t.Run("cash return adds stock back with no balance effect", func(t *testing.T) {
		sale, line := newSoldLine(t, tenantID, 5)
		ret, err := NewCustomerReturn(tenantID, sale.ID, line.ID, line.ItemID, nil,
			decimal.NewFromInt(2), ReturnTypeCash, decimal.NewFromInt(20))
		require.NoError(t, err)

		effects, err := processor.ProcessCustomerReturn(ret, line, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, effects.InventoryDelta.Equal(decimal.NewFromInt(2)))
		assert.True(t, effects.BalanceDelta.IsZero())
	})

	t.Run("credit return reduces the customer balance", func(t *testing.T) {
		customerID := uuid.New()
		sale, line := newSoldLine(t, tenantID, 5)
		ret, err := NewCustomerReturn(tenantID, sale.ID, line.ID, line.ItemID, &customerID,
			decimal.NewFromInt(3), ReturnTypeCredit, decimal.NewFromInt(30))
		require.NoError(t, err)

		effects, err := processor.ProcessCustomerReturn(ret, line, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, effects.InventoryDelta.Equal(decimal.NewFromInt(3)))
		assert.True(t, effects.BalanceDelta.Equal(decimal.NewFromInt(-30)))
	})

	t.Run("exchange return only brings the item back in", func(t *testing.T) {
		sale, line := newSoldLine(t, tenantID, 5)
		ret, err := NewCustomerReturn(tenantID, sale.ID, line.ID, line.ItemID, nil,
			decimal.NewFromInt(1), ReturnTypeExchange, decimal.Zero)
		require.NoError(t, err)

		effects, err := processor.ProcessCustomerReturn(ret, line, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, effects.InventoryDelta.Equal(decimal.NewFromInt(1)))
		assert.True(t, effects.BalanceDelta.IsZero())
	})

	t.Run("cumulative over-return is rejected", func(t *testing.T) {
		sale, line := newSoldLine(t, tenantID, 5)
		ret, err := NewCustomerReturn(tenantID, sale.ID, line.ID, line.ItemID, nil,
			decimal.NewFromInt(3), ReturnTypeCash, decimal.NewFromInt(30))
		require.NoError(t, err)

		_, err = processor.ProcessCustomerReturn(ret, line, decimal.NewFromInt(3))
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "OVER_RETURN", domainErr.Code)
	})

	t.Run("return up to the exact sold quantity is allowed", func(t *testing.T) {
		sale, line := newSoldLine(t, tenantID, 5)
		ret, err := NewCustomerReturn(tenantID, sale.ID, line.ID, line.ItemID, nil,
			decimal.NewFromInt(2), ReturnTypeCash, decimal.NewFromInt(20))
		require.NoError(t, err)

		effects, err := processor.ProcessCustomerReturn(ret, line, decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.True(t, effects.InventoryDelta.Equal(decimal.NewFromInt(2)))
	})

	t.Run("mismatched sale line is rejected", func(t *testing.T) {
		sale, line := newSoldLine(t, tenantID, 5)
		_, otherLine := newSoldLine(t, tenantID, 5)
		ret, err := NewCustomerReturn(tenantID, sale.ID, line.ID, line.ItemID, nil,
			decimal.NewFromInt(1), ReturnTypeCash, decimal.NewFromInt(10))
		require.NoError(t, err)

		_, err = processor.ProcessCustomerReturn(ret, otherLine, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("mismatched item is rejected", func(t *testing.T) {
		sale, line := newSoldLine(t, tenantID, 5)
		ret, err := NewCustomerReturn(tenantID, sale.ID, line.ID, uuid.New(), nil,
			decimal.NewFromInt(1), ReturnTypeCash, decimal.NewFromInt(10))
		require.NoError(t, err)

		_, err = processor.ProcessCustomerReturn(ret, line, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("nil inputs are rejected", func(t *testing.T) {
		_, err := processor.ProcessCustomerReturn(nil, nil, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestReturnProcessor_ProcessSupplierReturn(t *testing.T) {
	processor := NewReturnProcessor()
	tenantID := uuid.New()

	t.Run("cash return removes stock with no balance effect", func(t *testing.T) {
		purchase, line := newPurchasedLine(t, tenantID, 10)
		ret, err := NewSupplierReturn(tenantID, purchase.ID, line.ID, line.ItemID, purchase.SupplierID,
			decimal.NewFromInt(4), ReturnTypeCash, decimal.NewFromInt(28))
		require.NoError(t, err)

		effects, err := processor.ProcessSupplierReturn(ret, line, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, effects.InventoryDelta.Equal(decimal.NewFromInt(-4)))
		assert.True(t, effects.BalanceDelta.IsZero())
	})

	t.Run("credit return reduces what is owed to the supplier", func(t *testing.T) {
		purchase, line := newPurchasedLine(t, tenantID, 10)
		ret, err := NewSupplierReturn(tenantID, purchase.ID, line.ID, line.ItemID, purchase.SupplierID,
			decimal.NewFromInt(4), ReturnTypeCredit, decimal.NewFromInt(28))
		require.NoError(t, err)

		effects, err := processor.ProcessSupplierReturn(ret, line, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, effects.InventoryDelta.Equal(decimal.NewFromInt(-4)))
		assert.True(t, effects.BalanceDelta.Equal(decimal.NewFromInt(-28)))
	})

	t.Run("cumulative over-return is rejected", func(t *testing.T) {
		purchase, line := newPurchasedLine(t, tenantID, 10)
		ret, err := NewSupplierReturn(tenantID, purchase.ID, line.ID, line.ItemID, purchase.SupplierID,
			decimal.NewFromInt(6), ReturnTypeCash, decimal.NewFromInt(42))
		require.NoError(t, err)

		_, err = processor.ProcessSupplierReturn(ret, line, decimal.NewFromInt(5))
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "OVER_RETURN", domainErr.Code)
	})

	t.Run("mismatched purchase line is rejected", func(t *testing.T) {
		purchase, line := newPurchasedLine(t, tenantID, 10)
		_, otherLine := newPurchasedLine(t, tenantID, 10)
		ret, err := NewSupplierReturn(tenantID, purchase.ID, line.ID, line.ItemID, purchase.SupplierID,
			decimal.NewFromInt(1), ReturnTypeCash, decimal.NewFromInt(7))
		require.NoError(t, err)

		_, err = processor.ProcessSupplierReturn(ret, otherLine, decimal.Zero)
		assert.Error(t, err)
	})
}
