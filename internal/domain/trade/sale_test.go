package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSale(t *testing.T) {
	tenantID := uuid.New()
	customerID := uuid.New()

	t.Run("computes total from lines", func(t *testing.T) {
		sale, err := NewSale(tenantID, nil, PaymentTypeCash, decimal.NewFromInt(35), []SaleLineInput{
			{ItemID: uuid.New(), Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)},
			{ItemID: uuid.New(), Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(5)},
		})
		require.NoError(t, err)
		assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(35)))
		assert.Len(t, sale.Lines, 2)
		for _, line := range sale.Lines {
			assert.Equal(t, sale.ID, line.SaleID)
		}
	})

	t.Run("credit sale without customer is rejected", func(t *testing.T) {
		_, err := NewSale(tenantID, nil, PaymentTypeCredit, decimal.Zero, []SaleLineInput{
			{ItemID: uuid.New(), Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		})
		assert.Error(t, err)
	})

	t.Run("credit sale with customer carries outstanding amount", func(t *testing.T) {
		sale, err := NewSale(tenantID, &customerID, PaymentTypeCredit, decimal.NewFromInt(40), []SaleLineInput{
			{ItemID: uuid.New(), Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(10)},
		})
		require.NoError(t, err)
		assert.True(t, sale.OutstandingAmount().Equal(decimal.NewFromInt(60)))
	})

	t.Run("empty lines are rejected", func(t *testing.T) {
		_, err := NewSale(tenantID, nil, PaymentTypeCash, decimal.Zero, nil)
		assert.Error(t, err)
	})

	t.Run("non-positive line quantity is rejected", func(t *testing.T) {
		_, err := NewSale(tenantID, nil, PaymentTypeCash, decimal.Zero, []SaleLineInput{
			{ItemID: uuid.New(), Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(10)},
		})
		assert.Error(t, err)
	})

	t.Run("missing tenant is rejected", func(t *testing.T) {
		_, err := NewSale(uuid.Nil, nil, PaymentTypeCash, decimal.Zero, []SaleLineInput{
			{ItemID: uuid.New(), Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		})
		assert.Error(t, err)
	})

	t.Run("looks up lines by id", func(t *testing.T) {
		sale, err := NewSale(tenantID, nil, PaymentTypeCash, decimal.NewFromInt(10), []SaleLineInput{
			{ItemID: uuid.New(), Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		})
		require.NoError(t, err)
		assert.NotNil(t, sale.GetLine(sale.Lines[0].ID))
		assert.Nil(t, sale.GetLine(uuid.New()))
	})
}

func TestNewPurchase(t *testing.T) {
	tenantID := uuid.New()
	supplierID := uuid.New()

	t.Run("computes total from lines", func(t *testing.T) {
		purchase, err := NewPurchase(tenantID, supplierID, PaymentTypeCredit, decimal.Zero, []PurchaseLineInput{
			{ItemID: uuid.New(), Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(7)},
		})
		require.NoError(t, err)
		assert.True(t, purchase.TotalAmount.Equal(decimal.NewFromInt(70)))
		assert.True(t, purchase.OutstandingAmount().Equal(decimal.NewFromInt(70)))
	})

	t.Run("supplier is always required", func(t *testing.T) {
		_, err := NewPurchase(tenantID, uuid.Nil, PaymentTypeCash, decimal.NewFromInt(70), []PurchaseLineInput{
			{ItemID: uuid.New(), Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(7)},
		})
		assert.Error(t, err)
	})
}

func TestNewPayments(t *testing.T) {
	tenantID := uuid.New()

	t.Run("valid customer payment", func(t *testing.T) {
		payment, err := NewCustomerPayment(tenantID, uuid.New(), decimal.NewFromInt(25), PaymentMethodMomo)
		require.NoError(t, err)
		assert.True(t, payment.Amount.Equal(decimal.NewFromInt(25)))
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		_, err := NewCustomerPayment(tenantID, uuid.New(), decimal.Zero, PaymentMethodCash)
		assert.Error(t, err)

		_, err = NewSupplierPayment(tenantID, uuid.New(), decimal.NewFromInt(-5), PaymentMethodBank)
		assert.Error(t, err)
	})

	t.Run("unknown method is rejected", func(t *testing.T) {
		_, err := NewCustomerPayment(tenantID, uuid.New(), decimal.NewFromInt(5), PaymentMethod("CHEQUE"))
		assert.Error(t, err)
	})
}

func TestNewReturns(t *testing.T) {
	tenantID := uuid.New()

	t.Run("credit customer return requires a customer", func(t *testing.T) {
		_, err := NewCustomerReturn(tenantID, uuid.New(), uuid.New(), uuid.New(), nil,
			decimal.NewFromInt(1), ReturnTypeCredit, decimal.NewFromInt(10))
		assert.Error(t, err)
	})

	t.Run("cash return requires a positive amount", func(t *testing.T) {
		_, err := NewCustomerReturn(tenantID, uuid.New(), uuid.New(), uuid.New(), nil,
			decimal.NewFromInt(1), ReturnTypeCash, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("exchange return allows a zero amount", func(t *testing.T) {
		ret, err := NewCustomerReturn(tenantID, uuid.New(), uuid.New(), uuid.New(), nil,
			decimal.NewFromInt(1), ReturnTypeExchange, decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, ReturnTypeExchange, ret.Type)
	})

	t.Run("supplier return requires a supplier", func(t *testing.T) {
		_, err := NewSupplierReturn(tenantID, uuid.New(), uuid.New(), uuid.New(), uuid.Nil,
			decimal.NewFromInt(1), ReturnTypeCash, decimal.NewFromInt(10))
		assert.Error(t, err)
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		_, err := NewSupplierReturn(tenantID, uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			decimal.Zero, ReturnTypeCash, decimal.NewFromInt(10))
		assert.Error(t, err)
	})
}
