package trade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentAllocator_Allocate(t *testing.T) {
	allocator := NewPaymentAllocator()

	t.Run("cash paid in full defers nothing", func(t *testing.T) {
		alloc, err := allocator.Allocate(decimal.NewFromInt(100), decimal.NewFromInt(100), PaymentTypeCash)
		require.NoError(t, err)
		assert.True(t, alloc.ImmediateCash.Equal(decimal.NewFromInt(100)))
		assert.True(t, alloc.BalanceDelta.IsZero())
	})

	t.Run("cash underpaid is rejected", func(t *testing.T) {
		_, err := allocator.Allocate(decimal.NewFromInt(100), decimal.NewFromInt(60), PaymentTypeCash)
		assert.Error(t, err)
	})

	t.Run("cash overpaid is rejected", func(t *testing.T) {
		_, err := allocator.Allocate(decimal.NewFromInt(100), decimal.NewFromInt(120), PaymentTypeCash)
		assert.Error(t, err)
	})

	t.Run("credit defers total minus paid", func(t *testing.T) {
		alloc, err := allocator.Allocate(decimal.NewFromInt(100), decimal.NewFromInt(40), PaymentTypeCredit)
		require.NoError(t, err)
		assert.True(t, alloc.ImmediateCash.Equal(decimal.NewFromInt(40)))
		assert.True(t, alloc.BalanceDelta.Equal(decimal.NewFromInt(60)))
	})

	t.Run("credit fully unpaid defers the whole total", func(t *testing.T) {
		alloc, err := allocator.Allocate(decimal.NewFromInt(250), decimal.Zero, PaymentTypeCredit)
		require.NoError(t, err)
		assert.True(t, alloc.ImmediateCash.IsZero())
		assert.True(t, alloc.BalanceDelta.Equal(decimal.NewFromInt(250)))
	})

	t.Run("credit fully paid defers nothing", func(t *testing.T) {
		alloc, err := allocator.Allocate(decimal.NewFromInt(100), decimal.NewFromInt(100), PaymentTypeCredit)
		require.NoError(t, err)
		assert.True(t, alloc.ImmediateCash.Equal(decimal.NewFromInt(100)))
		assert.True(t, alloc.BalanceDelta.IsZero())
	})

	t.Run("credit overpaid is rejected not clamped", func(t *testing.T) {
		_, err := allocator.Allocate(decimal.NewFromInt(100), decimal.NewFromInt(150), PaymentTypeCredit)
		assert.Error(t, err)
	})

	t.Run("negative amounts are rejected", func(t *testing.T) {
		_, err := allocator.Allocate(decimal.NewFromInt(-10), decimal.Zero, PaymentTypeCredit)
		assert.Error(t, err)

		_, err = allocator.Allocate(decimal.NewFromInt(10), decimal.NewFromInt(-1), PaymentTypeCredit)
		assert.Error(t, err)
	})

	t.Run("unknown payment type is rejected", func(t *testing.T) {
		_, err := allocator.Allocate(decimal.NewFromInt(10), decimal.NewFromInt(10), PaymentType("BARTER"))
		assert.Error(t, err)
	})

	t.Run("fractional amounts allocate exactly", func(t *testing.T) {
		total := decimal.RequireFromString("99.99")
		paid := decimal.RequireFromString("33.33")
		alloc, err := allocator.Allocate(total, paid, PaymentTypeCredit)
		require.NoError(t, err)
		assert.True(t, alloc.BalanceDelta.Equal(decimal.RequireFromString("66.66")))
	})
}
