package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuantity(t *testing.T) {
	t.Run("from int", func(t *testing.T) {
		q := NewQuantityFromInt(5)
		assert.True(t, q.Decimal().Equal(decimal.NewFromInt(5)))
	})

	t.Run("from string", func(t *testing.T) {
		q, err := NewQuantityFromString("2.5")
		require.NoError(t, err)
		assert.Equal(t, "2.5", q.String())
	})

	t.Run("invalid string rejected", func(t *testing.T) {
		_, err := NewQuantityFromString("five")
		assert.Error(t, err)
	})

	t.Run("negative allowed for backorder", func(t *testing.T) {
		q := NewQuantityFromInt(-3)
		assert.True(t, q.IsNegative())
	})
}

func TestQuantityArithmetic(t *testing.T) {
	five := NewQuantityFromInt(5)
	three := NewQuantityFromInt(3)

	assert.True(t, five.Add(three).Equal(NewQuantityFromInt(8)))
	assert.True(t, five.Sub(three).Equal(NewQuantityFromInt(2)))
	assert.True(t, three.Sub(five).Equal(NewQuantityFromInt(-2)))
	assert.True(t, three.Neg().Equal(NewQuantityFromInt(-3)))
	assert.True(t, three.LessThan(five))
	assert.True(t, five.GreaterThan(three))
	assert.True(t, ZeroQuantity().IsZero())
}

func TestQuantityJSON(t *testing.T) {
	q := NewQuantityFromFloat(1.25)

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, `"1.25"`, string(data))

	var decoded Quantity
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, q.Equal(decoded))
}
