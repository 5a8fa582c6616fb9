package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity is a value object representing stock quantities.
// It supports decimal quantities for items sold by weight/volume.
// It is immutable - all operations return new Quantity instances.
// Quantities may be negative: a tenant with backorder enabled can run an
// item's on-hand quantity below zero pending restock.
type Quantity struct {
	value decimal.Decimal
}

// NewQuantity creates a new Quantity
func NewQuantity(value decimal.Decimal) Quantity {
	return Quantity{value: value}
}

// NewQuantityFromInt creates Quantity from an int64 value
func NewQuantityFromInt(value int64) Quantity {
	return Quantity{value: decimal.NewFromInt(value)}
}

// NewQuantityFromFloat creates Quantity from a float64 value
func NewQuantityFromFloat(value float64) Quantity {
	return Quantity{value: decimal.NewFromFloat(value)}
}

// NewQuantityFromString creates Quantity from a string representation
func NewQuantityFromString(value string) (Quantity, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid quantity string: %w", err)
	}
	return Quantity{value: d}, nil
}

// ZeroQuantity returns a zero quantity
func ZeroQuantity() Quantity {
	return Quantity{value: decimal.Zero}
}

// Value returns the decimal value
func (q Quantity) Decimal() decimal.Decimal {
	return q.value
}

// IsZero returns true if the quantity is zero
func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

// IsPositive returns true if the quantity is positive
func (q Quantity) IsPositive() bool {
	return q.value.IsPositive()
}

// IsNegative returns true if the quantity is negative
func (q Quantity) IsNegative() bool {
	return q.value.IsNegative()
}

// Add returns a new Quantity with the sum
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value.Add(other.value)}
}

// Sub returns a new Quantity with the difference
func (q Quantity) Sub(other Quantity) Quantity {
	return Quantity{value: q.value.Sub(other.value)}
}

// Neg returns a new Quantity with the value negated
func (q Quantity) Neg() Quantity {
	return Quantity{value: q.value.Neg()}
}

// Equal returns true if both quantities are equal
func (q Quantity) Equal(other Quantity) bool {
	return q.value.Equal(other.value)
}

// LessThan returns true if this quantity is less than the other
func (q Quantity) LessThan(other Quantity) bool {
	return q.value.LessThan(other.value)
}

// GreaterThan returns true if this quantity is greater than the other
func (q Quantity) GreaterThan(other Quantity) bool {
	return q.value.GreaterThan(other.value)
}

// String returns a human-readable representation
func (q Quantity) String() string {
	return q.value.String()
}

// MarshalJSON implements json.Marshaler
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.value.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid quantity: %w", err)
	}
	q.value = d
	return nil
}

// Value implements driver.Valuer for database storage
func (q Quantity) Value() (driver.Value, error) {
	return q.value.String(), nil
}

// Scan implements sql.Scanner
func (q *Quantity) Scan(value interface{}) error {
	if value == nil {
		q.value = decimal.Zero
		return nil
	}
	return q.value.Scan(value)
}
