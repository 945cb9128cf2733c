package domain

import (
	"fmt"
	"math"
	"math/big"
)

// Money represents a monetary value with precise decimal arithmetic using big.Rat.
// It stores the value as a rational number (numerator/denominator) so intermediate
// pricing steps never accumulate floating-point drift.
type Money struct {
	rat *big.Rat
}

// NewMoney creates a new Money instance from numerator and denominator.
// Example: NewMoney(392700, 100) represents 3927.00
func NewMoney(numerator, denominator int64) (*Money, error) {
	if denominator == 0 {
		return nil, fmt.Errorf("denominator cannot be zero")
	}
	if denominator < 0 {
		return nil, fmt.Errorf("denominator must be positive")
	}

	return &Money{rat: big.NewRat(numerator, denominator)}, nil
}

// NewMoneyFromRat creates a new Money instance from a big.Rat.
func NewMoneyFromRat(rat *big.Rat) *Money {
	if rat == nil {
		return &Money{rat: big.NewRat(0, 1)}
	}
	return &Money{rat: new(big.Rat).Set(rat)}
}

// NewMoneyFromFloat creates a Money from a float64 amount.
// Intended for configuration values and API inputs, not for chained arithmetic.
func NewMoneyFromFloat(amount float64) (*Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("amount must be a finite number")
	}
	rat := new(big.Rat).SetFloat64(amount)
	if rat == nil {
		return nil, fmt.Errorf("amount %v cannot be represented", amount)
	}
	return &Money{rat: rat}, nil
}

// Zero returns a zero-valued Money.
func Zero() *Money {
	return &Money{rat: big.NewRat(0, 1)}
}

// Numerator returns the numerator of the rational number.
func (m *Money) Numerator() int64 {
	return m.rat.Num().Int64()
}

// Denominator returns the denominator of the rational number.
func (m *Money) Denominator() int64 {
	return m.rat.Denom().Int64()
}

// Rat returns a copy of the underlying rational value.
func (m *Money) Rat() *big.Rat {
	return new(big.Rat).Set(m.rat)
}

// Add adds two Money values and returns a new Money instance.
func (m *Money) Add(other *Money) *Money {
	return &Money{rat: new(big.Rat).Add(m.rat, other.rat)}
}

// Subtract subtracts another Money value from this one and returns a new Money instance.
func (m *Money) Subtract(other *Money) *Money {
	return &Money{rat: new(big.Rat).Sub(m.rat, other.rat)}
}

// MultiplyByRat multiplies this Money value by a rational number and returns a new Money instance.
func (m *Money) MultiplyByRat(rat *big.Rat) *Money {
	return &Money{rat: new(big.Rat).Mul(m.rat, rat)}
}

// DivideByRat divides this Money value by a rational number and returns a new Money instance.
func (m *Money) DivideByRat(rat *big.Rat) (*Money, error) {
	if rat.Sign() == 0 {
		return nil, fmt.Errorf("cannot divide by zero")
	}
	return &Money{rat: new(big.Rat).Quo(m.rat, rat)}, nil
}

// IsZero returns true if the money value is zero.
func (m *Money) IsZero() bool {
	return m.rat.Sign() == 0
}

// IsNegative returns true if the money value is negative.
func (m *Money) IsNegative() bool {
	return m.rat.Sign() < 0
}

// IsPositive returns true if the money value is positive.
func (m *Money) IsPositive() bool {
	return m.rat.Sign() > 0
}

// LessThan returns true if this Money value is less than another.
func (m *Money) LessThan(other *Money) bool {
	return m.rat.Cmp(other.rat) < 0
}

// GreaterThan returns true if this Money value is greater than another.
func (m *Money) GreaterThan(other *Money) bool {
	return m.rat.Cmp(other.rat) > 0
}

// Equals returns true if this Money value equals another.
func (m *Money) Equals(other *Money) bool {
	return m.rat.Cmp(other.rat) == 0
}

// Float64 returns an approximate float64 representation (for display only, not calculations).
func (m *Money) Float64() float64 {
	f, _ := m.rat.Float64()
	return f
}

// String returns a string representation of the money value with 2 decimal places.
func (m *Money) String() string {
	return m.rat.FloatString(2)
}

// StringWithDecimals returns a string representation with the given number of decimal places.
func (m *Money) StringWithDecimals(decimals int) string {
	return m.rat.FloatString(decimals)
}

// Copy creates a deep copy of this Money instance.
func (m *Money) Copy() *Money {
	return &Money{rat: new(big.Rat).Set(m.rat)}
}

// IsSafeForStorage reports whether numerator and denominator fit in int64 columns.
func (m *Money) IsSafeForStorage() bool {
	return m.rat.Num().IsInt64() && m.rat.Denom().IsInt64()
}

// RoundHalfUp rounds the value to the given number of decimal places using
// round-half-up (ties round away from zero), the customary rule for customer-facing money.
func (m *Money) RoundHalfUp(decimals int) *Money {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)

	scaled := new(big.Rat).Mul(m.rat, new(big.Rat).SetInt(scale))
	num := new(big.Int).Abs(scaled.Num())
	den := scaled.Denom()

	quo, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	// Half up: bump the quotient when 2*rem >= den.
	if new(big.Int).Lsh(rem, 1).Cmp(den) >= 0 {
		quo.Add(quo, big.NewInt(1))
	}
	if scaled.Sign() < 0 {
		quo.Neg(quo)
	}

	return &Money{rat: new(big.Rat).SetFrac(quo, scale)}
}

// zeroDecimalCurrencies lists ISO currencies that carry no minor units.
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
	"VND": true,
	"CLP": true,
	"ISK": true,
}

// MinorUnits returns the number of decimal places used for the given currency code.
func MinorUnits(currency string) int {
	if zeroDecimalCurrencies[currency] {
		return 0
	}
	return 2
}

// RoundForCurrency rounds the value to the minor units of the given currency.
func (m *Money) RoundForCurrency(currency string) *Money {
	return m.RoundHalfUp(MinorUnits(currency))
}
