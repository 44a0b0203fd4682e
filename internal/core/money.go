// Package core holds the domain model of the reconciliation engine:
// money and date primitives, resource types and the error taxonomy.
//
// All money values are fixed-point with two decimal places. Arithmetic is
// done on integer cents; decimal parsing goes through shopspring/decimal so
// that values arriving as JSON numbers or strings never touch binary floats.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact amount in cents.
type Money struct {
	Cents int64
}

// NewMoney builds a Money from whole cents.
func NewMoney(cents int64) Money {
	return Money{Cents: cents}
}

// ParseMoney converts a decimal string (dot separator) to Money, rounding
// half-up on the third decimal place.
//
// Examples:
//
//	ParseMoney("12.34")  -> 1234 cents
//	ParseMoney("12.345") -> 1235 cents
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return FromDecimal(d), nil
}

// FromDecimal converts an exact decimal to cents, rounding half-up beyond
// the second decimal place.
func FromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Shift(2).Round(0).IntPart()}
}

// Decimal returns the exact decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Validate reports whether the amount is a valid positive money value.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// String renders the amount as a plain decimal number with trailing zeros
// trimmed, matching the number rendering used inside backup payloads
// ("50", "50.5", "12.34"). Checksums depend on this staying stable.
func (m Money) String() string {
	sign := ""
	c := m.Cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	s := fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// MarshalJSON renders the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		m.Cents = 0
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("parse money %q: %w", s, ErrInvalidAmount)
	}
	m.Cents = d.Shift(2).Round(0).IntPart()
	return nil
}
