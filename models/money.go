package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the label shown next to every amount
const Currency = "denar"

// Money is an amount in minor units (1/100 of a denar)
type Money int64

// MaxMoney is the largest amount accepted anywhere, 999,999,999,999.99
const MaxMoney Money = 99_999_999_999_999

// ErrOutOfRange is returned when an amount or a product of amounts would
// leave [0, MaxMoney]
var ErrOutOfRange = errors.New("amount out of range")

// NewMoney builds an amount from whole denars
func NewMoney(units int64) Money {
	return Money(units * 100)
}

// ParseMoney parses decimal text such as "100" or "12.50"
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("invalid amount %q: must not be negative", s)
	}
	if !d.Equal(d.Round(2)) {
		return 0, fmt.Errorf("invalid amount %q: more than two decimal places", s)
	}
	minor := d.Shift(2)
	if minor.GreaterThan(decimal.NewFromInt(int64(MaxMoney))) {
		return 0, fmt.Errorf("invalid amount %q: %w", s, ErrOutOfRange)
	}
	return Money(minor.IntPart()), nil
}

// Decimal returns the amount as a decimal number of denars
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// Mul multiplies the amount by a quantity
func (m Money) Mul(qty int64) (Money, error) {
	if m < 0 || m > MaxMoney || qty < 0 {
		return 0, fmt.Errorf("%s x %d: %w", m, qty, ErrOutOfRange)
	}
	if qty > 0 && m > MaxMoney/Money(qty) {
		return 0, fmt.Errorf("%s x %d: %w", m, qty, ErrOutOfRange)
	}
	return m * Money(qty), nil
}

// Add sums two amounts
func (m Money) Add(o Money) (Money, error) {
	if m < 0 || o < 0 || m > MaxMoney-o {
		return 0, fmt.Errorf("%s + %s: %w", m, o, ErrOutOfRange)
	}
	return m + o, nil
}

// String renders the plain decimal form, e.g. "1234.50"
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Format renders the amount with thousands grouping, e.g. "1,234.50"
func (m Money) Format() string {
	s := m.Decimal().Abs().StringFixed(2)
	whole, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	if m < 0 {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

// Label is the formatted amount followed by the currency
func (m Money) Label() string {
	return m.Format() + " " + Currency
}

// MarshalJSON renders the amount as a quoted decimal string
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON accepts both quoted and bare decimal numbers
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := ParseMoney(d.String())
	if err != nil {
		return err
	}
	*m = v
	return nil
}
