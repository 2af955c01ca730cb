package money

import (
	"bytes"
	"database/sql/driver"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every amount is rounded to.
const Scale = 2

var ErrNegativeAmount = errors.New("amount cannot be negative")

// Money is a non-negative-by-convention amount in the system currency.
type Money struct {
	amount decimal.Decimal
}

var Zero = New(decimal.Zero)

func New(d decimal.Decimal) Money {
	return Money{amount: d.Round(Scale)}
}

func FromInt(units int64) Money {
	return New(decimal.NewFromInt(units))
}

func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errors.Wrapf(err, "parse amount %q", s)
	}
	return New(d), nil
}

// NewNonNegative rejects amounts below zero.
func NewNonNegative(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return New(d), nil
}

func (m Money) Decimal() decimal.Decimal { return m.amount }

func (m Money) Add(o Money) Money { return New(m.amount.Add(o.amount)) }

func (m Money) Sub(o Money) Money { return New(m.amount.Sub(o.amount)) }

func (m Money) MulInt(n int64) Money { return New(m.amount.Mul(decimal.NewFromInt(n))) }

// Percent returns pct percent of m, rounded half away from zero.
func (m Money) Percent(pct decimal.Decimal) Money {
	return New(m.amount.Mul(pct).Div(decimal.NewFromInt(100)))
}

func (m Money) Min(o Money) Money {
	if o.amount.LessThan(m.amount) {
		return o
	}
	return m
}

// Clamp bounds m to [0, upper].
func (m Money) Clamp(upper Money) Money {
	if m.amount.IsNegative() {
		return Zero
	}
	return m.Min(upper)
}

func (m Money) IsNegative() bool { return m.amount.IsNegative() }
func (m Money) IsZero() bool     { return m.amount.IsZero() }

func (m Money) LessThan(o Money) bool { return m.amount.LessThan(o.amount) }

func (m Money) Equal(o Money) bool { return m.amount.Equal(o.amount) }

func (m Money) String() string { return m.amount.StringFixed(Scale) }

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(bytes.TrimSpace(b)); err != nil {
		return errors.Wrap(err, "decode amount")
	}
	*m = New(d)
	return nil
}

func (m Money) Value() (driver.Value, error) {
	return m.amount.StringFixed(Scale), nil
}

func (m *Money) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return errors.Wrap(err, "scan amount")
	}
	*m = New(d)
	return nil
}
