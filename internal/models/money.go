package models

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point currency amount stored as an integer count of minor
// units (cents). Balances and transfer amounts never touch binary floating
// point; decimal strings are parsed and rendered via shopspring/decimal.
type Money int64

// MoneyScale is the number of decimal places carried by Money values.
const MoneyScale = 2

var ErrMalformedAmount = errors.New("malformed amount")

// ParseMoney converts a decimal string such as "100.00" into Money.
// More than two decimal places is rejected rather than rounded.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	if d.Exponent() < -MoneyScale {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", ErrMalformedAmount, s, MoneyScale)
	}
	cents := d.Shift(MoneyScale)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	return Money(cents.IntPart()), nil
}

// FromCents builds a Money from a raw minor-unit count.
func FromCents(cents int64) Money { return Money(cents) }

func (m Money) Add(o Money) Money { return m + o }
func (m Money) Sub(o Money) Money { return m - o }

// Cmp returns -1, 0 or 1 comparing m against o.
func (m Money) Cmp(o Money) int {
	switch {
	case m < o:
		return -1
	case m > o:
		return 1
	default:
		return 0
	}
}

func (m Money) IsPositive() bool    { return m > 0 }
func (m Money) IsNegative() bool    { return m < 0 }
func (m Money) IsNonNegative() bool { return m >= 0 }
func (m Money) Cents() int64        { return int64(m) }

// Decimal returns the amount as an exact decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -MoneyScale)
}

// String renders the amount with a fixed two-decimal scale, e.g. "100.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(MoneyScale)
}

// MarshalJSON renders Money as a quoted decimal string so API clients never
// see binary floating point.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value stores Money as a plain bigint column.
func (m Money) Value() (driver.Value, error) { return int64(m), nil }

func (m *Money) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*m = Money(v)
		return nil
	case []byte:
		parsed, err := ParseMoney(string(v))
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", src)
	}
}
