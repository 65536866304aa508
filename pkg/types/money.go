package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the presentation precision for monetary amounts.
const CurrencyPlaces = 2

// Money is a decimal amount rendered as a JSON number with two decimals.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(CurrencyPlaces)}
}

// MustMoney parses a literal amount and panics on malformed input. Intended for static data.
func MustMoney(value string) Money {
	return NewMoney(decimal.RequireFromString(value))
}

// FromCents builds a Money value from an integer number of cents.
func FromCents(cents int64) Money {
	return NewMoney(decimal.New(cents, -CurrencyPlaces))
}

// Cents returns the amount as an integer number of cents.
func (m Money) Cents() int64 {
	return m.Decimal.Shift(CurrencyPlaces).Round(0).IntPart()
}

func (m Money) String() string {
	return m.Decimal.StringFixed(CurrencyPlaces)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.StringFixed(CurrencyPlaces)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = NewMoney(d)
	return nil
}
