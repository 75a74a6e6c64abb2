package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Value is a metric that may be missing. A missing value comes from a zero
// denominator or from a period that contributed no rows for a keyword.
//
// Arithmetic with a missing operand yields a missing value, and every
// comparison involving a missing value is false.
type Value decimal.NullDecimal

// Missing is the missing value
var Missing = Value{}

// Known wraps a present decimal
func Known(d decimal.Decimal) Value {
	return Value{Decimal: d, Valid: true}
}

// KnownInt wraps a present integer
func KnownInt(n int64) Value {
	return Known(decimal.NewFromInt(n))
}

// Ratio divides num by den. A zero denominator yields Missing; this is the
// only zero-denominator routine and every ratio metric goes through it.
func Ratio(num, den decimal.Decimal) Value {
	if den.IsZero() {
		return Missing
	}
	return Known(num.Div(den))
}

// IsMissing reports whether the value is absent
func (v Value) IsMissing() bool {
	return !v.Valid
}

// Sub returns v - o
func (v Value) Sub(o Value) Value {
	if !v.Valid || !o.Valid {
		return Missing
	}
	return Known(v.Decimal.Sub(o.Decimal))
}

// Div returns v / o, missing when either side is missing or o is zero
func (v Value) Div(o Value) Value {
	if !v.Valid || !o.Valid {
		return Missing
	}
	return Ratio(v.Decimal, o.Decimal)
}

// LessThan reports v < t
func (v Value) LessThan(t decimal.Decimal) bool {
	return v.Valid && v.Decimal.LessThan(t)
}

// LessThanOrEqual reports v <= t
func (v Value) LessThanOrEqual(t decimal.Decimal) bool {
	return v.Valid && v.Decimal.LessThanOrEqual(t)
}

// GreaterThan reports v > t
func (v Value) GreaterThan(t decimal.Decimal) bool {
	return v.Valid && v.Decimal.GreaterThan(t)
}

// GreaterThanOrEqual reports v >= t
func (v Value) GreaterThanOrEqual(t decimal.Decimal) bool {
	return v.Valid && v.Decimal.GreaterThanOrEqual(t)
}

// Equal reports v == t
func (v Value) Equal(t decimal.Decimal) bool {
	return v.Valid && v.Decimal.Equal(t)
}

// Positive reports v > 0
func (v Value) Positive() bool {
	return v.Valid && v.Decimal.IsPositive()
}

// String renders the value for tabular output; missing renders empty
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}

// Float64 returns the value as a float and whether it is present
func (v Value) Float64() (float64, bool) {
	if !v.Valid {
		return 0, false
	}
	f, _ := v.Decimal.Float64()
	return f, true
}

// MarshalJSON renders a missing value as null and a present one as a number
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return []byte(v.Decimal.String()), nil
}

// UnmarshalJSON accepts null, a number or a quoted number
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Missing
		return nil
	}

	var raw json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid metric value %s: %w", string(data), err)
		}
		raw = json.Number(s)
	}

	d, err := decimal.NewFromString(raw.String())
	if err != nil {
		return fmt.Errorf("invalid metric value %s: %w", string(data), err)
	}
	*v = Known(d)
	return nil
}

// MarshalYAML renders a missing value as null
func (v Value) MarshalYAML() (interface{}, error) {
	if !v.Valid {
		return nil, nil
	}
	f, _ := v.Decimal.Float64()
	return f, nil
}
