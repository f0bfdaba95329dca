package data

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceText is a price exactly as the client sent it. JSON strings are kept
// as their contents and JSON numbers as their literal text. null and the
// number zero decode to "" so that they count as missing, the same as an
// empty string.
type PriceText string

// UnmarshalJSON implements json.Unmarshaler.
func (p *PriceText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	// Anything that is not a string, number or null is kept as its literal
	// text and left to the price format rule.
	if len(b) > 0 && b[0] != '"' && !isJSONNumber(b) && !bytes.Equal(b, []byte("null")) {
		*p = PriceText(b)
		return nil
	}

	s, err := scalarText(b)
	if err != nil {
		return err
	}
	*p = PriceText(s)
	return nil
}

// Decimal converts the text to a decimal rounded to two places.
func (p PriceText) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(string(p))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse price %q: %w", string(p), err)
	}
	return d.Round(2), nil
}

// Price is a stored book price. It scans from and writes to NUMERIC(10,2)
// columns through the embedded decimal, and is always written to JSON as a
// number in its shortest form (12.50 becomes 12.5).
type Price struct {
	decimal.Decimal
}

// NewPrice wraps d, rounded to two decimal places.
func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d.Round(2)}
}

// MarshalJSON implements json.Marshaler.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

// Float64 returns the price as a float, which is how clients see it.
func (p Price) Float64() float64 {
	return p.Decimal.InexactFloat64()
}
