package weight

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Decimal implements Arithmetic for arbitrary-precision decimals.
// decimal.Decimal values are immutable, so every operation allocates a new
// result and leaves its operands untouched.
type Decimal struct{}

func (Decimal) Zero() decimal.Decimal                    { return decimal.Zero }
func (Decimal) Add(a, b decimal.Decimal) decimal.Decimal { return a.Add(b) }
func (Decimal) Sub(a, b decimal.Decimal) decimal.Decimal { return a.Sub(b) }
func (Decimal) Compare(a, b decimal.Decimal) int         { return a.Cmp(b) }

// Float64 returns the nearest float64. Values outside the float64 range
// become ±Inf.
func (Decimal) Float64(v decimal.Decimal) float64 {
	f, _ := v.Float64()
	return f
}

var _ Arithmetic[decimal.Decimal] = Decimal{}

// ParseDecimal parses a weight without going through float64, so long
// decimal literals keep every digit.
func ParseDecimal(n json.Number) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse decimal weight %q: %w", n, err)
	}
	return d, nil
}
