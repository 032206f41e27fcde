package weight

import (
	"cmp"
	"encoding/json"
	"fmt"
)

// Arithmetic performs the handful of operations the layout engine needs on a
// weight type T. Implementations must be pure: operands are never mutated.
type Arithmetic[T any] interface {
	// Zero returns the additive identity.
	Zero() T
	// Add returns a + b.
	Add(a, b T) T
	// Sub returns a - b.
	Sub(a, b T) T
	// Compare returns -1, 0 or +1 as a is less than, equal to or greater than b.
	Compare(a, b T) int
	// Float64 converts v to a float64, losing precision if necessary.
	Float64(v T) float64
}

// Number is the set of machine number types supported by [Native].
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Native implements Arithmetic for built-in numeric types.
type Native[T Number] struct{}

func (Native[T]) Zero() T             { return 0 }
func (Native[T]) Add(a, b T) T        { return a + b }
func (Native[T]) Sub(a, b T) T        { return a - b }
func (Native[T]) Compare(a, b T) int  { return cmp.Compare(a, b) }
func (Native[T]) Float64(v T) float64 { return float64(v) }

// Int64 returns the int64 arithmetic.
func Int64() Native[int64] { return Native[int64]{} }

// Float64 returns the float64 arithmetic.
func Float64() Native[float64] { return Native[float64]{} }

var (
	_ Arithmetic[int64]   = Native[int64]{}
	_ Arithmetic[float64] = Native[float64]{}
	_ Arithmetic[int]     = Native[int]{}
)

// Sum adds up ws using a.
func Sum[T any](a Arithmetic[T], ws ...T) T {
	total := a.Zero()
	for _, w := range ws {
		total = a.Add(total, w)
	}
	return total
}

// ParseInt64 parses an integer weight.
func ParseInt64(n json.Number) (int64, error) {
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("parse int64 weight %q: %w", n, err)
	}
	return v, nil
}

// ParseFloat64 parses a floating point weight.
func ParseFloat64(n json.Number) (float64, error) {
	v, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("parse float64 weight %q: %w", n, err)
	}
	return v, nil
}
