// Package weight provides the numeric abstraction used for node weights.
//
// The layout engine never assumes a concrete number type. It accumulates
// weights through an [Arithmetic] and only converts to float64 when it needs
// geometry. Two providers are included:
//
//   - [Native] for machine integers and floats. [Int64] and [Float64] are the
//     common instantiations and the fast path for large trees.
//   - [Decimal] for arbitrary-precision weights backed by
//     github.com/shopspring/decimal.
//
// Arithmetic values carry no state, so the zero value of every provider is
// ready to use and can be shared between goroutines.
//
// # Parsing
//
// [ParseInt64], [ParseFloat64] and [ParseDecimal] convert json.Number values
// and are used by the JSON tree reader in package tree.
package weight
