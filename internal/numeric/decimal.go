// Package numeric is the arithmetic kernel: arbitrary-precision decimals for
// human-scaled amounts, big.Int for raw on-chain quantities, and the
// converters between the two. Division never signals an error; a zero
// divisor yields zero so valuation formulas degrade to zero contribution
// instead of blocking the pipeline.
package numeric

import "github.com/shopspring/decimal"

// divPrecision is the number of decimal places kept by every division in
// the kernel. Tick prices span roughly 1e-39..1e39 at the extreme tick
// indices, so reciprocals need well over 39 fractional digits to retain
// meaningful significance.
const divPrecision = 80

var (
	Zero = decimal.Zero
	One  = decimal.NewFromInt(1)
	Two  = decimal.NewFromInt(2)

	// TickBase is the price ratio between adjacent ticks.
	TickBase = decimal.RequireFromString("1.0001")
)

// SafeDiv returns a/b, or zero when b is zero.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.DivRound(b, divPrecision)
}

// Abs returns the absolute value of d.
func Abs(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return d.Neg()
	}
	return d
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
