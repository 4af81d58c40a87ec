package numeric

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ConvertTokenToDecimal scales a raw integer token amount by the token's
// decimal places: raw / 10^decimals. Exact: no division is performed, the
// exponent is folded into the decimal representation.
func ConvertTokenToDecimal(raw *big.Int, decimals int32) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	if decimals == 0 {
		return decimal.NewFromBigInt(raw, 0)
	}
	return decimal.NewFromBigInt(raw, -decimals)
}

// Pow computes base^exp for an integer exponent by squaring, accepting
// negative exponents (base^-n = 1/base^n). Used to price tick boundaries:
// price0 = 1.0001^tickIdx.
//
// Intermediate products are truncated to the kernel division precision;
// exact products of long decimals would otherwise double in digit count on
// every squaring step.
func Pow(base decimal.Decimal, exp int32) decimal.Decimal {
	if exp == 0 {
		return One
	}
	if exp < 0 {
		return SafeDiv(One, Pow(base, -exp))
	}

	result := One
	acc := base
	for n := exp; n > 0; n >>= 1 {
		if n&1 == 1 {
			result = result.Mul(acc).Truncate(divPrecision)
		}
		if n > 1 {
			acc = acc.Mul(acc).Truncate(divPrecision)
		}
	}
	return result
}

// TickPrice returns price0 = 1.0001^tickIdx, the price of token0 in token1
// implied at a tick boundary. The reciprocal price1 is SafeDiv(One, price0).
func TickPrice(tickIdx int32) decimal.Decimal {
	return Pow(TickBase, tickIdx)
}
