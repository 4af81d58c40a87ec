package numeric

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// q192 = 2^192, the denominator of a squared Q64.96 fixed-point value.
var q192 = new(big.Int).Lsh(big.NewInt(1), 192)

// SqrtPriceX96ToTokenPrices converts a pool's Q64.96 sqrt-price into the
// two human-readable prices. Squaring the fixed-point value and dividing by
// 2^192 yields the raw token1/token0 ratio; each token's own decimal places
// are then applied so the result is expressed in whole-token units.
//
// Returns (price0, price1) where price0 is token0 priced in token1 and
// price1 its reciprocal. A zero sqrt-price yields two zero prices.
func SqrtPriceX96ToTokenPrices(sqrtPriceX96 *big.Int, decimals0, decimals1 int32) (decimal.Decimal, decimal.Decimal) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() == 0 {
		return decimal.Zero, decimal.Zero
	}

	num := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)

	// price1 = num/2^192 * 10^decimals0 / 10^decimals1
	price1 := SafeDiv(decimal.NewFromBigInt(num, 0), decimal.NewFromBigInt(q192, 0))
	price1 = price1.Mul(exp10(decimals0 - decimals1))
	price0 := SafeDiv(One, price1)

	return price0, price1
}

// exp10 returns 10^n as an exact decimal for positive or negative n.
func exp10(n int32) decimal.Decimal {
	return decimal.New(1, n)
}
