package numeric_test

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"PoolLedger/internal/numeric"
)

func dec(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", v, err)
	}
	return d
}

func TestSafeDivZeroDivisor(t *testing.T) {
	got := numeric.SafeDiv(dec(t, "123.45"), decimal.Zero)
	if !got.IsZero() {
		t.Errorf("SafeDiv(x, 0) = %s, want 0", got)
	}
}

func TestSafeDiv(t *testing.T) {
	got := numeric.SafeDiv(dec(t, "1"), dec(t, "3"))
	want := dec(t, "1").DivRound(dec(t, "3"), 80)
	if !got.Equal(want) {
		t.Errorf("SafeDiv(1,3) = %s, want %s", got, want)
	}
}

func TestConvertTokenToDecimal(t *testing.T) {
	raw, _ := new(big.Int).SetString("1500000000000000000", 10)
	got := numeric.ConvertTokenToDecimal(raw, 18)
	if got.String() != "1.5" {
		t.Errorf("convert = %s, want 1.5", got)
	}

	got = numeric.ConvertTokenToDecimal(big.NewInt(1_000_000), 6)
	if got.String() != "1" {
		t.Errorf("convert = %s, want 1", got)
	}

	// Zero decimals passes the raw value through.
	got = numeric.ConvertTokenToDecimal(big.NewInt(42), 0)
	if got.String() != "42" {
		t.Errorf("convert = %s, want 42", got)
	}
}

func TestPow(t *testing.T) {
	base := dec(t, "1.0001")

	if got := numeric.Pow(base, 0); !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("pow 0 = %s", got)
	}
	if got := numeric.Pow(base, 1); !got.Equal(base) {
		t.Errorf("pow 1 = %s", got)
	}

	got := numeric.Pow(base, 2)
	want := dec(t, "1.00020001")
	if !got.Equal(want) {
		t.Errorf("pow 2 = %s, want %s", got, want)
	}
}

func TestPowNegativeIsReciprocal(t *testing.T) {
	base := dec(t, "1.0001")
	pos := numeric.Pow(base, 10)
	neg := numeric.Pow(base, -10)

	product := pos.Mul(neg)
	diff := product.Sub(decimal.NewFromInt(1)).Abs()
	if diff.GreaterThan(dec(t, "1e-70")) {
		t.Errorf("1.0001^10 * 1.0001^-10 = %s, not ~1", product)
	}
}

func TestTickPriceReciprocity(t *testing.T) {
	for _, tick := range []int32{1, 100, 6932, 887272} {
		up := numeric.TickPrice(tick)
		down := numeric.TickPrice(-tick)

		product := up.Mul(down)
		diff := product.Sub(decimal.NewFromInt(1)).Abs()
		// Truncation at 80 places leaves a tiny residual at extreme ticks.
		if diff.GreaterThan(dec(t, "1e-30")) {
			t.Errorf("tick %d: price(t)*price(-t) = %s, not ~1", tick, product)
		}
	}
}

func TestTickPriceMagnitude(t *testing.T) {
	// 1.0001^6932 is just above 2: the doubling tick.
	p := numeric.TickPrice(6932)
	if p.LessThan(dec(t, "2")) || p.GreaterThan(dec(t, "2.001")) {
		t.Errorf("price at doubling tick = %s", p)
	}

	// The maximum tick is finite and positive.
	max := numeric.TickPrice(887272)
	if max.LessThanOrEqual(decimal.Zero) {
		t.Errorf("price at max tick = %s", max)
	}
	min := numeric.TickPrice(-887272)
	if min.LessThanOrEqual(decimal.Zero) {
		t.Errorf("price at min tick = %s", min)
	}
}

func TestSqrtPriceX96ToTokenPrices(t *testing.T) {
	// 2^96 squared over 2^192 is exactly 1; decimals shift the ratio.
	sqrtPrice := new(big.Int).Lsh(big.NewInt(1), 96)

	price0, price1 := numeric.SqrtPriceX96ToTokenPrices(sqrtPrice, 6, 18)
	if !price1.Equal(decimal.New(1, -12)) {
		t.Errorf("price1 = %s, want 1e-12", price1)
	}
	if !price0.Equal(decimal.New(1, 12)) {
		t.Errorf("price0 = %s, want 1e12", price0)
	}

	// Equal decimals: both prices are 1.
	price0, price1 = numeric.SqrtPriceX96ToTokenPrices(sqrtPrice, 18, 18)
	if !price0.Equal(decimal.NewFromInt(1)) || !price1.Equal(decimal.NewFromInt(1)) {
		t.Errorf("prices = %s / %s, want 1 / 1", price0, price1)
	}
}

func TestSqrtPriceX96ToTokenPricesZero(t *testing.T) {
	price0, price1 := numeric.SqrtPriceX96ToTokenPrices(new(big.Int), 6, 18)
	if !price0.IsZero() || !price1.IsZero() {
		t.Errorf("prices = %s / %s, want zeros", price0, price1)
	}
}

func TestSqrtPriceX96RealisticValue(t *testing.T) {
	// Observed USDC/WETH value: price0 should land in the low thousands of
	// USDC per WETH.
	sqrtPrice, _ := new(big.Int).SetString("1456089023813586493918914444105722", 10)

	price0, price1 := numeric.SqrtPriceX96ToTokenPrices(sqrtPrice, 6, 18)
	if price0.LessThan(dec(t, "1000")) || price0.GreaterThan(dec(t, "10000")) {
		t.Errorf("price0 = %s, expected a plausible USD price", price0)
	}

	product := price0.Mul(price1)
	diff := product.Sub(decimal.NewFromInt(1)).Abs()
	if diff.GreaterThan(dec(t, "1e-30")) {
		t.Errorf("price0*price1 = %s, not ~1", product)
	}
}

func TestAbsMaxMin(t *testing.T) {
	if got := numeric.Abs(dec(t, "-4.2")); got.String() != "4.2" {
		t.Errorf("abs = %s", got)
	}
	if got := numeric.Max(dec(t, "1"), dec(t, "2")); got.String() != "2" {
		t.Errorf("max = %s", got)
	}
	if got := numeric.Min(dec(t, "1"), dec(t, "2")); got.String() != "1" {
		t.Errorf("min = %s", got)
	}
}
