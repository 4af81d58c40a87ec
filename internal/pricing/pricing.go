// Package pricing derives token prices in native-asset terms and values
// trades in USD. Everything here is a pure function over a read-only state
// snapshot, so the search behavior is unit-testable without a live fold.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"PoolLedger/internal/chains"
	"PoolLedger/internal/entity"
	"PoolLedger/internal/numeric"
)

// Source is the narrow read surface price discovery needs.
type Source interface {
	GetPool(id string) (*entity.Pool, bool)
	GetToken(id string) (*entity.Token, bool)
}

// NativePriceInUSD reads the chain's reference stablecoin/wrapped-native
// pool and returns the native asset's USD price. Zero until the reference
// pool exists and has traded.
func NativePriceInUSD(s Source, cfg *chains.Config) decimal.Decimal {
	poolID := entity.PoolID(cfg.ChainID, cfg.StablecoinWrappedNativePool)
	pool, ok := s.GetPool(poolID)
	if !ok {
		return numeric.Zero
	}
	if cfg.StablecoinIsToken0 {
		return pool.Token0Price
	}
	return pool.Token1Price
}

// FindNativePerToken derives a token's price in units of the native asset.
//
// The wrapped native asset is 1 by definition and stablecoins invert the
// bundle price. Everything else is a best-liquidity single-hop search over
// the token's whitelist pools: among candidate pools with live liquidity
// whose counterpart side locks more native value than the configured floor,
// the deepest one wins. No qualifying pool means the price is zero.
func FindNativePerToken(s Source, cfg *chains.Config, token *entity.Token, bundleNativePrice decimal.Decimal) decimal.Decimal {
	addr := entity.AddressOf(token.ID)

	if cfg.WrappedNativeAddress != "" && strings.EqualFold(addr, cfg.WrappedNativeAddress) {
		return numeric.One
	}
	if cfg.IsStablecoin(addr) {
		return numeric.SafeDiv(numeric.One, bundleNativePrice)
	}

	largestNativeLocked := numeric.Zero
	priceSoFar := numeric.Zero

	for _, poolID := range token.WhitelistPools {
		pool, ok := s.GetPool(poolID)
		if !ok {
			continue
		}
		if pool.Liquidity == nil || pool.Liquidity.Sign() <= 0 {
			continue
		}

		switch token.ID {
		case pool.Token0ID:
			counterpart, ok := s.GetToken(pool.Token1ID)
			if !ok {
				continue
			}
			nativeLocked := pool.TotalValueLockedToken1.Mul(counterpart.DerivedNative)
			if nativeLocked.GreaterThan(largestNativeLocked) && nativeLocked.GreaterThan(cfg.MinimumNativeLocked) {
				largestNativeLocked = nativeLocked
				// token0 per token1 price times the counterpart's native price
				priceSoFar = pool.Token1Price.Mul(counterpart.DerivedNative)
			}
		case pool.Token1ID:
			counterpart, ok := s.GetToken(pool.Token0ID)
			if !ok {
				continue
			}
			nativeLocked := pool.TotalValueLockedToken0.Mul(counterpart.DerivedNative)
			if nativeLocked.GreaterThan(largestNativeLocked) && nativeLocked.GreaterThan(cfg.MinimumNativeLocked) {
				largestNativeLocked = nativeLocked
				priceSoFar = pool.Token0Price.Mul(counterpart.DerivedNative)
			}
		}
	}

	return priceSoFar
}

// TrackedAmountUSD values a trade's two absolute legs against the whitelist.
// Both tokens whitelisted: the mean of the two USD legs. Exactly one: that
// leg alone. Neither: zero. The asymmetry avoids double-counting volume
// while tolerating unpriced counter-assets.
func TrackedAmountUSD(cfg *chains.Config, token0 *entity.Token, amount0 decimal.Decimal, token1 *entity.Token, amount1 decimal.Decimal, bundleNativePrice decimal.Decimal) decimal.Decimal {
	price0USD := token0.DerivedNative.Mul(bundleNativePrice)
	price1USD := token1.DerivedNative.Mul(bundleNativePrice)

	wl0 := cfg.IsWhitelisted(entity.AddressOf(token0.ID))
	wl1 := cfg.IsWhitelisted(entity.AddressOf(token1.ID))

	switch {
	case wl0 && wl1:
		sum := amount0.Mul(price0USD).Add(amount1.Mul(price1USD))
		return numeric.SafeDiv(sum, numeric.Two)
	case wl0:
		return amount0.Mul(price0USD)
	case wl1:
		return amount1.Mul(price1USD)
	}
	return numeric.Zero
}
