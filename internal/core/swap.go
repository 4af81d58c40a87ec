package core

import (
	"math/big"

	"github.com/shopspring/decimal"

	"PoolLedger/internal/entity"
	"PoolLedger/internal/event"
	"PoolLedger/internal/numeric"
	"PoolLedger/internal/pricing"
	"PoolLedger/internal/rollup"
)

var feeDenominator = decimal.NewFromInt(1_000_000)

// handleSwap folds a trade. Order matters: volume is valued at the derived
// prices in force before the swap, the pool's price fields are overwritten
// from the event, the intermediate pool state is stored so price discovery
// sees it, the bundle and both derived prices are recomputed, and only then
// is locked value revalued.
func (p *Processor) handleSwap(e *event.Swap) (Outcome, []Change, error) {
	if p.cfg.ShouldSkipPool(e.Meta.Source) {
		return skipped(ReasonExcludedPool), nil, nil
	}

	c, outcome := p.loadPoolContext(e.Meta.Source)
	if outcome.Status == StatusSkipped {
		return outcome, nil, nil
	}

	amount0 := numeric.ConvertTokenToDecimal(e.Amount0, c.token0.Decimals)
	amount1 := numeric.ConvertTokenToDecimal(e.Amount1, c.token1.Decimals)
	amount0Abs := numeric.Abs(amount0)
	amount1Abs := numeric.Abs(amount1)

	// Volume is valued with the pre-swap derived prices. A trade has one
	// input and one output leg, so only half the tracked value counts.
	trackedUSD := pricing.TrackedAmountUSD(
		p.cfg,
		c.token0, amount0Abs,
		c.token1, amount1Abs,
		c.bundle.NativePriceUSD,
	)
	trackedUSD = numeric.SafeDiv(trackedUSD, numeric.Two)
	trackedNative := numeric.SafeDiv(trackedUSD, c.bundle.NativePriceUSD)

	price0USD := c.token0.DerivedNative.Mul(c.bundle.NativePriceUSD)
	price1USD := c.token1.DerivedNative.Mul(c.bundle.NativePriceUSD)
	untrackedUSD := numeric.SafeDiv(amount0Abs.Mul(price0USD).Add(amount1Abs.Mul(price1USD)), numeric.Two)

	feeRate := numeric.SafeDiv(decimal.NewFromInt(c.pool.FeeTier), feeDenominator)
	feesNative := trackedNative.Mul(feeRate)
	feesUSD := trackedUSD.Mul(feeRate)

	c.factory.TotalValueLockedNative = c.factory.TotalValueLockedNative.Sub(c.pool.TotalValueLockedNative)
	c.factory.TxCount++
	c.factory.NumberOfSwaps++
	c.factory.TotalVolumeNative = c.factory.TotalVolumeNative.Add(trackedNative)
	c.factory.TotalVolumeUSD = c.factory.TotalVolumeUSD.Add(trackedUSD)
	c.factory.UntrackedVolumeUSD = c.factory.UntrackedVolumeUSD.Add(untrackedUSD)
	c.factory.TotalFeesNative = c.factory.TotalFeesNative.Add(feesNative)
	c.factory.TotalFeesUSD = c.factory.TotalFeesUSD.Add(feesUSD)

	c.pool.VolumeToken0 = c.pool.VolumeToken0.Add(amount0Abs)
	c.pool.VolumeToken1 = c.pool.VolumeToken1.Add(amount1Abs)
	c.pool.VolumeUSD = c.pool.VolumeUSD.Add(trackedUSD)
	c.pool.UntrackedVolumeUSD = c.pool.UntrackedVolumeUSD.Add(untrackedUSD)
	c.pool.FeesUSD = c.pool.FeesUSD.Add(feesUSD)
	c.pool.TxCount++

	// Post-trade state from the event is authoritative, not delta-applied.
	c.pool.Liquidity = new(big.Int).Set(e.Liquidity)
	c.pool.Tick = e.Tick
	c.pool.SqrtPrice = new(big.Int).Set(e.SqrtPriceX96)
	c.pool.TotalValueLockedToken0 = c.pool.TotalValueLockedToken0.Add(amount0)
	c.pool.TotalValueLockedToken1 = c.pool.TotalValueLockedToken1.Add(amount1)

	c.pool.Token0Price, c.pool.Token1Price = numeric.SqrtPriceX96ToTokenPrices(
		c.pool.SqrtPrice, c.token0.Decimals, c.token1.Decimals,
	)

	// Price discovery reads pools through the store, so the refreshed pool
	// must be visible before the bundle and derived prices recompute.
	p.store.SetPool(c.pool)

	c.bundle.NativePriceUSD = pricing.NativePriceInUSD(p.store, p.cfg)
	p.store.SetBundle(c.bundle)

	c.token0.DerivedNative = pricing.FindNativePerToken(p.store, p.cfg, c.token0, c.bundle.NativePriceUSD)
	c.token1.DerivedNative = pricing.FindNativePerToken(p.store, p.cfg, c.token1, c.bundle.NativePriceUSD)

	c.token0.Volume = c.token0.Volume.Add(amount0Abs)
	c.token0.VolumeUSD = c.token0.VolumeUSD.Add(trackedUSD)
	c.token0.UntrackedVolumeUSD = c.token0.UntrackedVolumeUSD.Add(untrackedUSD)
	c.token0.FeesUSD = c.token0.FeesUSD.Add(feesUSD)
	c.token0.TxCount++
	c.token0.TotalValueLocked = c.token0.TotalValueLocked.Add(amount0)
	refreshTokenTVL(c.token0, c.bundle)

	c.token1.Volume = c.token1.Volume.Add(amount1Abs)
	c.token1.VolumeUSD = c.token1.VolumeUSD.Add(trackedUSD)
	c.token1.UntrackedVolumeUSD = c.token1.UntrackedVolumeUSD.Add(untrackedUSD)
	c.token1.FeesUSD = c.token1.FeesUSD.Add(feesUSD)
	c.token1.TxCount++
	c.token1.TotalValueLocked = c.token1.TotalValueLocked.Add(amount1)
	refreshTokenTVL(c.token1, c.bundle)

	refreshPoolTVL(c)

	c.factory.TotalValueLockedNative = c.factory.TotalValueLockedNative.Add(c.pool.TotalValueLockedNative)
	c.factory.TotalValueLockedUSD = c.factory.TotalValueLockedNative.Mul(c.bundle.NativePriceUSD)

	p.store.SetPool(c.pool)
	p.store.SetToken(c.token0)
	p.store.SetToken(c.token1)
	p.store.SetFactory(c.factory)

	ts := e.Meta.Timestamp.Unix()
	day := rollup.UpdatePoolDayData(p.store, c.pool, ts)
	day.VolumeToken0 = day.VolumeToken0.Add(amount0Abs)
	day.VolumeToken1 = day.VolumeToken1.Add(amount1Abs)
	day.VolumeUSD = day.VolumeUSD.Add(trackedUSD)
	day.FeesUSD = day.FeesUSD.Add(feesUSD)
	p.store.SetPoolDayData(day)

	hour := rollup.UpdatePoolHourData(p.store, c.pool, ts)
	hour.VolumeToken0 = hour.VolumeToken0.Add(amount0Abs)
	hour.VolumeToken1 = hour.VolumeToken1.Add(amount1Abs)
	hour.VolumeUSD = hour.VolumeUSD.Add(trackedUSD)
	hour.FeesUSD = hour.FeesUSD.Add(feesUSD)
	p.store.SetPoolHourData(hour)

	changes := []Change{
		{Kind: entity.KindFactory, Row: c.factory},
		{Kind: entity.KindBundle, Row: c.bundle},
		{Kind: entity.KindToken, Row: c.token0},
		{Kind: entity.KindToken, Row: c.token1},
		{Kind: entity.KindPool, Row: c.pool},
		{Kind: entity.KindPoolDayData, Row: day},
		{Kind: entity.KindPoolHourData, Row: hour},
	}
	return applied(), changes, nil
}
