package core

import (
	"math/big"

	"PoolLedger/internal/entity"
	"PoolLedger/internal/event"
	"PoolLedger/internal/numeric"
	"PoolLedger/internal/rollup"
)

// handleMint folds a liquidity add. The liquidity delta only applies to the
// pool's in-range liquidity when the position straddles the current tick;
// locked value grows unconditionally.
func (p *Processor) handleMint(e *event.Mint) (Outcome, []Change, error) {
	c, outcome := p.loadPoolContext(e.Meta.Source)
	if outcome.Status == StatusSkipped {
		return outcome, nil, nil
	}

	amount0 := numeric.ConvertTokenToDecimal(e.Amount0, c.token0.Decimals)
	amount1 := numeric.ConvertTokenToDecimal(e.Amount1, c.token1.Decimals)

	// Factory TVL: pull the pool's stale contribution out, re-add the
	// refreshed value at the end.
	c.factory.TotalValueLockedNative = c.factory.TotalValueLockedNative.Sub(c.pool.TotalValueLockedNative)
	c.factory.TxCount++

	c.token0.TxCount++
	c.token0.TotalValueLocked = c.token0.TotalValueLocked.Add(amount0)
	refreshTokenTVL(c.token0, c.bundle)

	c.token1.TxCount++
	c.token1.TotalValueLocked = c.token1.TotalValueLocked.Add(amount1)
	refreshTokenTVL(c.token1, c.bundle)

	c.pool.TxCount++
	if e.TickLower <= c.pool.Tick && c.pool.Tick < e.TickUpper {
		c.pool.Liquidity = new(big.Int).Add(c.pool.Liquidity, e.Amount)
	}
	c.pool.TotalValueLockedToken0 = c.pool.TotalValueLockedToken0.Add(amount0)
	c.pool.TotalValueLockedToken1 = c.pool.TotalValueLockedToken1.Add(amount1)
	refreshPoolTVL(c)

	c.factory.TotalValueLockedNative = c.factory.TotalValueLockedNative.Add(c.pool.TotalValueLockedNative)
	c.factory.TotalValueLockedUSD = c.factory.TotalValueLockedNative.Mul(c.bundle.NativePriceUSD)

	ts := e.Meta.Timestamp.Unix()
	lower := p.getOrCreateTick(c.pool.ID, e.TickLower, ts, e.Meta.BlockNumber)
	lower.LiquidityGross = new(big.Int).Add(lower.LiquidityGross, e.Amount)
	lower.LiquidityNet = new(big.Int).Add(lower.LiquidityNet, e.Amount)

	upper := p.getOrCreateTick(c.pool.ID, e.TickUpper, ts, e.Meta.BlockNumber)
	upper.LiquidityGross = new(big.Int).Add(upper.LiquidityGross, e.Amount)
	upper.LiquidityNet = new(big.Int).Sub(upper.LiquidityNet, e.Amount)

	p.store.SetPool(c.pool)
	p.store.SetToken(c.token0)
	p.store.SetToken(c.token1)
	p.store.SetFactory(c.factory)
	p.store.SetTick(lower)
	p.store.SetTick(upper)

	day := rollup.UpdatePoolDayData(p.store, c.pool, ts)
	hour := rollup.UpdatePoolHourData(p.store, c.pool, ts)

	changes := []Change{
		{Kind: entity.KindFactory, Row: c.factory},
		{Kind: entity.KindToken, Row: c.token0},
		{Kind: entity.KindToken, Row: c.token1},
		{Kind: entity.KindPool, Row: c.pool},
		{Kind: entity.KindTick, Row: lower},
		{Kind: entity.KindTick, Row: upper},
		{Kind: entity.KindPoolDayData, Row: day},
		{Kind: entity.KindPoolHourData, Row: hour},
	}
	return applied(), changes, nil
}
