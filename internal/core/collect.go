package core

import (
	"PoolLedger/internal/entity"
	"PoolLedger/internal/event"
	"PoolLedger/internal/numeric"
	"PoolLedger/internal/pricing"
	"PoolLedger/internal/rollup"
)

// handleCollect folds a fee withdrawal. Collection pulls previously accrued
// fees out of the pool, so locked value shrinks by the collected amounts and
// the pool's cumulative collected-fee counters grow.
func (p *Processor) handleCollect(e *event.Collect) (Outcome, []Change, error) {
	c, outcome := p.loadPoolContext(e.Meta.Source)
	if outcome.Status == StatusSkipped {
		return outcome, nil, nil
	}

	amount0 := numeric.ConvertTokenToDecimal(e.Amount0, c.token0.Decimals)
	amount1 := numeric.ConvertTokenToDecimal(e.Amount1, c.token1.Decimals)

	trackedUSD := pricing.TrackedAmountUSD(
		p.cfg,
		c.token0, amount0,
		c.token1, amount1,
		c.bundle.NativePriceUSD,
	)

	c.factory.TotalValueLockedNative = c.factory.TotalValueLockedNative.Sub(c.pool.TotalValueLockedNative)
	c.factory.TxCount++

	c.token0.TxCount++
	c.token0.TotalValueLocked = c.token0.TotalValueLocked.Sub(amount0)
	refreshTokenTVL(c.token0, c.bundle)

	c.token1.TxCount++
	c.token1.TotalValueLocked = c.token1.TotalValueLocked.Sub(amount1)
	refreshTokenTVL(c.token1, c.bundle)

	c.pool.TxCount++
	c.pool.TotalValueLockedToken0 = c.pool.TotalValueLockedToken0.Sub(amount0)
	c.pool.TotalValueLockedToken1 = c.pool.TotalValueLockedToken1.Sub(amount1)
	c.pool.CollectedFeesToken0 = c.pool.CollectedFeesToken0.Add(amount0)
	c.pool.CollectedFeesToken1 = c.pool.CollectedFeesToken1.Add(amount1)
	c.pool.CollectedFeesUSD = c.pool.CollectedFeesUSD.Add(trackedUSD)
	refreshPoolTVL(c)

	c.factory.TotalValueLockedNative = c.factory.TotalValueLockedNative.Add(c.pool.TotalValueLockedNative)
	c.factory.TotalValueLockedUSD = c.factory.TotalValueLockedNative.Mul(c.bundle.NativePriceUSD)

	p.store.SetPool(c.pool)
	p.store.SetToken(c.token0)
	p.store.SetToken(c.token1)
	p.store.SetFactory(c.factory)

	ts := e.Meta.Timestamp.Unix()
	day := rollup.UpdatePoolDayData(p.store, c.pool, ts)
	hour := rollup.UpdatePoolHourData(p.store, c.pool, ts)

	changes := []Change{
		{Kind: entity.KindFactory, Row: c.factory},
		{Kind: entity.KindToken, Row: c.token0},
		{Kind: entity.KindToken, Row: c.token1},
		{Kind: entity.KindPool, Row: c.pool},
		{Kind: entity.KindPoolDayData, Row: day},
		{Kind: entity.KindPoolHourData, Row: hour},
	}
	return applied(), changes, nil
}
