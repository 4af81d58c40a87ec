package core

import (
	"math/big"

	"PoolLedger/internal/entity"
	"PoolLedger/internal/event"
	"PoolLedger/internal/rollup"
)

// handleBurn folds a liquidity remove. Locked value is not reduced here:
// burning moves tokens into uncollected fees, and TVL only drops when a
// Collect withdraws them. Boundary ticks are only touched when both already
// exist; a burn can never create a tick.
func (p *Processor) handleBurn(e *event.Burn) (Outcome, []Change, error) {
	c, outcome := p.loadPoolContext(e.Meta.Source)
	if outcome.Status == StatusSkipped {
		return outcome, nil, nil
	}

	c.factory.TxCount++
	c.token0.TxCount++
	c.token1.TxCount++

	c.pool.TxCount++
	if e.TickLower <= c.pool.Tick && c.pool.Tick < e.TickUpper {
		c.pool.Liquidity = new(big.Int).Sub(c.pool.Liquidity, e.Amount)
	}

	changes := []Change{
		{Kind: entity.KindFactory, Row: c.factory},
		{Kind: entity.KindToken, Row: c.token0},
		{Kind: entity.KindToken, Row: c.token1},
		{Kind: entity.KindPool, Row: c.pool},
	}

	lower, lowerOK := p.store.GetTick(entity.TickID(c.pool.ID, e.TickLower))
	upper, upperOK := p.store.GetTick(entity.TickID(c.pool.ID, e.TickUpper))
	if lowerOK && upperOK {
		lower.LiquidityGross = new(big.Int).Sub(lower.LiquidityGross, e.Amount)
		lower.LiquidityNet = new(big.Int).Sub(lower.LiquidityNet, e.Amount)
		upper.LiquidityGross = new(big.Int).Sub(upper.LiquidityGross, e.Amount)
		upper.LiquidityNet = new(big.Int).Add(upper.LiquidityNet, e.Amount)

		p.store.SetTick(lower)
		p.store.SetTick(upper)
		changes = append(changes,
			Change{Kind: entity.KindTick, Row: lower},
			Change{Kind: entity.KindTick, Row: upper},
		)
	}

	p.store.SetPool(c.pool)
	p.store.SetToken(c.token0)
	p.store.SetToken(c.token1)
	p.store.SetFactory(c.factory)

	ts := e.Meta.Timestamp.Unix()
	day := rollup.UpdatePoolDayData(p.store, c.pool, ts)
	hour := rollup.UpdatePoolHourData(p.store, c.pool, ts)

	changes = append(changes,
		Change{Kind: entity.KindPoolDayData, Row: day},
		Change{Kind: entity.KindPoolHourData, Row: hour},
	)
	return applied(), changes, nil
}
