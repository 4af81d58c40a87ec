package core

import (
	"strings"

	"PoolLedger/internal/entity"
	"PoolLedger/internal/numeric"
)

// foldCtx is the entity set every pool-scoped handler operates on.
type foldCtx struct {
	pool    *entity.Pool
	factory *entity.Factory
	bundle  *entity.Bundle
	token0  *entity.Token
	token1  *entity.Token
}

// loadPoolContext resolves the emitting pool and its dependent entities.
// An unindexed pool is a skip: events for pools created before the indexer's
// start block, or denylisted at creation, arrive here and are dropped.
func (p *Processor) loadPoolContext(source string) (*foldCtx, Outcome) {
	poolID := entity.PoolID(p.cfg.ChainID, strings.ToLower(source))
	pool, ok := p.store.GetPool(poolID)
	if !ok {
		return nil, skipped(ReasonPoolNotFound)
	}

	factory, ok := p.store.GetFactory(entity.FactoryID(p.cfg.ChainID, p.cfg.FactoryAddress))
	if !ok {
		return nil, skipped(ReasonMissingDependency)
	}
	bundle, ok := p.store.GetBundle(entity.BundleID(p.cfg.ChainID))
	if !ok {
		return nil, skipped(ReasonMissingDependency)
	}
	token0, ok := p.store.GetToken(pool.Token0ID)
	if !ok {
		return nil, skipped(ReasonMissingDependency)
	}
	token1, ok := p.store.GetToken(pool.Token1ID)
	if !ok {
		return nil, skipped(ReasonMissingDependency)
	}

	return &foldCtx{
		pool:    pool,
		factory: factory,
		bundle:  bundle,
		token0:  token0,
		token1:  token1,
	}, applied()
}

// getOrCreateTick loads a boundary tick or creates it with its price set
// from the tick formula. Prices are fixed at creation; liquidity fields are
// the only mutable state.
func (p *Processor) getOrCreateTick(poolID string, tickIdx int32, timestamp, blockNumber int64) *entity.Tick {
	id := entity.TickID(poolID, tickIdx)
	if t, ok := p.store.GetTick(id); ok {
		return t
	}
	t := entity.NewTick(poolID, tickIdx, timestamp, blockNumber)
	t.Price0 = numeric.TickPrice(tickIdx)
	t.Price1 = numeric.SafeDiv(numeric.One, t.Price0)
	return t
}

// refreshPoolTVL recomputes the pool's native and USD locked value from its
// per-token locked amounts and the current derived prices. The untracked
// variant is left alone: it stays at its creation-time zero.
func refreshPoolTVL(c *foldCtx) {
	c.pool.TotalValueLockedNative = c.pool.TotalValueLockedToken0.Mul(c.token0.DerivedNative).
		Add(c.pool.TotalValueLockedToken1.Mul(c.token1.DerivedNative))
	c.pool.TotalValueLockedUSD = c.pool.TotalValueLockedNative.Mul(c.bundle.NativePriceUSD)
}

// refreshTokenTVL recomputes one token's USD locked value.
func refreshTokenTVL(t *entity.Token, bundle *entity.Bundle) {
	t.TotalValueLockedUSD = t.TotalValueLocked.Mul(t.DerivedNative).Mul(bundle.NativePriceUSD)
}
