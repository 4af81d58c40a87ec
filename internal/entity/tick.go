package entity

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Tick is the per-boundary liquidity record, keyed "{poolId}#{tickIdx}".
// Created lazily the first time a mint references the index as a range
// boundary; mutated by mint/burn; never deleted, even at zero liquidity.
type Tick struct {
	ID      string
	PoolID  string
	TickIdx int32

	CreatedAtTimestamp   int64
	CreatedAtBlockNumber int64

	// LiquidityGross is the total liquidity referencing this boundary.
	// LiquidityNet is signed: the delta applied to in-range liquidity when
	// the execution price crosses this tick upward.
	LiquidityGross *big.Int
	LiquidityNet   *big.Int

	// Price0 is 1.0001^tickIdx (token1 per token0 at this boundary);
	// Price1 is its reciprocal. Both set once at creation.
	Price0 decimal.Decimal
	Price1 decimal.Decimal
}

// NewTick returns a tick with zero liquidity. The caller seeds Price0 and
// Price1 from the tick price formula.
func NewTick(poolID string, tickIdx int32, timestamp, blockNumber int64) *Tick {
	return &Tick{
		ID:                   TickID(poolID, tickIdx),
		PoolID:               poolID,
		TickIdx:              tickIdx,
		CreatedAtTimestamp:   timestamp,
		CreatedAtBlockNumber: blockNumber,
		LiquidityGross:       new(big.Int),
		LiquidityNet:         new(big.Int),
	}
}

// Clone returns an independent copy safe to mutate.
func (t *Tick) Clone() *Tick {
	c := *t
	c.LiquidityGross = new(big.Int).Set(t.LiquidityGross)
	c.LiquidityNet = new(big.Int).Set(t.LiquidityNet)
	return &c
}
