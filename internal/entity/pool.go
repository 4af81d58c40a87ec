package entity

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Pool is the central aggregate: one record per exchange pool contract.
// Liquidity and sqrt-price are raw on-chain integers (u128 / Q64.96), kept
// as big.Int; every human-scaled amount is a decimal.
type Pool struct {
	ID      string
	ChainID int64
	Address string

	CreatedAtTimestamp   int64
	CreatedAtBlockNumber int64

	Token0ID string
	Token1ID string
	FeeTier  int64 // parts-per-million of trade value

	// Liquidity is the in-range liquidity at the current tick. Mint/Burn
	// adjust it incrementally when their range straddles the current tick;
	// Swap overwrites it with the authoritative post-trade value.
	Liquidity *big.Int
	SqrtPrice *big.Int
	Tick      int32

	Token0Price decimal.Decimal
	Token1Price decimal.Decimal

	VolumeToken0       decimal.Decimal
	VolumeToken1       decimal.Decimal
	VolumeUSD          decimal.Decimal
	UntrackedVolumeUSD decimal.Decimal
	FeesUSD            decimal.Decimal
	TxCount            int64

	CollectedFeesToken0 decimal.Decimal
	CollectedFeesToken1 decimal.Decimal
	CollectedFeesUSD    decimal.Decimal

	TotalValueLockedToken0       decimal.Decimal
	TotalValueLockedToken1       decimal.Decimal
	TotalValueLockedNative       decimal.Decimal
	TotalValueLockedUSD          decimal.Decimal
	TotalValueLockedUSDUntracked decimal.Decimal

	LiquidityProviderCount int64
	Supported              bool
}

// NewPool returns a pool with zeroed accumulators.
func NewPool(chainID int64, addr string) *Pool {
	return &Pool{
		ID:        PoolID(chainID, addr),
		ChainID:   chainID,
		Address:   addr,
		Liquidity: new(big.Int),
		SqrtPrice: new(big.Int),
	}
}

// Clone returns an independent copy safe to mutate. The big.Int fields are
// copied, never shared: a handler mutating its working copy must not reach
// back into the stored value.
func (p *Pool) Clone() *Pool {
	c := *p
	c.Liquidity = new(big.Int).Set(p.Liquidity)
	c.SqrtPrice = new(big.Int).Set(p.SqrtPrice)
	return &c
}
