package entity

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// PoolDayData is the daily rollup for one pool, keyed "{poolId}-{dayIndex}"
// with dayIndex = floor(timestamp/86400). Created lazily on the first event
// in the bucket; once the bucket is superseded it is never touched again.
type PoolDayData struct {
	ID     string
	PoolID string
	// Date is the bucket start (dayIndex * 86400), unix seconds.
	Date int64

	VolumeToken0 decimal.Decimal
	VolumeToken1 decimal.Decimal
	VolumeUSD    decimal.Decimal
	FeesUSD      decimal.Decimal
	TxCount      int64

	OpeningPrice decimal.Decimal
	High         decimal.Decimal
	Low          decimal.Decimal
	Close        decimal.Decimal

	// Snapshots of the pool at the last update within the bucket.
	Liquidity   *big.Int
	SqrtPrice   *big.Int
	Token0Price decimal.Decimal
	Token1Price decimal.Decimal
	Tick        int32
	TVLUSD      decimal.Decimal
}

// Clone returns an independent copy safe to mutate.
func (d *PoolDayData) Clone() *PoolDayData {
	c := *d
	c.Liquidity = new(big.Int).Set(d.Liquidity)
	c.SqrtPrice = new(big.Int).Set(d.SqrtPrice)
	return &c
}

// PoolHourData is the hourly rollup, keyed "{poolId}-{hourIndex}" with
// hourIndex = floor(timestamp/3600).
type PoolHourData struct {
	ID     string
	PoolID string
	// PeriodStartUnix is the bucket start (hourIndex * 3600), unix seconds.
	PeriodStartUnix int64

	VolumeToken0 decimal.Decimal
	VolumeToken1 decimal.Decimal
	VolumeUSD    decimal.Decimal
	FeesUSD      decimal.Decimal
	TxCount      int64

	OpeningPrice decimal.Decimal
	High         decimal.Decimal
	Low          decimal.Decimal
	Close        decimal.Decimal

	Liquidity   *big.Int
	SqrtPrice   *big.Int
	Token0Price decimal.Decimal
	Token1Price decimal.Decimal
	Tick        int32
	TVLUSD      decimal.Decimal
}

// Clone returns an independent copy safe to mutate.
func (h *PoolHourData) Clone() *PoolHourData {
	c := *h
	c.Liquidity = new(big.Int).Set(h.Liquidity)
	c.SqrtPrice = new(big.Int).Set(h.SqrtPrice)
	return &c
}
