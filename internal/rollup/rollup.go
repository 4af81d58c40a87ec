// Package rollup maintains the per-pool day and hour aggregates. Update
// functions bump the bucket's tx count, fold the current price into the
// OHLC fields and refresh the pool snapshot; the caller accrues volume and
// fees onto the returned bucket and stores it again.
package rollup

import (
	"PoolLedger/internal/entity"
)

// Buckets is the slice of the entity store the rollups touch.
type Buckets interface {
	GetPoolDayData(id string) (*entity.PoolDayData, bool)
	SetPoolDayData(d *entity.PoolDayData)
	GetPoolHourData(id string) (*entity.PoolHourData, bool)
	SetPoolHourData(h *entity.PoolHourData)
}

const (
	daySeconds  = 86400
	hourSeconds = 3600
)

// UpdatePoolDayData rolls the pool's current state into the day bucket for
// timestamp, creating the bucket on first touch. New buckets open at the
// pool's current token0 price.
func UpdatePoolDayData(b Buckets, pool *entity.Pool, timestamp int64) *entity.PoolDayData {
	dayIndex := timestamp / daySeconds
	id := entity.PoolDayDataID(pool.ID, dayIndex)

	day, ok := b.GetPoolDayData(id)
	if !ok {
		day = &entity.PoolDayData{
			ID:           id,
			PoolID:       pool.ID,
			Date:         dayIndex * daySeconds,
			OpeningPrice: pool.Token0Price,
			High:         pool.Token0Price,
			Low:          pool.Token0Price,
			Close:        pool.Token0Price,
		}
	}

	if pool.Token0Price.GreaterThan(day.High) {
		day.High = pool.Token0Price
	}
	if pool.Token0Price.LessThan(day.Low) {
		day.Low = pool.Token0Price
	}

	day.Liquidity = pool.Liquidity
	day.SqrtPrice = pool.SqrtPrice
	day.Token0Price = pool.Token0Price
	day.Token1Price = pool.Token1Price
	day.Close = pool.Token0Price
	day.Tick = pool.Tick
	day.TVLUSD = pool.TotalValueLockedUSD
	day.TxCount++

	b.SetPoolDayData(day)
	return day
}

// UpdatePoolHourData is the hourly counterpart of UpdatePoolDayData.
func UpdatePoolHourData(b Buckets, pool *entity.Pool, timestamp int64) *entity.PoolHourData {
	hourIndex := timestamp / hourSeconds
	id := entity.PoolHourDataID(pool.ID, hourIndex)

	hour, ok := b.GetPoolHourData(id)
	if !ok {
		hour = &entity.PoolHourData{
			ID:              id,
			PoolID:          pool.ID,
			PeriodStartUnix: hourIndex * hourSeconds,
			OpeningPrice:    pool.Token0Price,
			High:            pool.Token0Price,
			Low:             pool.Token0Price,
			Close:           pool.Token0Price,
		}
	}

	if pool.Token0Price.GreaterThan(hour.High) {
		hour.High = pool.Token0Price
	}
	if pool.Token0Price.LessThan(hour.Low) {
		hour.Low = pool.Token0Price
	}

	hour.Liquidity = pool.Liquidity
	hour.SqrtPrice = pool.SqrtPrice
	hour.Token0Price = pool.Token0Price
	hour.Token1Price = pool.Token1Price
	hour.Close = pool.Token0Price
	hour.Tick = pool.Tick
	hour.TVLUSD = pool.TotalValueLockedUSD
	hour.TxCount++

	b.SetPoolHourData(hour)
	return hour
}
