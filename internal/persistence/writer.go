package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"PoolLedger/internal/entity"
)

// EntityWriter projects folded entity state into Postgres using multi-row
// upserts. Every write is INSERT ... ON CONFLICT (id) DO UPDATE, so the
// tables always hold the latest fold state for each entity id and the
// worker can safely re-flush a batch after a partial failure.
type EntityWriter struct {
	db *sql.DB
}

func NewEntityWriter(db *sql.DB) *EntityWriter {
	return &EntityWriter{db: db}
}

// upsertQuery builds a multi-row upsert for table. cols[0] must be the
// conflict key; every other column is overwritten from EXCLUDED on conflict.
func upsertQuery(table string, cols []string, rows int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES ")

	n := len(cols)
	values := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		ph := make([]string, n)
		for j := 0; j < n; j++ {
			ph[j] = fmt.Sprintf("$%d", i*n+j+1)
		}
		values = append(values, "("+strings.Join(ph, ", ")+")")
	}
	b.WriteString(strings.Join(values, ", "))

	b.WriteString(" ON CONFLICT (")
	b.WriteString(cols[0])
	b.WriteString(") DO UPDATE SET ")
	sets := make([]string, 0, n-1)
	for _, c := range cols[1:] {
		sets = append(sets, c+" = EXCLUDED."+c)
	}
	b.WriteString(strings.Join(sets, ", "))
	return b.String()
}

var factoryCols = []string{
	"id", "chain_id", "pool_count", "tx_count", "number_of_swaps",
	"total_volume_native", "total_volume_usd", "untracked_volume_usd",
	"total_fees_native", "total_fees_usd",
	"total_value_locked_native", "total_value_locked_usd",
	"total_value_locked_native_untracked", "total_value_locked_usd_untracked",
	"owner",
}

func (w *EntityWriter) UpsertFactories(ctx context.Context, tx *sql.Tx, rows []*entity.Factory) error {
	if len(rows) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(rows)*len(factoryCols))
	for _, f := range rows {
		args = append(args,
			f.ID, f.ChainID, f.PoolCount, f.TxCount, f.NumberOfSwaps,
			f.TotalVolumeNative, f.TotalVolumeUSD, f.UntrackedVolumeUSD,
			f.TotalFeesNative, f.TotalFeesUSD,
			f.TotalValueLockedNative, f.TotalValueLockedUSD,
			f.TotalValueLockedNativeUntracked, f.TotalValueLockedUSDUntracked,
			f.Owner,
		)
	}
	_, err := tx.ExecContext(ctx, upsertQuery("factories", factoryCols, len(rows)), args...)
	return err
}

var bundleCols = []string{"id", "chain_id", "native_price_usd"}

func (w *EntityWriter) UpsertBundles(ctx context.Context, tx *sql.Tx, rows []*entity.Bundle) error {
	if len(rows) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(rows)*len(bundleCols))
	for _, b := range rows {
		args = append(args, b.ID, b.ChainID, b.NativePriceUSD)
	}
	_, err := tx.ExecContext(ctx, upsertQuery("bundles", bundleCols, len(rows)), args...)
	return err
}

var tokenCols = []string{
	"id", "chain_id", "address", "symbol", "name", "decimals",
	"is_whitelisted", "supported",
	"volume", "volume_usd", "untracked_volume_usd", "fees_usd",
	"tx_count", "pool_count",
	"total_value_locked", "total_value_locked_usd", "total_value_locked_usd_untracked",
	"derived_native", "whitelist_pools",
}

func (w *EntityWriter) UpsertTokens(ctx context.Context, tx *sql.Tx, rows []*entity.Token) error {
	if len(rows) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(rows)*len(tokenCols))
	for _, t := range rows {
		args = append(args,
			t.ID, t.ChainID, t.Address, t.Symbol, t.Name, t.Decimals,
			t.IsWhitelisted, t.Supported,
			t.Volume, t.VolumeUSD, t.UntrackedVolumeUSD, t.FeesUSD,
			t.TxCount, t.PoolCount,
			t.TotalValueLocked, t.TotalValueLockedUSD, t.TotalValueLockedUSDUntracked,
			t.DerivedNative, pq.Array(t.WhitelistPools),
		)
	}
	_, err := tx.ExecContext(ctx, upsertQuery("tokens", tokenCols, len(rows)), args...)
	return err
}

var poolCols = []string{
	"id", "chain_id", "address",
	"created_at_timestamp", "created_at_block_number",
	"token0_id", "token1_id", "fee_tier",
	"liquidity", "sqrt_price", "tick",
	"token0_price", "token1_price",
	"volume_token0", "volume_token1", "volume_usd", "untracked_volume_usd",
	"fees_usd", "tx_count",
	"collected_fees_token0", "collected_fees_token1", "collected_fees_usd",
	"total_value_locked_token0", "total_value_locked_token1",
	"total_value_locked_native", "total_value_locked_usd", "total_value_locked_usd_untracked",
	"liquidity_provider_count", "supported",
}

func (w *EntityWriter) UpsertPools(ctx context.Context, tx *sql.Tx, rows []*entity.Pool) error {
	if len(rows) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(rows)*len(poolCols))
	for _, p := range rows {
		args = append(args,
			p.ID, p.ChainID, p.Address,
			p.CreatedAtTimestamp, p.CreatedAtBlockNumber,
			p.Token0ID, p.Token1ID, p.FeeTier,
			p.Liquidity.String(), p.SqrtPrice.String(), p.Tick,
			p.Token0Price, p.Token1Price,
			p.VolumeToken0, p.VolumeToken1, p.VolumeUSD, p.UntrackedVolumeUSD,
			p.FeesUSD, p.TxCount,
			p.CollectedFeesToken0, p.CollectedFeesToken1, p.CollectedFeesUSD,
			p.TotalValueLockedToken0, p.TotalValueLockedToken1,
			p.TotalValueLockedNative, p.TotalValueLockedUSD, p.TotalValueLockedUSDUntracked,
			p.LiquidityProviderCount, p.Supported,
		)
	}
	_, err := tx.ExecContext(ctx, upsertQuery("pools", poolCols, len(rows)), args...)
	return err
}

var tickCols = []string{
	"id", "pool_id", "tick_idx",
	"created_at_timestamp", "created_at_block_number",
	"liquidity_gross", "liquidity_net",
	"price0", "price1",
}

func (w *EntityWriter) UpsertTicks(ctx context.Context, tx *sql.Tx, rows []*entity.Tick) error {
	if len(rows) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(rows)*len(tickCols))
	for _, t := range rows {
		args = append(args,
			t.ID, t.PoolID, t.TickIdx,
			t.CreatedAtTimestamp, t.CreatedAtBlockNumber,
			t.LiquidityGross.String(), t.LiquidityNet.String(),
			t.Price0, t.Price1,
		)
	}
	_, err := tx.ExecContext(ctx, upsertQuery("ticks", tickCols, len(rows)), args...)
	return err
}

var poolDayCols = []string{
	"id", "pool_id", "date",
	"volume_token0", "volume_token1", "volume_usd", "fees_usd", "tx_count",
	"opening_price", "high", "low", "close",
	"liquidity", "sqrt_price", "token0_price", "token1_price", "tick", "tvl_usd",
}

func (w *EntityWriter) UpsertPoolDayData(ctx context.Context, tx *sql.Tx, rows []*entity.PoolDayData) error {
	if len(rows) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(rows)*len(poolDayCols))
	for _, d := range rows {
		args = append(args,
			d.ID, d.PoolID, d.Date,
			d.VolumeToken0, d.VolumeToken1, d.VolumeUSD, d.FeesUSD, d.TxCount,
			d.OpeningPrice, d.High, d.Low, d.Close,
			d.Liquidity.String(), d.SqrtPrice.String(),
			d.Token0Price, d.Token1Price, d.Tick, d.TVLUSD,
		)
	}
	_, err := tx.ExecContext(ctx, upsertQuery("pool_day_data", poolDayCols, len(rows)), args...)
	return err
}

var poolHourCols = []string{
	"id", "pool_id", "period_start_unix",
	"volume_token0", "volume_token1", "volume_usd", "fees_usd", "tx_count",
	"opening_price", "high", "low", "close",
	"liquidity", "sqrt_price", "token0_price", "token1_price", "tick", "tvl_usd",
}

func (w *EntityWriter) UpsertPoolHourData(ctx context.Context, tx *sql.Tx, rows []*entity.PoolHourData) error {
	if len(rows) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(rows)*len(poolHourCols))
	for _, h := range rows {
		args = append(args,
			h.ID, h.PoolID, h.PeriodStartUnix,
			h.VolumeToken0, h.VolumeToken1, h.VolumeUSD, h.FeesUSD, h.TxCount,
			h.OpeningPrice, h.High, h.Low, h.Close,
			h.Liquidity.String(), h.SqrtPrice.String(),
			h.Token0Price, h.Token1Price, h.Tick, h.TVLUSD,
		)
	}
	_, err := tx.ExecContext(ctx, upsertQuery("pool_hour_data", poolHourCols, len(rows)), args...)
	return err
}
