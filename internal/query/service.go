package query

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"PoolLedger/internal/entity"
)

// ErrNotFound is returned when the requested entity has not been indexed.
var ErrNotFound = errors.New("not found")

const maxPageSize = 1000

// Service provides read-only access to the projected entity tables. All
// reads go to Postgres, never to the in-memory fold state, so answers
// reflect the last flushed batch.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

// GetFactory returns the protocol aggregate for one chain.
func (s *Service) GetFactory(ctx context.Context, chainID int64, factoryAddr string) (*FactoryResponse, error) {
	id := entity.FactoryID(chainID, strings.ToLower(factoryAddr))

	var f FactoryResponse
	err := s.db.QueryRowContext(ctx, `
		SELECT id, chain_id, pool_count, tx_count, number_of_swaps,
		       total_volume_native, total_volume_usd, untracked_volume_usd,
		       total_fees_native, total_fees_usd,
		       total_value_locked_native, total_value_locked_usd, owner
		FROM factories
		WHERE id = $1
	`, id).Scan(
		&f.ID, &f.ChainID, &f.PoolCount, &f.TxCount, &f.NumberOfSwaps,
		&f.TotalVolumeNative, &f.TotalVolumeUSD, &f.UntrackedVolumeUSD,
		&f.TotalFeesNative, &f.TotalFeesUSD,
		&f.TotalValueLockedNative, &f.TotalValueLockedUSD, &f.Owner,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetBundle returns the chain's native-asset USD price.
func (s *Service) GetBundle(ctx context.Context, chainID int64) (*BundleResponse, error) {
	var b BundleResponse
	err := s.db.QueryRowContext(ctx, `
		SELECT id, chain_id, native_price_usd FROM bundles WHERE id = $1
	`, entity.BundleID(chainID)).Scan(&b.ID, &b.ChainID, &b.NativePriceUSD)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

const tokenSelect = `
	SELECT id, chain_id, address, symbol, name, decimals,
	       is_whitelisted, supported,
	       volume, volume_usd, untracked_volume_usd, fees_usd,
	       tx_count, pool_count,
	       total_value_locked, total_value_locked_usd, derived_native,
	       whitelist_pools
	FROM tokens`

func scanToken(row interface{ Scan(...any) error }) (*TokenResponse, error) {
	var t TokenResponse
	err := row.Scan(
		&t.ID, &t.ChainID, &t.Address, &t.Symbol, &t.Name, &t.Decimals,
		&t.IsWhitelisted, &t.Supported,
		&t.Volume, &t.VolumeUSD, &t.UntrackedVolumeUSD, &t.FeesUSD,
		&t.TxCount, &t.PoolCount,
		&t.TotalValueLocked, &t.TotalValueLockedUSD, &t.DerivedNative,
		pq.Array(&t.WhitelistPools),
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetToken returns one token by chain and address.
func (s *Service) GetToken(ctx context.Context, chainID int64, addr string) (*TokenResponse, error) {
	id := entity.TokenID(chainID, strings.ToLower(addr))
	t, err := scanToken(s.db.QueryRowContext(ctx, tokenSelect+` WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return t, err
}

// ListTokens returns a chain's tokens ordered by locked USD value.
func (s *Service) ListTokens(ctx context.Context, chainID int64, limit, offset int) ([]TokenResponse, error) {
	rows, err := s.db.QueryContext(ctx,
		tokenSelect+` WHERE chain_id = $1 ORDER BY total_value_locked_usd DESC, id LIMIT $2 OFFSET $3`,
		chainID, clampLimit(limit), offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []TokenResponse
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, *t)
	}
	return tokens, rows.Err()
}

const poolSelect = `
	SELECT id, chain_id, address, created_at_timestamp, created_at_block_number,
	       token0_id, token1_id, fee_tier,
	       liquidity, sqrt_price, tick,
	       token0_price, token1_price,
	       volume_token0, volume_token1, volume_usd, untracked_volume_usd,
	       fees_usd, tx_count,
	       collected_fees_token0, collected_fees_token1, collected_fees_usd,
	       total_value_locked_token0, total_value_locked_token1,
	       total_value_locked_native, total_value_locked_usd,
	       supported
	FROM pools`

func scanPool(row interface{ Scan(...any) error }) (*PoolResponse, error) {
	var p PoolResponse
	err := row.Scan(
		&p.ID, &p.ChainID, &p.Address, &p.CreatedAtTimestamp, &p.CreatedAtBlockNumber,
		&p.Token0ID, &p.Token1ID, &p.FeeTier,
		&p.Liquidity, &p.SqrtPrice, &p.Tick,
		&p.Token0Price, &p.Token1Price,
		&p.VolumeToken0, &p.VolumeToken1, &p.VolumeUSD, &p.UntrackedVolumeUSD,
		&p.FeesUSD, &p.TxCount,
		&p.CollectedFeesToken0, &p.CollectedFeesToken1, &p.CollectedFeesUSD,
		&p.TotalValueLockedToken0, &p.TotalValueLockedToken1,
		&p.TotalValueLockedNative, &p.TotalValueLockedUSD,
		&p.Supported,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPool returns one pool by chain and address.
func (s *Service) GetPool(ctx context.Context, chainID int64, addr string) (*PoolResponse, error) {
	id := entity.PoolID(chainID, strings.ToLower(addr))
	p, err := scanPool(s.db.QueryRowContext(ctx, poolSelect+` WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

// ListPools returns a chain's pools ordered by locked USD value.
func (s *Service) ListPools(ctx context.Context, chainID int64, limit, offset int) ([]PoolResponse, error) {
	rows, err := s.db.QueryContext(ctx,
		poolSelect+` WHERE chain_id = $1 ORDER BY total_value_locked_usd DESC, id LIMIT $2 OFFSET $3`,
		chainID, clampLimit(limit), offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []PoolResponse
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		pools = append(pools, *p)
	}
	return pools, rows.Err()
}

// GetPoolTicks returns a pool's initialized tick boundaries in index order.
func (s *Service) GetPoolTicks(ctx context.Context, chainID int64, poolAddr string, limit, offset int) ([]TickResponse, error) {
	poolID := entity.PoolID(chainID, strings.ToLower(poolAddr))
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pool_id, tick_idx, liquidity_gross, liquidity_net, price0, price1
		FROM ticks
		WHERE pool_id = $1
		ORDER BY tick_idx
		LIMIT $2 OFFSET $3
	`, poolID, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ticks []TickResponse
	for rows.Next() {
		var t TickResponse
		if err := rows.Scan(
			&t.ID, &t.PoolID, &t.TickIdx,
			&t.LiquidityGross, &t.LiquidityNet, &t.Price0, &t.Price1,
		); err != nil {
			return nil, err
		}
		ticks = append(ticks, t)
	}
	return ticks, rows.Err()
}

// GetPoolDayData returns a pool's daily buckets, most recent first.
func (s *Service) GetPoolDayData(ctx context.Context, chainID int64, poolAddr string, limit int) ([]PoolBucketResponse, error) {
	poolID := entity.PoolID(chainID, strings.ToLower(poolAddr))
	return s.queryBuckets(ctx, `
		SELECT id, pool_id, date,
		       volume_token0, volume_token1, volume_usd, fees_usd, tx_count,
		       opening_price, high, low, close,
		       token0_price, token1_price, tvl_usd
		FROM pool_day_data
		WHERE pool_id = $1
		ORDER BY date DESC
		LIMIT $2
	`, poolID, clampLimit(limit))
}

// GetPoolHourData returns a pool's hourly buckets, most recent first.
func (s *Service) GetPoolHourData(ctx context.Context, chainID int64, poolAddr string, limit int) ([]PoolBucketResponse, error) {
	poolID := entity.PoolID(chainID, strings.ToLower(poolAddr))
	return s.queryBuckets(ctx, `
		SELECT id, pool_id, period_start_unix,
		       volume_token0, volume_token1, volume_usd, fees_usd, tx_count,
		       opening_price, high, low, close,
		       token0_price, token1_price, tvl_usd
		FROM pool_hour_data
		WHERE pool_id = $1
		ORDER BY period_start_unix DESC
		LIMIT $2
	`, poolID, clampLimit(limit))
}

func (s *Service) queryBuckets(ctx context.Context, q string, args ...any) ([]PoolBucketResponse, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []PoolBucketResponse
	for rows.Next() {
		var b PoolBucketResponse
		if err := rows.Scan(
			&b.ID, &b.PoolID, &b.Date,
			&b.VolumeToken0, &b.VolumeToken1, &b.VolumeUSD, &b.FeesUSD, &b.TxCount,
			&b.OpeningPrice, &b.High, &b.Low, &b.Close,
			&b.Token0Price, &b.Token1Price, &b.TVLUSD,
		); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}
