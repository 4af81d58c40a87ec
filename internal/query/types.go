package query

import "github.com/shopspring/decimal"

// FactoryResponse is the per-chain protocol aggregate for API queries.
type FactoryResponse struct {
	ID            string `json:"id"`
	ChainID       int64  `json:"chain_id"`
	PoolCount     int64  `json:"pool_count"`
	TxCount       int64  `json:"tx_count"`
	NumberOfSwaps int64  `json:"number_of_swaps"`

	TotalVolumeNative  decimal.Decimal `json:"total_volume_native"`
	TotalVolumeUSD     decimal.Decimal `json:"total_volume_usd"`
	UntrackedVolumeUSD decimal.Decimal `json:"untracked_volume_usd"`
	TotalFeesNative    decimal.Decimal `json:"total_fees_native"`
	TotalFeesUSD       decimal.Decimal `json:"total_fees_usd"`

	TotalValueLockedNative decimal.Decimal `json:"total_value_locked_native"`
	TotalValueLockedUSD    decimal.Decimal `json:"total_value_locked_usd"`

	Owner string `json:"owner"`
}

// BundleResponse is the chain's native-asset USD price.
type BundleResponse struct {
	ID             string          `json:"id"`
	ChainID        int64           `json:"chain_id"`
	NativePriceUSD decimal.Decimal `json:"native_price_usd"`
}

// TokenResponse is a token aggregate for API queries.
type TokenResponse struct {
	ID            string `json:"id"`
	ChainID       int64  `json:"chain_id"`
	Address       string `json:"address"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Decimals      int32  `json:"decimals"`
	IsWhitelisted bool   `json:"is_whitelisted"`
	Supported     bool   `json:"supported"`

	Volume             decimal.Decimal `json:"volume"`
	VolumeUSD          decimal.Decimal `json:"volume_usd"`
	UntrackedVolumeUSD decimal.Decimal `json:"untracked_volume_usd"`
	FeesUSD            decimal.Decimal `json:"fees_usd"`
	TxCount            int64           `json:"tx_count"`
	PoolCount          int64           `json:"pool_count"`

	TotalValueLocked    decimal.Decimal `json:"total_value_locked"`
	TotalValueLockedUSD decimal.Decimal `json:"total_value_locked_usd"`
	DerivedNative       decimal.Decimal `json:"derived_native"`

	WhitelistPools []string `json:"whitelist_pools"`
}

// PoolResponse is a pool aggregate for API queries. Raw on-chain integers
// (liquidity, sqrt price) are returned as decimal strings.
type PoolResponse struct {
	ID                   string `json:"id"`
	ChainID              int64  `json:"chain_id"`
	Address              string `json:"address"`
	CreatedAtTimestamp   int64  `json:"created_at_timestamp"`
	CreatedAtBlockNumber int64  `json:"created_at_block_number"`
	Token0ID             string `json:"token0_id"`
	Token1ID             string `json:"token1_id"`
	FeeTier              int64  `json:"fee_tier"`

	Liquidity string `json:"liquidity"`
	SqrtPrice string `json:"sqrt_price"`
	Tick      int32  `json:"tick"`

	Token0Price decimal.Decimal `json:"token0_price"`
	Token1Price decimal.Decimal `json:"token1_price"`

	VolumeToken0       decimal.Decimal `json:"volume_token0"`
	VolumeToken1       decimal.Decimal `json:"volume_token1"`
	VolumeUSD          decimal.Decimal `json:"volume_usd"`
	UntrackedVolumeUSD decimal.Decimal `json:"untracked_volume_usd"`
	FeesUSD            decimal.Decimal `json:"fees_usd"`
	TxCount            int64           `json:"tx_count"`

	CollectedFeesToken0 decimal.Decimal `json:"collected_fees_token0"`
	CollectedFeesToken1 decimal.Decimal `json:"collected_fees_token1"`
	CollectedFeesUSD    decimal.Decimal `json:"collected_fees_usd"`

	TotalValueLockedToken0 decimal.Decimal `json:"total_value_locked_token0"`
	TotalValueLockedToken1 decimal.Decimal `json:"total_value_locked_token1"`
	TotalValueLockedNative decimal.Decimal `json:"total_value_locked_native"`
	TotalValueLockedUSD    decimal.Decimal `json:"total_value_locked_usd"`

	Supported bool `json:"supported"`
}

// TickResponse is a pool tick boundary for API queries.
type TickResponse struct {
	ID      string `json:"id"`
	PoolID  string `json:"pool_id"`
	TickIdx int32  `json:"tick_idx"`

	LiquidityGross string `json:"liquidity_gross"`
	LiquidityNet   string `json:"liquidity_net"`

	Price0 decimal.Decimal `json:"price0"`
	Price1 decimal.Decimal `json:"price1"`
}

// PoolBucketResponse is one OHLC rollup bucket, daily or hourly. Date holds
// the bucket start in unix seconds.
type PoolBucketResponse struct {
	ID     string `json:"id"`
	PoolID string `json:"pool_id"`
	Date   int64  `json:"date"`

	VolumeToken0 decimal.Decimal `json:"volume_token0"`
	VolumeToken1 decimal.Decimal `json:"volume_token1"`
	VolumeUSD    decimal.Decimal `json:"volume_usd"`
	FeesUSD      decimal.Decimal `json:"fees_usd"`
	TxCount      int64           `json:"tx_count"`

	OpeningPrice decimal.Decimal `json:"open"`
	High         decimal.Decimal `json:"high"`
	Low          decimal.Decimal `json:"low"`
	Close        decimal.Decimal `json:"close"`

	Token0Price decimal.Decimal `json:"token0_price"`
	Token1Price decimal.Decimal `json:"token1_price"`
	TVLUSD      decimal.Decimal `json:"tvl_usd"`
}
