package entity

import "github.com/shopspring/decimal"

// Token is a per-chain ERC-20 aggregate. Created lazily the first time a
// pool-creation event references the address.
type Token struct {
	ID       string
	ChainID  int64
	Address  string
	Symbol   string
	Name     string
	Decimals int32

	// IsWhitelisted marks the token as a trusted price reference for
	// valuing trades and liquidity on its pools.
	IsWhitelisted bool
	// Supported mirrors the metadata provider's supported-token flag.
	Supported bool

	Volume             decimal.Decimal
	VolumeUSD          decimal.Decimal
	UntrackedVolumeUSD decimal.Decimal
	FeesUSD            decimal.Decimal
	TxCount            int64
	PoolCount          int64

	TotalValueLocked             decimal.Decimal
	TotalValueLockedUSD          decimal.Decimal
	TotalValueLockedUSDUntracked decimal.Decimal

	// DerivedNative is the token's unit price in the chain's native asset,
	// refreshed on every swap touching one of its pools.
	DerivedNative decimal.Decimal

	// WhitelistPools lists pool ids in which this token pairs with a
	// whitelisted counterpart. Price discovery only walks these.
	WhitelistPools []string
}

// NewToken returns a token with zeroed accumulators.
func NewToken(chainID int64, addr string) *Token {
	return &Token{
		ID:             TokenID(chainID, addr),
		ChainID:        chainID,
		Address:        addr,
		WhitelistPools: []string{},
	}
}

// Clone returns an independent copy safe to mutate. The whitelist-pool
// slice is copied so appends on the clone do not alias the stored value.
func (t *Token) Clone() *Token {
	c := *t
	c.WhitelistPools = make([]string, len(t.WhitelistPools))
	copy(c.WhitelistPools, t.WhitelistPools)
	return &c
}
