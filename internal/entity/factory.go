package entity

import "github.com/shopspring/decimal"

// Factory is the per-chain protocol aggregate. It is keyed by chain id
// rather than held as a process-wide singleton, so get-or-create on first
// reference is a conventional store lookup.
type Factory struct {
	ID            string
	ChainID       int64
	PoolCount     int64
	TxCount       int64
	NumberOfSwaps int64

	TotalVolumeNative  decimal.Decimal
	TotalVolumeUSD     decimal.Decimal
	UntrackedVolumeUSD decimal.Decimal
	TotalFeesNative    decimal.Decimal
	TotalFeesUSD       decimal.Decimal

	TotalValueLockedNative          decimal.Decimal
	TotalValueLockedUSD             decimal.Decimal
	TotalValueLockedNativeUntracked decimal.Decimal
	TotalValueLockedUSDUntracked    decimal.Decimal

	Owner string
}

// NewFactory returns a factory with zeroed accumulators.
func NewFactory(chainID int64, factoryAddr string) *Factory {
	return &Factory{
		ID:      FactoryID(chainID, factoryAddr),
		ChainID: chainID,
		Owner:   AddressZero,
	}
}

// Clone returns an independent copy safe to mutate.
func (f *Factory) Clone() *Factory {
	c := *f
	return &c
}

// Bundle holds the chain's native-asset price in USD. Single instance per
// chain, keyed by chain id.
type Bundle struct {
	ID             string
	ChainID        int64
	NativePriceUSD decimal.Decimal
}

// NewBundle returns a bundle with a zero native price.
func NewBundle(chainID int64) *Bundle {
	return &Bundle{
		ID:      BundleID(chainID),
		ChainID: chainID,
	}
}

// Clone returns an independent copy safe to mutate.
func (b *Bundle) Clone() *Bundle {
	c := *b
	return &c
}

// AddressZero is the canonical zero address, used as the factory owner
// placeholder and as the native-token marker in metadata lookups.
const AddressZero = "0x0000000000000000000000000000000000000000"
