// Package chains holds per-chain indexing parameters: the factory to watch,
// the native token, the whitelist of trusted price references, the
// stablecoin/native reference pool used for USD pricing, and pools known to
// be bad price sources. Built-in defaults cover the supported chains; a
// YAML file can override or extend them.
package chains

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// NativeTokenDetails describes the chain's native asset, used when a pool
// references the zero address and for converting native-denominated values.
type NativeTokenDetails struct {
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals int32  `yaml:"decimals"`
}

// TokenOverride pins metadata for tokens whose on-chain name/symbol calls
// misbehave (bytes32 returns, self-destructed proxies, and the like).
type TokenOverride struct {
	Address  string `yaml:"address"`
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals int32  `yaml:"decimals"`
}

// Config is one chain's parameter set.
type Config struct {
	ChainID        int64              `yaml:"chain_id"`
	FactoryAddress string             `yaml:"factory_address"`
	NativeToken    NativeTokenDetails `yaml:"native_token"`

	// WrappedNativeAddress short-circuits price discovery to 1.
	WrappedNativeAddress string `yaml:"wrapped_native_address"`

	// StablecoinAddresses short-circuit price discovery to 1/bundle price.
	StablecoinAddresses []string `yaml:"stablecoin_addresses"`

	// WhitelistTokens are trusted price references; pools pairing with one
	// are recorded on the counterpart token's whitelist-pool list.
	WhitelistTokens []string `yaml:"whitelist_tokens"`

	// StablecoinWrappedNativePool is the reference pool address whose
	// current price defines the bundle's native/USD rate.
	StablecoinWrappedNativePool string `yaml:"stablecoin_wrapped_native_pool"`
	StablecoinIsToken0          bool   `yaml:"stablecoin_is_token0"`

	// MinimumNativeLocked is the native-denominated liquidity floor a pool
	// must exceed to qualify as a price-discovery route.
	MinimumNativeLocked decimal.Decimal `yaml:"minimum_native_locked"`

	// PoolsToSkip are known-bad price sources: their events are dropped
	// before any mutation.
	PoolsToSkip []string `yaml:"pools_to_skip"`

	TokenOverrides []TokenOverride `yaml:"token_overrides"`

	// SupportedTokens flag addresses carried through to the token entity.
	SupportedTokens []string `yaml:"supported_tokens"`
}

// IsWhitelisted reports whether addr is a trusted price reference.
func (c *Config) IsWhitelisted(addr string) bool {
	return containsAddress(c.WhitelistTokens, addr)
}

// IsStablecoin reports whether addr is one of the chain's stablecoins.
func (c *Config) IsStablecoin(addr string) bool {
	return containsAddress(c.StablecoinAddresses, addr)
}

// ShouldSkipPool reports whether the pool address is denylisted.
func (c *Config) ShouldSkipPool(addr string) bool {
	return containsAddress(c.PoolsToSkip, addr)
}

// IsSupported reports whether addr is in the supported-token set.
func (c *Config) IsSupported(addr string) bool {
	return containsAddress(c.SupportedTokens, addr)
}

// OverrideFor returns the metadata override for addr, if any.
func (c *Config) OverrideFor(addr string) (TokenOverride, bool) {
	for _, o := range c.TokenOverrides {
		if strings.EqualFold(o.Address, addr) {
			return o, true
		}
	}
	return TokenOverride{}, false
}

func containsAddress(list []string, addr string) bool {
	for _, a := range list {
		if strings.EqualFold(a, addr) {
			return true
		}
	}
	return false
}

// Registry maps chain id to configuration.
type Registry struct {
	configs map[int64]*Config
}

// NewRegistry returns a registry seeded with the built-in defaults.
func NewRegistry() *Registry {
	r := &Registry{configs: make(map[int64]*Config)}
	for _, c := range defaultConfigs() {
		r.configs[c.ChainID] = c
	}
	return r
}

// Get returns the configuration for a chain id.
func (r *Registry) Get(chainID int64) (*Config, bool) {
	c, ok := r.configs[chainID]
	return c, ok
}

// ChainIDs returns all configured chain ids.
func (r *Registry) ChainIDs() []int64 {
	ids := make([]int64, 0, len(r.configs))
	for id := range r.configs {
		ids = append(ids, id)
	}
	return ids
}

// fileSchema is the YAML override file layout.
type fileSchema struct {
	Chains []*Config `yaml:"chains"`
}

// LoadFile merges chain configurations from a YAML file into the registry.
// A chain present in the file replaces the built-in default wholesale.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read chain config: %w", err)
	}

	var f fileSchema
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse chain config: %w", err)
	}

	for _, c := range f.Chains {
		if c.ChainID == 0 {
			return fmt.Errorf("chain config entry missing chain_id")
		}
		if c.FactoryAddress == "" {
			return fmt.Errorf("chain %d: missing factory_address", c.ChainID)
		}
		if c.NativeToken.Decimals == 0 {
			c.NativeToken.Decimals = 18
		}
		r.configs[c.ChainID] = c
	}
	return nil
}

func defaultConfigs() []*Config {
	minLocked := decimal.NewFromInt(60)

	return []*Config{
		{
			ChainID:        1,
			FactoryAddress: "0x1f98431c8ad98523631ae4a59f267346ea31f984",
			NativeToken:    NativeTokenDetails{Name: "Ether", Symbol: "ETH", Decimals: 18},

			WrappedNativeAddress: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
			StablecoinAddresses: []string{
				"0x6b175474e89094c44da98b954eedeac495271d0f", // DAI
				"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", // USDC
				"0xdac17f958d2ee523a2206206994597c13d831ec7", // USDT
			},
			WhitelistTokens: []string{
				"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", // WETH
				"0x6b175474e89094c44da98b954eedeac495271d0f", // DAI
				"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", // USDC
				"0xdac17f958d2ee523a2206206994597c13d831ec7", // USDT
				"0x2260fac5e5542a773aa44fbcfedf7c193bc2c599", // WBTC
			},
			StablecoinWrappedNativePool: "0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640", // USDC/WETH 0.05%
			StablecoinIsToken0:          true,
			MinimumNativeLocked:         minLocked,
			SupportedTokens: []string{
				"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", // WETH
				"0x6b175474e89094c44da98b954eedeac495271d0f", // DAI
				"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", // USDC
				"0xdac17f958d2ee523a2206206994597c13d831ec7", // USDT
				"0x2260fac5e5542a773aa44fbcfedf7c193bc2c599", // WBTC
			},
		},
		{
			ChainID:        10,
			FactoryAddress: "0x1f98431c8ad98523631ae4a59f267346ea31f984",
			NativeToken:    NativeTokenDetails{Name: "Ether", Symbol: "ETH", Decimals: 18},

			WrappedNativeAddress: "0x4200000000000000000000000000000000000006",
			StablecoinAddresses: []string{
				"0x7f5c764cbc14f9669b88837ca1490cca17c31607", // USDC.e
				"0xda10009cbd5d07dd0cecc66161fc93d7c9000da1", // DAI
			},
			WhitelistTokens: []string{
				"0x4200000000000000000000000000000000000006", // WETH
				"0x7f5c764cbc14f9669b88837ca1490cca17c31607", // USDC.e
				"0xda10009cbd5d07dd0cecc66161fc93d7c9000da1", // DAI
				"0x68f180fcce6836688e9084f035309e29bf0a2095", // WBTC
			},
			StablecoinWrappedNativePool: "0x85149247691df622eaf1a8bd0cafd40bc45154a9", // WETH/USDC.e 0.05%
			StablecoinIsToken0:          false,
			MinimumNativeLocked:         minLocked,
			SupportedTokens: []string{
				"0x4200000000000000000000000000000000000006", // WETH
				"0x7f5c764cbc14f9669b88837ca1490cca17c31607", // USDC.e
				"0xda10009cbd5d07dd0cecc66161fc93d7c9000da1", // DAI
			},
		},
		{
			ChainID:        8453,
			FactoryAddress: "0x33128a8fc17869897dce68ed026d694621f6fdfd",
			NativeToken:    NativeTokenDetails{Name: "Ether", Symbol: "ETH", Decimals: 18},

			WrappedNativeAddress: "0x4200000000000000000000000000000000000006",
			StablecoinAddresses: []string{
				"0x833589fcd6edb6e08f4c7c32d4f71b54bda02913", // USDC
				"0xd9aaec86b65d86f6a7b5b1b0c42ffa531710b6ca", // USDbC
			},
			WhitelistTokens: []string{
				"0x4200000000000000000000000000000000000006", // WETH
				"0x833589fcd6edb6e08f4c7c32d4f71b54bda02913", // USDC
				"0xd9aaec86b65d86f6a7b5b1b0c42ffa531710b6ca", // USDbC
			},
			StablecoinWrappedNativePool: "0xd0b53d9277642d899df5c87a3966a349a798f224", // WETH/USDC 0.05%
			StablecoinIsToken0:          false,
			MinimumNativeLocked:         minLocked,
			SupportedTokens: []string{
				"0x4200000000000000000000000000000000000006", // WETH
				"0x833589fcd6edb6e08f4c7c32d4f71b54bda02913", // USDC
			},
			PoolsToSkip: []string{
				// Known-bad price source; events from it are dropped.
				"0x9663f2ca0454accad3e094448ea6f77443880454",
			},
		},
	}
}
