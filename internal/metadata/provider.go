// Package metadata resolves ERC-20 token metadata (name, symbol, decimals)
// for pool-creation events. The live implementation calls the chain's
// JSON-RPC endpoint with Redis and in-process caching in front; tests
// substitute a static provider.
package metadata

import (
	"context"
	"strings"
)

// Sentinels used when a token's metadata calls fail or return garbage.
const (
	UnknownName     = "unknown"
	UnknownSymbol   = "UNKNOWN"
	DefaultDecimals = int32(18)
)

// TokenMetadata is the resolved description of one token.
type TokenMetadata struct {
	Name      string
	Symbol    string
	Decimals  int32
	Supported bool
}

// Provider resolves token metadata by chain and address.
type Provider interface {
	Lookup(ctx context.Context, chainID int64, addr string) (TokenMetadata, error)
}

// Static is a fixed-map Provider for tests and offline runs, keyed by
// lowercase address. Missing addresses resolve to the sentinels rather
// than an error.
type Static struct {
	Tokens map[string]TokenMetadata
}

func (s *Static) Lookup(_ context.Context, _ int64, addr string) (TokenMetadata, error) {
	if md, ok := s.Tokens[strings.ToLower(addr)]; ok {
		return md, nil
	}
	return TokenMetadata{
		Name:     UnknownName,
		Symbol:   UnknownSymbol,
		Decimals: DefaultDecimals,
	}, nil
}
