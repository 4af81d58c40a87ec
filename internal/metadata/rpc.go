package metadata

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"PoolLedger/internal/chains"
	"PoolLedger/internal/observability"
)

// ERC-20 function selectors. The uppercase NAME()/SYMBOL() pair covers
// pre-standard tokens (MKR, SAI) that return bytes32 instead of string.
const (
	selectorName     = "0x06fdde03"
	selectorSymbol   = "0x95d89b41"
	selectorDecimals = "0x313ce567"
	selectorNameB32  = "0xa3f4df7e"
	selectorSymB32   = "0xf76f8d78"
)

const maxSymbolLen = 64

// RPCProvider resolves token metadata over the chain's JSON-RPC endpoint
// with three eth_call reads per token. Any individual read that fails or
// returns garbage falls back to the sentinels; Lookup only errors when no
// endpoint is configured for the chain.
type RPCProvider struct {
	endpoints map[int64]string
	registry  *chains.Registry
	client    *http.Client
	metrics   *observability.Metrics
	log       zerolog.Logger
}

func NewRPCProvider(
	endpoints map[int64]string,
	registry *chains.Registry,
	metrics *observability.Metrics,
	log zerolog.Logger,
) *RPCProvider {
	return &RPCProvider{
		endpoints: endpoints,
		registry:  registry,
		client:    &http.Client{Timeout: 10 * time.Second},
		metrics:   metrics,
		log:       log.With().Str("component", "metadata").Logger(),
	}
}

func (p *RPCProvider) Lookup(ctx context.Context, chainID int64, addr string) (TokenMetadata, error) {
	addr = strings.ToLower(addr)

	cfg, cfgOK := p.registry.Get(chainID)

	// The zero address stands for the chain's native asset; its metadata
	// comes from chain config, not from a contract.
	if cfgOK && addr == zeroAddress {
		return TokenMetadata{
			Name:      cfg.NativeToken.Name,
			Symbol:    cfg.NativeToken.Symbol,
			Decimals:  cfg.NativeToken.Decimals,
			Supported: cfg.IsSupported(addr),
		}, nil
	}

	endpoint, ok := p.endpoints[chainID]
	if !ok {
		return TokenMetadata{}, fmt.Errorf("no rpc endpoint for chain %d", chainID)
	}

	start := time.Now()
	md := TokenMetadata{
		Name:     p.fetchString(ctx, endpoint, addr, selectorName, selectorNameB32, UnknownName),
		Symbol:   p.fetchString(ctx, endpoint, addr, selectorSymbol, selectorSymB32, UnknownSymbol),
		Decimals: p.fetchDecimals(ctx, endpoint, addr),
	}
	if cfgOK {
		md.Supported = cfg.IsSupported(addr)
	}

	if p.metrics != nil {
		p.metrics.MetadataDuration.Observe(time.Since(start).Seconds())
		outcome := "resolved"
		if md.Name == UnknownName && md.Symbol == UnknownSymbol {
			outcome = "fallback"
		}
		p.metrics.MetadataLookups.WithLabelValues(outcome).Inc()
	}

	return md, nil
}

// fetchString tries the standard string-returning call first, then the
// bytes32 variant, then the sentinel.
func (p *RPCProvider) fetchString(ctx context.Context, endpoint, addr, selector, b32Selector, sentinel string) string {
	if raw, err := p.ethCall(ctx, endpoint, addr, selector); err == nil {
		if s, ok := decodeABIString(raw); ok {
			if clean := sanitize(s); clean != "" {
				return clean
			}
		}
	}
	if raw, err := p.ethCall(ctx, endpoint, addr, b32Selector); err == nil {
		if s, ok := decodeBytes32String(raw); ok {
			if clean := sanitize(s); clean != "" {
				return clean
			}
		}
	}
	return sentinel
}

func (p *RPCProvider) fetchDecimals(ctx context.Context, endpoint, addr string) int32 {
	raw, err := p.ethCall(ctx, endpoint, addr, selectorDecimals)
	if err != nil {
		return DefaultDecimals
	}
	d, ok := decodeUint(raw)
	if !ok || d > 255 {
		return DefaultDecimals
	}
	return int32(d)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type callParams struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

// ethCall performs one eth_call against the latest block and returns the
// decoded return bytes.
func (p *RPCProvider) ethCall(ctx context.Context, endpoint, to, data string) ([]byte, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "eth_call",
		Params:  []any{callParams{To: to, Data: data}, "latest"},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var out rpcResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", out.Error.Code, out.Error.Message)
	}

	return hex.DecodeString(strings.TrimPrefix(out.Result, "0x"))
}

// decodeABIString decodes a dynamically-sized ABI string return value:
// a 32-byte offset, a 32-byte length, then the padded bytes.
func decodeABIString(raw []byte) (string, bool) {
	if len(raw) < 64 {
		return "", false
	}
	offset := new(big.Int).SetBytes(raw[:32])
	if !offset.IsInt64() || offset.Int64()+32 > int64(len(raw)) {
		return "", false
	}
	o := offset.Int64()
	length := new(big.Int).SetBytes(raw[o : o+32])
	if !length.IsInt64() || o+32+length.Int64() > int64(len(raw)) {
		return "", false
	}
	return string(raw[o+32 : o+32+length.Int64()]), true
}

// decodeBytes32String decodes a fixed bytes32 return, trimmed at the first
// NUL byte.
func decodeBytes32String(raw []byte) (string, bool) {
	if len(raw) < 32 {
		return "", false
	}
	b := raw[:32]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if len(b) == 0 {
		return "", false
	}
	return string(b), true
}

func decodeUint(raw []byte) (uint64, bool) {
	if len(raw) < 32 {
		return 0, false
	}
	v := new(big.Int).SetBytes(raw[:32])
	if !v.IsUint64() {
		return 0, false
	}
	return v.Uint64(), true
}

// sanitize keeps printable ASCII and caps length; a metadata value that
// survives with nothing left is treated as garbage.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 0x20 && r < 0x7f {
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if len(out) > maxSymbolLen {
		out = out[:maxSymbolLen]
	}
	return out
}

const zeroAddress = "0x0000000000000000000000000000000000000000"
