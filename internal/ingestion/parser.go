package ingestion

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"PoolLedger/internal/event"
)

// ParseRawEvent converts a raw NATS payload into a typed event. Payloads
// carry a flat JSON object with an event_type discriminator; raw on-chain
// integers (amounts, liquidity, sqrt-price) travel as decimal strings since
// they exceed 64 bits.
func ParseRawEvent(raw RawEvent) (event.Event, error) {
	var head struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(raw.Data, &head); err != nil {
		return nil, fmt.Errorf("parse envelope: %w", err)
	}

	switch head.EventType {
	case "PoolCreated":
		return parsePoolCreated(raw.Data)
	case "Mint":
		return parseMint(raw.Data)
	case "Burn":
		return parseBurn(raw.Data)
	case "Collect":
		return parseCollect(raw.Data)
	case "Swap":
		return parseSwap(raw.Data)
	default:
		return nil, fmt.Errorf("unknown event type: %q", head.EventType)
	}
}

// --- JSON wire formats ---
// Field names use snake_case to match the upstream log extractor.

type metaJSON struct {
	ChainID     int64  `json:"chain_id"`
	Address     string `json:"address"`
	TxHash      string `json:"tx_hash"`
	BlockNumber int64  `json:"block_number"`
	LogIndex    int64  `json:"log_index"`
	Timestamp   int64  `json:"timestamp"`
}

func (m metaJSON) toMeta() (event.Meta, error) {
	if m.ChainID == 0 {
		return event.Meta{}, fmt.Errorf("missing chain_id")
	}
	if m.Address == "" {
		return event.Meta{}, fmt.Errorf("missing address")
	}
	if m.BlockNumber <= 0 {
		return event.Meta{}, fmt.Errorf("missing block_number")
	}
	return event.Meta{
		ChainID:     m.ChainID,
		Source:      m.Address,
		TxHash:      m.TxHash,
		BlockNumber: m.BlockNumber,
		LogIndex:    m.LogIndex,
		Timestamp:   time.Unix(m.Timestamp, 0).UTC(),
	}, nil
}

func parseBigInt(field, s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("missing %s", field)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("parse %s: %q is not an integer", field, s)
	}
	return v, nil
}

type poolCreatedJSON struct {
	metaJSON
	Token0      string `json:"token0"`
	Token1      string `json:"token1"`
	Pool        string `json:"pool"`
	Fee         int64  `json:"fee"`
	TickSpacing int32  `json:"tick_spacing"`
}

func parsePoolCreated(data []byte) (*event.PoolCreated, error) {
	var j poolCreatedJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse PoolCreated: %w", err)
	}
	meta, err := j.toMeta()
	if err != nil {
		return nil, fmt.Errorf("parse PoolCreated: %w", err)
	}
	if j.Token0 == "" || j.Token1 == "" || j.Pool == "" {
		return nil, fmt.Errorf("parse PoolCreated: missing token or pool address")
	}

	return &event.PoolCreated{
		Meta:        meta,
		Token0:      j.Token0,
		Token1:      j.Token1,
		Pool:        j.Pool,
		Fee:         j.Fee,
		TickSpacing: j.TickSpacing,
	}, nil
}

type mintJSON struct {
	metaJSON
	Sender    string `json:"sender"`
	Owner     string `json:"owner"`
	TickLower int32  `json:"tick_lower"`
	TickUpper int32  `json:"tick_upper"`
	Amount    string `json:"amount"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
}

func parseMint(data []byte) (*event.Mint, error) {
	var j mintJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse Mint: %w", err)
	}
	meta, err := j.toMeta()
	if err != nil {
		return nil, fmt.Errorf("parse Mint: %w", err)
	}
	amount, err := parseBigInt("amount", j.Amount)
	if err != nil {
		return nil, fmt.Errorf("parse Mint: %w", err)
	}
	amount0, err := parseBigInt("amount0", j.Amount0)
	if err != nil {
		return nil, fmt.Errorf("parse Mint: %w", err)
	}
	amount1, err := parseBigInt("amount1", j.Amount1)
	if err != nil {
		return nil, fmt.Errorf("parse Mint: %w", err)
	}

	return &event.Mint{
		Meta:      meta,
		Sender:    j.Sender,
		Owner:     j.Owner,
		TickLower: j.TickLower,
		TickUpper: j.TickUpper,
		Amount:    amount,
		Amount0:   amount0,
		Amount1:   amount1,
	}, nil
}

type burnJSON struct {
	metaJSON
	Owner     string `json:"owner"`
	TickLower int32  `json:"tick_lower"`
	TickUpper int32  `json:"tick_upper"`
	Amount    string `json:"amount"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
}

func parseBurn(data []byte) (*event.Burn, error) {
	var j burnJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse Burn: %w", err)
	}
	meta, err := j.toMeta()
	if err != nil {
		return nil, fmt.Errorf("parse Burn: %w", err)
	}
	amount, err := parseBigInt("amount", j.Amount)
	if err != nil {
		return nil, fmt.Errorf("parse Burn: %w", err)
	}
	amount0, err := parseBigInt("amount0", j.Amount0)
	if err != nil {
		return nil, fmt.Errorf("parse Burn: %w", err)
	}
	amount1, err := parseBigInt("amount1", j.Amount1)
	if err != nil {
		return nil, fmt.Errorf("parse Burn: %w", err)
	}

	return &event.Burn{
		Meta:      meta,
		Owner:     j.Owner,
		TickLower: j.TickLower,
		TickUpper: j.TickUpper,
		Amount:    amount,
		Amount0:   amount0,
		Amount1:   amount1,
	}, nil
}

type collectJSON struct {
	metaJSON
	Owner     string `json:"owner"`
	Recipient string `json:"recipient"`
	TickLower int32  `json:"tick_lower"`
	TickUpper int32  `json:"tick_upper"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
}

func parseCollect(data []byte) (*event.Collect, error) {
	var j collectJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse Collect: %w", err)
	}
	meta, err := j.toMeta()
	if err != nil {
		return nil, fmt.Errorf("parse Collect: %w", err)
	}
	amount0, err := parseBigInt("amount0", j.Amount0)
	if err != nil {
		return nil, fmt.Errorf("parse Collect: %w", err)
	}
	amount1, err := parseBigInt("amount1", j.Amount1)
	if err != nil {
		return nil, fmt.Errorf("parse Collect: %w", err)
	}

	return &event.Collect{
		Meta:      meta,
		Owner:     j.Owner,
		Recipient: j.Recipient,
		TickLower: j.TickLower,
		TickUpper: j.TickUpper,
		Amount0:   amount0,
		Amount1:   amount1,
	}, nil
}

type swapJSON struct {
	metaJSON
	Sender       string `json:"sender"`
	Recipient    string `json:"recipient"`
	Amount0      string `json:"amount0"`
	Amount1      string `json:"amount1"`
	SqrtPriceX96 string `json:"sqrt_price_x96"`
	Liquidity    string `json:"liquidity"`
	Tick         int32  `json:"tick"`
}

func parseSwap(data []byte) (*event.Swap, error) {
	var j swapJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse Swap: %w", err)
	}
	meta, err := j.toMeta()
	if err != nil {
		return nil, fmt.Errorf("parse Swap: %w", err)
	}
	amount0, err := parseBigInt("amount0", j.Amount0)
	if err != nil {
		return nil, fmt.Errorf("parse Swap: %w", err)
	}
	amount1, err := parseBigInt("amount1", j.Amount1)
	if err != nil {
		return nil, fmt.Errorf("parse Swap: %w", err)
	}
	sqrtPrice, err := parseBigInt("sqrt_price_x96", j.SqrtPriceX96)
	if err != nil {
		return nil, fmt.Errorf("parse Swap: %w", err)
	}
	liquidity, err := parseBigInt("liquidity", j.Liquidity)
	if err != nil {
		return nil, fmt.Errorf("parse Swap: %w", err)
	}

	return &event.Swap{
		Meta:         meta,
		Sender:       j.Sender,
		Recipient:    j.Recipient,
		Amount0:      amount0,
		Amount1:      amount1,
		SqrtPriceX96: sqrtPrice,
		Liquidity:    liquidity,
		Tick:         j.Tick,
	}, nil
}
