// internal/event/swap.go
package event

import "math/big"

// Swap is a pool's trade event. Amount0/Amount1 are signed: positive flows
// into the pool, negative flows out. SqrtPriceX96, Liquidity and Tick are
// the pool's state after the swap.
type Swap struct {
	Meta Meta

	Sender       string
	Recipient    string
	Amount0      *big.Int
	Amount1      *big.Int
	SqrtPriceX96 *big.Int
	Liquidity    *big.Int
	Tick         int32
}

func (e *Swap) EventType() EventType {
	return EventTypeSwap
}

func (e *Swap) EventMeta() Meta {
	return e.Meta
}
