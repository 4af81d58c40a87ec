// internal/event/liquidity.go
package event

import "math/big"

// Mint is a pool's liquidity-add event. Amount is the liquidity delta;
// Amount0/Amount1 are the raw token amounts pulled in.
type Mint struct {
	Meta Meta

	Sender    string
	Owner     string
	TickLower int32
	TickUpper int32
	Amount    *big.Int
	Amount0   *big.Int
	Amount1   *big.Int
}

func (e *Mint) EventType() EventType {
	return EventTypeMint
}

func (e *Mint) EventMeta() Meta {
	return e.Meta
}

// Burn is a pool's liquidity-remove event. Amounts are non-negative; the
// handler subtracts them.
type Burn struct {
	Meta Meta

	Owner     string
	TickLower int32
	TickUpper int32
	Amount    *big.Int
	Amount0   *big.Int
	Amount1   *big.Int
}

func (e *Burn) EventType() EventType {
	return EventTypeBurn
}

func (e *Burn) EventMeta() Meta {
	return e.Meta
}

// Collect is a pool's fee-withdrawal event.
type Collect struct {
	Meta Meta

	Owner     string
	Recipient string
	TickLower int32
	TickUpper int32
	Amount0   *big.Int
	Amount1   *big.Int
}

func (e *Collect) EventType() EventType {
	return EventTypeCollect
}

func (e *Collect) EventMeta() Meta {
	return e.Meta
}
