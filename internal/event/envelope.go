package event

import (
	"time"
)

// EventType discriminator for event payloads
type EventType int32

const (
	EventTypeUnknown EventType = iota
	EventTypePoolCreated
	EventTypeMint
	EventTypeBurn
	EventTypeCollect
	EventTypeSwap
)

// Meta carries the chain and log context shared by every event. Source is
// the emitting contract: the factory for PoolCreated, the pool otherwise.
type Meta struct {
	ChainID     int64
	Source      string
	TxHash      string
	BlockNumber int64
	LogIndex    int64

	// Block timestamp (NOT wall-clock)
	Timestamp time.Time
}

// OrderKey folds block number and log index into a single comparable key.
// Log indexes on the supported chains fit comfortably under a million.
func (m Meta) OrderKey() int64 {
	return m.BlockNumber*1_000_000 + m.LogIndex
}

// Event is the interface all event payloads implement
type Event interface {
	// EventType returns the discriminator
	EventType() EventType

	// EventMeta returns the shared chain/log context
	EventMeta() Meta
}

func (et EventType) String() string {
	switch et {
	case EventTypePoolCreated:
		return "PoolCreated"
	case EventTypeMint:
		return "Mint"
	case EventTypeBurn:
		return "Burn"
	case EventTypeCollect:
		return "Collect"
	case EventTypeSwap:
		return "Swap"
	default:
		return "Unknown"
	}
}
