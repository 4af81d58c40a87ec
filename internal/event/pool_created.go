// internal/event/pool_created.go
package event

// PoolCreated is the factory's pool deployment event.
type PoolCreated struct {
	Meta Meta

	Token0      string
	Token1      string
	Pool        string
	Fee         int64 // hundredths of a bip
	TickSpacing int32
}

func (e *PoolCreated) EventType() EventType {
	return EventTypePoolCreated
}

func (e *PoolCreated) EventMeta() Meta {
	return e.Meta
}
