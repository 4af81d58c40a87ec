package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
)

// StreamName holds every chain's event subjects.
const StreamName = "POOL_EVENTS"

// Subject returns the per-chain subject. One subject per chain keeps each
// chain's events strictly ordered through its own durable consumer.
func Subject(chainID int64) string {
	return fmt.Sprintf("pools.events.%d", chainID)
}

// RawEvent is a message pulled from NATS, not yet parsed. AckFunc/NakFunc
// settle the JetStream delivery after the fold decides.
type RawEvent struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	AckFunc   func()
	NakFunc   func()
}

// NATSSubscriber feeds per-chain raw events from JetStream into the
// runners' channels.
type NATSSubscriber struct {
	js        jetstream.JetStream
	log       zerolog.Logger
	consumers []jetstream.ConsumeContext
}

func NewNATSSubscriber(js jetstream.JetStream, log zerolog.Logger) *NATSSubscriber {
	return &NATSSubscriber{js: js, log: log}
}

// EnsureStream creates the event stream if it does not exist.
func EnsureStream(ctx context.Context, js jetstream.JetStream) error {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{"pools.events.>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    72 * time.Hour,
		Replicas:  1,
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", StreamName, err)
	}
	return nil
}

// Subscribe creates a durable consumer for one chain and pushes its
// messages into eventChan. Explicit ACK, redelivery on NAK.
func (ns *NATSSubscriber) Subscribe(ctx context.Context, chainID int64, eventChan chan<- RawEvent) error {
	consumer, err := ns.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       fmt.Sprintf("pool-indexer-%d", chainID),
		FilterSubject: Subject(chainID),
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       30 * time.Second,
		MaxDeliver:    5,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return fmt.Errorf("create consumer for chain %d: %w", chainID, err)
	}

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		raw := RawEvent{
			Subject:   msg.Subject(),
			Data:      msg.Data(),
			Timestamp: time.Now(),
			AckFunc:   func() { msg.Ack() },
			NakFunc:   func() { msg.Nak() },
		}

		select {
		case eventChan <- raw:
		case <-ctx.Done():
			msg.Nak()
		}
	})
	if err != nil {
		return fmt.Errorf("consume chain %d: %w", chainID, err)
	}

	ns.consumers = append(ns.consumers, consumeCtx)
	ns.log.Info().Int64("chain_id", chainID).Str("subject", Subject(chainID)).Msg("subscribed")
	return nil
}

// Stop drains all consumers.
func (ns *NATSSubscriber) Stop() {
	for _, c := range ns.consumers {
		c.Stop()
	}
}
