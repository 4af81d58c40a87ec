// Package core folds exchange events into entity state. One Processor per
// chain, driven by a single goroutine: determinism comes from ordering, not
// locking. Applied mutations flow out on a blocking persistence channel and
// a non-blocking projection channel.
package core

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"PoolLedger/internal/chains"
	"PoolLedger/internal/entity"
	"PoolLedger/internal/event"
	"PoolLedger/internal/metadata"
	"PoolLedger/internal/observability"
	"PoolLedger/internal/store"
)

// Status says what the fold did with an event.
type Status int

const (
	StatusApplied Status = iota
	StatusSkipped
)

// Skip reasons. Skips are expected operating conditions, not errors: an
// event for an unindexed pool or an excluded pool is dropped and counted.
const (
	ReasonExcludedPool      = "excluded_pool"
	ReasonPoolNotFound      = "pool_not_found"
	ReasonMissingDependency = "missing_dependency"
	ReasonUnknownChain      = "unknown_chain"
	ReasonUnknownEventType  = "unknown_event_type"
)

// Outcome reports the fold's decision for one event.
type Outcome struct {
	Status Status
	Reason string
}

func applied() Outcome {
	return Outcome{Status: StatusApplied}
}

func skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

// Change is one mutated entity headed for persistence.
type Change struct {
	Kind entity.Kind
	Row  any
}

// Output carries an applied event's mutations downstream.
type Output struct {
	ChainID   int64
	EventType event.EventType
	Meta      event.Meta
	Changes   []Change
}

// Processor is the single-threaded per-chain event fold.
type Processor struct {
	cfg      *chains.Config
	store    store.EntityStore
	metadata metadata.Provider
	metrics  *observability.Metrics
	log      zerolog.Logger

	persistChan    chan<- Output
	projectionChan chan<- Output

	chainLabel string
}

// NewProcessor wires a fold for one chain. projectionChan may be nil when
// no live projection consumer exists.
func NewProcessor(
	cfg *chains.Config,
	st store.EntityStore,
	provider metadata.Provider,
	metrics *observability.Metrics,
	log zerolog.Logger,
	persistChan, projectionChan chan<- Output,
) *Processor {
	return &Processor{
		cfg:            cfg,
		store:          st,
		metadata:       provider,
		metrics:        metrics,
		log:            log,
		persistChan:    persistChan,
		projectionChan: projectionChan,
		chainLabel:     strconv.FormatInt(cfg.ChainID, 10),
	}
}

// ProcessEvent folds one event into entity state. Replays are not
// deduplicated: feeding the same event twice double-counts, and keeping the
// fold faithful to its input stream is the ingestion layer's job.
func (p *Processor) ProcessEvent(ctx context.Context, evt event.Event) (Outcome, error) {
	start := time.Now()
	meta := evt.EventMeta()
	eventType := evt.EventType()

	if meta.ChainID != p.cfg.ChainID {
		return p.skip(eventType, skipped(ReasonUnknownChain)), nil
	}

	var (
		outcome Outcome
		changes []Change
		err     error
	)

	switch e := evt.(type) {
	case *event.PoolCreated:
		outcome, changes, err = p.handlePoolCreated(ctx, e)
	case *event.Mint:
		outcome, changes, err = p.handleMint(e)
	case *event.Burn:
		outcome, changes, err = p.handleBurn(e)
	case *event.Collect:
		outcome, changes, err = p.handleCollect(e)
	case *event.Swap:
		outcome, changes, err = p.handleSwap(e)
	default:
		outcome = skipped(ReasonUnknownEventType)
	}
	if err != nil {
		return outcome, fmt.Errorf("%s at block %d: %w", eventType, meta.BlockNumber, err)
	}

	if outcome.Status == StatusSkipped {
		return p.skip(eventType, outcome), nil
	}

	p.emit(Output{
		ChainID:   p.cfg.ChainID,
		EventType: eventType,
		Meta:      meta,
		Changes:   changes,
	})

	if p.metrics != nil {
		p.metrics.EventsApplied.WithLabelValues(p.chainLabel, eventType.String()).Inc()
		p.metrics.EventDuration.WithLabelValues(eventType.String()).Observe(time.Since(start).Seconds())
		p.metrics.LastBlock.WithLabelValues(p.chainLabel).Set(float64(meta.BlockNumber))
	}

	return outcome, nil
}

func (p *Processor) skip(et event.EventType, o Outcome) Outcome {
	if p.metrics != nil {
		p.metrics.EventsSkipped.WithLabelValues(p.chainLabel, et.String(), o.Reason).Inc()
	}
	p.log.Debug().
		Str("event_type", et.String()).
		Str("reason", o.Reason).
		Msg("event skipped")
	return o
}

func (p *Processor) emit(out Output) {
	// Persistence: blocking send. The fold stalls until the writer drains,
	// so no applied mutation is ever lost.
	if p.persistChan != nil {
		select {
		case p.persistChan <- out:
		default:
			if p.metrics != nil {
				p.metrics.PersistBackpressure.Inc()
			}
			p.persistChan <- out
		}
	}

	// Projections: non-blocking send, drop on full. A projection can
	// rebuild from Postgres if it falls behind.
	if p.projectionChan != nil {
		select {
		case p.projectionChan <- out:
		default:
			if p.metrics != nil {
				p.metrics.ProjectionDrops.Inc()
			}
		}
	}

	if p.metrics != nil {
		if p.persistChan != nil {
			p.metrics.ChannelSize.WithLabelValues("persist").Set(float64(len(p.persistChan)))
		}
		if p.projectionChan != nil {
			p.metrics.ChannelSize.WithLabelValues("projection").Set(float64(len(p.projectionChan)))
		}
	}
}
