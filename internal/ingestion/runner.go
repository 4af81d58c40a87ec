package ingestion

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"PoolLedger/internal/core"
	"PoolLedger/internal/observability"
)

// Runner drains one chain's raw events and feeds them to that chain's fold.
// A single goroutine per chain makes the fold deterministic without locks.
type Runner struct {
	chainID   int64
	processor *core.Processor
	events    <-chan RawEvent
	metrics   *observability.Metrics
	log       zerolog.Logger

	lastOrderKey int64
	chainLabel   string
}

func NewRunner(chainID int64, processor *core.Processor, events <-chan RawEvent, metrics *observability.Metrics, log zerolog.Logger) *Runner {
	return &Runner{
		chainID:    chainID,
		processor:  processor,
		events:     events,
		metrics:    metrics,
		log:        log,
		chainLabel: strconv.FormatInt(chainID, 10),
	}
}

// Run loops until ctx is cancelled. Parse failures are acked and dropped: a
// malformed payload never becomes parseable on redelivery. Fold errors nak
// for redelivery.
func (r *Runner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-r.events:
			if !ok {
				return
			}
			r.handle(ctx, raw)
		}
	}
}

func (r *Runner) handle(ctx context.Context, raw RawEvent) {
	if r.metrics != nil {
		r.metrics.IngestMessages.WithLabelValues(r.chainLabel).Inc()
		r.metrics.NATSPullLatency.WithLabelValues(r.chainLabel).Observe(time.Since(raw.Timestamp).Seconds())
	}

	evt, err := ParseRawEvent(raw)
	if err != nil {
		r.log.Warn().Err(err).Str("subject", raw.Subject).Msg("dropping unparseable message")
		if r.metrics != nil {
			r.metrics.IngestParseError.WithLabelValues(r.chainLabel, "malformed").Inc()
		}
		raw.AckFunc()
		return
	}

	// Out-of-order delivery is observed, not rejected: the upstream
	// extractor replays in order after restarts, and a counter is enough
	// to notice when it does not.
	key := evt.EventMeta().OrderKey()
	if key < r.lastOrderKey && r.metrics != nil {
		r.metrics.EventOutOfOrder.WithLabelValues(r.chainLabel).Inc()
	}
	r.lastOrderKey = key

	if _, err := r.processor.ProcessEvent(ctx, evt); err != nil {
		r.log.Error().Err(err).Str("subject", raw.Subject).Msg("fold error, message will be redelivered")
		raw.NakFunc()
		return
	}
	raw.AckFunc()
}
