package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"PoolLedger/internal/core"
	"PoolLedger/internal/entity"
	"PoolLedger/internal/observability"
)

// batch accumulates entity rows keyed by id with last-write-wins semantics.
// An event that touches a pool five hundred events after another still
// produces one row per flush, so the batch collapses hot entities instead
// of writing every intermediate state.
type batch struct {
	factories map[string]*entity.Factory
	bundles   map[string]*entity.Bundle
	tokens    map[string]*entity.Token
	pools     map[string]*entity.Pool
	ticks     map[string]*entity.Tick
	dayData   map[string]*entity.PoolDayData
	hourData  map[string]*entity.PoolHourData
}

func newBatch() *batch {
	return &batch{
		factories: make(map[string]*entity.Factory),
		bundles:   make(map[string]*entity.Bundle),
		tokens:    make(map[string]*entity.Token),
		pools:     make(map[string]*entity.Pool),
		ticks:     make(map[string]*entity.Tick),
		dayData:   make(map[string]*entity.PoolDayData),
		hourData:  make(map[string]*entity.PoolHourData),
	}
}

func (b *batch) add(out core.Output) {
	for _, c := range out.Changes {
		switch row := c.Row.(type) {
		case *entity.Factory:
			b.factories[row.ID] = row
		case *entity.Bundle:
			b.bundles[row.ID] = row
		case *entity.Token:
			b.tokens[row.ID] = row
		case *entity.Pool:
			b.pools[row.ID] = row
		case *entity.Tick:
			b.ticks[row.ID] = row
		case *entity.PoolDayData:
			b.dayData[row.ID] = row
		case *entity.PoolHourData:
			b.hourData[row.ID] = row
		}
	}
}

func (b *batch) size() int {
	return len(b.factories) + len(b.bundles) + len(b.tokens) +
		len(b.pools) + len(b.ticks) + len(b.dayData) + len(b.hourData)
}

// Worker drains the persist channel and batch-upserts entity state into
// Postgres. The core sends on this channel with BLOCKING semantics, so if
// the worker falls behind the fold stalls rather than losing writes.
type Worker struct {
	writer       *EntityWriter
	db           *sql.DB
	inputChan    <-chan core.Output
	batchSize    int
	flushTimeout time.Duration
	metrics      *observability.Metrics
	log          zerolog.Logger
}

func NewWorker(
	db *sql.DB,
	inputChan <-chan core.Output,
	batchSize int,
	flushTimeout time.Duration,
	metrics *observability.Metrics,
	log zerolog.Logger,
) *Worker {
	return &Worker{
		writer:       NewEntityWriter(db),
		db:           db,
		inputChan:    inputChan,
		batchSize:    batchSize,
		flushTimeout: flushTimeout,
		metrics:      metrics,
		log:          log.With().Str("component", "persistence").Logger(),
	}
}

// Run batches incoming outputs and flushes when the batch reaches batchSize
// rows or the flush timeout expires. Blocks until ctx is cancelled or the
// input channel closes; either way the remaining batch is flushed first.
func (w *Worker) Run(ctx context.Context) error {
	b := newBatch()

	timer := time.NewTimer(w.flushTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			if b.size() > 0 {
				if err := w.flush(context.Background(), b); err != nil {
					w.log.Error().Err(err).Msg("final flush failed")
				}
			}
			return ctx.Err()

		case out, ok := <-w.inputChan:
			if !ok {
				if b.size() > 0 {
					if err := w.flush(context.Background(), b); err != nil {
						w.log.Error().Err(err).Msg("final flush failed")
					}
				}
				return nil
			}

			b.add(out)
			if b.size() >= w.batchSize {
				if err := w.flushWithRetry(ctx, b); err != nil {
					w.log.Error().Err(err).Msg("batch flush failed after retries")
				}
				b = newBatch()
				timer.Reset(w.flushTimeout)
			}

		case <-timer.C:
			if b.size() > 0 {
				if err := w.flushWithRetry(ctx, b); err != nil {
					w.log.Error().Err(err).Msg("timeout flush failed after retries")
				}
				b = newBatch()
			}
			timer.Reset(w.flushTimeout)
		}
	}
}

// flushWithRetry retries with exponential backoff and never drops the
// batch: the upserts are idempotent, so re-flushing after a partial
// failure converges to the same rows. Retries continue until the write
// succeeds or the context is cancelled, in which case one final attempt
// runs with a background context.
func (w *Worker) flushWithRetry(ctx context.Context, b *batch) error {
	backoff := 100 * time.Millisecond
	const maxBackoff = 30 * time.Second
	batchID := uuid.NewString()

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			w.log.Warn().
				Str("batch_id", batchID).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Int("rows", b.size()).
				Msg("persistence retry")
			select {
			case <-ctx.Done():
				if err := w.flush(context.Background(), b); err != nil {
					return fmt.Errorf("final flush on shutdown failed: %w", err)
				}
				return nil
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}

		err := w.flush(ctx, b)
		if err == nil {
			if attempt > 0 {
				w.log.Info().Str("batch_id", batchID).Int("retries", attempt).Msg("persistence flush recovered")
			}
			return nil
		}

		if w.metrics != nil {
			w.metrics.PersistRetry.Inc()
		}
	}
}

func (w *Worker) flush(ctx context.Context, b *batch) error {
	start := time.Now()

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		w.countError("tx_begin")
		return err
	}
	defer tx.Rollback()

	// Parents before children: pools reference tokens, ticks and rollups
	// reference pools.
	steps := []struct {
		kind entity.Kind
		n    int
		fn   func() error
	}{
		{entity.KindFactory, len(b.factories), func() error {
			return w.writer.UpsertFactories(ctx, tx, mapValues(b.factories))
		}},
		{entity.KindBundle, len(b.bundles), func() error {
			return w.writer.UpsertBundles(ctx, tx, mapValues(b.bundles))
		}},
		{entity.KindToken, len(b.tokens), func() error {
			return w.writer.UpsertTokens(ctx, tx, mapValues(b.tokens))
		}},
		{entity.KindPool, len(b.pools), func() error {
			return w.writer.UpsertPools(ctx, tx, mapValues(b.pools))
		}},
		{entity.KindTick, len(b.ticks), func() error {
			return w.writer.UpsertTicks(ctx, tx, mapValues(b.ticks))
		}},
		{entity.KindPoolDayData, len(b.dayData), func() error {
			return w.writer.UpsertPoolDayData(ctx, tx, mapValues(b.dayData))
		}},
		{entity.KindPoolHourData, len(b.hourData), func() error {
			return w.writer.UpsertPoolHourData(ctx, tx, mapValues(b.hourData))
		}},
	}

	for _, s := range steps {
		if err := s.fn(); err != nil {
			w.countError(string(s.kind))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		w.countError("tx_commit")
		return err
	}

	if w.metrics != nil {
		w.metrics.PersistBatchDur.Observe(time.Since(start).Seconds())
		w.metrics.PersistBatchSize.Observe(float64(b.size()))
		for _, s := range steps {
			if s.n > 0 {
				w.metrics.PersistRowsWritten.WithLabelValues(string(s.kind)).Add(float64(s.n))
			}
		}
	}

	return nil
}

func (w *Worker) countError(kind string) {
	if w.metrics != nil {
		w.metrics.PersistErrors.WithLabelValues(kind).Inc()
	}
}

func mapValues[T any](m map[string]T) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
