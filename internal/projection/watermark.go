// Package projection maintains eventually-consistent side tables fed by the
// non-blocking projection channel. Updates may be dropped under load; the
// tables can always be rebuilt by replaying the stream, so failures here
// never stall the fold.
package projection

import (
	"context"
	"database/sql"
	"sync"

	"github.com/rs/zerolog"

	"PoolLedger/internal/core"
)

// Watermark records how far one chain's fold has progressed.
type Watermark struct {
	ChainID     int64
	BlockNumber int64
	LogIndex    int64
	Timestamp   int64
}

// WatermarkWorker tracks per-chain progress and mirrors it into the
// chain_watermarks table. Readers use it to judge projection freshness
// without touching the fold.
type WatermarkWorker struct {
	db        *sql.DB
	inputChan <-chan core.Output
	log       zerolog.Logger

	mu     sync.RWMutex
	latest map[int64]Watermark
}

func NewWatermarkWorker(db *sql.DB, inputChan <-chan core.Output, log zerolog.Logger) *WatermarkWorker {
	return &WatermarkWorker{
		db:        db,
		inputChan: inputChan,
		log:       log.With().Str("component", "projection").Logger(),
		latest:    make(map[int64]Watermark),
	}
}

// Latest returns the most recent watermark observed for a chain.
func (w *WatermarkWorker) Latest(chainID int64) (Watermark, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	wm, ok := w.latest[chainID]
	return wm, ok
}

// Run consumes outputs until ctx is cancelled or the channel closes.
func (w *WatermarkWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case out, ok := <-w.inputChan:
			if !ok {
				return nil
			}

			wm := Watermark{
				ChainID:     out.ChainID,
				BlockNumber: out.Meta.BlockNumber,
				LogIndex:    out.Meta.LogIndex,
				Timestamp:   out.Meta.Timestamp.Unix(),
			}
			w.advance(wm)

			if w.db == nil {
				continue
			}
			if err := w.persist(ctx, wm); err != nil {
				// Eventually consistent: warn and move on.
				w.log.Warn().Err(err).Int64("chain_id", wm.ChainID).Msg("watermark update failed")
			}
		}
	}
}

func (w *WatermarkWorker) advance(wm Watermark) {
	w.mu.Lock()
	defer w.mu.Unlock()
	cur, ok := w.latest[wm.ChainID]
	if !ok || wm.BlockNumber > cur.BlockNumber ||
		(wm.BlockNumber == cur.BlockNumber && wm.LogIndex > cur.LogIndex) {
		w.latest[wm.ChainID] = wm
	}
}

func (w *WatermarkWorker) persist(ctx context.Context, wm Watermark) error {
	_, err := w.db.ExecContext(ctx, `
		INSERT INTO chain_watermarks (chain_id, block_number, log_index, event_timestamp, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (chain_id) DO UPDATE SET
			block_number = EXCLUDED.block_number,
			log_index = EXCLUDED.log_index,
			event_timestamp = EXCLUDED.event_timestamp,
			updated_at = NOW()
		WHERE chain_watermarks.block_number < EXCLUDED.block_number
		   OR (chain_watermarks.block_number = EXCLUDED.block_number
		       AND chain_watermarks.log_index < EXCLUDED.log_index)
	`, wm.ChainID, wm.BlockNumber, wm.LogIndex, wm.Timestamp)
	return err
}
