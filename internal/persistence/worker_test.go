package persistence

import (
	"strings"
	"testing"

	"PoolLedger/internal/core"
	"PoolLedger/internal/entity"
	"PoolLedger/internal/event"
)

func TestBatchCollapsesRepeatedEntities(t *testing.T) {
	b := newBatch()

	first := entity.NewPool(1, "0xaaaa")
	first.TxCount = 1
	second := entity.NewPool(1, "0xaaaa")
	second.TxCount = 2
	other := entity.NewPool(1, "0xbbbb")

	b.add(core.Output{
		ChainID:   1,
		EventType: event.EventTypeSwap,
		Changes: []core.Change{
			{Kind: entity.KindPool, Row: first},
			{Kind: entity.KindPool, Row: other},
		},
	})
	b.add(core.Output{
		ChainID:   1,
		EventType: event.EventTypeSwap,
		Changes: []core.Change{
			{Kind: entity.KindPool, Row: second},
		},
	})

	if got := b.size(); got != 2 {
		t.Fatalf("batch size = %d, want 2", got)
	}
	if got := b.pools[first.ID].TxCount; got != 2 {
		t.Errorf("collapsed pool TxCount = %d, want the later write (2)", got)
	}
}

func TestBatchSizeSpansKinds(t *testing.T) {
	b := newBatch()
	b.add(core.Output{
		Changes: []core.Change{
			{Kind: entity.KindFactory, Row: entity.NewFactory(1, "0xfac")},
			{Kind: entity.KindBundle, Row: entity.NewBundle(1)},
			{Kind: entity.KindToken, Row: entity.NewToken(1, "0xtok")},
		},
	})
	if got := b.size(); got != 3 {
		t.Errorf("batch size = %d, want 3", got)
	}
}

func TestUpsertQueryShape(t *testing.T) {
	q := upsertQuery("bundles", bundleCols, 2)

	wantPrefix := "INSERT INTO bundles (id, chain_id, native_price_usd) VALUES ($1, $2, $3), ($4, $5, $6)"
	if !strings.HasPrefix(q, wantPrefix) {
		t.Errorf("query prefix mismatch:\ngot  %s\nwant %s...", q, wantPrefix)
	}
	wantSuffix := "ON CONFLICT (id) DO UPDATE SET chain_id = EXCLUDED.chain_id, native_price_usd = EXCLUDED.native_price_usd"
	if !strings.HasSuffix(q, wantSuffix) {
		t.Errorf("query suffix mismatch:\ngot %s", q)
	}
}

func TestUpsertQueryPlaceholderCount(t *testing.T) {
	rows := 3
	q := upsertQuery("pools", poolCols, rows)
	if got, want := strings.Count(q, "$"), rows*len(poolCols); got != want {
		t.Errorf("placeholder count = %d, want %d", got, want)
	}
}
