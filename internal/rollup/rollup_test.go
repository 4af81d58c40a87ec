package rollup_test

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"PoolLedger/internal/entity"
	"PoolLedger/internal/rollup"
	"PoolLedger/internal/store"
)

func testPool(price string) *entity.Pool {
	p := entity.NewPool(1, "0xaaa0000000000000000000000000000000000001")
	p.Token0Price, _ = decimal.NewFromString(price)
	p.Token1Price = decimal.NewFromInt(1).DivRound(p.Token0Price, 80)
	p.Liquidity = big.NewInt(777)
	p.SqrtPrice = big.NewInt(1 << 40)
	p.Tick = 120
	p.TotalValueLockedUSD = decimal.NewFromInt(5000)
	return p
}

func TestDayBucketCreation(t *testing.T) {
	m := store.NewMemory()
	pool := testPool("2000")

	const ts = int64(1700005000)
	day := rollup.UpdatePoolDayData(m, pool, ts)

	wantDate := (ts / 86400) * 86400
	if day.Date != wantDate {
		t.Errorf("date = %d, want %d", day.Date, wantDate)
	}
	if day.ID != entity.PoolDayDataID(pool.ID, ts/86400) {
		t.Errorf("id = %s", day.ID)
	}
	if !day.OpeningPrice.Equal(pool.Token0Price) || !day.Close.Equal(pool.Token0Price) {
		t.Errorf("open/close = %s/%s, want %s", day.OpeningPrice, day.Close, pool.Token0Price)
	}
	if day.TxCount != 1 {
		t.Errorf("tx count = %d, want 1", day.TxCount)
	}
	if day.Liquidity.Cmp(pool.Liquidity) != 0 || day.Tick != pool.Tick {
		t.Error("pool snapshot not copied into bucket")
	}
}

func TestDayBucketOHLCAcrossUpdates(t *testing.T) {
	m := store.NewMemory()
	const ts = int64(1700005000)

	rollup.UpdatePoolDayData(m, testPool("2000"), ts)
	rollup.UpdatePoolDayData(m, testPool("2300"), ts+600)
	day := rollup.UpdatePoolDayData(m, testPool("1900"), ts+1200)

	if got := day.OpeningPrice.String(); got != "2000" {
		t.Errorf("open = %s, want 2000", got)
	}
	if got := day.High.String(); got != "2300" {
		t.Errorf("high = %s, want 2300", got)
	}
	if got := day.Low.String(); got != "1900" {
		t.Errorf("low = %s, want 1900", got)
	}
	if got := day.Close.String(); got != "1900" {
		t.Errorf("close = %s, want 1900", got)
	}
	if day.TxCount != 3 {
		t.Errorf("tx count = %d, want 3", day.TxCount)
	}
}

func TestBucketBoundariesAreDeterministic(t *testing.T) {
	m := store.NewMemory()
	pool := testPool("2000")

	// One second before and after a day boundary land in different buckets.
	boundary := int64(1700006400)
	boundary -= boundary % 86400

	before := rollup.UpdatePoolDayData(m, pool, boundary-1)
	after := rollup.UpdatePoolDayData(m, pool, boundary)

	if before.ID == after.ID {
		t.Fatalf("boundary events share bucket %s", before.ID)
	}
	if after.Date-before.Date != 86400 {
		t.Errorf("bucket dates %d and %d not adjacent days", before.Date, after.Date)
	}
}

func TestHourBucket(t *testing.T) {
	m := store.NewMemory()
	const ts = int64(1700005000)

	rollup.UpdatePoolHourData(m, testPool("2000"), ts)
	hour := rollup.UpdatePoolHourData(m, testPool("2100"), ts+60)

	wantStart := (ts / 3600) * 3600
	if hour.PeriodStartUnix != wantStart {
		t.Errorf("period start = %d, want %d", hour.PeriodStartUnix, wantStart)
	}
	if got := hour.High.String(); got != "2100" {
		t.Errorf("high = %s, want 2100", got)
	}
	if hour.TxCount != 2 {
		t.Errorf("tx count = %d, want 2", hour.TxCount)
	}

	next := rollup.UpdatePoolHourData(m, testPool("2100"), ts+3600)
	if next.ID == hour.ID {
		t.Error("next hour reused the previous bucket")
	}
	if next.TxCount != 1 {
		t.Errorf("fresh bucket tx count = %d, want 1", next.TxCount)
	}
}

func TestCallerAccrualSurvivesReload(t *testing.T) {
	m := store.NewMemory()
	pool := testPool("2000")
	const ts = int64(1700005000)

	day := rollup.UpdatePoolDayData(m, pool, ts)
	day.VolumeUSD = day.VolumeUSD.Add(decimal.NewFromInt(750))
	day.FeesUSD = day.FeesUSD.Add(decimal.RequireFromString("2.25"))
	m.SetPoolDayData(day)

	again := rollup.UpdatePoolDayData(m, pool, ts+10)
	if got := again.VolumeUSD.String(); got != "750" {
		t.Errorf("volume = %s, want 750", got)
	}
	if got := again.FeesUSD.String(); got != "2.25" {
		t.Errorf("fees = %s, want 2.25", got)
	}
	if again.TxCount != 2 {
		t.Errorf("tx count = %d, want 2", again.TxCount)
	}
}
