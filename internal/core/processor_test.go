package core_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"PoolLedger/internal/chains"
	"PoolLedger/internal/core"
	"PoolLedger/internal/entity"
	"PoolLedger/internal/event"
	"PoolLedger/internal/metadata"
	"PoolLedger/internal/store"
)

const (
	factoryAddr = "0x1f98431c8ad98523631ae4a59f267346ea31f984"
	wethAddr    = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
	junkAddr    = "0x1111111111111111111111111111111111111111"
	poolAddr    = "0xaaaa000000000000000000000000000000000001"
)

type fixture struct {
	proc  *core.Processor
	store *store.Memory
	cfg   *chains.Config
}

func newFixture(t *testing.T, chainID int64) *fixture {
	t.Helper()

	cfg, ok := chains.NewRegistry().Get(chainID)
	if !ok {
		t.Fatalf("no config for chain %d", chainID)
	}

	mem := store.NewMemory()
	provider := &metadata.Static{
		Tokens: map[string]metadata.TokenMetadata{
			wethAddr: {Name: "Wrapped Ether", Symbol: "WETH", Decimals: 18, Supported: true},
			junkAddr: {Name: "Junk Token", Symbol: "JUNK", Decimals: 6},
		},
	}

	proc := core.NewProcessor(cfg, mem, provider, nil, zerolog.Nop(), nil, nil)
	return &fixture{proc: proc, store: mem, cfg: cfg}
}

func meta(chainID int64, source string, block int64) event.Meta {
	return event.Meta{
		ChainID:     chainID,
		Source:      source,
		TxHash:      "0xdeadbeef",
		BlockNumber: block,
		LogIndex:    1,
		Timestamp:   time.Unix(1700005000, 0),
	}
}

// createJunkWethPool folds a PoolCreated for a JUNK(6)/WETH(18) pool.
func (f *fixture) createJunkWethPool(t *testing.T, feeTier int64) *entity.Pool {
	t.Helper()

	out, err := f.proc.ProcessEvent(context.Background(), &event.PoolCreated{
		Meta:        meta(f.cfg.ChainID, factoryAddr, 100),
		Token0:      junkAddr,
		Token1:      wethAddr,
		Pool:        poolAddr,
		Fee:         feeTier,
		TickSpacing: 60,
	})
	if err != nil {
		t.Fatalf("pool creation: %v", err)
	}
	if out.Status != core.StatusApplied {
		t.Fatalf("pool creation skipped: %s", out.Reason)
	}

	pool, ok := f.store.GetPool(entity.PoolID(f.cfg.ChainID, poolAddr))
	if !ok {
		t.Fatal("pool not stored")
	}
	return pool
}

// primePrices seeds the bundle price and WETH's derived price directly, the
// way a live fold would have them after the reference pool trades.
func (f *fixture) primePrices(t *testing.T, nativeUSD string) {
	t.Helper()

	bundle, ok := f.store.GetBundle(entity.BundleID(f.cfg.ChainID))
	if !ok {
		t.Fatal("bundle not stored")
	}
	bundle.NativePriceUSD = decimal.RequireFromString(nativeUSD)
	f.store.SetBundle(bundle)

	weth, ok := f.store.GetToken(entity.TokenID(f.cfg.ChainID, wethAddr))
	if !ok {
		t.Fatal("weth not stored")
	}
	weth.DerivedNative = decimal.NewFromInt(1)
	f.store.SetToken(weth)
}

func TestPoolCreated(t *testing.T) {
	f := newFixture(t, 1)
	pool := f.createJunkWethPool(t, 3000)

	if pool.FeeTier != 3000 {
		t.Errorf("fee tier = %d", pool.FeeTier)
	}
	if pool.Tick != 60 {
		t.Errorf("initial tick = %d, want the tick spacing", pool.Tick)
	}

	factory, ok := f.store.GetFactory(entity.FactoryID(1, factoryAddr))
	if !ok {
		t.Fatal("factory not created")
	}
	if factory.PoolCount != 1 {
		t.Errorf("factory pool count = %d", factory.PoolCount)
	}

	if _, ok := f.store.GetBundle(entity.BundleID(1)); !ok {
		t.Error("bundle not created")
	}

	junk, _ := f.store.GetToken(entity.TokenID(1, junkAddr))
	weth, _ := f.store.GetToken(entity.TokenID(1, wethAddr))

	if junk.Symbol != "JUNK" || junk.Decimals != 6 {
		t.Errorf("junk metadata = %s/%d", junk.Symbol, junk.Decimals)
	}
	if !weth.IsWhitelisted {
		t.Error("weth should be whitelisted on mainnet")
	}
	if junk.IsWhitelisted {
		t.Error("junk must not be whitelisted")
	}

	// WETH is whitelisted, so the pool is a price route for JUNK but not
	// the other way around.
	if len(junk.WhitelistPools) != 1 || junk.WhitelistPools[0] != pool.ID {
		t.Errorf("junk whitelist pools = %v", junk.WhitelistPools)
	}
	if len(weth.WhitelistPools) != 0 {
		t.Errorf("weth whitelist pools = %v", weth.WhitelistPools)
	}
}

func TestPoolCreatedTwiceKeepsTokenMetadata(t *testing.T) {
	f := newFixture(t, 1)
	f.createJunkWethPool(t, 3000)

	out, err := f.proc.ProcessEvent(context.Background(), &event.PoolCreated{
		Meta:        meta(1, factoryAddr, 101),
		Token0:      junkAddr,
		Token1:      wethAddr,
		Pool:        "0xaaaa000000000000000000000000000000000002",
		Fee:         500,
		TickSpacing: 10,
	})
	if err != nil || out.Status != core.StatusApplied {
		t.Fatalf("second pool: %v %+v", err, out)
	}

	junk, _ := f.store.GetToken(entity.TokenID(1, junkAddr))
	if junk.PoolCount != 2 {
		t.Errorf("junk pool count = %d", junk.PoolCount)
	}
	if len(junk.WhitelistPools) != 2 {
		t.Errorf("junk whitelist pools = %v", junk.WhitelistPools)
	}

	factory, _ := f.store.GetFactory(entity.FactoryID(1, factoryAddr))
	if factory.PoolCount != 2 {
		t.Errorf("factory pool count = %d", factory.PoolCount)
	}
}

func TestPoolCreatedSkipsDenylisted(t *testing.T) {
	f := newFixture(t, 8453)

	out, err := f.proc.ProcessEvent(context.Background(), &event.PoolCreated{
		Meta:        meta(8453, "0x33128a8fc17869897dce68ed026d694621f6fdfd", 100),
		Token0:      junkAddr,
		Token1:      wethAddr,
		Pool:        "0x9663f2ca0454accad3e094448ea6f77443880454",
		Fee:         3000,
		TickSpacing: 60,
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != core.StatusSkipped || out.Reason != core.ReasonExcludedPool {
		t.Fatalf("outcome = %+v, want excluded_pool skip", out)
	}
	if _, ok := f.store.GetFactory(entity.FactoryID(8453, "0x33128a8fc17869897dce68ed026d694621f6fdfd")); ok {
		t.Error("denylisted creation must not create the factory")
	}
}

// failingProvider errors on every lookup, as an RPC provider does for a
// chain with no configured endpoint.
type failingProvider struct{}

func (failingProvider) Lookup(context.Context, int64, string) (metadata.TokenMetadata, error) {
	return metadata.TokenMetadata{}, errors.New("no rpc endpoint")
}

func TestFailedTokenLookupWritesNothing(t *testing.T) {
	cfg, ok := chains.NewRegistry().Get(1)
	if !ok {
		t.Fatal("no config for chain 1")
	}
	mem := store.NewMemory()
	proc := core.NewProcessor(cfg, mem, failingProvider{}, nil, zerolog.Nop(), nil, nil)

	out, err := proc.ProcessEvent(context.Background(), &event.PoolCreated{
		Meta:        meta(1, factoryAddr, 100),
		Token0:      junkAddr,
		Token1:      wethAddr,
		Pool:        poolAddr,
		Fee:         3000,
		TickSpacing: 60,
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != core.StatusSkipped || out.Reason != core.ReasonMissingDependency {
		t.Fatalf("outcome = %+v, want missing_dependency skip", out)
	}

	// The skip must leave the store untouched: no half-written factory or
	// bundle for a pool that was never registered.
	if _, ok := mem.GetFactory(entity.FactoryID(1, factoryAddr)); ok {
		t.Error("skipped creation wrote the factory")
	}
	if _, ok := mem.GetBundle(entity.BundleID(1)); ok {
		t.Error("skipped creation wrote the bundle")
	}
	if _, ok := mem.GetPool(entity.PoolID(1, poolAddr)); ok {
		t.Error("skipped creation wrote the pool")
	}
}

func TestMintInsideRangeAddsLiquidity(t *testing.T) {
	f := newFixture(t, 1)
	f.createJunkWethPool(t, 3000)
	f.primePrices(t, "3000")

	// Pool tick is 60 after creation; the range straddles it.
	out, err := f.proc.ProcessEvent(context.Background(), &event.Mint{
		Meta:      meta(1, poolAddr, 110),
		Sender:    "0xsender",
		Owner:     "0xowner",
		TickLower: 0,
		TickUpper: 120,
		Amount:    big.NewInt(5_000_000),
		Amount0:   big.NewInt(1_000_000_000),           // 1000 JUNK
		Amount1:   big.NewInt(500_000_000_000_000_000), // 0.5 WETH
	})
	if err != nil || out.Status != core.StatusApplied {
		t.Fatalf("mint: %v %+v", err, out)
	}

	pool, _ := f.store.GetPool(entity.PoolID(1, poolAddr))
	if pool.Liquidity.Int64() != 5_000_000 {
		t.Errorf("liquidity = %s, want 5000000", pool.Liquidity)
	}
	if got := pool.TotalValueLockedToken0.String(); got != "1000" {
		t.Errorf("tvl token0 = %s", got)
	}
	if got := pool.TotalValueLockedToken1.String(); got != "0.5" {
		t.Errorf("tvl token1 = %s", got)
	}
	// 0.5 WETH at derived 1 and bundle 3000; JUNK has no derived price.
	if got := pool.TotalValueLockedUSD.String(); got != "1500" {
		t.Errorf("tvl usd = %s", got)
	}

	lower, ok := f.store.GetTick(entity.TickID(pool.ID, 0))
	if !ok {
		t.Fatal("lower tick not created")
	}
	upper, ok := f.store.GetTick(entity.TickID(pool.ID, 120))
	if !ok {
		t.Fatal("upper tick not created")
	}
	if lower.LiquidityNet.Int64() != 5_000_000 || upper.LiquidityNet.Int64() != -5_000_000 {
		t.Errorf("tick net = %s / %s", lower.LiquidityNet, upper.LiquidityNet)
	}
	if lower.LiquidityGross.Int64() != 5_000_000 || upper.LiquidityGross.Int64() != 5_000_000 {
		t.Errorf("tick gross = %s / %s", lower.LiquidityGross, upper.LiquidityGross)
	}

	factory, _ := f.store.GetFactory(entity.FactoryID(1, factoryAddr))
	if got := factory.TotalValueLockedUSD.String(); got != "1500" {
		t.Errorf("factory tvl usd = %s", got)
	}
}

func TestMintOutsideRangeLeavesLiquidity(t *testing.T) {
	f := newFixture(t, 1)
	f.createJunkWethPool(t, 3000)
	f.primePrices(t, "3000")

	// Pool tick is 60; the range sits entirely above it.
	out, err := f.proc.ProcessEvent(context.Background(), &event.Mint{
		Meta:      meta(1, poolAddr, 110),
		TickLower: 120,
		TickUpper: 240,
		Amount:    big.NewInt(5_000_000),
		Amount0:   big.NewInt(1_000_000_000),
		Amount1:   big.NewInt(0),
	})
	if err != nil || out.Status != core.StatusApplied {
		t.Fatalf("mint: %v %+v", err, out)
	}

	pool, _ := f.store.GetPool(entity.PoolID(1, poolAddr))
	if pool.Liquidity.Sign() != 0 {
		t.Errorf("liquidity = %s, want 0 for out-of-range mint", pool.Liquidity)
	}
	// Locked value still grows.
	if got := pool.TotalValueLockedToken0.String(); got != "1000" {
		t.Errorf("tvl token0 = %s", got)
	}
}

func TestBurnReversesMint(t *testing.T) {
	f := newFixture(t, 1)
	f.createJunkWethPool(t, 3000)
	f.primePrices(t, "3000")

	mint := &event.Mint{
		Meta:      meta(1, poolAddr, 110),
		TickLower: 0,
		TickUpper: 120,
		Amount:    big.NewInt(5_000_000),
		Amount0:   big.NewInt(1_000_000_000),
		Amount1:   big.NewInt(500_000_000_000_000_000),
	}
	if _, err := f.proc.ProcessEvent(context.Background(), mint); err != nil {
		t.Fatal(err)
	}

	out, err := f.proc.ProcessEvent(context.Background(), &event.Burn{
		Meta:      meta(1, poolAddr, 111),
		TickLower: 0,
		TickUpper: 120,
		Amount:    big.NewInt(5_000_000),
		Amount0:   big.NewInt(1_000_000_000),
		Amount1:   big.NewInt(500_000_000_000_000_000),
	})
	if err != nil || out.Status != core.StatusApplied {
		t.Fatalf("burn: %v %+v", err, out)
	}

	pool, _ := f.store.GetPool(entity.PoolID(1, poolAddr))
	if pool.Liquidity.Sign() != 0 {
		t.Errorf("liquidity = %s, want 0 after inverse burn", pool.Liquidity)
	}

	// Burn does not reduce locked value; that happens on Collect.
	if got := pool.TotalValueLockedToken0.String(); got != "1000" {
		t.Errorf("tvl token0 = %s, want 1000 (unchanged by burn)", got)
	}

	lower, _ := f.store.GetTick(entity.TickID(pool.ID, 0))
	upper, _ := f.store.GetTick(entity.TickID(pool.ID, 120))
	if lower.LiquidityGross.Sign() != 0 || lower.LiquidityNet.Sign() != 0 {
		t.Errorf("lower tick = gross %s net %s, want zeroed", lower.LiquidityGross, lower.LiquidityNet)
	}
	if upper.LiquidityGross.Sign() != 0 || upper.LiquidityNet.Sign() != 0 {
		t.Errorf("upper tick = gross %s net %s, want zeroed", upper.LiquidityGross, upper.LiquidityNet)
	}
}

func TestBurnNeverCreatesTicks(t *testing.T) {
	f := newFixture(t, 1)
	pool := f.createJunkWethPool(t, 3000)
	f.primePrices(t, "3000")

	out, err := f.proc.ProcessEvent(context.Background(), &event.Burn{
		Meta:      meta(1, poolAddr, 111),
		TickLower: -600,
		TickUpper: 600,
		Amount:    big.NewInt(1),
		Amount0:   big.NewInt(0),
		Amount1:   big.NewInt(0),
	})
	if err != nil || out.Status != core.StatusApplied {
		t.Fatalf("burn: %v %+v", err, out)
	}

	if _, ok := f.store.GetTick(entity.TickID(pool.ID, -600)); ok {
		t.Error("burn created the lower tick")
	}
	if _, ok := f.store.GetTick(entity.TickID(pool.ID, 600)); ok {
		t.Error("burn created the upper tick")
	}
}

func TestCollectShrinksLockedValue(t *testing.T) {
	f := newFixture(t, 1)
	f.createJunkWethPool(t, 3000)
	f.primePrices(t, "3000")

	if _, err := f.proc.ProcessEvent(context.Background(), &event.Mint{
		Meta:      meta(1, poolAddr, 110),
		TickLower: 0,
		TickUpper: 120,
		Amount:    big.NewInt(5_000_000),
		Amount0:   big.NewInt(1_000_000_000),
		Amount1:   big.NewInt(500_000_000_000_000_000),
	}); err != nil {
		t.Fatal(err)
	}

	out, err := f.proc.ProcessEvent(context.Background(), &event.Collect{
		Meta:      meta(1, poolAddr, 112),
		TickLower: 0,
		TickUpper: 120,
		Amount0:   big.NewInt(100_000_000),             // 100 JUNK
		Amount1:   big.NewInt(100_000_000_000_000_000), // 0.1 WETH
	})
	if err != nil || out.Status != core.StatusApplied {
		t.Fatalf("collect: %v %+v", err, out)
	}

	pool, _ := f.store.GetPool(entity.PoolID(1, poolAddr))
	if got := pool.TotalValueLockedToken0.String(); got != "900" {
		t.Errorf("tvl token0 = %s, want 900", got)
	}
	if got := pool.TotalValueLockedToken1.String(); got != "0.4" {
		t.Errorf("tvl token1 = %s, want 0.4", got)
	}
	if got := pool.CollectedFeesToken0.String(); got != "100" {
		t.Errorf("collected fees token0 = %s", got)
	}
	// Only the WETH leg is whitelisted: 0.1 x 1 x 3000.
	if got := pool.CollectedFeesUSD.String(); got != "300" {
		t.Errorf("collected fees usd = %s, want 300", got)
	}
}

func TestCollectUpdatesIntervalBuckets(t *testing.T) {
	f := newFixture(t, 1)
	pool := f.createJunkWethPool(t, 3000)
	f.primePrices(t, "3000")

	if _, err := f.proc.ProcessEvent(context.Background(), &event.Mint{
		Meta:      meta(1, poolAddr, 110),
		TickLower: 0,
		TickUpper: 120,
		Amount:    big.NewInt(5_000_000),
		Amount0:   big.NewInt(1_000_000_000),
		Amount1:   big.NewInt(500_000_000_000_000_000),
	}); err != nil {
		t.Fatal(err)
	}

	out, err := f.proc.ProcessEvent(context.Background(), &event.Collect{
		Meta:      meta(1, poolAddr, 112),
		TickLower: 0,
		TickUpper: 120,
		Amount0:   big.NewInt(100_000_000),
		Amount1:   big.NewInt(100_000_000_000_000_000),
	})
	if err != nil || out.Status != core.StatusApplied {
		t.Fatalf("collect: %v %+v", err, out)
	}

	day, ok := f.store.GetPoolDayData(entity.PoolDayDataID(pool.ID, 1700005000/86400))
	if !ok {
		t.Fatal("day bucket not created")
	}
	if day.TxCount != 2 {
		t.Errorf("day tx count = %d, want 2 (mint + collect)", day.TxCount)
	}
	// The bucket snapshot must see the post-collect locked value:
	// 0.4 WETH x 1 x 3000.
	if got := day.TVLUSD.String(); got != "1200" {
		t.Errorf("day tvl usd = %s, want 1200", got)
	}

	hour, ok := f.store.GetPoolHourData(entity.PoolHourDataID(pool.ID, 1700005000/3600))
	if !ok {
		t.Fatal("hour bucket not created")
	}
	if hour.TxCount != 2 {
		t.Errorf("hour tx count = %d, want 2 (mint + collect)", hour.TxCount)
	}
	if got := hour.TVLUSD.String(); got != "1200" {
		t.Errorf("hour tvl usd = %s, want 1200", got)
	}
}

func TestUntrackedLockedValueStaysZero(t *testing.T) {
	f := newFixture(t, 1)
	f.createJunkWethPool(t, 3000)
	f.primePrices(t, "3000")

	if _, err := f.proc.ProcessEvent(context.Background(), &event.Mint{
		Meta:      meta(1, poolAddr, 110),
		TickLower: 0,
		TickUpper: 120,
		Amount:    big.NewInt(5_000_000),
		Amount0:   big.NewInt(1_000_000_000),
		Amount1:   big.NewInt(2_000_000_000_000_000_000),
	}); err != nil {
		t.Fatal(err)
	}

	// The untracked locked-value fields are write-once zeroes: no handler
	// touches them after creation.
	pool, _ := f.store.GetPool(entity.PoolID(1, poolAddr))
	if !pool.TotalValueLockedUSD.IsPositive() {
		t.Fatalf("tvl usd = %s, fixture should lock value", pool.TotalValueLockedUSD)
	}
	if !pool.TotalValueLockedUSDUntracked.IsZero() {
		t.Errorf("pool untracked tvl usd = %s, want 0", pool.TotalValueLockedUSDUntracked)
	}

	weth, _ := f.store.GetToken(entity.TokenID(1, wethAddr))
	if !weth.TotalValueLockedUSDUntracked.IsZero() {
		t.Errorf("weth untracked tvl usd = %s, want 0", weth.TotalValueLockedUSDUntracked)
	}
}

func TestSwapScenario(t *testing.T) {
	f := newFixture(t, 1)
	f.createJunkWethPool(t, 3000)
	f.primePrices(t, "3000")

	out, err := f.proc.ProcessEvent(context.Background(), &event.Swap{
		Meta:         meta(1, poolAddr, 120),
		Amount0:      big.NewInt(1_000_000_000),            // +1000 JUNK in
		Amount1:      big.NewInt(-500_000_000_000_000_000), // -0.5 WETH out
		SqrtPriceX96: new(big.Int).Lsh(big.NewInt(1), 96),
		Liquidity:    big.NewInt(7_000_000),
		Tick:         85,
	})
	if err != nil || out.Status != core.StatusApplied {
		t.Fatalf("swap: %v %+v", err, out)
	}

	pool, _ := f.store.GetPool(entity.PoolID(1, poolAddr))

	// Only the whitelisted WETH leg counts: 0.5 x 1 x 3000 = 1500, halved
	// to 750 under the single-sided volume convention.
	if got := pool.VolumeUSD.String(); got != "750" {
		t.Errorf("volume usd = %s, want 750", got)
	}
	// 750 x (3000 / 1e6) fee rate.
	if got := pool.FeesUSD.String(); got != "2.25" {
		t.Errorf("fees usd = %s, want 2.25", got)
	}

	if got := pool.VolumeToken0.String(); got != "1000" {
		t.Errorf("volume token0 = %s", got)
	}
	if got := pool.VolumeToken1.String(); got != "0.5" {
		t.Errorf("volume token1 = %s", got)
	}

	// Post-trade state is authoritative.
	if pool.Tick != 85 {
		t.Errorf("tick = %d, want 85", pool.Tick)
	}
	if pool.Liquidity.Int64() != 7_000_000 {
		t.Errorf("liquidity = %s", pool.Liquidity)
	}

	// sqrtPrice = 2^96 means a raw 1:1 ratio; decimals shift by 10^(6-18).
	wantPrice1 := decimal.New(1, -12)
	if !pool.Token1Price.Equal(wantPrice1) {
		t.Errorf("token1 price = %s, want %s", pool.Token1Price, wantPrice1)
	}
	if !pool.Token0Price.Equal(decimal.New(1, 12)) {
		t.Errorf("token0 price = %s", pool.Token0Price)
	}

	factory, _ := f.store.GetFactory(entity.FactoryID(1, factoryAddr))
	if factory.NumberOfSwaps != 1 {
		t.Errorf("swap count = %d", factory.NumberOfSwaps)
	}
	if got := factory.TotalVolumeUSD.String(); got != "750" {
		t.Errorf("factory volume usd = %s", got)
	}

	weth, _ := f.store.GetToken(entity.TokenID(1, wethAddr))
	if got := weth.VolumeUSD.String(); got != "750" {
		t.Errorf("weth volume usd = %s", got)
	}
	if got := weth.FeesUSD.String(); got != "2.25" {
		t.Errorf("weth fees usd = %s", got)
	}

	day, ok := f.store.GetPoolDayData(entity.PoolDayDataID(pool.ID, 1700005000/86400))
	if !ok {
		t.Fatal("day bucket not created")
	}
	if got := day.VolumeUSD.String(); got != "750" {
		t.Errorf("day volume usd = %s", got)
	}
	if got := day.FeesUSD.String(); got != "2.25" {
		t.Errorf("day fees usd = %s", got)
	}

	hour, ok := f.store.GetPoolHourData(entity.PoolHourDataID(pool.ID, 1700005000/3600))
	if !ok {
		t.Fatal("hour bucket not created")
	}
	if got := hour.VolumeUSD.String(); got != "750" {
		t.Errorf("hour volume usd = %s", got)
	}
}

func TestSwapForUnknownPoolIsSkipped(t *testing.T) {
	f := newFixture(t, 1)

	out, err := f.proc.ProcessEvent(context.Background(), &event.Swap{
		Meta:         meta(1, poolAddr, 120),
		Amount0:      big.NewInt(1),
		Amount1:      big.NewInt(-1),
		SqrtPriceX96: big.NewInt(1),
		Liquidity:    big.NewInt(1),
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != core.StatusSkipped || out.Reason != core.ReasonPoolNotFound {
		t.Fatalf("outcome = %+v, want pool_not_found skip", out)
	}
}

func TestSwapOnExcludedPoolIsSkipped(t *testing.T) {
	f := newFixture(t, 8453)

	out, err := f.proc.ProcessEvent(context.Background(), &event.Swap{
		Meta:         meta(8453, "0x9663f2ca0454accad3e094448ea6f77443880454", 120),
		Amount0:      big.NewInt(1),
		Amount1:      big.NewInt(-1),
		SqrtPriceX96: big.NewInt(1),
		Liquidity:    big.NewInt(1),
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != core.StatusSkipped || out.Reason != core.ReasonExcludedPool {
		t.Fatalf("outcome = %+v, want excluded_pool skip", out)
	}
}

func TestReplayIsNotIdempotent(t *testing.T) {
	f := newFixture(t, 1)
	f.createJunkWethPool(t, 3000)
	f.primePrices(t, "3000")

	mint := &event.Mint{
		Meta:      meta(1, poolAddr, 110),
		TickLower: 0,
		TickUpper: 120,
		Amount:    big.NewInt(5_000_000),
		Amount0:   big.NewInt(1_000_000_000),
		Amount1:   big.NewInt(500_000_000_000_000_000),
	}

	for i := 0; i < 2; i++ {
		if _, err := f.proc.ProcessEvent(context.Background(), mint); err != nil {
			t.Fatal(err)
		}
	}

	// The fold trusts its input stream: the same event twice counts twice.
	pool, _ := f.store.GetPool(entity.PoolID(1, poolAddr))
	if got := pool.TotalValueLockedToken0.String(); got != "2000" {
		t.Errorf("tvl token0 = %s, want 2000 after replay", got)
	}
	if pool.Liquidity.Int64() != 10_000_000 {
		t.Errorf("liquidity = %s, want 10000000 after replay", pool.Liquidity)
	}
}

func TestWrongChainIsSkipped(t *testing.T) {
	f := newFixture(t, 1)

	out, err := f.proc.ProcessEvent(context.Background(), &event.PoolCreated{
		Meta:   meta(10, factoryAddr, 100),
		Token0: junkAddr,
		Token1: wethAddr,
		Pool:   poolAddr,
		Fee:    3000,
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != core.StatusSkipped || out.Reason != core.ReasonUnknownChain {
		t.Fatalf("outcome = %+v, want unknown_chain skip", out)
	}
}
