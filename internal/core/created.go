package core

import (
	"strings"

	"PoolLedger/internal/entity"
	"PoolLedger/internal/event"
	"PoolLedger/internal/metadata"
	"PoolLedger/internal/numeric"
	"PoolLedger/internal/store"

	"context"
)

// handlePoolCreated registers a new pool and lazily creates the chain's
// factory, bundle and both tokens. Token metadata comes from the injected
// provider; a failed lookup skips the event rather than recording a token
// with guessed decimals.
func (p *Processor) handlePoolCreated(ctx context.Context, e *event.PoolCreated) (Outcome, []Change, error) {
	if p.cfg.ShouldSkipPool(e.Pool) {
		return skipped(ReasonExcludedPool), nil, nil
	}

	chainID := p.cfg.ChainID

	// Resolve both tokens before touching the store: a failed lookup must
	// skip the event without leaving a half-written factory or bundle.
	token0, err := p.getOrCreateToken(ctx, e.Token0)
	if err != nil {
		p.log.Error().Err(err).Str("token", e.Token0).Msg("token metadata lookup failed")
		return skipped(ReasonMissingDependency), nil, nil
	}
	token1, err := p.getOrCreateToken(ctx, e.Token1)
	if err != nil {
		p.log.Error().Err(err).Str("token", e.Token1).Msg("token metadata lookup failed")
		return skipped(ReasonMissingDependency), nil, nil
	}

	factory, _ := store.GetOrCreateFactory(p.store, chainID, e.Meta.Source)
	factory.PoolCount++

	bundle, _ := store.GetOrCreateBundle(p.store, chainID)

	pool := entity.NewPool(chainID, strings.ToLower(e.Pool))
	pool.CreatedAtTimestamp = e.Meta.Timestamp.Unix()
	pool.CreatedAtBlockNumber = e.Meta.BlockNumber
	pool.Token0ID = token0.ID
	pool.Token1ID = token1.ID
	pool.FeeTier = e.Fee
	// The on-chain creation event carries no tick; the deployment's tick
	// spacing stands in until the first swap overwrites it.
	pool.Tick = e.TickSpacing
	pool.Supported = token0.Supported && token1.Supported

	// A pool pairing a token with a whitelisted counterpart becomes a
	// price-discovery candidate for that token.
	if token0.IsWhitelisted {
		token1.WhitelistPools = append(token1.WhitelistPools, pool.ID)
	}
	if token1.IsWhitelisted {
		token0.WhitelistPools = append(token0.WhitelistPools, pool.ID)
	}

	token0.PoolCount++
	token1.PoolCount++

	p.store.SetToken(token0)
	p.store.SetToken(token1)
	p.store.SetPool(pool)
	p.store.SetFactory(factory)
	p.store.SetBundle(bundle)

	p.log.Info().
		Str("pool", pool.ID).
		Str("token0", token0.Symbol).
		Str("token1", token1.Symbol).
		Int64("fee_tier", pool.FeeTier).
		Msg("pool created")

	changes := []Change{
		{Kind: entity.KindFactory, Row: factory},
		{Kind: entity.KindBundle, Row: bundle},
		{Kind: entity.KindToken, Row: token0},
		{Kind: entity.KindToken, Row: token1},
		{Kind: entity.KindPool, Row: pool},
	}
	return applied(), changes, nil
}

// getOrCreateToken loads an indexed token or creates it from provider
// metadata. Sanity rules: overrides from chain config win, whitelist and
// supported flags come from this token's own address.
func (p *Processor) getOrCreateToken(ctx context.Context, addr string) (*entity.Token, error) {
	lowered := strings.ToLower(addr)
	id := entity.TokenID(p.cfg.ChainID, lowered)
	if tok, ok := p.store.GetToken(id); ok {
		return tok, nil
	}

	var md metadata.TokenMetadata
	if o, ok := p.cfg.OverrideFor(lowered); ok {
		md = metadata.TokenMetadata{Name: o.Name, Symbol: o.Symbol, Decimals: o.Decimals}
	} else {
		var err error
		md, err = p.metadata.Lookup(ctx, p.cfg.ChainID, lowered)
		if err != nil {
			return nil, err
		}
	}

	tok := entity.NewToken(p.cfg.ChainID, lowered)
	tok.Name = md.Name
	tok.Symbol = md.Symbol
	tok.Decimals = md.Decimals
	tok.IsWhitelisted = p.cfg.IsWhitelisted(lowered)
	tok.Supported = md.Supported || p.cfg.IsSupported(lowered)
	tok.DerivedNative = numeric.Zero

	return tok, nil
}
