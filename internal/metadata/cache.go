package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"PoolLedger/internal/observability"
)

// CachedProvider fronts a Provider with two cache tiers: an in-process map
// and an optional Redis tier shared across instances. Token metadata is
// immutable for our purposes, so entries never expire locally; the Redis
// TTL exists only to bound keyspace growth.
type CachedProvider struct {
	next    Provider
	redis   *redis.Client
	ttl     time.Duration
	metrics *observability.Metrics
	log     zerolog.Logger

	mu    sync.RWMutex
	local map[string]TokenMetadata
}

func NewCachedProvider(
	next Provider,
	redisClient *redis.Client,
	ttl time.Duration,
	metrics *observability.Metrics,
	log zerolog.Logger,
) *CachedProvider {
	return &CachedProvider{
		next:    next,
		redis:   redisClient,
		ttl:     ttl,
		metrics: metrics,
		log:     log.With().Str("component", "metadata_cache").Logger(),
		local:   make(map[string]TokenMetadata),
	}
}

func cacheKey(chainID int64, addr string) string {
	return fmt.Sprintf("poolledger:token:%d:%s", chainID, addr)
}

func (c *CachedProvider) Lookup(ctx context.Context, chainID int64, addr string) (TokenMetadata, error) {
	key := cacheKey(chainID, addr)

	c.mu.RLock()
	md, ok := c.local[key]
	c.mu.RUnlock()
	if ok {
		c.countHit("local")
		return md, nil
	}

	if c.redis != nil {
		raw, err := c.redis.Get(ctx, key).Bytes()
		if err == nil {
			if jsonErr := json.Unmarshal(raw, &md); jsonErr == nil {
				c.countHit("redis")
				c.storeLocal(key, md)
				return md, nil
			}
		} else if err != redis.Nil {
			// Redis being down must not stall indexing; fall through to
			// the resolver.
			c.log.Warn().Err(err).Msg("redis get failed")
		}
	}

	md, err := c.next.Lookup(ctx, chainID, addr)
	if err != nil {
		return TokenMetadata{}, err
	}

	c.storeLocal(key, md)
	if c.redis != nil {
		if raw, jsonErr := json.Marshal(md); jsonErr == nil {
			if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				c.log.Warn().Err(err).Msg("redis set failed")
			}
		}
	}

	return md, nil
}

func (c *CachedProvider) storeLocal(key string, md TokenMetadata) {
	c.mu.Lock()
	c.local[key] = md
	c.mu.Unlock()
}

func (c *CachedProvider) countHit(tier string) {
	if c.metrics != nil {
		c.metrics.MetadataCacheHits.WithLabelValues(tier).Inc()
	}
}
