package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"MarketPulse/internal/model"
)

// CachingFetcher decorates a Fetcher with Redis caching.
// Cache errors never fail a fetch; they only fall through to the inner fetcher.
type CachingFetcher struct {
	inner     Fetcher
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingFetcher decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "series".
func NewCachingFetcher(rdb *redis.Client, ttl time.Duration, inner Fetcher, namespace string) *CachingFetcher {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "series"
	}
	return &CachingFetcher{inner: inner, rdb: rdb, ttl: ttl, namespace: namespace}
}

func (c *CachingFetcher) Name() string { return c.inner.Name() + "+redis" }

// FetchSeries checks the cache first, then falls back to the inner fetcher.
func (c *CachingFetcher) FetchSeries(ctx context.Context, symbol string, days int) (model.PriceSeries, error) {
	if c.rdb == nil {
		return c.inner.FetchSeries(ctx, symbol, days)
	}

	key := c.cacheKey(symbol, days)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out model.PriceSeries
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to source
	out, err := c.inner.FetchSeries(ctx, symbol, days)
	if err != nil {
		return model.PriceSeries{}, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

func (c *CachingFetcher) cacheKey(symbol string, days int) string {
	return fmt.Sprintf("%s:%s:%d", c.namespace, safe(symbol), days)
}

// safe keeps keys free of separators and glob characters.
func safe(s string) string {
	r := strings.NewReplacer(":", "_", "*", "_", "?", "_", "[", "_", "]", "_", " ", "_")
	return strings.ToUpper(r.Replace(s))
}
