package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"origincheck/internal/models"
)

const keyPrefix = "plagiarism_check:"

// ResultCache keeps completed check summaries keyed by document fingerprint.
// A nil *ResultCache is a valid no-op cache: every lookup misses and every
// store is dropped, so the engine runs fine without Redis.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(redisURL string, expiryHours int) (*ResultCache, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if expiryHours <= 0 {
		expiryHours = 24
	}
	return &ResultCache{
		client: redis.NewClient(opts),
		ttl:    time.Duration(expiryHours) * time.Hour,
	}, nil
}

// NewWithClient wires an existing client, used by tests with miniredis.
func NewWithClient(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Lookup returns the cached summary for a fingerprint. Any cache failure is
// reported as a miss; the caller falls through to a full detection run.
func (c *ResultCache) Lookup(ctx context.Context, fingerprint string) (models.CachedSummary, bool) {
	if c == nil || c.client == nil {
		return models.CachedSummary{}, false
	}
	raw, err := c.client.Get(ctx, keyPrefix+fingerprint).Result()
	if err != nil {
		return models.CachedSummary{}, false
	}
	var summary models.CachedSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return models.CachedSummary{}, false
	}
	return summary, true
}

// Store saves a completed check's summary. Failures are swallowed; caching is
// best effort and never fails a check.
func (c *ResultCache) Store(ctx context.Context, fingerprint string, summary models.CachedSummary) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, keyPrefix+fingerprint, raw, c.ttl).Err()
}

// Invalidate drops the cached entry for a fingerprint, used when the matched
// source corpus changes enough that a stale verdict would mislead.
func (c *ResultCache) Invalidate(ctx context.Context, fingerprint string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, keyPrefix+fingerprint).Err()
}

func (c *ResultCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
