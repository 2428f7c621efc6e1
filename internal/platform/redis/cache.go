package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/flashnotes/internal/generation"
	"github.com/phrazzld/flashnotes/internal/platform/logger"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every summary cached in Redis.
const KeyPrefix = "flashnotes:summary:"

// Cache lookup outcomes reported to a CacheObserver.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// CacheObserver receives the outcome of each cache lookup.
type CacheObserver interface {
	ObserveCache(result string)
}

// CachedSummarizer serves summaries from Redis and asks the inner summarizer
// only on a miss. Redis failures never fail a summarization: they are logged
// and the inner summarizer is called as if the cache did not exist.
type CachedSummarizer struct {
	inner    generation.Summarizer
	client   *redis.Client
	ttl      time.Duration
	observer CacheObserver
	logger   *slog.Logger
}

// NewCachedSummarizer wraps inner with a Redis cache. A ttl of zero keeps
// entries until Redis evicts them. observer may be nil.
func NewCachedSummarizer(
	inner generation.Summarizer,
	client *redis.Client,
	ttl time.Duration,
	observer CacheObserver,
	log *slog.Logger,
) *CachedSummarizer {
	if log == nil {
		log = slog.Default()
	}
	return &CachedSummarizer{
		inner:    inner,
		client:   client,
		ttl:      ttl,
		observer: observer,
		logger:   log.With(slog.String("component", "summary_cache")),
	}
}

// Key returns the Redis key under which the summary of text is stored.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return KeyPrefix + hex.EncodeToString(sum[:])
}

// Summarize implements generation.Summarizer.
func (c *CachedSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	key := Key(text)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.observe(ResultHit)
		log.DebugContext(ctx, "summary cache hit")
		return cached, nil
	case errors.Is(err, redis.Nil):
		c.observe(ResultMiss)
	default:
		c.observe(ResultError)
		log.WarnContext(ctx, "summary cache read failed, bypassing cache",
			slog.String("error", err.Error()))
	}

	summary, err := c.inner.Summarize(ctx, text)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, summary, c.ttl).Err(); err != nil {
		log.WarnContext(ctx, "summary cache write failed",
			slog.String("error", err.Error()))
	}

	return summary, nil
}

func (c *CachedSummarizer) observe(result string) {
	if c.observer != nil {
		c.observer.ObserveCache(result)
	}
}
