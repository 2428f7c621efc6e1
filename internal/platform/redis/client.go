// Package redis provides the optional Redis-backed summary cache.
package redis

import (
	"context"
	"fmt"

	"github.com/phrazzld/flashnotes/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewClient creates a Redis client from cfg and verifies the connection.
// It returns nil, nil when no Redis URL is configured.
func NewClient(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}
