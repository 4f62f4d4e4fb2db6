// Package cache provides Redis-backed caching and rate limiting.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures the Redis connection pool. Zero values fall back
// to defaults suited to the small per-instance load of the stats API.
type Options struct {
	URL          string
	PoolSize     int
	MinIdleConns int
}

const (
	defaultPoolSize     = 10
	defaultMinIdleConns = 2
)

// Cache wraps a Redis client shared by the stats cache and rate limiter.
type Cache struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection before returning.
func New(ctx context.Context, opts Options) (*Cache, error) {
	cfg, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	applyPoolOptions(cfg, opts)

	client := redis.NewClient(cfg)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

func applyPoolOptions(cfg *redis.Options, opts Options) {
	cfg.PoolSize = opts.PoolSize
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = defaultPoolSize
	}
	cfg.MinIdleConns = opts.MinIdleConns
	if cfg.MinIdleConns <= 0 {
		cfg.MinIdleConns = defaultMinIdleConns
	}
	cfg.PoolTimeout = 4 * time.Second
	cfg.ConnMaxIdleTime = 5 * time.Minute
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client exposes the underlying Redis client for test fixtures.
func (c *Cache) Client() *redis.Client {
	return c.client
}
