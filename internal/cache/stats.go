package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storepulse/storepulse/internal/model"
)

// Cache key prefixes and TTLs.
const (
	rangeKeyPrefix = "stats:range:"

	// DefaultRangeTTL is the TTL for cached range results. Kept short:
	// the dashboard shows live data and the underlying counters advance
	// continuously.
	DefaultRangeTTL = 30 * time.Second
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// StatsCache is a read-through cache for aggregated range results,
// backed by Redis with a short TTL.
type StatsCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewStatsCache creates a StatsCache over an existing Redis cache. A
// non-positive ttl falls back to DefaultRangeTTL.
func NewStatsCache(cache *Cache, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = DefaultRangeTTL
	}
	return &StatsCache{cache: cache, ttl: ttl}
}

// GetRange retrieves a cached range result.
// Returns ErrCacheMiss if not found.
func (s *StatsCache) GetRange(ctx context.Context, day string, windowHours int) (*model.RangeResult, error) {
	data, err := s.cache.client.Get(ctx, rangeKey(day, windowHours)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var result model.RangeResult
	if err := json.Unmarshal(data, &result); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		return nil, ErrCacheMiss
	}

	return &result, nil
}

// SetRange stores a range result with the configured TTL.
func (s *StatsCache) SetRange(ctx context.Context, day string, windowHours int, result *model.RangeResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal range result: %w", err)
	}

	if err := s.cache.client.SetEx(ctx, rangeKey(day, windowHours), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache range result: %w", err)
	}

	return nil
}

// rangeKey builds the cache key for a day and window size.
func rangeKey(day string, windowHours int) string {
	return rangeKeyPrefix + day + ":" + strconv.Itoa(windowHours)
}
