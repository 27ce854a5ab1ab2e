package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appbilling "github.com/microcredit/backend/internal/application/billing"
	appreport "github.com/microcredit/backend/internal/application/report"
	"github.com/microcredit/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const summaryKeyPrefix = "dashboard:"

// RedisSummaryCache stores rendered dashboard summaries in Redis. It backs
// both the cache-aside read in the report service and the invalidation hook
// the billing service fires after a receipt commits.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSummaryCache creates a Redis-backed summary cache and verifies the
// connection
func NewRedisSummaryCache(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisSummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSummaryCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("summary_cache"),
	}, nil
}

// NewRedisSummaryCacheWithClient creates a cache with an existing Redis client
func NewRedisSummaryCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSummaryCache {
	return &RedisSummaryCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("summary_cache"),
	}
}

// Get returns the cached summary for the key, or (nil, nil) on a miss
func (c *RedisSummaryCache) Get(ctx context.Context, key string) (*appreport.SummaryResponse, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached summary: %w", err)
	}

	var summary appreport.SummaryResponse
	if err := json.Unmarshal(payload, &summary); err != nil {
		// A corrupt entry is treated as a miss and dropped
		c.logger.Warn("Dropping unreadable cache entry", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return nil, nil
	}

	return &summary, nil
}

// Set stores the summary under the key with the configured TTL
func (c *RedisSummaryCache) Set(ctx context.Context, key string, summary *appreport.SummaryResponse) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache summary: %w", err)
	}

	c.logger.Debug("Cached dashboard summary", zap.String("key", key), zap.Duration("ttl", c.ttl))
	return nil
}

// Invalidate removes every cached summary. Called after a receipt or expense
// changes the numbers behind the dashboard.
func (c *RedisSummaryCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, summaryKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan summary keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete summary keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Debug("Invalidated dashboard summaries")
	return nil
}

// Close closes the Redis client
func (c *RedisSummaryCache) Close() error {
	return c.client.Close()
}

// Ensure RedisSummaryCache serves both the report cache and the billing
// invalidation hook
var (
	_ appreport.SummaryCache          = (*RedisSummaryCache)(nil)
	_ appbilling.DashboardInvalidator = (*RedisSummaryCache)(nil)
)
