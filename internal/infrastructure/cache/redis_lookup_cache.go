package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/infrastructure/config"
	"github.com/pulzar/backend/internal/infrastructure/enrichment"
)

// RedisLookupCache caches external product lookups in Redis so repeated
// scans of the same code skip the provider chain
type RedisLookupCache struct {
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	logger     *zap.Logger
}

// NewRedisLookupCache creates a lookup cache with its own Redis connection
func NewRedisLookupCache(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisLookupCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLookupCache{
		client:     client,
		ownsClient: true,
		ttl:        ttl,
		logger:     logger.Named("lookup_cache"),
	}, nil
}

// NewRedisLookupCacheWithClient creates a cache on an existing Redis client.
// The caller retains ownership of the client.
func NewRedisLookupCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisLookupCache {
	return &RedisLookupCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("lookup_cache"),
	}
}

func (c *RedisLookupCache) cacheKey(code string) string {
	return fmt.Sprintf("product_lookup:%s", code)
}

// Get retrieves a cached lookup result, (nil, nil) on a miss
func (c *RedisLookupCache) Get(ctx context.Context, code string) (*catalog.ExternalProduct, error) {
	key := c.cacheKey(code)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lookup from cache: %w", err)
	}

	var product catalog.ExternalProduct
	if err := json.Unmarshal(data, &product); err != nil {
		// Drop the corrupted entry and treat as a miss
		_ = c.client.Del(ctx, key)
		return nil, fmt.Errorf("failed to unmarshal cached lookup: %w", err)
	}

	return &product, nil
}

// Set stores a lookup result with the configured TTL
func (c *RedisLookupCache) Set(ctx context.Context, code string, product *catalog.ExternalProduct) error {
	if product == nil {
		return nil
	}

	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal lookup: %w", err)
	}

	if err := c.client.Set(ctx, c.cacheKey(code), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache lookup: %w", err)
	}

	c.logger.Debug("cached product lookup",
		zap.String("code", code),
		zap.String("provider", product.Source),
		zap.Duration("ttl", c.ttl))
	return nil
}

// Close releases the Redis connection when this cache owns it
func (c *RedisLookupCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

var _ enrichment.LookupCache = (*RedisLookupCache)(nil)
