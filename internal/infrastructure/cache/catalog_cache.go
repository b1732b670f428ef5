package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noltshop/backend/internal/infrastructure/config"
)

// CatalogCache caches merged catalog read responses. A cache failure is
// never surfaced to the caller: reads degrade to a miss and writes are
// dropped, so the catalog stays available when Redis is not.
type CatalogCache interface {
	// Get loads a cached value into dest. Returns false on a miss.
	Get(ctx context.Context, key string, dest any) bool

	// Set stores a value under key with the configured TTL
	Set(ctx context.Context, key string, value any)

	// InvalidateAll drops every cached catalog entry
	InvalidateAll(ctx context.Context)
}

const catalogKeyPrefix = "catalog:"

// RedisCatalogCache implements CatalogCache on Redis
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCatalogCache creates a cache backed by a new Redis connection
func NewRedisCatalogCache(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisCatalogCache, error) {
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

	return NewRedisCatalogCacheWithClient(client, ttl, logger), nil
}

// NewRedisCatalogCacheWithClient creates a cache sharing an existing client
func NewRedisCatalogCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCatalogCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCatalogCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("cache"),
	}
}

// Get loads a cached value into dest. Any Redis or decode failure is
// treated as a miss.
func (c *RedisCatalogCache) Get(ctx context.Context, key string, dest any) bool {
	payload, err := c.client.Get(ctx, catalogKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		c.logger.Warn("cache entry not decodable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores a value under key with the configured TTL
func (c *RedisCatalogCache) Set(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache value not encodable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, catalogKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateAll drops every cached catalog entry
func (c *RedisCatalogCache) InvalidateAll(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, catalogKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisCatalogCache) Close() error {
	return c.client.Close()
}

var _ CatalogCache = (*RedisCatalogCache)(nil)

// NoopCatalogCache is used when caching is disabled
type NoopCatalogCache struct{}

// NewNoopCatalogCache creates a cache that never hits
func NewNoopCatalogCache() *NoopCatalogCache {
	return &NoopCatalogCache{}
}

func (NoopCatalogCache) Get(ctx context.Context, key string, dest any) bool { return false }
func (NoopCatalogCache) Set(ctx context.Context, key string, value any)     {}
func (NoopCatalogCache) InvalidateAll(ctx context.Context)                  {}

var _ CatalogCache = (*NoopCatalogCache)(nil)
