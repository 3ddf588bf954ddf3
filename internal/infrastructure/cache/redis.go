package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces prediction entries in a shared Redis
const DefaultKeyPrefix = "cropprice:prediction:"

// RedisClient is the subset of *redis.Client the cache uses
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// RedisPredictionCache implements commodity.PredictionCache using Redis.
// Instances behind a load balancer share entries.
type RedisPredictionCache struct {
	client    RedisClient
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// NewRedisPredictionCache connects to Redis and verifies the connection
func NewRedisPredictionCache(ctx context.Context, cfg RedisConfig) (*RedisPredictionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisPredictionCacheWithClient(client, cfg.KeyPrefix, cfg.TTL), nil
}

// NewRedisPredictionCacheWithClient creates a cache over an existing client
func NewRedisPredictionCacheWithClient(client RedisClient, keyPrefix string, ttl time.Duration) *RedisPredictionCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisPredictionCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Get returns the cached price for key
func (c *RedisPredictionCache) Get(ctx context.Context, key string) (commodity.CachedPrice, bool, error) {
	raw, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return commodity.CachedPrice{}, false, nil
	}
	if err != nil {
		return commodity.CachedPrice{}, false, fmt.Errorf("failed to read cached prediction: %w", err)
	}

	var v commodity.CachedPrice
	if err := json.Unmarshal(raw, &v); err != nil {
		return commodity.CachedPrice{}, false, fmt.Errorf("failed to decode cached prediction: %w", err)
	}
	return v, true, nil
}

// Set stores value under key with the configured TTL
func (c *RedisPredictionCache) Set(ctx context.Context, key string, value commodity.CachedPrice) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode prediction: %w", err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache prediction: %w", err)
	}
	return nil
}

// Clear deletes every key under the prefix using SCAN
func (c *RedisPredictionCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.keyPrefix+"*", 500).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cached predictions: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cached predictions: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Close closes the Redis client
func (c *RedisPredictionCache) Close() error {
	return c.client.Close()
}

var _ commodity.PredictionCache = (*RedisPredictionCache)(nil)
