package cache

import (
	"context"
	"fmt"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"go.uber.org/zap"
)

// PredictionCacheFactory creates prediction caches based on configuration
type PredictionCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*PredictionCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *PredictionCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *PredictionCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewPredictionCacheFactory creates a new factory
func NewPredictionCacheFactory(cfg config.RedisConfig, opts ...FactoryOption) *PredictionCacheFactory {
	f := &PredictionCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis cache when Redis is enabled and reachable, and an
// in-memory cache otherwise.
func (f *PredictionCacheFactory) Create(ctx context.Context) (commodity.PredictionCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Using in-memory prediction cache", zap.Duration("ttl", f.redisConfig.TTL))
		return NewMemoryPredictionCache(f.redisConfig.TTL), nil
	}

	store, err := NewRedisPredictionCache(ctx, RedisConfig{
		Addr:      f.redisConfig.Addr(),
		Password:  f.redisConfig.Password,
		DB:        f.redisConfig.DB,
		KeyPrefix: f.redisConfig.KeyPrefix,
		TTL:       f.redisConfig.TTL,
	})
	if err == nil {
		f.logger.Info("Using Redis prediction cache", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for prediction cache but unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory prediction cache. "+
		"Instances will not share cached predictions.",
		zap.Error(err),
	)
	return NewMemoryPredictionCache(f.redisConfig.TTL), nil
}
