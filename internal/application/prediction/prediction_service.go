// Package prediction serves crop price predictions and manages the model
// lifecycle: training, comparison, loading and the data pipeline.
package prediction

import (
	"context"
	"strconv"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared/strategy"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/ml"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/strategy/pricing"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Limits of Recent
const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

// FallbackStrategyGetter resolves the pricing strategy used without a model
type FallbackStrategyGetter interface {
	Resolve(name string) strategy.PricingStrategy
}

// PredictionService handles price predictions
type PredictionService struct {
	models   *ModelHolder
	registry FallbackStrategyGetter
	cache    commodity.PredictionCache
	logs     commodity.PredictionLogRepository
	metrics  *telemetry.PriceMetrics
	logger   *zap.Logger
	now      func() time.Time
}

// PredictionServiceOption configures a PredictionService
type PredictionServiceOption func(*PredictionService)

// WithPredictionCache enables the prediction cache
func WithPredictionCache(c commodity.PredictionCache) PredictionServiceOption {
	return func(s *PredictionService) { s.cache = c }
}

// WithPredictionLogs enables prediction logging
func WithPredictionLogs(r commodity.PredictionLogRepository) PredictionServiceOption {
	return func(s *PredictionService) { s.logs = r }
}

// WithPredictionMetrics records prediction metrics
func WithPredictionMetrics(m *telemetry.PriceMetrics) PredictionServiceOption {
	return func(s *PredictionService) { s.metrics = m }
}

// WithPredictionLogger sets the service logger
func WithPredictionLogger(l *zap.Logger) PredictionServiceOption {
	return func(s *PredictionService) { s.logger = l }
}

// WithPredictionClock overrides the clock used for feature defaults
func WithPredictionClock(now func() time.Time) PredictionServiceOption {
	return func(s *PredictionService) { s.now = now }
}

// NewPredictionService creates a new PredictionService
func NewPredictionService(models *ModelHolder, registry FallbackStrategyGetter, opts ...PredictionServiceOption) *PredictionService {
	s := &PredictionService{
		models:   models,
		registry: registry,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ModelLoaded reports whether predictions are served by a trained model
func (s *PredictionService) ModelLoaded() bool {
	return s.models.Loaded()
}

// Predict prepares the features of req and prices them with the loaded
// model, falling back to the rule-based formula when no model is loaded or
// the model fails.
func (s *PredictionService) Predict(ctx context.Context, req PredictRequest) (*PredictionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PredictionService", "Predict")
	defer span.End()
	start := time.Now()

	features, err := req.toDomain().Features(s.now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCropType, features.CropType,
		telemetry.SpanAttrRegion, features.Region,
	)

	// Prices are cached per model generation, so a swap retires every
	// earlier entry.
	bundle, generation := s.models.Snapshot()
	key := generationKey(generation, features)
	price, method, cached := s.lookup(ctx, key)
	if !cached {
		price, method, err = s.price(ctx, bundle, features)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		s.store(ctx, key, commodity.CachedPrice{Price: price, Method: method})
	}

	p := commodity.NewPrediction(features, price, method)
	p.Cached = cached

	if s.logs != nil {
		if err := s.logs.Save(ctx, p.Log()); err != nil {
			s.logger.Warn("Failed to log prediction", zap.String("id", p.ID.String()), zap.Error(err))
		}
	}

	s.metrics.RecordPrediction(ctx, string(method), features.CropType, time.Since(start))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrMethod, string(method),
		telemetry.SpanAttrCached, cached,
		telemetry.SpanAttrPrice, p.PredictedPrice.InexactFloat64(),
	)
	telemetry.SetOK(span)

	s.logger.Info("Prediction served",
		zap.String("crop_type", features.CropType),
		zap.String("region", features.Region),
		zap.String("method", string(method)),
		zap.String("price", p.PredictedPrice.String()),
		zap.Bool("cached", cached),
	)

	resp := ToPredictionResponse(p)
	return &resp, nil
}

func generationKey(generation uint64, f commodity.PriceFeatures) string {
	return "g" + strconv.FormatUint(generation, 10) + "|" + commodity.CacheKey(f)
}

func (s *PredictionService) price(ctx context.Context, bundle *ml.Bundle, f commodity.PriceFeatures) (decimal.Decimal, commodity.Method, error) {
	if bundle != nil {
		v, err := bundle.Predict(f)
		if err == nil {
			return decimal.NewFromFloat(v), commodity.MethodMLModel, nil
		}
		s.logger.Warn("ML prediction failed, using fallback", zap.Error(err))
	}

	fallback := s.registry.Resolve(pricing.FallbackStrategyName)
	if fallback == nil {
		return decimal.Zero, "", shared.ErrInvalidState.WithMessage("no fallback pricing strategy registered")
	}
	res, err := fallback.CalculatePrice(ctx, pricing.ContextFromFeatures(f))
	if err != nil {
		return decimal.Zero, "", err
	}
	return res.UnitPrice, commodity.MethodFallback, nil
}

func (s *PredictionService) lookup(ctx context.Context, key string) (decimal.Decimal, commodity.Method, bool) {
	if s.cache == nil {
		return decimal.Zero, "", false
	}
	v, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Prediction cache lookup failed", zap.Error(err))
		ok = false
	}
	s.metrics.RecordCacheLookup(ctx, ok)
	return v.Price, v.Method, ok
}

func (s *PredictionService) store(ctx context.Context, key string, v commodity.CachedPrice) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		s.logger.Warn("Prediction cache store failed", zap.Error(err))
	}
}

// Recent returns the latest logged predictions, newest first, with the
// number of predictions served per method.
func (s *PredictionService) Recent(ctx context.Context, limit int) (*RecentPredictionsResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	resp := &RecentPredictionsResponse{
		Predictions: []PredictionLogResponse{},
		ByMethod:    map[string]int64{},
	}
	if s.logs == nil {
		return resp, nil
	}

	logs, err := s.logs.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		resp.Predictions = append(resp.Predictions, ToPredictionLogResponse(l))
	}
	resp.Count = len(resp.Predictions)

	counts, err := s.logs.CountByMethod(ctx)
	if err != nil {
		return nil, err
	}
	for m, n := range counts {
		resp.ByMethod[string(m)] = n
	}
	return resp, nil
}
