package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/dataset"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/ml"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/storage"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Artifact keys written next to the serving model
const (
	ComparisonModelKey  = "price_model_v2.gob"
	ComparisonReportKey = "model_comparison.json"
	versionsPrefix      = "versions"
)

// TrainerConfigFrom maps the model settings onto the trainer configuration
func TrainerConfigFrom(cfg config.ModelConfig) ml.TrainerConfig {
	tc := ml.DefaultTrainerConfig()
	if cfg.Type != "" {
		tc.ModelType = cfg.Type
	}
	if cfg.TestRatio > 0 {
		tc.TestRatio = cfg.TestRatio
	}
	if cfg.Seed > 0 {
		tc.Seed = uint64(cfg.Seed)
	}
	if cfg.Estimators > 0 {
		tc.Estimators = cfg.Estimators
	}
	if cfg.MaxDepth > 0 {
		tc.MaxDepth = cfg.MaxDepth
	}
	if cfg.MinSamplesSplit > 0 {
		tc.MinSamplesSplit = cfg.MinSamplesSplit
	}
	if cfg.MinSamplesLeaf > 0 {
		tc.MinSamplesLeaf = cfg.MinSamplesLeaf
	}
	if cfg.LearningRate > 0 {
		tc.LearningRate = cfg.LearningRate
	}
	return tc
}

// CompareConfigFrom maps the model settings onto the comparer configuration.
// Candidate hyperparameters keep their comparison defaults.
func CompareConfigFrom(cfg config.ModelConfig) ml.CompareConfig {
	cc := ml.DefaultCompareConfig()
	if cfg.TestRatio > 0 {
		cc.TestRatio = cfg.TestRatio
	}
	if cfg.Seed > 0 {
		cc.Seed = uint64(cfg.Seed)
		cc.Forest.Seed = cc.Seed
		cc.Boosting.Seed = cc.Seed
	}
	return cc
}

// TrainingService trains, compares and loads price models
type TrainingService struct {
	cfg      config.ModelConfig
	models   *ModelHolder
	store    storage.ArtifactStore
	versions commodity.ModelVersionRepository
	cache    commodity.PredictionCache
	metrics  *telemetry.PriceMetrics
	logger   *zap.Logger

	// serializes training runs
	runMu sync.Mutex
}

// TrainingServiceOption configures a TrainingService
type TrainingServiceOption func(*TrainingService)

// WithModelVersions records every trained model
func WithModelVersions(r commodity.ModelVersionRepository) TrainingServiceOption {
	return func(s *TrainingService) { s.versions = r }
}

// WithCacheInvalidation clears c whenever a new model is loaded
func WithCacheInvalidation(c commodity.PredictionCache) TrainingServiceOption {
	return func(s *TrainingService) { s.cache = c }
}

// WithTrainingMetrics records training metrics
func WithTrainingMetrics(m *telemetry.PriceMetrics) TrainingServiceOption {
	return func(s *TrainingService) { s.metrics = m }
}

// WithTrainingLogger sets the service logger
func WithTrainingLogger(l *zap.Logger) TrainingServiceOption {
	return func(s *TrainingService) { s.logger = l }
}

// NewTrainingService creates a new TrainingService
func NewTrainingService(cfg config.ModelConfig, models *ModelHolder, store storage.ArtifactStore, opts ...TrainingServiceOption) *TrainingService {
	s := &TrainingService{
		cfg:    cfg,
		models: models,
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ModelKey is the artifact key of the serving model
func (s *TrainingService) ModelKey() string {
	return filepath.Base(s.cfg.Path)
}

// ModelLoaded reports whether a model is loaded
func (s *TrainingService) ModelLoaded() bool {
	return s.models.Loaded()
}

// LoadModel loads the serving model from the artifact store. A missing
// model is not an error: predictions use the fallback until one is trained.
func (s *TrainingService) LoadModel(ctx context.Context) (bool, error) {
	key := s.ModelKey()
	data, err := s.store.Get(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("No trained model found. Please train first.", zap.String("location", s.store.Location(key)))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	bundle, err := ml.DecodeBundle(bytes.NewReader(data))
	if err != nil {
		return false, err
	}
	s.models.Swap(bundle)
	s.invalidateCache(ctx)

	s.logger.Info("ML model loaded successfully",
		zap.String("location", s.store.Location(key)),
		zap.String("model_type", bundle.ModelType),
		zap.Time("trained_at", bundle.CreatedAt),
	)
	return true, nil
}

// ModelInfo describes the loaded model
func (s *TrainingService) ModelInfo() (*ml.ModelInfo, error) {
	bundle := s.models.Current()
	if bundle == nil {
		return nil, shared.ErrModelNotLoaded
	}
	info := bundle.Info()
	return &info, nil
}

// Train fits the configured model on the training dataset, stores it and
// swaps it in for serving.
func (s *TrainingService) Train(ctx context.Context, trigger commodity.Trigger) (*TrainResponse, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	tc := TrainerConfigFrom(s.cfg)
	ctx, span := telemetry.StartServiceSpan(ctx, "TrainingService", "Train",
		telemetry.WithAttribute(telemetry.SpanAttrModelType, tc.ModelType),
		telemetry.WithAttribute(telemetry.SpanAttrTrigger, string(trigger)),
	)
	defer span.End()
	start := time.Now()

	fail := func(err error) (*TrainResponse, error) {
		telemetry.RecordError(span, err)
		s.metrics.RecordTraining(ctx, tc.ModelType, string(trigger), time.Since(start), 0, err)
		s.logger.Error("Training failed", zap.String("trigger", string(trigger)), zap.Error(err))
		return nil, err
	}

	records, err := s.loadRecords(ctx)
	if err != nil {
		return fail(err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrSamples, len(records))

	var bundle *ml.Bundle
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("train", map[string]string{
		telemetry.ProfilingLabelModelType: tc.ModelType,
	}), func(ctx context.Context) {
		bundle, err = ml.NewTrainer(tc, s.logger).Train(ctx, records)
	})
	if err != nil {
		return fail(err)
	}

	id := uuid.New()
	version := commodity.ModelVersion{
		ID:              id,
		CreatedAt:       bundle.CreatedAt,
		ModelType:       bundle.ModelType,
		Version:         bundle.Version,
		ArtifactKey:     path.Join(versionsPrefix, id.String()+".gob"),
		TrainingSamples: bundle.TrainingMetrics.TrainingSamples,
		TestingSamples:  bundle.TrainingMetrics.TestingSamples,
		R2:              bundle.TrainingMetrics.R2,
		MAE:             bundle.TrainingMetrics.MAE,
		RMSE:            bundle.TrainingMetrics.RMSE,
		Trigger:         trigger,
	}

	if err := s.saveBundle(ctx, bundle, s.ModelKey(), version.ArtifactKey); err != nil {
		return fail(fmt.Errorf("save model: %w", err))
	}
	if s.versions != nil {
		if err := s.versions.Save(ctx, &version); err != nil {
			s.logger.Warn("Failed to record model version", zap.String("id", version.ID.String()), zap.Error(err))
		}
	}

	s.models.Swap(bundle)
	s.invalidateCache(ctx)

	elapsed := time.Since(start)
	s.metrics.RecordTraining(ctx, bundle.ModelType, string(trigger), elapsed, bundle.TrainingMetrics.R2, nil)
	telemetry.SetAttributes(span, telemetry.SpanAttrModelVer, version.ID.String())
	telemetry.SetOK(span)

	s.logger.Info("Model trained successfully",
		zap.String("model_type", bundle.ModelType),
		zap.String("trigger", string(trigger)),
		zap.String("location", s.store.Location(s.ModelKey())),
		zap.Float64("r2", bundle.TrainingMetrics.R2),
		zap.Duration("elapsed", elapsed),
	)

	dto := ToModelVersionDTO(version)
	return &TrainResponse{
		Message:     "Model trained successfully",
		ModelLoaded: true,
		ModelType:   bundle.ModelType,
		Version:     &dto,
		Metrics:     bundle.TrainingMetrics,
	}, nil
}

// Compare trains every candidate model type, stores the comparison report
// and the best model under ComparisonModelKey. The serving model is not
// replaced.
func (s *TrainingService) Compare(ctx context.Context) (*CompareResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "TrainingService", "Compare")
	defer span.End()

	records, err := s.loadRecords(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	report, best, err := ml.NewComparer(CompareConfigFrom(s.cfg), s.logger).Compare(ctx, records)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.saveBundle(ctx, best, ComparisonModelKey); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save best model: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, ComparisonReportKey, data, storage.ContentTypeJSON); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save comparison report: %w", err)
	}
	if s.cfg.ComparisonPath != "" {
		if err := report.Save(s.cfg.ComparisonPath); err != nil {
			s.logger.Warn("Failed to write comparison report", zap.String("path", s.cfg.ComparisonPath), zap.Error(err))
		}
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrModelType, report.BestModel)
	telemetry.SetOK(span)
	return &CompareResponse{
		Report:      report,
		ArtifactKey: ComparisonModelKey,
		Location:    s.store.Location(ComparisonModelKey),
	}, nil
}

// Versions lists the training history, newest first
func (s *TrainingService) Versions(ctx context.Context, limit int) ([]ModelVersionDTO, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	out := []ModelVersionDTO{}
	if s.versions == nil {
		return out, nil
	}
	versions, err := s.versions.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, v := range versions {
		out = append(out, ToModelVersionDTO(v))
	}
	return out, nil
}

func (s *TrainingService) loadRecords(ctx context.Context) ([]commodity.PriceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	frame, parseErrs, err := dataset.ReadCSVFile(s.cfg.DataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, shared.ErrNoData.Wrap("training data not found: "+s.cfg.DataPath, err)
	}
	if err != nil {
		return nil, fmt.Errorf("load training data: %w", err)
	}
	if parseErrs.HasErrors() {
		s.logger.Warn("Training data has unreadable cells", zap.Int("errors", parseErrs.TotalCount()))
	}

	records, recErrs := frame.Records()
	if recErrs.HasErrors() {
		s.logger.Warn("Training data has invalid values", zap.Int("errors", recErrs.TotalCount()))
	}
	s.logger.Info("Training data loaded", zap.String("path", s.cfg.DataPath), zap.Int("records", len(records)))
	return records, nil
}

// saveBundle stores b and its metrics under every key
func (s *TrainingService) saveBundle(ctx context.Context, b *ml.Bundle, keys ...string) error {
	var buf bytes.Buffer
	if err := b.Encode(&buf); err != nil {
		return err
	}
	metrics, err := b.MetricsJSON()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.store.Put(ctx, key, buf.Bytes(), storage.ContentTypeGob); err != nil {
			return err
		}
		if err := s.store.Put(ctx, ml.MetricsPath(key), metrics, storage.ContentTypeJSON); err != nil {
			return err
		}
	}
	return nil
}

func (s *TrainingService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("Failed to clear prediction cache", zap.Error(err))
	}
}
