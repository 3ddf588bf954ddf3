package ml

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
)

// Model types
const (
	ModelRandomForest     = "random_forest"
	ModelGradientBoosting = "gradient_boosting"
	ModelLinear           = "linear_regression"
)

// MinRecommendedRecords is the dataset size below which training warns
const MinRecommendedRecords = 100

// TrainerConfig holds the model type and its hyperparameters
type TrainerConfig struct {
	ModelType       string
	TestRatio       float64
	Seed            uint64
	Estimators      int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	LearningRate    float64
}

// DefaultTrainerConfig is a 100 tree random forest of depth 10
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		ModelType:       ModelRandomForest,
		TestRatio:       0.2,
		Seed:            42,
		Estimators:      100,
		MaxDepth:        10,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  2,
		LearningRate:    0.1,
	}
}

// NewModel builds an unfitted regressor for cfg.ModelType
func NewModel(cfg TrainerConfig) (Regressor, error) {
	switch cfg.ModelType {
	case ModelRandomForest, "":
		return NewRandomForest(ForestConfig{
			Estimators:      cfg.Estimators,
			MaxDepth:        cfg.MaxDepth,
			MinSamplesSplit: cfg.MinSamplesSplit,
			MinSamplesLeaf:  cfg.MinSamplesLeaf,
			Seed:            cfg.Seed,
		}), nil
	case ModelGradientBoosting:
		return NewGradientBoosting(BoostingConfig{
			Estimators:      cfg.Estimators,
			LearningRate:    cfg.LearningRate,
			MaxDepth:        cfg.MaxDepth,
			MinSamplesSplit: cfg.MinSamplesSplit,
			MinSamplesLeaf:  cfg.MinSamplesLeaf,
			Seed:            cfg.Seed,
		}), nil
	case ModelLinear:
		return NewLinearRegression(), nil
	}
	return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown model type %q", cfg.ModelType))
}

// TrainingMetrics summarizes a training run
type TrainingMetrics struct {
	TrainScore        float64            `json:"train_score"`
	TestScore         float64            `json:"test_score"`
	MAE               float64            `json:"mae"`
	RMSE              float64            `json:"rmse"`
	R2                float64            `json:"r2"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	TrainingSamples   int                `json:"training_samples"`
	TestingSamples    int                `json:"testing_samples"`
	Timestamp         time.Time          `json:"timestamp"`
}

// Trainer fits a single model on the dataset
type Trainer struct {
	cfg    TrainerConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewTrainer creates a trainer
func NewTrainer(cfg TrainerConfig, logger *zap.Logger) *Trainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TestRatio <= 0 || cfg.TestRatio >= 1 {
		cfg.TestRatio = DefaultTrainerConfig().TestRatio
	}
	return &Trainer{cfg: cfg, logger: logger.Named("trainer"), now: time.Now}
}

// Config returns the trainer configuration
func (t *Trainer) Config() TrainerConfig { return t.cfg }

// Train encodes records, fits the configured model on a train split and
// scores it on the held out split.
func (t *Trainer) Train(ctx context.Context, records []commodity.PriceRecord) (*Bundle, error) {
	if len(records) == 0 {
		return nil, shared.ErrNoData.WithMessage("no training records")
	}
	if len(records) < MinRecommendedRecords {
		t.logger.Warn("Limited data available, model may not generalize",
			zap.Int("records", len(records)),
			zap.Int("recommended", MinRecommendedRecords),
		)
	}

	pre := &Preprocessor{Categorical: CategoricalFeatures, Numeric: NumericFeatures}
	X, y, err := pre.FitTransform(records)
	if err != nil {
		return nil, err
	}
	if len(X) < 2 {
		return nil, shared.ErrNoData.WithMessage("at least 2 priced records are required")
	}

	trainIdx, testIdx := TrainTestSplit(len(X), t.cfg.TestRatio, t.cfg.Seed)
	Xtr, ytr := subset(X, y, trainIdx)
	Xte, yte := subset(X, y, testIdx)

	model, err := NewModel(t.cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	t.logger.Info("Training model",
		zap.String("model_type", t.cfg.ModelType),
		zap.Int("train_samples", len(Xtr)),
		zap.Int("test_samples", len(Xte)),
		zap.Int("features", len(pre.FeatureColumns())),
	)
	if err := model.Fit(ctx, Xtr, ytr); err != nil {
		return nil, shared.ErrTrainingFailed.Wrap("fit model", err)
	}

	now := t.now()
	test := Evaluate(t.cfg.ModelType, yte, PredictAll(model, Xte), now)
	metrics := TrainingMetrics{
		TrainScore:        R2(ytr, PredictAll(model, Xtr)),
		TestScore:         test.R2,
		MAE:               test.MAE,
		RMSE:              test.RMSE,
		R2:                test.R2,
		FeatureImportance: ImportanceMap(RankImportances(pre.FeatureColumns(), model.FeatureImportances(), 5)),
		TrainingSamples:   len(Xtr),
		TestingSamples:    len(Xte),
		Timestamp:         now,
	}

	t.logger.Info("Model trained",
		zap.Duration("elapsed", time.Since(start)),
		zap.Float64("train_score", metrics.TrainScore),
		zap.Float64("test_score", metrics.TestScore),
		zap.Float64("mae", metrics.MAE),
		zap.Float64("rmse", metrics.RMSE),
	)

	return &Bundle{
		Model:           model,
		Preprocessor:    pre,
		TargetColumn:    TargetColumn,
		ModelType:       modelTypeOr(t.cfg.ModelType),
		Version:         BundleVersion,
		CreatedAt:       now,
		TrainingMetrics: metrics,
	}, nil
}

func modelTypeOr(t string) string {
	if t == "" {
		return ModelRandomForest
	}
	return t
}
