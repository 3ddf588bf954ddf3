package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
)

// CompareConfig holds the candidate models and validation settings
type CompareConfig struct {
	TestRatio float64
	Seed      uint64
	Folds     int
	Forest    ForestConfig
	Boosting  BoostingConfig
}

// DefaultCompareConfig compares a depth 15 forest, a depth 5 booster and a
// linear baseline with 5-fold cross-validation.
func DefaultCompareConfig() CompareConfig {
	return CompareConfig{
		TestRatio: 0.2,
		Seed:      42,
		Folds:     5,
		Forest: ForestConfig{
			Estimators: 100, MaxDepth: 15, MinSamplesSplit: 5, MinSamplesLeaf: 2, Seed: 42,
		},
		Boosting: BoostingConfig{
			Estimators: 100, LearningRate: 0.1, MaxDepth: 5, MinSamplesSplit: 5, MinSamplesLeaf: 2, Seed: 42,
		},
	}
}

// DataInfo describes the data a comparison ran on
type DataInfo struct {
	TotalRecords    int `json:"total_records"`
	TrainingSamples int `json:"training_samples"`
	TestingSamples  int `json:"testing_samples"`
	Features        int `json:"features"`
}

// ComparisonReport ranks the candidate models
type ComparisonReport struct {
	BestModel         string             `json:"best_model"`
	BestMetrics       Metrics            `json:"best_metrics"`
	AllResults        map[string]Metrics `json:"all_results"`
	Timestamp         time.Time          `json:"timestamp"`
	DataInfo          DataInfo           `json:"data_info"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
}

// Save writes the report as indented JSON
func (r *ComparisonReport) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

type candidate struct {
	name string
	make func() Regressor
}

// Comparer trains several model types on the same split and picks the one
// with the best held out R².
type Comparer struct {
	cfg    CompareConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewComparer creates a comparer
func NewComparer(cfg CompareConfig, logger *zap.Logger) *Comparer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Comparer{cfg: cfg, logger: logger.Named("comparer"), now: time.Now}
}

func (c *Comparer) candidates() []candidate {
	return []candidate{
		{ModelRandomForest, func() Regressor { return NewRandomForest(c.cfg.Forest) }},
		{ModelGradientBoosting, func() Regressor { return NewGradientBoosting(c.cfg.Boosting) }},
		{ModelLinear, func() Regressor { return NewLinearRegression() }},
	}
}

// Compare runs the comparison and returns the report together with a
// bundle of the winning model.
func (c *Comparer) Compare(ctx context.Context, records []commodity.PriceRecord) (*ComparisonReport, *Bundle, error) {
	if len(records) == 0 {
		return nil, nil, shared.ErrNoData.WithMessage("no training records")
	}

	pre := &Preprocessor{Categorical: CategoricalFeatures, Numeric: ExtendedNumericFeatures}
	X, y, err := pre.FitTransform(records)
	if err != nil {
		return nil, nil, err
	}
	if len(X) < 2 {
		return nil, nil, shared.ErrNoData.WithMessage("at least 2 priced records are required")
	}

	trainIdx, testIdx := TrainTestSplit(len(X), c.cfg.TestRatio, c.cfg.Seed)
	Xtr, ytr := subset(X, y, trainIdx)
	Xte, yte := subset(X, y, testIdx)
	folds := KFold(len(X), c.cfg.Folds, c.cfg.Seed)

	now := c.now()
	report := &ComparisonReport{
		AllResults: make(map[string]Metrics),
		Timestamp:  now,
		DataInfo: DataInfo{
			TotalRecords:    len(records),
			TrainingSamples: len(Xtr),
			TestingSamples:  len(Xte),
			Features:        len(pre.FeatureColumns()),
		},
	}

	var best Regressor
	for _, cand := range c.candidates() {
		model := cand.make()
		if err := model.Fit(ctx, Xtr, ytr); err != nil {
			return nil, nil, shared.ErrTrainingFailed.Wrap("fit "+cand.name, err)
		}
		metrics := Evaluate(cand.name, yte, PredictAll(model, Xte), now)

		if len(folds) > 0 {
			scores, err := crossValidate(ctx, cand.make, X, y, folds)
			if err != nil {
				return nil, nil, shared.ErrTrainingFailed.Wrap("cross-validate "+cand.name, err)
			}
			metrics.CVScores = scores
			metrics.CVMean, metrics.CVStd = stat.PopMeanStdDev(scores, nil)
		}

		c.logger.Info("Model evaluated",
			zap.String("model", cand.name),
			zap.Float64("r2", metrics.R2),
			zap.Float64("rmse", metrics.RMSE),
			zap.Float64("mae", metrics.MAE),
			zap.Float64("mape", metrics.MAPE),
			zap.Float64("cv_mean", metrics.CVMean),
		)

		report.AllResults[cand.name] = metrics
		if best == nil || metrics.R2 > report.BestMetrics.R2 {
			best = model
			report.BestModel = cand.name
			report.BestMetrics = metrics
		}
	}

	report.FeatureImportance = ImportanceMap(RankImportances(pre.FeatureColumns(), best.FeatureImportances(), 0))
	c.logger.Info("Best model selected",
		zap.String("model", report.BestModel),
		zap.Float64("r2", report.BestMetrics.R2),
	)

	bundle := &Bundle{
		Model:        best,
		Preprocessor: pre,
		TargetColumn: TargetColumn,
		ModelType:    report.BestModel,
		Version:      BundleVersion,
		CreatedAt:    now,
		TrainingMetrics: TrainingMetrics{
			TrainScore:        R2(ytr, PredictAll(best, Xtr)),
			TestScore:         report.BestMetrics.R2,
			MAE:               report.BestMetrics.MAE,
			RMSE:              report.BestMetrics.RMSE,
			R2:                report.BestMetrics.R2,
			FeatureImportance: ImportanceMap(RankImportances(pre.FeatureColumns(), best.FeatureImportances(), 5)),
			TrainingSamples:   len(Xtr),
			TestingSamples:    len(Xte),
			Timestamp:         now,
		},
	}
	return report, bundle, nil
}

// crossValidate returns the R² of a fresh model on every fold, fitting the
// folds concurrently.
func crossValidate(ctx context.Context, build func() Regressor, X [][]float64, y []float64, folds []Fold) ([]float64, error) {
	scores := make([]float64, len(folds))
	g, gctx := errgroup.WithContext(ctx)
	for i, fold := range folds {
		g.Go(func() error {
			Xtr, ytr := subset(X, y, fold.Train)
			Xte, yte := subset(X, y, fold.Test)
			model := build()
			if err := model.Fit(gctx, Xtr, ytr); err != nil {
				return err
			}
			scores[i] = R2(yte, PredictAll(model, Xte))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
