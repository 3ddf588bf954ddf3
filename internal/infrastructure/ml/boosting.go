package ml

import (
	"context"
	"math/rand/v2"
)

// BoostingConfig holds gradient boosting hyperparameters
type BoostingConfig struct {
	Estimators      int
	LearningRate    float64
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Seed            uint64
}

// GradientBoosting fits shallow trees to squared-loss residuals, starting
// from the target mean.
type GradientBoosting struct {
	Config      BoostingConfig
	Init        float64
	Trees       []*RegressionTree
	Importances []float64
}

// NewGradientBoosting creates an unfitted model with 100 stages, a 0.1
// learning rate and depth 3 unless configured otherwise.
func NewGradientBoosting(cfg BoostingConfig) *GradientBoosting {
	if cfg.Estimators <= 0 {
		cfg.Estimators = 100
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.1
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 3
	}
	return &GradientBoosting{Config: cfg}
}

// Fit runs the boosting stages sequentially
func (g *GradientBoosting) Fit(ctx context.Context, X [][]float64, y []float64) error {
	if err := checkTrainingSet(X, y); err != nil {
		return err
	}

	var sum float64
	for _, v := range y {
		sum += v
	}
	g.Init = sum / float64(len(y))

	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = g.Init
	}
	residual := make([]float64, len(y))
	rng := rand.New(rand.NewPCG(g.Config.Seed, 0))

	g.Trees = make([]*RegressionTree, 0, g.Config.Estimators)
	g.Importances = make([]float64, len(X[0]))
	for range g.Config.Estimators {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := range y {
			residual[i] = y[i] - pred[i]
		}
		tree := NewRegressionTree(
			WithMaxDepth(g.Config.MaxDepth),
			WithMinSamplesSplit(g.Config.MinSamplesSplit),
			WithMinSamplesLeaf(g.Config.MinSamplesLeaf),
			WithRand(rng),
		)
		if err := tree.Fit(ctx, X, residual); err != nil {
			return err
		}
		for i, row := range X {
			pred[i] += g.Config.LearningRate * tree.Predict(row)
		}
		for j, v := range tree.Importances {
			g.Importances[j] += v
		}
		g.Trees = append(g.Trees, tree)
	}
	normalize(g.Importances)
	return nil
}

// Predict sums the shrunken stage predictions
func (g *GradientBoosting) Predict(x []float64) float64 {
	out := g.Init
	for _, t := range g.Trees {
		out += g.Config.LearningRate * t.Predict(x)
	}
	return out
}

// FeatureImportances returns the normalized importance summed over stages
func (g *GradientBoosting) FeatureImportances() []float64 {
	return g.Importances
}
