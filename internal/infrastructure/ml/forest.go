package ml

import (
	"context"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ForestConfig holds random forest hyperparameters
type ForestConfig struct {
	Estimators      int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Seed            uint64
}

// RandomForest averages regression trees grown on bootstrap samples
type RandomForest struct {
	Config      ForestConfig
	Trees       []*RegressionTree
	Importances []float64
}

// NewRandomForest creates an unfitted forest; Estimators defaults to 100
func NewRandomForest(cfg ForestConfig) *RandomForest {
	if cfg.Estimators <= 0 {
		cfg.Estimators = 100
	}
	return &RandomForest{Config: cfg}
}

// Fit grows the trees concurrently. Each tree draws its bootstrap sample from
// its own stream derived from the seed and tree index, so results do not
// depend on scheduling.
func (f *RandomForest) Fit(ctx context.Context, X [][]float64, y []float64) error {
	if err := checkTrainingSet(X, y); err != nil {
		return err
	}

	trees := make([]*RegressionTree, f.Config.Estimators)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range trees {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(f.Config.Seed, uint64(i)))
			sample := make([]int, len(X))
			for k := range sample {
				sample[k] = rng.IntN(len(X))
			}
			tree := NewRegressionTree(
				WithMaxDepth(f.Config.MaxDepth),
				WithMinSamplesSplit(f.Config.MinSamplesSplit),
				WithMinSamplesLeaf(f.Config.MinSamplesLeaf),
				WithMaxFeatures(f.Config.MaxFeatures),
				WithRand(rng),
			)
			if err := tree.fitIndices(gctx, X, y, sample); err != nil {
				return err
			}
			trees[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f.Trees = trees
	f.Importances = make([]float64, len(X[0]))
	for _, t := range trees {
		for j, v := range t.Importances {
			f.Importances[j] += v / float64(len(trees))
		}
	}
	normalize(f.Importances)
	return nil
}

// Predict averages the tree predictions
func (f *RandomForest) Predict(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	var sum float64
	for _, t := range f.Trees {
		sum += t.Predict(x)
	}
	return sum / float64(len(f.Trees))
}

// FeatureImportances returns the mean impurity decrease per feature
func (f *RandomForest) FeatureImportances() []float64 {
	return f.Importances
}
