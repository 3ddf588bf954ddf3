package ml

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	truth := []float64{10, 20, 30, 40}
	pred := []float64{12, 18, 30, 44}

	m := Evaluate("random_forest", truth, pred, now)

	assert.Equal(t, "random_forest", m.Model)
	assert.Equal(t, 4, m.SampleSize)
	assert.Equal(t, now, m.Timestamp)
	assert.InDelta(t, 2.0, m.MAE, 1e-9)
	assert.InDelta(t, 6.0, m.MSE, 1e-9)
	assert.InDelta(t, math.Sqrt(6), m.RMSE, 1e-9)
	assert.InDelta(t, 1-24.0/500.0, m.R2, 1e-9)
	assert.InDelta(t, (0.2+0.1+0+0.1)/4, m.MAPE, 1e-9)
	// residuals -2, 2, 0, -4: mean -1, population variance 4.5
	assert.InDelta(t, math.Sqrt(4.5), m.ResidualStd, 1e-9)

	assert.Equal(t, 0, Evaluate("x", nil, nil, now).SampleSize)
}

func TestR2(t *testing.T) {
	assert.Equal(t, 1.0, R2([]float64{1, 2, 3}, []float64{1, 2, 3}))
	assert.Equal(t, 1.0, R2([]float64{5, 5}, []float64{5, 5}))
	assert.Equal(t, 0.0, R2([]float64{5, 5}, []float64{4, 6}))
	assert.Less(t, R2([]float64{1, 2, 3}, []float64{3, 2, 1}), 0.0)
	assert.Equal(t, 0.0, R2(nil, nil))
}

func TestRankImportances(t *testing.T) {
	ranked := RankImportances([]string{"a", "b", "c"}, []float64{0.2, 0.5, 0.3}, 2)
	assert.Equal(t, []FeatureImportance{{"b", 0.5}, {"c", 0.3}}, ranked)
	assert.Equal(t, map[string]float64{"b": 0.5, "c": 0.3}, ImportanceMap(ranked))
	assert.Nil(t, RankImportances([]string{"a"}, nil, 5))
}

func TestTrainTestSplit(t *testing.T) {
	train, test := TrainTestSplit(10, 0.2, 42)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, append(append([]int{}, train...), test...))

	again, _ := TrainTestSplit(10, 0.2, 42)
	assert.Equal(t, train, again)

	_, test = TrainTestSplit(11, 0.2, 42)
	assert.Len(t, test, 3, "test size rounds up")

	train, test = TrainTestSplit(1, 0.5, 42)
	assert.Len(t, train, 1)
	assert.Empty(t, test)
}

func TestKFold(t *testing.T) {
	folds := KFold(10, 3, 42)
	a := assert.New(t)
	a.Len(folds, 3)

	var all []int
	sizes := make([]int, len(folds))
	for i, f := range folds {
		sizes[i] = len(f.Test)
		all = append(all, f.Test...)
		a.Len(f.Train, 10-len(f.Test))
		for _, idx := range f.Test {
			a.NotContains(f.Train, idx)
		}
	}
	a.Equal([]int{4, 3, 3}, sizes)
	a.ElementsMatch([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)

	a.Nil(KFold(3, 5, 42))
	a.Nil(KFold(10, 1, 42))
}
