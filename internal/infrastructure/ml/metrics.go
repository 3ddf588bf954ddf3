package ml

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Metrics evaluates predictions on a held out set
type Metrics struct {
	Model       string    `json:"model"`
	MAE         float64   `json:"mae"`
	MSE         float64   `json:"mse"`
	RMSE        float64   `json:"rmse"`
	R2          float64   `json:"r2"`
	MAPE        float64   `json:"mape"`
	ResidualStd float64   `json:"residual_std"`
	SampleSize  int       `json:"sample_size"`
	Timestamp   time.Time `json:"timestamp"`
	CVScores    []float64 `json:"cv_scores,omitempty"`
	CVMean      float64   `json:"cv_mean,omitempty"`
	CVStd       float64   `json:"cv_std,omitempty"`
}

// Evaluate computes regression metrics of pred against truth
func Evaluate(model string, truth, pred []float64, now time.Time) Metrics {
	m := Metrics{Model: model, SampleSize: len(truth), Timestamp: now}
	if len(truth) == 0 {
		return m
	}

	n := float64(len(truth))
	residuals := make([]float64, len(truth))
	var absSum, sqSum, pctSum float64
	for i := range truth {
		r := truth[i] - pred[i]
		residuals[i] = r
		absSum += math.Abs(r)
		sqSum += r * r
		pctSum += math.Abs(r) / math.Max(math.Abs(truth[i]), math.SmallestNonzeroFloat64)
	}

	m.MAE = absSum / n
	m.MSE = sqSum / n
	m.RMSE = math.Sqrt(m.MSE)
	m.R2 = R2(truth, pred)
	m.MAPE = pctSum / n
	_, m.ResidualStd = stat.PopMeanStdDev(residuals, nil)
	return m
}

// R2 is the coefficient of determination. A constant truth scores 1 when
// predicted exactly and 0 otherwise.
func R2(truth, pred []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	mean := stat.Mean(truth, nil)
	var ssRes, ssTot float64
	for i := range truth {
		ssRes += (truth[i] - pred[i]) * (truth[i] - pred[i])
		ssTot += (truth[i] - mean) * (truth[i] - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// FeatureImportance is one ranked feature
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// RankImportances pairs importances with feature names, highest first, and
// keeps at most limit entries (all when limit <= 0).
func RankImportances(features []string, importances []float64, limit int) []FeatureImportance {
	if len(importances) == 0 {
		return nil
	}
	ranked := make([]FeatureImportance, 0, len(features))
	for i, f := range features {
		if i < len(importances) {
			ranked = append(ranked, FeatureImportance{Feature: f, Importance: importances[i]})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Importance > ranked[j].Importance })
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// ImportanceMap converts a ranking to a feature to importance map
func ImportanceMap(ranked []FeatureImportance) map[string]float64 {
	out := make(map[string]float64, len(ranked))
	for _, r := range ranked {
		out[r.Feature] = r.Importance
	}
	return out
}
