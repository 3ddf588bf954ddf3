// Package ml trains, evaluates, persists and serves crop price regressors.
package ml

import (
	"context"
	"errors"
	"fmt"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
)

// Regressor is a trainable model mapping a feature row to a price
type Regressor interface {
	Fit(ctx context.Context, X [][]float64, y []float64) error
	Predict(x []float64) float64
	// FeatureImportances returns normalized importances, or nil when the
	// model has none.
	FeatureImportances() []float64
}

// ErrNotFitted is returned when predicting with an untrained model
var ErrNotFitted = errors.New("model is not fitted")

func checkTrainingSet(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return shared.ErrNoData.WithMessage("empty training set")
	}
	if len(X) != len(y) {
		return fmt.Errorf("training set has %d rows but %d targets", len(X), len(y))
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("row %d has %d features, expected %d", i, len(row), width)
		}
	}
	return nil
}

// PredictAll predicts every row of X
func PredictAll(m Regressor, X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = m.Predict(row)
	}
	return out
}

func normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x
	}
	if sum <= 0 {
		return v
	}
	for i := range v {
		v[i] /= sum
	}
	return v
}
