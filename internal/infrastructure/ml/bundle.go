package ml

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
)

// BundleVersion is written into every saved bundle
const BundleVersion = "1.0.0"

func init() {
	gob.Register(&RandomForest{})
	gob.Register(&GradientBoosting{})
	gob.Register(&LinearRegression{})
	gob.Register(&RegressionTree{})
}

// Bundle is a trained model together with everything needed to serve it
type Bundle struct {
	Model           Regressor
	Preprocessor    *Preprocessor
	TargetColumn    string
	ModelType       string
	Version         string
	CreatedAt       time.Time
	TrainingMetrics TrainingMetrics
}

// Encode writes the bundle in gob format
func (b *Bundle) Encode(w io.Writer) error {
	if b.Model == nil || b.Preprocessor == nil {
		return ErrNotFitted
	}
	return gob.NewEncoder(w).Encode(b)
}

// DecodeBundle reads a gob encoded bundle
func DecodeBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := gob.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode model bundle: %w", err)
	}
	if b.Model == nil || b.Preprocessor == nil {
		return nil, fmt.Errorf("decode model bundle: %w", ErrNotFitted)
	}
	return &b, nil
}

// MetricsPath returns the metrics file stored next to a model file, e.g.
// models/price_model.gob -> models/price_model_metrics.json
func MetricsPath(modelPath string) string {
	return strings.TrimSuffix(modelPath, filepath.Ext(modelPath)) + "_metrics.json"
}

// MetricsJSON renders the training metrics as indented JSON
func (b *Bundle) MetricsJSON() ([]byte, error) {
	return json.MarshalIndent(b.TrainingMetrics, "", "  ")
}

// SaveFile writes the bundle to path and its metrics to MetricsPath(path)
func (b *Bundle) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := b.Encode(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	metrics, err := b.MetricsJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(MetricsPath(path), metrics, 0o644)
}

// LoadFile reads a bundle written by SaveFile
func LoadFile(path string) (*Bundle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return DecodeBundle(file)
}

// Predict encodes and scales the features and returns the model output
func (b *Bundle) Predict(f commodity.PriceFeatures) (float64, error) {
	if b == nil || b.Model == nil || b.Preprocessor == nil {
		return 0, shared.ErrModelNotLoaded
	}
	price := b.Model.Predict(b.Preprocessor.Transform(f))
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("model produced a non-finite price")
	}
	return price, nil
}

// ModelInfo describes a loaded bundle
type ModelInfo struct {
	ModelType       string          `json:"model_type"`
	Version         string          `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	NEstimators     *int            `json:"n_estimators"`
	MaxDepth        *int            `json:"max_depth"`
	NFeatures       int             `json:"n_features"`
	FeatureColumns  []string        `json:"feature_columns"`
	LabelEncoders   []string        `json:"label_encoders"`
	TrainingMetrics TrainingMetrics `json:"training_metrics"`
}

// Info reports the bundle's model and preprocessing details
func (b *Bundle) Info() ModelInfo {
	info := ModelInfo{
		ModelType:       b.ModelType,
		Version:         b.Version,
		CreatedAt:       b.CreatedAt,
		FeatureColumns:  b.Preprocessor.FeatureColumns(),
		TrainingMetrics: b.TrainingMetrics,
	}
	info.NFeatures = len(info.FeatureColumns)
	for name := range b.Preprocessor.Encoders {
		info.LabelEncoders = append(info.LabelEncoders, name)
	}
	slices.Sort(info.LabelEncoders)

	switch m := b.Model.(type) {
	case *RandomForest:
		info.NEstimators = &m.Config.Estimators
		info.MaxDepth = &m.Config.MaxDepth
	case *GradientBoosting:
		info.NEstimators = &m.Config.Estimators
		info.MaxDepth = &m.Config.MaxDepth
	}
	return info
}
