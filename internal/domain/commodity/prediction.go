package commodity

import (
	"strconv"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Method identifies how a price was produced
type Method string

const (
	MethodMLModel  Method = "ml_model"
	MethodFallback Method = "fallback"
)

// Confidence returns the fixed confidence reported for a method
func (m Method) Confidence() float64 {
	if m == MethodMLModel {
		return 0.85
	}
	return 0.65
}

const (
	Currency  = "INR"
	PriceUnit = "per kg"
)

// Prediction is a served price prediction
type Prediction struct {
	shared.BaseEntity
	PredictedPrice decimal.Decimal
	Confidence     float64
	Method         Method
	TotalValue     decimal.Decimal
	Features       PriceFeatures
	Cached         bool
}

// NewPrediction rounds price to 2 places and derives the total value.
func NewPrediction(features PriceFeatures, price decimal.Decimal, method Method) *Prediction {
	price = price.Round(2)
	return &Prediction{
		BaseEntity:     shared.NewBaseEntity(),
		PredictedPrice: price,
		Confidence:     method.Confidence(),
		Method:         method,
		TotalValue:     price.Mul(decimal.NewFromFloat(features.QuantityKg)).Round(2),
		Features:       features,
	}
}

// TotalValueUnit describes the quantity TotalValue covers, e.g. "for 1500 kg".
func (p *Prediction) TotalValueUnit() string {
	return "for " + strconv.FormatFloat(p.Features.QuantityKg, 'f', -1, 64) + " kg"
}

// Log converts the prediction into its persisted log entry
func (p *Prediction) Log() *PredictionLog {
	return &PredictionLog{
		ID:             p.ID,
		CreatedAt:      p.CreatedAt,
		CropType:       p.Features.CropType,
		Region:         p.Features.Region,
		Quality:        p.Features.Quality,
		QuantityKg:     p.Features.QuantityKg,
		Season:         p.Features.Season,
		PredictedPrice: p.PredictedPrice,
		Method:         p.Method,
		Confidence:     p.Confidence,
	}
}

// Timestamp returns the creation time of the prediction
func (p *Prediction) Timestamp() time.Time {
	return p.CreatedAt
}
