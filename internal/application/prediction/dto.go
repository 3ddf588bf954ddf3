package prediction

import (
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/ml"
	"github.com/google/uuid"
)

// PredictRequest represents a price prediction request
type PredictRequest struct {
	CropType     string   `json:"crop_type" binding:"omitempty,max=50,commodity_label" example:"Wheat"`
	Region       string   `json:"region" binding:"omitempty,max=50,commodity_label" example:"North"`
	Quality      string   `json:"quality" binding:"omitempty,max=50,commodity_label" example:"Premium"`
	QuantityKg   *float64 `json:"quantity_kg" example:"1000"`
	Season       string   `json:"season" binding:"omitempty,max=50,commodity_label" example:"Winter"`
	Weather      string   `json:"weather" binding:"omitempty,max=50,commodity_label" example:"Normal"`
	MarketDemand string   `json:"market_demand" binding:"omitempty,max=50,commodity_label" example:"Medium"`
	Year         *int     `json:"year" binding:"omitempty,min=1900,max=2200"`
	Month        *int     `json:"month" binding:"omitempty,min=1,max=12"`
}

// toDomain converts the request into the domain request
func (r PredictRequest) toDomain() commodity.PriceRequest {
	return commodity.PriceRequest{
		CropType:     r.CropType,
		Region:       r.Region,
		Quality:      r.Quality,
		QuantityKg:   r.QuantityKg,
		Season:       r.Season,
		Weather:      r.Weather,
		MarketDemand: r.MarketDemand,
		Year:         r.Year,
		Month:        r.Month,
	}
}

// PredictionResponse represents a served prediction
type PredictionResponse struct {
	ID             uuid.UUID               `json:"id"`
	PredictedPrice float64                 `json:"predicted_price" example:"52.5"`
	Confidence     float64                 `json:"confidence" example:"0.85"`
	Method         string                  `json:"method" example:"ml_model"`
	Currency       string                  `json:"currency" example:"INR"`
	Unit           string                  `json:"unit" example:"per kg"`
	TotalValue     float64                 `json:"total_value" example:"52500"`
	TotalValueUnit string                  `json:"total_value_unit" example:"for 1000 kg"`
	InputFeatures  commodity.PriceFeatures `json:"input_features"`
	Cached         bool                    `json:"cached"`
	Timestamp      time.Time               `json:"timestamp"`
}

// ToPredictionResponse converts a domain prediction to a response
func ToPredictionResponse(p *commodity.Prediction) PredictionResponse {
	return PredictionResponse{
		ID:             p.ID,
		PredictedPrice: p.PredictedPrice.InexactFloat64(),
		Confidence:     p.Confidence,
		Method:         string(p.Method),
		Currency:       commodity.Currency,
		Unit:           commodity.PriceUnit,
		TotalValue:     p.TotalValue.InexactFloat64(),
		TotalValueUnit: p.TotalValueUnit(),
		InputFeatures:  p.Features,
		Cached:         p.Cached,
		Timestamp:      p.Timestamp(),
	}
}

// PredictionLogResponse represents a logged prediction
type PredictionLogResponse struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	CropType       string    `json:"crop_type"`
	Region         string    `json:"region"`
	Quality        string    `json:"quality"`
	QuantityKg     float64   `json:"quantity_kg"`
	Season         string    `json:"season"`
	PredictedPrice float64   `json:"predicted_price"`
	Method         string    `json:"method"`
	Confidence     float64   `json:"confidence"`
}

// ToPredictionLogResponse converts a prediction log to a response
func ToPredictionLogResponse(l commodity.PredictionLog) PredictionLogResponse {
	return PredictionLogResponse{
		ID:             l.ID,
		CreatedAt:      l.CreatedAt,
		CropType:       l.CropType,
		Region:         l.Region,
		Quality:        l.Quality,
		QuantityKg:     l.QuantityKg,
		Season:         l.Season,
		PredictedPrice: l.PredictedPrice.InexactFloat64(),
		Method:         string(l.Method),
		Confidence:     l.Confidence,
	}
}

// RecentPredictionsResponse lists recent predictions and method totals
type RecentPredictionsResponse struct {
	Predictions []PredictionLogResponse `json:"predictions"`
	Count       int                     `json:"count"`
	ByMethod    map[string]int64        `json:"by_method"`
}

// TrainResponse is returned after a training run
type TrainResponse struct {
	Message     string             `json:"message"`
	ModelLoaded bool               `json:"model_loaded"`
	ModelType   string             `json:"model_type"`
	Version     *ModelVersionDTO   `json:"version,omitempty"`
	Metrics     ml.TrainingMetrics `json:"metrics"`
}

// ModelVersionDTO represents one entry of the training history
type ModelVersionDTO struct {
	ID              uuid.UUID `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	ModelType       string    `json:"model_type"`
	Version         string    `json:"version"`
	ArtifactKey     string    `json:"artifact_key"`
	TrainingSamples int       `json:"training_samples"`
	TestingSamples  int       `json:"testing_samples"`
	R2              float64   `json:"r2_score"`
	MAE             float64   `json:"mae"`
	RMSE            float64   `json:"rmse"`
	Trigger         string    `json:"trigger"`
}

// ToModelVersionDTO converts a model version to a response
func ToModelVersionDTO(v commodity.ModelVersion) ModelVersionDTO {
	return ModelVersionDTO{
		ID:              v.ID,
		CreatedAt:       v.CreatedAt,
		ModelType:       v.ModelType,
		Version:         v.Version,
		ArtifactKey:     v.ArtifactKey,
		TrainingSamples: v.TrainingSamples,
		TestingSamples:  v.TestingSamples,
		R2:              v.R2,
		MAE:             v.MAE,
		RMSE:            v.RMSE,
		Trigger:         string(v.Trigger),
	}
}

// CompareResponse is returned after a model comparison
type CompareResponse struct {
	Report      *ml.ComparisonReport `json:"report"`
	ArtifactKey string               `json:"artifact_key"`
	Location    string               `json:"location"`
}
