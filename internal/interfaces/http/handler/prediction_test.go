package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/application/prediction"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/interfaces/http/dto"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPredictor is a mock implementation of Predictor
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, req prediction.PredictRequest) (*prediction.PredictionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*prediction.PredictionResponse), args.Error(1)
}

func (m *MockPredictor) Recent(ctx context.Context, limit int) (*prediction.RecentPredictionsResponse, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*prediction.RecentPredictionsResponse), args.Error(1)
}

func predictionRoutes(svc *MockPredictor) func(r *gin.Engine) {
	h := NewPredictionHandler(svc)
	return func(r *gin.Engine) {
		r.POST("/api/v1/predict", h.Predict)
		r.GET("/api/v1/predictions/recent", h.Recent)
	}
}

func TestPredictionHandler_Predict(t *testing.T) {
	require.NoError(t, middleware.SetupValidator())

	svc := new(MockPredictor)
	svc.On("Predict", mock.Anything, mock.MatchedBy(func(req prediction.PredictRequest) bool {
		return req.CropType == "Wheat" && req.Region == "North" && req.QuantityKg != nil && *req.QuantityKg == 1000
	})).Return(&prediction.PredictionResponse{
		ID:             uuid.New(),
		PredictedPrice: 54,
		Confidence:     0.65,
		Method:         "fallback",
		Currency:       "INR",
		Unit:           "per kg",
		TotalValue:     54000,
		TotalValueUnit: "for 1000 kg",
	}, nil).Once()

	w := serve(predictionRoutes(svc), http.MethodPost, "/api/v1/predict",
		jsonBody(`{"crop_type":"Wheat","region":"North","quality":"Premium","quantity_kg":1000}`))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp prediction.PredictionResponse
	decodeData(t, w, &resp)
	assert.Equal(t, 54.0, resp.PredictedPrice)
	assert.Equal(t, "fallback", resp.Method)
	assert.Equal(t, "for 1000 kg", resp.TotalValueUnit)
	svc.AssertExpectations(t)
}

func TestPredictionHandler_Predict_Errors(t *testing.T) {
	require.NoError(t, middleware.SetupValidator())

	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"empty body", ``, nil, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"malformed json", `{"crop_type":`, nil, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"quantity not a number", `{"quantity_kg":"many"}`, nil, http.StatusBadRequest, dto.ErrCodeValidation},
		{"month out of range", `{"crop_type":"Wheat","month":13}`, nil, http.StatusBadRequest, dto.ErrCodeValidation},
		{"padded label", `{"crop_type":" Wheat"}`, nil, http.StatusBadRequest, dto.ErrCodeValidation},
		{"missing fields", `{"crop_type":"Wheat"}`, shared.ErrInvalidInput.WithMessage("Missing required fields: region, quality, quantity_kg"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"unexpected failure", `{"crop_type":"Wheat","region":"North","quality":"Premium","quantity_kg":10}`, errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockPredictor)
			if tt.serviceErr != nil {
				svc.On("Predict", mock.Anything, mock.Anything).Return(nil, tt.serviceErr).Once()
			}

			w := serve(predictionRoutes(svc), http.MethodPost, "/api/v1/predict", jsonBody(tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeResponse(t, w).Error.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestPredictionHandler_Recent(t *testing.T) {
	svc := new(MockPredictor)
	svc.On("Recent", mock.Anything, 5).Return(&prediction.RecentPredictionsResponse{
		Predictions: []prediction.PredictionLogResponse{{CropType: "Rice", PredictedPrice: 67.93, Method: "ml_model"}},
		Count:       1,
		ByMethod:    map[string]int64{"ml_model": 1},
	}, nil).Once()
	svc.On("Recent", mock.Anything, 0).Return(&prediction.RecentPredictionsResponse{
		Predictions: []prediction.PredictionLogResponse{},
		ByMethod:    map[string]int64{},
	}, nil).Once()

	w := serve(predictionRoutes(svc), http.MethodGet, "/api/v1/predictions/recent?limit=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp prediction.RecentPredictionsResponse
	decodeData(t, w, &resp)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Rice", resp.Predictions[0].CropType)

	w = serve(predictionRoutes(svc), http.MethodGet, "/api/v1/predictions/recent", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestPredictionHandler_Recent_InvalidLimit(t *testing.T) {
	svc := new(MockPredictor)
	for _, query := range []string{"?limit=0", "?limit=-3", "?limit=abc"} {
		w := serve(predictionRoutes(svc), http.MethodGet, "/api/v1/predictions/recent"+query, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
		assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
	}
	svc.AssertNotCalled(t, "Recent", mock.Anything, mock.Anything)
}
