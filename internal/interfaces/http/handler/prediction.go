package handler

import (
	"context"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/application/prediction"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Predictor serves price predictions
type Predictor interface {
	Predict(ctx context.Context, req prediction.PredictRequest) (*prediction.PredictionResponse, error)
	Recent(ctx context.Context, limit int) (*prediction.RecentPredictionsResponse, error)
}

// PredictionHandler handles price prediction endpoints
type PredictionHandler struct {
	BaseHandler
	service Predictor
}

// NewPredictionHandler creates a new PredictionHandler
func NewPredictionHandler(service Predictor) *PredictionHandler {
	return &PredictionHandler{service: service}
}

// Predict godoc
// @ID           predictPrice
// @Summary      Predict a crop price
// @Description  Predicts the price per kg with the loaded model, or with the rule-based fallback when no model is loaded
// @Tags         predictions
// @Accept       json
// @Produce      json
// @Param        request body prediction.PredictRequest true "Prediction features"
// @Success      200 {object} Envelope[prediction.PredictionResponse]
// @Failure      400 {object} ErrorEnvelope
// @Failure      429 {object} ErrorEnvelope
// @Failure      500 {object} ErrorEnvelope
// @Router       /api/v1/predict [post]
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req prediction.PredictRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Predict(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Recent godoc
// @ID           listRecentPredictions
// @Summary      List recent predictions
// @Description  Returns the most recent logged predictions, newest first, with totals per method
// @Tags         predictions
// @Produce      json
// @Param        limit query int false "Number of predictions" minimum(1) maximum(100) default(10)
// @Success      200 {object} Envelope[prediction.RecentPredictionsResponse]
// @Failure      400 {object} ErrorEnvelope
// @Failure      500 {object} ErrorEnvelope
// @Router       /api/v1/predictions/recent [get]
func (h *PredictionHandler) Recent(c *gin.Context) {
	var query dto.LimitRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, []dto.ValidationDetail{{Field: "limit", Message: "Must be a positive integer"}})
		return
	}

	resp, err := h.service.Recent(c.Request.Context(), query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
