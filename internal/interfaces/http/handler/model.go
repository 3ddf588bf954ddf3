package handler

import (
	"context"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/application/prediction"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/ml"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ModelTrainer trains, compares and describes price models
type ModelTrainer interface {
	Train(ctx context.Context, trigger commodity.Trigger) (*prediction.TrainResponse, error)
	Compare(ctx context.Context) (*prediction.CompareResponse, error)
	ModelInfo() (*ml.ModelInfo, error)
	Versions(ctx context.Context, limit int) ([]prediction.ModelVersionDTO, error)
}

// ModelHandler handles model management endpoints
type ModelHandler struct {
	BaseHandler
	service ModelTrainer
}

// NewModelHandler creates a new ModelHandler
func NewModelHandler(service ModelTrainer) *ModelHandler {
	return &ModelHandler{service: service}
}

// Train godoc
// @ID           trainModel
// @Summary      Train the price model
// @Description  Trains a model on the configured dataset, stores it and swaps it in for serving
// @Tags         model
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Envelope[prediction.TrainResponse]
// @Failure      401 {object} ErrorEnvelope
// @Failure      422 {object} ErrorEnvelope
// @Failure      500 {object} ErrorEnvelope
// @Router       /api/v1/train [post]
func (h *ModelHandler) Train(c *gin.Context) {
	resp, err := h.service.Train(c.Request.Context(), commodity.TriggerAPI)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Info godoc
// @ID           getModelInfo
// @Summary      Get model information
// @Description  Describes the loaded model: type, hyperparameters, features and training metrics
// @Tags         model
// @Produce      json
// @Success      200 {object} Envelope[ml.ModelInfo]
// @Failure      404 {object} ErrorEnvelope
// @Router       /api/v1/model/info [get]
func (h *ModelHandler) Info(c *gin.Context) {
	info, err := h.service.ModelInfo()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// Compare godoc
// @ID           compareModels
// @Summary      Compare candidate models
// @Description  Trains every candidate model on the same split, stores the best one and the report. The serving model is not replaced.
// @Tags         model
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Envelope[prediction.CompareResponse]
// @Failure      401 {object} ErrorEnvelope
// @Failure      422 {object} ErrorEnvelope
// @Failure      500 {object} ErrorEnvelope
// @Router       /api/v1/model/compare [post]
func (h *ModelHandler) Compare(c *gin.Context) {
	resp, err := h.service.Compare(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Versions godoc
// @ID           listModelVersions
// @Summary      List model versions
// @Description  Returns the training history, newest first
// @Tags         model
// @Produce      json
// @Param        limit query int false "Number of versions" minimum(1) maximum(100) default(10)
// @Success      200 {object} Envelope[[]prediction.ModelVersionDTO]
// @Failure      400 {object} ErrorEnvelope
// @Failure      500 {object} ErrorEnvelope
// @Router       /api/v1/model/versions [get]
func (h *ModelHandler) Versions(c *gin.Context) {
	var query dto.LimitRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, []dto.ValidationDetail{{Field: "limit", Message: "Must be a positive integer"}})
		return
	}

	versions, err := h.service.Versions(c.Request.Context(), query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, versions)
}
