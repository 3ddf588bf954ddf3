package handler

import (
	"context"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/application/prediction"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/dataset"
	"github.com/gin-gonic/gin"
)

// DataPipeline validates and prepares the training dataset
type DataPipeline interface {
	Validate(ctx context.Context) (*dataset.QualityReport, error)
	Run(ctx context.Context, records int) (*prediction.PipelineResult, error)
}

// PipelineRequest configures a pipeline run
type PipelineRequest struct {
	Records int `json:"records" binding:"omitempty,min=1,max=100000" example:"500"`
}

// DataHandler handles dataset endpoints
type DataHandler struct {
	BaseHandler
	pipeline DataPipeline
}

// NewDataHandler creates a new DataHandler
func NewDataHandler(pipeline DataPipeline) *DataHandler {
	return &DataHandler{pipeline: pipeline}
}

// Validate godoc
// @ID           validateDataset
// @Summary      Validate the training dataset
// @Description  Runs the quality checks on the combined dataset, cleans it in place and returns the report
// @Tags         data
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Envelope[dataset.QualityReport]
// @Failure      401 {object} ErrorEnvelope
// @Failure      422 {object} ErrorEnvelope
// @Failure      500 {object} ErrorEnvelope
// @Router       /api/v1/data/validate [post]
func (h *DataHandler) Validate(c *gin.Context) {
	report, err := h.pipeline.Validate(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Pipeline godoc
// @ID           runDataPipeline
// @Summary      Run the data pipeline
// @Description  Generates synthetic records, merges them with the original data, validates the result and writes statistics
// @Tags         data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PipelineRequest false "Pipeline options"
// @Success      200 {object} Envelope[prediction.PipelineResult]
// @Failure      400 {object} ErrorEnvelope
// @Failure      401 {object} ErrorEnvelope
// @Failure      500 {object} ErrorEnvelope
// @Router       /api/v1/data/pipeline [post]
func (h *DataHandler) Pipeline(c *gin.Context) {
	var req PipelineRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	result, err := h.pipeline.Run(c.Request.Context(), req.Records)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
