package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// ServiceName and ServiceVersion identify the API in the root endpoint
const (
	ServiceName    = "Supply Chain ML Service"
	ServiceVersion = "1.0.0"
)

// ModelStatus reports whether a trained model is serving predictions
type ModelStatus interface {
	ModelLoaded() bool
}

// SystemHandler serves the root information and health endpoints
type SystemHandler struct {
	BaseHandler
	models    ModelStatus
	startTime time.Time
	now       func() time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(models ModelStatus) *SystemHandler {
	return &SystemHandler{
		models:    models,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// ServiceInfoResponse represents the root endpoint response
// @name HandlerServiceInfoResponse
type ServiceInfoResponse struct {
	Service     string            `json:"service" example:"Supply Chain ML Service"`
	Version     string            `json:"version" example:"1.0.0"`
	Status      string            `json:"status" example:"running"`
	ModelLoaded bool              `json:"model_loaded" example:"true"`
	Timestamp   string            `json:"timestamp" example:"2026-01-23T12:00:00Z"`
	GoVersion   string            `json:"go_version" example:"go1.25.5"`
	Uptime      string            `json:"uptime" example:"1h30m45s"`
	Endpoints   map[string]string `json:"endpoints"`
}

// HealthResponse represents the health check response
// @name HandlerHealthResponse
type HealthResponse struct {
	Status      string `json:"status" example:"healthy"`
	ModelLoaded bool   `json:"model_loaded" example:"true"`
	Timestamp   string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

var serviceEndpoints = map[string]string{
	"GET /":                          "API information",
	"GET /health":                    "Health check",
	"POST /api/v1/predict":           "Predict crop price",
	"POST /api/v1/train":             "Train/retrain model",
	"GET /api/v1/model/info":         "Get model information",
	"POST /api/v1/model/compare":     "Compare candidate models",
	"GET /api/v1/model/versions":     "List trained model versions",
	"GET /api/v1/predictions/recent": "List recent predictions",
	"GET /api/v1/strategies":         "List fallback pricing strategies",
	"POST /api/v1/data/validate":     "Validate the training dataset",
	"POST /api/v1/data/pipeline":     "Run the data pipeline",
	"POST /api/v1/jobs/retrain":      "Enqueue a background retrain",
	"POST /api/v1/jobs/pipeline":     "Enqueue a background pipeline run",
	"GET /api/v1/jobs/{id}":          "Get background job status",
}

// GetServiceInfo godoc
// @ID           getServiceInfo
// @Summary      Get service information
// @Description  Returns the service name, version, model status and available endpoints
// @Tags         system
// @Produce      json
// @Success      200 {object} Envelope[ServiceInfoResponse]
// @Router       / [get]
func (h *SystemHandler) GetServiceInfo(c *gin.Context) {
	h.Success(c, ServiceInfoResponse{
		Service:     ServiceName,
		Version:     ServiceVersion,
		Status:      "running",
		ModelLoaded: h.models.ModelLoaded(),
		Timestamp:   h.now().Format(time.RFC3339),
		GoVersion:   runtime.Version(),
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Endpoints:   serviceEndpoints,
	})
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  Reports that the service is up and whether a model is loaded
// @Tags         system
// @Produce      json
// @Success      200 {object} Envelope[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, HealthResponse{
		Status:      "healthy",
		ModelLoaded: h.models.ModelLoaded(),
		Timestamp:   h.now().Format(time.RFC3339),
	})
}
