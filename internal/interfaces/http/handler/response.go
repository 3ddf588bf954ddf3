package handler

import "github.com/Parulsharma-1704/SupplyChainCropTracking/internal/interfaces/http/dto"

// Envelope documents a success response carrying T. Handlers write
// dto.Response; the generic form only feeds the OpenAPI annotations.
type Envelope[T any] struct {
	Success bool `json:"success" example:"true"`
	Data    T    `json:"data"`
}

// ErrorEnvelope documents a failed request
type ErrorEnvelope struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}
