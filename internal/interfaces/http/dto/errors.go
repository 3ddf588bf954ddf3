package dto

import "net/http"

// Error codes returned in ErrorInfo.Code. Every code has the form ERR_<NAME>.
const (
	ErrCodeInternal = "ERR_INTERNAL"

	// request shape
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeRateLimited  = "ERR_RATE_LIMITED"

	// bearer tokens
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	// resources and state
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeInvalidState  = "ERR_INVALID_STATE"

	// ErrCodeModelNotLoaded is used when no trained model is being served
	ErrCodeModelNotLoaded = "ERR_MODEL_NOT_LOADED"
	// ErrCodeNoData is used when the training or validation dataset is missing or empty
	ErrCodeNoData = "ERR_NO_DATA"
	// ErrCodeTrainingFailed is used when a training or comparison run fails
	ErrCodeTrainingFailed = "ERR_TRAINING_FAILED"
	// ErrCodeQueueFull is used when background jobs cannot accept more work
	ErrCodeQueueFull = "ERR_QUEUE_FULL"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeInvalidState:  http.StatusUnprocessableEntity,

	ErrCodeModelNotLoaded: http.StatusNotFound,
	ErrCodeNoData:         http.StatusUnprocessableEntity,
	ErrCodeTrainingFailed: http.StatusInternalServerError,
	ErrCodeQueueFull:      http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for an error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode turns a domain error code such as NO_DATA into its API
// form ERR_NO_DATA. Codes already carrying the prefix are returned as-is.
func NormalizeErrorCode(code string) string {
	if code == "" {
		return ErrCodeInternal
	}
	if len(code) >= 4 && code[:4] == "ERR_" {
		return code
	}
	return "ERR_" + code
}
