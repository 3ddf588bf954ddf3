package shared

import "errors"

// DomainError represents a domain-level error with a stable code.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped cause
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so wrapped sentinels
// compare equal with errors.Is.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if !errors.As(target, &de) {
		return false
	}
	return de.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Wrap returns a copy of e with a more specific message and cause.
func (e *DomainError) Wrap(message string, cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: message, Err: cause}
}

// WithMessage returns a copy of e with a more specific message.
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message}
}

// Common domain errors
var (
	ErrNotFound       = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists  = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput   = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized   = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState   = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrModelNotLoaded = NewDomainError("MODEL_NOT_LOADED", "Model not loaded")
	ErrNoData         = NewDomainError("NO_DATA", "No data to train on")
	ErrTrainingFailed = NewDomainError("TRAINING_FAILED", "Failed to train model")
)
