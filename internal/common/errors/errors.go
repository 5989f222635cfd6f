// internal/common/errors/errors.go

// Package errors provides standardized application errors for the
// assistant pipeline and its HTTP surface.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeEmptyMessage ErrorCode = "EMPTY_MESSAGE"

	ErrCodeCatalogLoadFailed    ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCatalogSchemaInvalid ErrorCode = "CATALOG_SCHEMA_INVALID"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// New creates a StandardError with the current UTC timestamp.
func New(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyMessageError flags blank chat input. Never retryable.
func NewEmptyMessageError() *StandardError {
	return New(ErrCodeEmptyMessage, "Empty message", "", false)
}

// NewCatalogLoadError wraps a startup catalog failure.
func NewCatalogLoadError(details string) *StandardError {
	return New(ErrCodeCatalogLoadFailed, "Failed to load phone catalog", details, true)
}

// NewInternalError wraps an unclassified error.
func NewInternalError(err error) *StandardError {
	return New(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// HTTPStatus maps an error code to the response status for the chat
// API. Unknown codes are treated as server faults.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeEmptyMessage:
		return http.StatusBadRequest
	case ErrCodeCatalogLoadFailed, ErrCodeCatalogSchemaInvalid,
		ErrCodeCacheUnavailable, ErrCodeGenerationFailed, ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
