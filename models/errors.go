package models

import (
	"errors"
	"fmt"
)

// Error codes used in API responses and internal error handling.
const (
	// Analysis pipeline codes.
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeMissingCredential = "MISSING_CREDENTIAL"
	ErrCodeExtractionFailed  = "EXTRACTION_FAILED"
	ErrCodeEmptyResponse     = "EMPTY_RESPONSE"
	ErrCodeMalformedPayload  = "MALFORMED_PAYLOAD"
	ErrCodeSchemaViolation   = "SCHEMA_VIOLATION"
	ErrCodeSnapshotFailed    = "SNAPSHOT_FAILED"

	// API-layer codes.
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// AnalysisError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type AnalysisError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// NewAnalysisError creates a new AnalysisError.
func NewAnalysisError(code, message string, err error) *AnalysisError {
	return &AnalysisError{Code: code, Message: message, Err: err}
}

// AsAnalysisError extracts an AnalysisError from err, wrapping unknown
// errors as INTERNAL_ERROR so handlers always have a code to map.
func AsAnalysisError(err error) *AnalysisError {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae
	}
	return &AnalysisError{Code: ErrCodeInternal, Message: err.Error(), Err: err}
}
