package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	// ErrorTypeCalibration covers non-positive or missing calibration
	// constants (pixel_to_mm, wavelength). Raised before detection begins.
	ErrorTypeCalibration ErrorType = "calibration"
	// ErrorTypeCenterDetection means no sufficiently circular symmetric
	// pattern was found. Fatal for the run.
	ErrorTypeCenterDetection ErrorType = "center_detection"
	// ErrorTypeInsufficientRings means fewer dark fringes were found than
	// the configured minimum. Fatal for the run.
	ErrorTypeInsufficientRings ErrorType = "insufficient_rings"
	// ErrorTypeFitQuality flags a fit that violates the quality thresholds.
	// Non-fatal: it is surfaced on the error report, never aborts a run.
	ErrorTypeFitQuality ErrorType = "fit_quality"

	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents a structured application error. Stage names the
// pipeline stage that produced the error; Details carries the offending
// measurement (e.g. "found 3 fringes, need 6").
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Stage      string    `json:"stage,omitempty"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Stage != "" {
		msg = fmt.Sprintf("%s [stage=%s]", msg, e.Stage)
	}
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewCalibrationError creates an error for invalid calibration constants
func NewCalibrationError(message, details string) *AppError {
	return &AppError{
		Type:       ErrorTypeCalibration,
		Message:    message,
		Stage:      "configuration",
		Details:    details,
		StatusCode: http.StatusBadRequest,
	}
}

// NewCenterDetectionError creates an error for a failed center search
func NewCenterDetectionError(message, details string) *AppError {
	return &AppError{
		Type:       ErrorTypeCenterDetection,
		Message:    message,
		Stage:      "center_locator",
		Details:    details,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewInsufficientRingsError creates an error for too few detected fringes
func NewInsufficientRingsError(found, required int) *AppError {
	return &AppError{
		Type:       ErrorTypeInsufficientRings,
		Message:    "not enough dark fringes detected",
		Stage:      "fringe_extractor",
		Details:    fmt.Sprintf("found %d fringes, need %d", found, required),
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewFitQualityError creates the non-fatal quality flag for a poor fit.
// Callers attach it to the error report rather than aborting.
func NewFitQualityError(details string) *AppError {
	return &AppError{
		Type:       ErrorTypeFitQuality,
		Message:    "fit quality below configured thresholds",
		Stage:      "error_analyzer",
		Details:    details,
		StatusCode: http.StatusOK,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errorType
	}
	return false
}

// IsFatal reports whether the error aborts a pipeline run. Fit-quality
// flags are the only non-fatal measurement error kind.
func IsFatal(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type != ErrorTypeFitQuality
	}
	return true
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
