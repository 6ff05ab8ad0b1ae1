package models

import (
	"net/http"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details string              `json:"details,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message, details string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Common error codes
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeLocked           = "LOCKED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeDependencyError  = "DEPENDENCY_ERROR"
	ErrCodeValidationError  = "VALIDATION_ERROR"
	ErrCodeInvalidCaptcha   = "INVALID_CAPTCHA"
	ErrCodeInvalidReference = "INVALID_REFERENCE"
	ErrCodeRetriesExceeded  = "RETRIES_EXCEEDED"
	ErrCodeCodeRenewed      = "VALIDATION_CODE_RENEWED"
	ErrCodeIncorrectCode    = "INCORRECT_VALIDATION_CODE"
)

// HTTPStatusForErrorCode returns the appropriate HTTP status code for an error code
func HTTPStatusForErrorCode(code string) int {
	switch code {
	case ErrCodeBadRequest, ErrCodeValidationError, ErrCodeInvalidCaptcha, ErrCodeInvalidReference,
		ErrCodeRetriesExceeded, ErrCodeCodeRenewed, ErrCodeIncorrectCode:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeLocked:
		return http.StatusLocked
	case ErrCodeDependencyError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse creates a new success response
func NewSuccessResponse(message string, data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Message: message,
		Data:    data,
	}
}

// AdoptDecisionsRequest is the body of POST /api/v1/decisions/adoptions
type AdoptDecisionsRequest struct {
	DecisionIDs []string `json:"decisionIds" binding:"required"`
}
