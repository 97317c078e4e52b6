package rest

import (
	"encoding/json"
	"net/http"

	"github.com/quietst00rm/seller-zenith-44/internal/api/middleware"
	"github.com/quietst00rm/seller-zenith-44/internal/pkg/logger"
)

// APIError represents a structured API error response
type APIError struct {
	Error     string            `json:"error"`
	Code      string            `json:"code,omitempty"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// Error codes for common scenarios
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternalError      = middleware.ErrCodeInternalError
	ErrCodeRateLimitExceeded  = middleware.ErrCodeRateLimitExceeded
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeUpstreamFailed     = "UPSTREAM_FAILED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondStructuredError sends a structured error response with error code and details
func respondStructuredError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]string) {
	respondJSON(w, status, APIError{
		Error:     message,
		Code:      code,
		Message:   message,
		RequestID: logger.FromContext(r.Context()),
		Details:   details,
	})
}

// respondErrorWithCode is a convenience wrapper for structured errors
func respondErrorWithCode(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondStructuredError(w, r, status, code, message, nil)
}
