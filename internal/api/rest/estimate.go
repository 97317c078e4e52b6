package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/quietst00rm/seller-zenith-44/internal/violations"
)

// ListEstimateTypes handles GET /estimate/types
func (h *Handler) ListEstimateTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, violations.ViolationClasses)
}

// EstimateImpact handles POST /estimate
func (h *Handler) EstimateImpact(w http.ResponseWriter, r *http.Request) {
	var req violations.EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWithCode(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request body")
		return
	}

	est, err := violations.EstimateImpact(req.MonthlySales, req.ViolationType)
	switch {
	case errors.Is(err, violations.ErrInvalidSales):
		respondStructuredError(w, r, http.StatusBadRequest, ErrCodeValidationFailed,
			"Invalid estimate request", map[string]string{"monthlySales": err.Error()})
		return
	case errors.Is(err, violations.ErrUnknownViolationClass):
		respondStructuredError(w, r, http.StatusBadRequest, ErrCodeValidationFailed,
			"Invalid estimate request", map[string]string{"violationType": err.Error()})
		return
	case err != nil:
		h.internalError(w, r, "Failed to estimate impact", err)
		return
	}

	est.ASIN = strings.TrimSpace(req.ASIN)
	respondJSON(w, http.StatusOK, est)
}
