package rest

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/quietst00rm/seller-zenith-44/internal/pkg/logger"
	"github.com/quietst00rm/seller-zenith-44/internal/pkg/validate"
	"github.com/quietst00rm/seller-zenith-44/internal/repository"
	"github.com/quietst00rm/seller-zenith-44/internal/violations"
)

// parseView reads the view state from the query string. On failure it
// writes a 400 and returns false.
func (h *Handler) parseView(w http.ResponseWriter, r *http.Request) (violations.ViewState, bool) {
	q := r.URL.Query()
	if !validate.Query(q.Get("q")) {
		respondStructuredError(w, r, http.StatusBadRequest, ErrCodeValidationFailed,
			"Invalid search query", map[string]string{"q": "must be valid UTF-8 of at most 200 bytes"})
		return violations.ViewState{}, false
	}
	view, err := violations.ParseViewState(q)
	if err != nil {
		var perr *violations.ParamError
		if errors.As(err, &perr) {
			respondStructuredError(w, r, http.StatusBadRequest, ErrCodeValidationFailed,
				"Invalid query parameter", map[string]string{perr.Param: perr.Error()})
			return violations.ViewState{}, false
		}
		respondErrorWithCode(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return violations.ViewState{}, false
	}
	return view, true
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.For(r.Context(), h.log).Error(msg, zap.Error(err))
	respondErrorWithCode(w, r, http.StatusInternalServerError, ErrCodeInternalError, msg)
}

// ListViolations handles GET /violations
func (h *Handler) ListViolations(w http.ResponseWriter, r *http.Request) {
	view, ok := h.parseView(w, r)
	if !ok {
		return
	}
	list, err := h.violationService.List(r.Context(), view)
	if err != nil {
		h.internalError(w, r, "failed to list violations", err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// GetViolationSummary handles GET /violations/summary
func (h *Handler) GetViolationSummary(w http.ResponseWriter, r *http.Request) {
	view, ok := h.parseView(w, r)
	if !ok {
		return
	}
	sum, err := h.violationService.Summary(r.Context(), view)
	if err != nil {
		h.internalError(w, r, "failed to summarize violations", err)
		return
	}
	respondJSON(w, http.StatusOK, sum)
}

// GetViolationBreakdown handles GET /violations/breakdown
func (h *Handler) GetViolationBreakdown(w http.ResponseWriter, r *http.Request) {
	view, ok := h.parseView(w, r)
	if !ok {
		return
	}
	b, err := h.violationService.Breakdown(r.Context(), view)
	if err != nil {
		h.internalError(w, r, "failed to break down violations", err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

// GetViolation handles GET /violations/{id}
func (h *Handler) GetViolation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !validate.CaseID(id) {
		respondStructuredError(w, r, http.StatusBadRequest, ErrCodeValidationFailed,
			"Invalid case id", map[string]string{"id": id})
		return
	}
	issue, err := h.violationService.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		respondErrorWithCode(w, r, http.StatusNotFound, ErrCodeNotFound, "Case not found: "+id)
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to get violation", err)
		return
	}
	respondJSON(w, http.StatusOK, issue)
}
