package rest

import "net/http"

// GetAccountOverview handles GET /account/overview
func (h *Handler) GetAccountOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.accountService.Overview(r.Context())
	if err != nil {
		h.internalError(w, r, "failed to load account overview", err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}
