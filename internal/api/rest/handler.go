package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/quietst00rm/seller-zenith-44/internal/chat"
	"github.com/quietst00rm/seller-zenith-44/internal/service"
)

// Handler manages HTTP request handlers
type Handler struct {
	violationService service.ViolationService
	accountService   service.AccountService
	chatService      *chat.Service
	log              *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(vs service.ViolationService, as service.AccountService, cs *chat.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		violationService: vs,
		accountService:   as,
		chatService:      cs,
		log:              log,
	}
}

// SetupRoutes configures API routes on router (normally the /api/v1
// subrouter). chatLimit wraps the chat endpoint; nil means unlimited.
func SetupRoutes(router *mux.Router, h *Handler, chatLimit func(http.Handler) http.Handler) {
	// Violation routes; fixed paths before {id}
	router.HandleFunc("/violations", h.ListViolations).Methods("GET")
	router.HandleFunc("/violations/summary", h.GetViolationSummary).Methods("GET")
	router.HandleFunc("/violations/breakdown", h.GetViolationBreakdown).Methods("GET")
	router.HandleFunc("/violations/{id}", h.GetViolation).Methods("GET")

	// Account routes
	router.HandleFunc("/account/overview", h.GetAccountOverview).Methods("GET")

	// Sales impact estimator
	router.HandleFunc("/estimate/types", h.ListEstimateTypes).Methods("GET")
	router.HandleFunc("/estimate", h.EstimateImpact).Methods("POST")

	// Chat
	var chatHandler http.Handler = http.HandlerFunc(h.Chat)
	if chatLimit != nil {
		chatHandler = chatLimit(chatHandler)
	}
	router.Handle("/chat", chatHandler).Methods("POST")
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"chatConfigured": h.chatService != nil && h.chatService.Configured(),
	})
}
