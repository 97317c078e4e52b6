package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quietst00rm/seller-zenith-44/internal/chat"
	"github.com/quietst00rm/seller-zenith-44/internal/pkg/logger"
)

// ChatError is the error body of the chat endpoint. The dashboard reads
// error and details only.
type ChatError struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondChatError(w http.ResponseWriter, r *http.Request, status int, code, msg, details string) {
	respondJSON(w, status, ChatError{
		Error:     msg,
		Details:   details,
		Code:      code,
		RequestID: logger.FromContext(r.Context()),
	})
}

// Chat handles POST /chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if h.chatService == nil {
		respondChatError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Chat is not available", chat.ErrNotConfigured.Error())
		return
	}

	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondChatError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := h.chatService.Reply(r.Context(), req)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, resp)
	case errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrMessageTooLong),
		errors.Is(err, chat.ErrInvalidEncoding),
		errors.Is(err, chat.ErrInvalidRole):
		respondChatError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, "Invalid chat request", err.Error())
	case errors.Is(err, chat.ErrNotConfigured):
		respondChatError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, err.Error(), "")
	case errors.Is(err, chat.ErrUpstream):
		respondChatError(w, r, http.StatusBadGateway, ErrCodeUpstreamFailed, "Failed to process chat request", err.Error())
	default:
		respondChatError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to process chat request", err.Error())
	}
}
