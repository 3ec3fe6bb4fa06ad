package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/mindwellhq/mindwell-backend/internal/services"
)

// Relay generates a reply to a single prompt.
type Relay interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatHandler proxies prompts to the hosted model. A nil relay means the
// provider key was not configured; requests then fail with 503.
type ChatHandler struct {
	relay Relay
}

func NewChatHandler(relay Relay) *ChatHandler {
	return &ChatHandler{relay: relay}
}

type chatRequest struct {
	Prompt string `json:"prompt"`
}

type chatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Relay handles POST /api/chat.
func (h *ChatHandler) Relay(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Success: false, Error: "Invalid request body"})
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeJSON(w, http.StatusBadRequest, chatResponse{Success: false, Error: "Please provide a message"})
		return
	}

	if h.relay == nil {
		writeJSON(w, http.StatusServiceUnavailable, chatResponse{Success: false, Error: "Chat is currently unavailable. Please try again later."})
		return
	}

	response, err := h.relay.Generate(r.Context(), prompt)
	if err != nil {
		if errors.Is(err, services.ErrRelayTimeout) {
			writeJSON(w, http.StatusGatewayTimeout, chatResponse{Success: false, Error: "The assistant took too long to respond. Please try again."})
			return
		}
		log.Printf("chat relay error: %v", err)
		writeJSON(w, http.StatusInternalServerError, chatResponse{Success: false, Error: "Failed to process your message. Please try again."})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Success: true, Response: response})
}
