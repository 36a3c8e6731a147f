package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/moodcal/moodcal-api/internal/chat"
)

// ChatHandler handles emotional-support chat requests
type ChatHandler struct {
	service *chat.Service
}

// NewChatHandler creates a new chat handler
func NewChatHandler(service *chat.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

// RegisterRoutes registers chat routes on the given router
// The router should already have the /chat prefix
func (h *ChatHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Send).Methods("POST")
	r.HandleFunc("/history", h.History).Methods("GET")
}

// SendMessageRequest is the body for POST /chat
type SendMessageRequest struct {
	Message string `json:"message"`
}

// SendMessageResponse is the model's reply to a chat message
type SendMessageResponse struct {
	Reply string `json:"reply"`
}

// Send forwards a user message to the model and returns the reply.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(w, r)
	if identity == nil {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.service.Send(r.Context(), identity.Subject, req.Message)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SendMessageResponse{Reply: reply})
}

// History returns the user's recent chat messages, oldest first.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(w, r)
	if identity == nil {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondErrorMessage(w, http.StatusBadRequest, "invalid value for limit")
			return
		}
		limit = parsed
	}

	messages, err := h.service.History(r.Context(), identity.Subject, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if messages == nil {
		messages = []chat.Message{}
	}
	respondJSON(w, http.StatusOK, messages)
}
