package handlers

import (
	"net/http"
)

// AuthHandler exposes the caller's verified identity
type AuthHandler struct{}

// NewAuthHandler creates a new auth handler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// MeResponse describes the authenticated caller
type MeResponse struct {
	Subject string `json:"subject"`
	Email   string `json:"email,omitempty"`
}

// Me returns the identity extracted from the bearer token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(w, r)
	if identity == nil {
		return
	}
	respondJSON(w, http.StatusOK, MeResponse{
		Subject: identity.Subject,
		Email:   identity.Email,
	})
}
