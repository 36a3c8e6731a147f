package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/moodcal/moodcal-api/internal/apperr"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondError maps an error to its HTTP status and emits the error body.
// Unclassified errors get a generic message so internals stay internal.
func respondError(w http.ResponseWriter, err error) {
	respondErrorMessage(w, apperr.Status(err), apperr.Message(err))
}

// respondErrorMessage sends an error JSON response
func respondErrorMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
