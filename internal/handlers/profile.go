package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/moodcal/moodcal-api/internal/apperr"
	"github.com/moodcal/moodcal-api/internal/database"
	"github.com/moodcal/moodcal-api/internal/models"
	"github.com/moodcal/moodcal-api/internal/validation"
)

// ProfileHandler handles the personality-type and subscribed-platform
// fields of the user's calendar. They update independently of entries.
type ProfileHandler struct {
	calendarRepo database.CalendarStore
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(calendarRepo database.CalendarStore) *ProfileHandler {
	return &ProfileHandler{calendarRepo: calendarRepo}
}

// RegisterRoutes registers profile routes on the given router
func (h *ProfileHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetProfile).Methods("GET")
	r.HandleFunc("", h.UpdateProfile).Methods("PUT")
}

// ProfileResponse represents the profile fields of a calendar
type ProfileResponse struct {
	PersonalityType string `json:"personality_type,omitempty"`
	Platform        string `json:"platform,omitempty"`
}

// UpdateProfileRequest carries the updatable profile fields. Omitted fields
// are left unchanged; an explicit empty string clears the field.
type UpdateProfileRequest struct {
	PersonalityType *string `json:"personality_type,omitempty"`
	Platform        *string `json:"platform,omitempty"`
}

// GetProfile returns the profile fields.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(w, r)
	if identity == nil {
		return
	}

	cal, err := h.calendarRepo.GetByUserID(r.Context(), identity.Subject)
	if apperr.IsNotFound(err) {
		respondJSON(w, http.StatusOK, ProfileResponse{})
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ProfileResponse{
		PersonalityType: cal.PersonalityType,
		Platform:        cal.Platform,
	})
}

// UpdateProfile updates the profile fields, creating the calendar lazily if
// the user has never written anything.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(w, r)
	if identity == nil {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.PersonalityType != nil && *req.PersonalityType != "" {
		if err := validation.ValidatePersonalityType(*req.PersonalityType); err != nil {
			respondErrorMessage(w, http.StatusBadRequest, "invalid personality type")
			return
		}
	}

	ctx := r.Context()
	cal, err := h.calendarRepo.GetByUserID(ctx, identity.Subject)
	if apperr.IsNotFound(err) {
		cal = models.NewCalendar(identity.Subject)
	} else if err != nil {
		respondError(w, err)
		return
	}

	if req.PersonalityType != nil {
		cal.PersonalityType = strings.ToUpper(*req.PersonalityType)
	}
	if req.Platform != nil {
		cal.Platform = strings.TrimSpace(*req.Platform)
	}

	if err := h.calendarRepo.Save(ctx, cal); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ProfileResponse{
		PersonalityType: cal.PersonalityType,
		Platform:        cal.Platform,
	})
}
