package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/moodcal/moodcal-api/internal/insight"
	"github.com/moodcal/moodcal-api/internal/models"
	"github.com/moodcal/moodcal-api/internal/validation"
)

const defaultTopN = 5

// InsightHandler serves aggregated recommendation statistics
type InsightHandler struct {
	service *insight.Service
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(service *insight.Service) *InsightHandler {
	return &InsightHandler{service: service}
}

// RegisterRoutes registers insight routes on the given router
// The router should already have the /insights prefix
func (h *InsightHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/personality", h.EmotionsByPersonality).Methods("GET")
	r.HandleFunc("/personality/top", h.TopByPersonality).Methods("GET")
	r.HandleFunc("/personality/members", h.PersonalityMembers).Methods("GET")
	r.HandleFunc("/emotions/top", h.TopByEmotion).Methods("GET")
	r.HandleFunc("/emotions/today", h.TodayTop).Methods("GET")
	r.HandleFunc("/titles/{title}", h.TitleCounts).Methods("GET")
}

// topN parses the optional ?n= query parameter, defaulting to defaultTopN.
// Returns -1 and writes a 400 response when the value is not a number.
func topN(w http.ResponseWriter, r *http.Request) int {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return defaultTopN
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid value for n")
		return -1
	}
	return n
}

// EmotionsByPersonality returns per-personality-type emotion totals merged
// across all titles.
func (h *InsightHandler) EmotionsByPersonality(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.EmotionsByPersonality(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// TopByPersonality returns the top recommended titles per personality type.
func (h *InsightHandler) TopByPersonality(w http.ResponseWriter, r *http.Request) {
	n := topN(w, r)
	if n < 0 {
		return
	}
	result, err := h.service.TopByPersonality(r.Context(), n)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// TopByEmotion returns the top recommended titles per emotion.
func (h *InsightHandler) TopByEmotion(w http.ResponseWriter, r *http.Request) {
	n := topN(w, r)
	if n < 0 {
		return
	}
	result, err := h.service.TopByEmotion(r.Context(), n)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// TodayTop returns, for each emotion recorded today, the top recommended
// titles for that emotion. An optional ?date= overrides "today" for testing
// and backfill views.
func (h *InsightHandler) TodayTop(w http.ResponseWriter, r *http.Request) {
	n := topN(w, r)
	if n < 0 {
		return
	}

	now := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			respondErrorMessage(w, http.StatusBadRequest, "invalid date format")
			return
		}
		now = parsed
	}

	result, err := h.service.TodayTop(r.Context(), now, n)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// PersonalityMembers returns how many users carry each personality type.
func (h *InsightHandler) PersonalityMembers(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.PersonalityMemberCounts(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// TitleCountsResponse carries per-emotion counts for a single title.
type TitleCountsResponse struct {
	Title           string         `json:"title"`
	PersonalityType string         `json:"personality_type,omitempty"`
	Emotions        map[string]int `json:"emotions"`
}

// TitleCounts returns emotion counts recorded for one title, optionally
// filtered to a single personality type via ?personality_type=.
func (h *InsightHandler) TitleCounts(w http.ResponseWriter, r *http.Request) {
	title := mux.Vars(r)["title"]
	personalityType := r.URL.Query().Get("personality_type")
	if personalityType != "" {
		if err := validation.ValidatePersonalityType(personalityType); err != nil {
			respondErrorMessage(w, http.StatusBadRequest, "invalid personality type")
			return
		}
		personalityType = strings.ToUpper(personalityType)
	}

	counts, err := h.service.Counts(r.Context(), title, personalityType)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, TitleCountsResponse{
		Title:           title,
		PersonalityType: personalityType,
		Emotions:        counts,
	})
}
