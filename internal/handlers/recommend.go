package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/moodcal/moodcal-api/internal/database"
	"github.com/moodcal/moodcal-api/internal/recommend"
	"github.com/moodcal/moodcal-api/internal/validation"
)

// RecommendHandler handles recommendation requests
type RecommendHandler struct {
	service      *recommend.Service
	calendarRepo database.CalendarStore
	contentRepo  database.ContentStore
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(service *recommend.Service, calendarRepo database.CalendarStore, contentRepo database.ContentStore) *RecommendHandler {
	return &RecommendHandler{
		service:      service,
		calendarRepo: calendarRepo,
		contentRepo:  contentRepo,
	}
}

// RegisterRoutes registers recommendation routes on the given router
// The router should already have the /recommendations prefix
func (h *RecommendHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/all/{date}", h.GenerateAll).Methods("POST")
	r.HandleFunc("/subscribed/{date}", h.GenerateSubscribed).Methods("POST")
	r.HandleFunc("/{date}", h.GetRecommendation).Methods("GET")
	r.HandleFunc("/{date}/content", h.ResolveContent).Methods("GET")
}

// RecommendationResponse represents a stored recommendation result
type RecommendationResponse struct {
	Date       string  `json:"date"`
	Platform   string  `json:"platform,omitempty"`
	Title      string  `json:"title,omitempty"`
	ResultText *string `json:"result_text,omitempty"`
	Extracted  bool    `json:"extracted"`
}

// GenerateAll runs the recommendation pipeline without platform restriction.
func (h *RecommendHandler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, recommend.ModeAllPlatforms)
}

// GenerateSubscribed runs the pipeline restricted to the subscribed platform.
func (h *RecommendHandler) GenerateSubscribed(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, recommend.ModeSubscribedOnly)
}

func (h *RecommendHandler) generate(w http.ResponseWriter, r *http.Request, mode recommend.Mode) {
	identity := identityFrom(w, r)
	if identity == nil {
		return
	}

	date := mux.Vars(r)["date"]
	entry, err := h.service.Generate(r.Context(), identity.Subject, date, mode)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := RecommendationResponse{
		Date:       entry.Date,
		ResultText: entry.ResultText,
		Extracted:  entry.Recommendation != nil,
	}
	if entry.Recommendation != nil {
		resp.Platform = entry.Recommendation.Platform
		resp.Title = entry.Recommendation.Title
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetRecommendation returns the stored recommendation result for a date.
func (h *RecommendHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(w, r)
	if identity == nil {
		return
	}

	date := mux.Vars(r)["date"]
	if err := validation.ValidateDate(date); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid date format")
		return
	}

	cal, err := h.calendarRepo.GetByUserID(r.Context(), identity.Subject)
	if err != nil {
		respondError(w, err)
		return
	}

	entry := cal.Entry(date)
	if entry == nil {
		respondErrorMessage(w, http.StatusNotFound, "no entry for date")
		return
	}
	if entry.ResultText == nil {
		respondErrorMessage(w, http.StatusNotFound, "no recommendation computed for date")
		return
	}

	resp := RecommendationResponse{
		Date:       entry.Date,
		ResultText: entry.ResultText,
		Extracted:  entry.Recommendation != nil,
	}
	if entry.Recommendation != nil {
		resp.Platform = entry.Recommendation.Platform
		resp.Title = entry.Recommendation.Title
	}
	respondJSON(w, http.StatusOK, resp)
}

// ResolveContent resolves the stored recommendation title to a catalog
// record by literal prefix match.
func (h *RecommendHandler) ResolveContent(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(w, r)
	if identity == nil {
		return
	}

	date := mux.Vars(r)["date"]
	if err := validation.ValidateDate(date); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid date format")
		return
	}

	ctx := r.Context()
	cal, err := h.calendarRepo.GetByUserID(ctx, identity.Subject)
	if err != nil {
		respondError(w, err)
		return
	}

	entry := cal.Entry(date)
	if entry == nil || entry.Recommendation == nil || entry.Recommendation.Title == "" {
		respondErrorMessage(w, http.StatusNotFound, "no recommendation for date")
		return
	}

	content, err := h.contentRepo.FindByTitlePrefix(ctx, entry.Recommendation.Title)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, content)
}
