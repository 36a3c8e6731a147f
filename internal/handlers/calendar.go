package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/moodcal/moodcal-api/internal/apperr"
	"github.com/moodcal/moodcal-api/internal/database"
	"github.com/moodcal/moodcal-api/internal/models"
	"github.com/moodcal/moodcal-api/internal/request"
	"github.com/moodcal/moodcal-api/internal/validation"
)

// MaxDiaryLength is the maximum length for diary text
const MaxDiaryLength = 10000

// CalendarHandler handles calendar entry requests
type CalendarHandler struct {
	calendarRepo database.CalendarStore
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendarRepo database.CalendarStore) *CalendarHandler {
	return &CalendarHandler{calendarRepo: calendarRepo}
}

// RegisterRoutes registers calendar routes on the given router
// The router should already have the /calendar prefix
func (h *CalendarHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetCalendar).Methods("GET")
	r.HandleFunc("/entries", h.CreateEntry).Methods("POST")
	r.HandleFunc("/entries/{date}", h.GetEntry).Methods("GET")
	r.HandleFunc("/entries/{date}", h.DeleteEntry).Methods("DELETE")
	r.HandleFunc("/months/{month}", h.ListMonth).Methods("GET")
}

// CreateEntryRequest represents a create entry request
type CreateEntryRequest struct {
	Date  string          `json:"date" validate:"required,entry_date"`
	Moods models.MoodTags `json:"moods"`
	Diary string          `json:"diary,omitempty"`
}

// identityFrom pulls the authenticated identity or writes a 401.
func identityFrom(w http.ResponseWriter, r *http.Request) *models.Identity {
	identity := request.IdentityFromContext(r)
	if identity == nil {
		respondErrorMessage(w, http.StatusUnauthorized, "identity not found in context")
		return nil
	}
	return identity
}

// CreateEntry writes a new entry. The calendar is created lazily on the
// user's first write; a second write for the same date is rejected, the
// entry's date is immutable once it exists.
func (h *CalendarHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(w, r)
	if identity == nil {
		return
	}

	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid date format")
		return
	}
	if len(req.Diary) > MaxDiaryLength {
		respondErrorMessage(w, http.StatusBadRequest, "diary text too long")
		return
	}

	ctx := r.Context()
	cal, err := h.calendarRepo.GetByUserID(ctx, identity.Subject)
	if apperr.IsNotFound(err) {
		cal = models.NewCalendar(identity.Subject)
	} else if err != nil {
		respondError(w, err)
		return
	}

	if cal.Entry(req.Date) != nil {
		respondErrorMessage(w, http.StatusBadRequest, "entry already exists for date")
		return
	}

	moods := req.Moods
	entry := &models.Entry{
		Date:  req.Date,
		Moods: &moods,
		Diary: validation.SanitizeText(req.Diary),
	}
	cal.Entries[req.Date] = entry

	if err := h.calendarRepo.Save(ctx, cal); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

// GetCalendar returns the user's whole calendar.
func (h *CalendarHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(w, r)
	if identity == nil {
		return
	}

	cal, err := h.calendarRepo.GetByUserID(r.Context(), identity.Subject)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cal)
}

// GetEntry returns one entry by date.
func (h *CalendarHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
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

	respondJSON(w, http.StatusOK, entry)
}

// DeleteEntry removes one entry by date.
func (h *CalendarHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
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

	if cal.Entry(date) == nil {
		respondErrorMessage(w, http.StatusNotFound, "no entry for date")
		return
	}
	delete(cal.Entries, date)

	if err := h.calendarRepo.Save(ctx, cal); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"deleted": date})
}

// ListMonth returns the dates the user wrote entries for in a month.
func (h *CalendarHandler) ListMonth(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(w, r)
	if identity == nil {
		return
	}

	month := mux.Vars(r)["month"]
	if err := validation.ValidateMonth(month); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid month format")
		return
	}

	cal, err := h.calendarRepo.GetByUserID(r.Context(), identity.Subject)
	if apperr.IsNotFound(err) {
		respondJSON(w, http.StatusOK, map[string]any{"month": month, "dates": []string{}})
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"month": month,
		"dates": cal.WrittenDates(month),
	})
}
