package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/moodcal/moodcal-api/internal/apperr"
	"github.com/moodcal/moodcal-api/internal/models"
)

func TestCreateEntry(t *testing.T) {
	t.Parallel()

	t.Run("creates entry and calendar on first write", func(t *testing.T) {
		t.Parallel()

		store := &mockCalendarStore{
			t: t,
			getByUserIDFunc: func(ctx context.Context, userID string) (*models.Calendar, error) {
				return nil, apperr.New(apperr.NotFound, "calendar not found")
			},
		}
		router := newTestRouter("/calendar", NewCalendarHandler(store))

		req := authedRequest(http.MethodPost, "/calendar/entries", "user-1", CreateEntryRequest{
			Date:  "2026-03-01",
			Moods: models.MoodTags{Weather: "sunny", Emotion: []string{"joy"}},
			Diary: "walked by the river",
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(store.saveCalls) != 1 {
			t.Fatalf("expected 1 save, got %d", len(store.saveCalls))
		}
		saved := store.saveCalls[0]
		if saved.UserID != "user-1" {
			t.Errorf("expected calendar for user-1, got %q", saved.UserID)
		}
		entry := saved.Entry("2026-03-01")
		if entry == nil {
			t.Fatal("expected entry saved for 2026-03-01")
		}
		if entry.Diary != "walked by the river" {
			t.Errorf("unexpected diary text %q", entry.Diary)
		}
	})

	t.Run("rejects duplicate date", func(t *testing.T) {
		t.Parallel()

		cal := models.NewCalendar("user-1")
		cal.Entries["2026-03-01"] = &models.Entry{Date: "2026-03-01"}
		store := &mockCalendarStore{
			t: t,
			getByUserIDFunc: func(ctx context.Context, userID string) (*models.Calendar, error) {
				return cal, nil
			},
		}
		router := newTestRouter("/calendar", NewCalendarHandler(store))

		req := authedRequest(http.MethodPost, "/calendar/entries", "user-1", CreateEntryRequest{
			Date:  "2026-03-01",
			Moods: models.MoodTags{Emotion: []string{"sad"}},
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if msg := errorMessage(t, rec); msg != "entry already exists for date" {
			t.Errorf("unexpected error message %q", msg)
		}
		if len(store.saveCalls) != 0 {
			t.Errorf("expected no save on duplicate date, got %d", len(store.saveCalls))
		}
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		t.Parallel()

		store := &mockCalendarStore{t: t}
		router := newTestRouter("/calendar", NewCalendarHandler(store))

		req := authedRequest(http.MethodPost, "/calendar/entries", "user-1", CreateEntryRequest{
			Date: "03/01/2026",
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("rejects missing identity", func(t *testing.T) {
		t.Parallel()

		store := &mockCalendarStore{t: t}
		router := newTestRouter("/calendar", NewCalendarHandler(store))

		req := httptest.NewRequest(http.MethodPost, "/calendar/entries", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
	})
}

func TestGetEntry(t *testing.T) {
	t.Parallel()

	cal := models.NewCalendar("user-1")
	cal.Entries["2026-03-01"] = &models.Entry{
		Date:  "2026-03-01",
		Moods: &models.MoodTags{Emotion: []string{"joy"}},
		Diary: "quiet day",
	}
	store := &mockCalendarStore{
		t: t,
		getByUserIDFunc: func(ctx context.Context, userID string) (*models.Calendar, error) {
			return cal, nil
		},
	}
	router := newTestRouter("/calendar", NewCalendarHandler(store))

	t.Run("returns existing entry", func(t *testing.T) {
		t.Parallel()

		req := authedRequest(http.MethodGet, "/calendar/entries/2026-03-01", "user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var entry models.Entry
		decodeBody(t, rec, &entry)
		if entry.Diary != "quiet day" {
			t.Errorf("unexpected diary %q", entry.Diary)
		}
	})

	t.Run("returns 404 for missing date", func(t *testing.T) {
		t.Parallel()

		req := authedRequest(http.MethodGet, "/calendar/entries/2026-03-02", "user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("returns 400 for malformed date", func(t *testing.T) {
		t.Parallel()

		req := authedRequest(http.MethodGet, "/calendar/entries/march-first", "user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestDeleteEntry(t *testing.T) {
	t.Parallel()

	t.Run("deletes existing entry", func(t *testing.T) {
		t.Parallel()

		cal := models.NewCalendar("user-1")
		cal.Entries["2026-03-01"] = &models.Entry{Date: "2026-03-01"}
		store := &mockCalendarStore{
			t: t,
			getByUserIDFunc: func(ctx context.Context, userID string) (*models.Calendar, error) {
				return cal, nil
			},
		}
		router := newTestRouter("/calendar", NewCalendarHandler(store))

		req := authedRequest(http.MethodDelete, "/calendar/entries/2026-03-01", "user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if len(store.saveCalls) != 1 {
			t.Fatalf("expected 1 save, got %d", len(store.saveCalls))
		}
		if store.saveCalls[0].Entry("2026-03-01") != nil {
			t.Error("expected entry removed from saved calendar")
		}
	})

	t.Run("returns 404 for missing entry", func(t *testing.T) {
		t.Parallel()

		store := &mockCalendarStore{
			t: t,
			getByUserIDFunc: func(ctx context.Context, userID string) (*models.Calendar, error) {
				return models.NewCalendar("user-1"), nil
			},
		}
		router := newTestRouter("/calendar", NewCalendarHandler(store))

		req := authedRequest(http.MethodDelete, "/calendar/entries/2026-03-01", "user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
		if len(store.saveCalls) != 0 {
			t.Errorf("expected no save, got %d", len(store.saveCalls))
		}
	})
}

func TestListMonth(t *testing.T) {
	t.Parallel()

	t.Run("returns written dates for month", func(t *testing.T) {
		t.Parallel()

		cal := models.NewCalendar("user-1")
		cal.Entries["2026-03-01"] = &models.Entry{Date: "2026-03-01"}
		cal.Entries["2026-03-15"] = &models.Entry{Date: "2026-03-15"}
		cal.Entries["2026-04-01"] = &models.Entry{Date: "2026-04-01"}
		store := &mockCalendarStore{
			t: t,
			getByUserIDFunc: func(ctx context.Context, userID string) (*models.Calendar, error) {
				return cal, nil
			},
		}
		router := newTestRouter("/calendar", NewCalendarHandler(store))

		req := authedRequest(http.MethodGet, "/calendar/months/2026-03", "user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var body struct {
			Month string   `json:"month"`
			Dates []string `json:"dates"`
		}
		decodeBody(t, rec, &body)
		if body.Month != "2026-03" {
			t.Errorf("unexpected month %q", body.Month)
		}
		if len(body.Dates) != 2 {
			t.Errorf("expected 2 dates in march, got %v", body.Dates)
		}
	})

	t.Run("returns empty list when calendar missing", func(t *testing.T) {
		t.Parallel()

		store := &mockCalendarStore{
			t: t,
			getByUserIDFunc: func(ctx context.Context, userID string) (*models.Calendar, error) {
				return nil, apperr.New(apperr.NotFound, "calendar not found")
			},
		}
		router := newTestRouter("/calendar", NewCalendarHandler(store))

		req := authedRequest(http.MethodGet, "/calendar/months/2026-03", "user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var body struct {
			Dates []string `json:"dates"`
		}
		decodeBody(t, rec, &body)
		if len(body.Dates) != 0 {
			t.Errorf("expected no dates, got %v", body.Dates)
		}
	})

	t.Run("rejects malformed month", func(t *testing.T) {
		t.Parallel()

		store := &mockCalendarStore{t: t}
		router := newTestRouter("/calendar", NewCalendarHandler(store))

		req := authedRequest(http.MethodGet, "/calendar/months/march", "user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}
