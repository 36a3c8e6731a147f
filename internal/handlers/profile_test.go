package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/moodcal/moodcal-api/internal/apperr"
	"github.com/moodcal/moodcal-api/internal/models"
)

func TestGetProfile(t *testing.T) {
	t.Parallel()

	t.Run("returns profile fields", func(t *testing.T) {
		t.Parallel()

		cal := models.NewCalendar("user-1")
		cal.PersonalityType = "INFP"
		cal.Platform = "Netflix"
		store := &mockCalendarStore{
			t: t,
			getByUserIDFunc: func(ctx context.Context, userID string) (*models.Calendar, error) {
				return cal, nil
			},
		}
		router := newTestRouter("/profile", NewProfileHandler(store))

		req := authedRequest(http.MethodGet, "/profile", "user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var resp ProfileResponse
		decodeBody(t, rec, &resp)
		if resp.PersonalityType != "INFP" || resp.Platform != "Netflix" {
			t.Errorf("unexpected profile %+v", resp)
		}
	})

	t.Run("returns empty profile when calendar missing", func(t *testing.T) {
		t.Parallel()

		store := &mockCalendarStore{
			t: t,
			getByUserIDFunc: func(ctx context.Context, userID string) (*models.Calendar, error) {
				return nil, apperr.New(apperr.NotFound, "calendar not found")
			},
		}
		router := newTestRouter("/profile", NewProfileHandler(store))

		req := authedRequest(http.MethodGet, "/profile", "user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var resp ProfileResponse
		decodeBody(t, rec, &resp)
		if resp.PersonalityType != "" || resp.Platform != "" {
			t.Errorf("expected empty profile, got %+v", resp)
		}
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	strPtr := func(s string) *string { return &s }

	t.Run("uppercases and saves personality type", func(t *testing.T) {
		t.Parallel()

		store := &mockCalendarStore{
			t: t,
			getByUserIDFunc: func(ctx context.Context, userID string) (*models.Calendar, error) {
				return nil, apperr.New(apperr.NotFound, "calendar not found")
			},
		}
		router := newTestRouter("/profile", NewProfileHandler(store))

		req := authedRequest(http.MethodPut, "/profile", "user-1", UpdateProfileRequest{
			PersonalityType: strPtr("infp"),
			Platform:        strPtr(" Netflix "),
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(store.saveCalls) != 1 {
			t.Fatalf("expected 1 save, got %d", len(store.saveCalls))
		}
		saved := store.saveCalls[0]
		if saved.PersonalityType != "INFP" {
			t.Errorf("expected personality type INFP, got %q", saved.PersonalityType)
		}
		if saved.Platform != "Netflix" {
			t.Errorf("expected trimmed platform Netflix, got %q", saved.Platform)
		}
	})

	t.Run("leaves omitted fields unchanged", func(t *testing.T) {
		t.Parallel()

		cal := models.NewCalendar("user-1")
		cal.PersonalityType = "ESTJ"
		cal.Platform = "Watcha"
		store := &mockCalendarStore{
			t: t,
			getByUserIDFunc: func(ctx context.Context, userID string) (*models.Calendar, error) {
				return cal, nil
			},
		}
		router := newTestRouter("/profile", NewProfileHandler(store))

		req := authedRequest(http.MethodPut, "/profile", "user-1", UpdateProfileRequest{
			Platform: strPtr("Disney+"),
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		saved := store.saveCalls[0]
		if saved.PersonalityType != "ESTJ" {
			t.Errorf("expected personality type untouched, got %q", saved.PersonalityType)
		}
		if saved.Platform != "Disney+" {
			t.Errorf("expected platform Disney+, got %q", saved.Platform)
		}
	})

	t.Run("clears field on explicit empty string", func(t *testing.T) {
		t.Parallel()

		cal := models.NewCalendar("user-1")
		cal.Platform = "Netflix"
		store := &mockCalendarStore{
			t: t,
			getByUserIDFunc: func(ctx context.Context, userID string) (*models.Calendar, error) {
				return cal, nil
			},
		}
		router := newTestRouter("/profile", NewProfileHandler(store))

		req := authedRequest(http.MethodPut, "/profile", "user-1", UpdateProfileRequest{
			Platform: strPtr(""),
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if saved := store.saveCalls[0]; saved.Platform != "" {
			t.Errorf("expected platform cleared, got %q", saved.Platform)
		}
	})

	t.Run("rejects unknown personality type", func(t *testing.T) {
		t.Parallel()

		store := &mockCalendarStore{t: t}
		router := newTestRouter("/profile", NewProfileHandler(store))

		req := authedRequest(http.MethodPut, "/profile", "user-1", UpdateProfileRequest{
			PersonalityType: strPtr("ABCD"),
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if msg := errorMessage(t, rec); msg != "invalid personality type" {
			t.Errorf("unexpected error message %q", msg)
		}
	})
}
