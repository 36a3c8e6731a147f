package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/moodcal/moodcal-api/internal/models"
	"github.com/moodcal/moodcal-api/internal/request"
)

type fakeVerifier struct {
	claims *models.JWTClaims
	err    error
}

func (f *fakeVerifier) Verify(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	return f.claims, f.err
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	verifier := &fakeVerifier{claims: &models.JWTClaims{Sub: "sub-123", Email: "a@b.c"}}
	var got *models.Identity
	handler := Auth(verifier, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = request.IdentityFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/api/v1/calendar", nil)
	r.Header.Set("Authorization", "Bearer sometoken")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got == nil || got.Subject != "sub-123" {
		t.Errorf("identity = %+v, want subject sub-123", got)
	}
}

func TestAuth_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header   string
		verifier TokenVerifier
	}{
		{name: "missing header", header: "", verifier: &fakeVerifier{}},
		{name: "malformed header", header: "Basic abc", verifier: &fakeVerifier{}},
		{name: "verification failure", header: "Bearer bad", verifier: &fakeVerifier{err: errors.New("expired")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := Auth(tt.verifier, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be reached")
			}))

			r := httptest.NewRequest("GET", "/api/v1/calendar", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if body["error"] == "" {
				t.Error("error body missing error field")
			}
		})
	}
}

func TestErrorHandler_RecoversPanic(t *testing.T) {
	t.Parallel()

	handler := ErrorHandler(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	r := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	if body["error"] == "" {
		t.Error("error body missing error field")
	}
}

func TestLogging_PassesThrough(t *testing.T) {
	t.Parallel()

	handler := Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	r := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", w.Code)
	}
}

func TestLogging_RouteTemplate(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	router := mux.NewRouter()
	router.Use(Logging(logger))
	router.HandleFunc("/api/v1/calendar/{date}", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{"date":"2025-03-14"}`)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}).Methods("GET")

	r := httptest.NewRequest("GET", "/api/v1/calendar/2025-03-14", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("http_request entries = %d, want 1", len(entries))
	}

	fields := entries[0].ContextMap()
	if got := fields["route"]; got != "/api/v1/calendar/{date}" {
		t.Errorf("route = %v, want the matched template, not the raw path", got)
	}
	if got := fields["status_code"]; got != int64(http.StatusOK) {
		t.Errorf("status_code = %v, want 200", got)
	}
	if got := fields["response_bytes"]; got != int64(len(`{"date":"2025-03-14"}`)) {
		t.Errorf("response_bytes = %v, want body length", got)
	}
}

func TestLogging_UnmatchedRouteFallsBackToPath(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	r := httptest.NewRequest("GET", "/nope", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("http_request entries = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["route"]; got != "/nope" {
		t.Errorf("route = %v, want sanitized raw path", got)
	}
}
