package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/moodcal/moodcal-api/internal/models"
	"github.com/moodcal/moodcal-api/internal/request"
)

type mockCalendarStore struct {
	t               *testing.T
	getByUserIDFunc func(ctx context.Context, userID string) (*models.Calendar, error)
	getAllFunc      func(ctx context.Context) ([]*models.Calendar, error)
	saveFunc        func(ctx context.Context, cal *models.Calendar) error

	// Call tracking
	saveCalls []*models.Calendar
}

func (m *mockCalendarStore) GetByUserID(ctx context.Context, userID string) (*models.Calendar, error) {
	if m.getByUserIDFunc == nil {
		m.t.Fatal("GetByUserID called but not configured in test - mock requires explicit setup")
	}
	return m.getByUserIDFunc(ctx, userID)
}

func (m *mockCalendarStore) GetAll(ctx context.Context) ([]*models.Calendar, error) {
	if m.getAllFunc == nil {
		m.t.Fatal("GetAll called but not configured in test - mock requires explicit setup")
	}
	return m.getAllFunc(ctx)
}

func (m *mockCalendarStore) Save(ctx context.Context, cal *models.Calendar) error {
	m.saveCalls = append(m.saveCalls, cal)
	if m.saveFunc == nil {
		return nil
	}
	return m.saveFunc(ctx, cal)
}

type mockContentStore struct {
	t                     *testing.T
	findByTitlePrefixFunc func(ctx context.Context, prefix string) (*models.Content, error)
}

func (m *mockContentStore) FindByTitlePrefix(ctx context.Context, prefix string) (*models.Content, error) {
	if m.findByTitlePrefixFunc == nil {
		m.t.Fatal("FindByTitlePrefix called but not configured in test - mock requires explicit setup")
	}
	return m.findByTitlePrefixFunc(ctx, prefix)
}

func (m *mockContentStore) GetAll(ctx context.Context) ([]*models.Content, error) {
	m.t.Fatal("GetAll called but not configured in test - mock requires explicit setup")
	return nil, nil
}

func (m *mockContentStore) UpsertBatch(ctx context.Context, contents []*models.Content) error {
	m.t.Fatal("UpsertBatch called but not configured in test - mock requires explicit setup")
	return nil
}

type mockStatsStore struct {
	t              *testing.T
	getByTitleFunc func(ctx context.Context, title string) (*models.EmotionStats, error)
	getAllFunc     func(ctx context.Context) ([]*models.EmotionStats, error)
}

func (m *mockStatsStore) GetByTitle(ctx context.Context, title string) (*models.EmotionStats, error) {
	if m.getByTitleFunc == nil {
		m.t.Fatal("GetByTitle called but not configured in test - mock requires explicit setup")
	}
	return m.getByTitleFunc(ctx, title)
}

func (m *mockStatsStore) GetByTitleOrCreate(ctx context.Context, title string) (*models.EmotionStats, error) {
	m.t.Fatal("GetByTitleOrCreate called but not configured in test - mock requires explicit setup")
	return nil, nil
}

func (m *mockStatsStore) GetAll(ctx context.Context) ([]*models.EmotionStats, error) {
	if m.getAllFunc == nil {
		m.t.Fatal("GetAll called but not configured in test - mock requires explicit setup")
	}
	return m.getAllFunc(ctx)
}

func (m *mockStatsStore) Save(ctx context.Context, stats *models.EmotionStats) error {
	m.t.Fatal("Save called but not configured in test - mock requires explicit setup")
	return nil
}

func (m *mockStatsStore) DeleteAll(ctx context.Context) error {
	m.t.Fatal("DeleteAll called but not configured in test - mock requires explicit setup")
	return nil
}

// routeRegistrar is implemented by every handler with a RegisterRoutes method.
type routeRegistrar interface {
	RegisterRoutes(r *mux.Router)
}

// newTestRouter mounts a handler under its path prefix so mux.Vars resolve
// the same way they do in the server.
func newTestRouter(prefix string, h routeRegistrar) *mux.Router {
	router := mux.NewRouter()
	h.RegisterRoutes(router.PathPrefix(prefix).Subrouter())
	return router
}

// authedRequest builds a request with a resolved identity already attached,
// the state every handler sees after the auth middleware.
func authedRequest(method, target, userID string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := request.WithIdentity(req.Context(), &models.Identity{Subject: userID})
	return req.WithContext(ctx)
}

// decodeBody unmarshals a response body into out, failing the test on error.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
}

// errorMessage extracts the "error" field from an error response body.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	return body["error"]
}
