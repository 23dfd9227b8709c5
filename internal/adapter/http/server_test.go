package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	httpadapter "github.com/couchcryptid/nyc-building-report/internal/adapter/http"
	"github.com/couchcryptid/nyc-building-report/internal/domain"
	"github.com/couchcryptid/nyc-building-report/internal/observability"
	"github.com/couchcryptid/nyc-building-report/internal/pipeline"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockSearcher struct {
	mu       sync.Mutex
	requests []pipeline.SearchRequest
	err      error
}

func (m *mockSearcher) Search(_ context.Context, req pipeline.SearchRequest) (domain.BuildingReport, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.err != nil {
		return domain.BuildingReport{}, m.err
	}
	return domain.BuildingReport{Address: req.Address, HealthScore: domain.GradeA}, nil
}

// --- helpers ---

func newTestServer(searcher *mockSearcher, readyErr error) *httpadapter.Server {
	registry := domain.NewRegistry([]domain.RegistryEntry{
		{Number: "350", Street: "5th Avenue", Borough: "Manhattan"},
		{Number: "12", Street: "Main Street", Borough: "Brooklyn"},
	})
	return httpadapter.NewServer(":0", httpadapter.Dependencies{
		Searcher: searcher,
		Sessions: pipeline.NewSessionStore(searcher, 10, observability.NewMetricsForTesting()),
		Registry: func() *domain.Registry { return registry },
		Ready:    &mockReadiness{err: readyErr},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func do(t *testing.T, srv http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

// --- health ---

func TestHealthzReturns200(t *testing.T) {
	rec := do(t, newTestServer(&mockSearcher{}, nil), http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	rec := do(t, newTestServer(&mockSearcher{}, nil), http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, newTestServer(&mockSearcher{}, errors.New("registry not loaded")), http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(t, newTestServer(&mockSearcher{}, nil), http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// --- report ---

func TestReport(t *testing.T) {
	searcher := &mockSearcher{}
	srv := newTestServer(searcher, nil)

	rec := do(t, srv, http.MethodGet, "/api/v1/report?address=350+5th+Ave", "", map[string]string{"X-App-Token": "tok"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var report domain.BuildingReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "350 5th Ave", report.Address)

	require.Len(t, searcher.requests, 1)
	assert.Equal(t, domain.Credentials{AppToken: "tok"}, searcher.requests[0].Credentials)
}

func TestReport_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{"missing address", "/api/v1/report", nil, http.StatusBadRequest},
		{"blank address", "/api/v1/report?address=+++", nil, http.StatusBadRequest},
		{"unresolvable", "/api/v1/report?address=nowhere", fmt.Errorf("resolve: %w", domain.ErrAddressUnresolvable), http.StatusUnprocessableEntity},
		{"unexpected", "/api/v1/report?address=1+Main", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(&mockSearcher{err: tt.err}, nil), http.MethodGet, tt.target, "", nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decodeError(t, rec))
		})
	}
}

// --- sessions ---

func TestSessionSearchAndReport(t *testing.T) {
	srv := newTestServer(&mockSearcher{}, nil)

	rec := do(t, srv, http.MethodPost, "/api/v1/sessions/new/search", `{"address":"12 Main Street"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get("X-Session-ID")
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	rec = do(t, srv, http.MethodGet, "/api/v1/sessions/"+id+"/report", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report domain.BuildingReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "12 Main Street", report.Address)

	rec = do(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/search", `{"address":"350 5th Avenue"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, rec.Header().Get("X-Session-ID"))

	rec = do(t, srv, http.MethodGet, "/api/v1/sessions/"+id+"/report", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "350 5th Avenue", report.Address)
}

func TestSessionSearch_ClientChosenID(t *testing.T) {
	srv := newTestServer(&mockSearcher{}, nil)

	rec := do(t, srv, http.MethodPost, "/api/v1/sessions/tab-1/search", `{"address":"12 Main Street"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tab-1", rec.Header().Get("X-Session-ID"))
}

func TestSessionSearch_BadRequests(t *testing.T) {
	srv := newTestServer(&mockSearcher{}, nil)

	rec := do(t, srv, http.MethodPost, "/api/v1/sessions/new/search", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/sessions/new/search", `{"address":""}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionSearch_Unresolvable(t *testing.T) {
	srv := newTestServer(&mockSearcher{err: domain.ErrAddressUnresolvable}, nil)

	rec := do(t, srv, http.MethodPost, "/api/v1/sessions/s1/search", `{"address":"nowhere"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/sessions/s1/report", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionReport_UnknownSession(t *testing.T) {
	rec := do(t, newTestServer(&mockSearcher{}, nil), http.MethodGet, "/api/v1/sessions/missing/report", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown session", decodeError(t, rec))
}

// --- suggestions ---

func TestSuggestions(t *testing.T) {
	srv := newTestServer(&mockSearcher{}, nil)

	rec := do(t, srv, http.MethodGet, "/api/v1/suggestions?q=main", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Suggestions []domain.RegistryEntry `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Suggestions, 1)
	assert.Equal(t, "12 Main Street, Brooklyn", body.Suggestions[0].FullAddress)

	rec = do(t, srv, http.MethodGet, "/api/v1/suggestions?q=ma", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestions":[]}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	rec := do(t, newTestServer(&mockSearcher{}, nil), http.MethodOptions, "/api/v1/report", "", map[string]string{
		"Origin":                         "http://localhost:5173",
		"Access-Control-Request-Method":  http.MethodGet,
		"Access-Control-Request-Headers": "X-App-Token",
	})
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
