package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/doorwarden/doorwarden/internal/sink"
	"github.com/doorwarden/doorwarden/internal/sink/memory"
)

func seedEvents(t *testing.T, s *memory.Sink, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		status := sink.StatusAuthorized
		name := "Alice"
		if i%2 == 1 {
			status = sink.StatusIntruder
			name = "Unknown"
		}
		id, err := s.RecordEvent(context.Background(), sink.Event{
			Name:   name,
			Status: status,
			Device: "Test_Gateway",
		})
		if err != nil {
			t.Fatalf("seeding event failed: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func testRouter(events sink.EventSink) *chi.Mux {
	logs := NewLogsHandler(events)
	stats := NewStatsHandler(events)
	r := chi.NewRouter()
	r.Get("/api/v1/logs", logs.List)
	r.Delete("/api/v1/logs/{id}", logs.Delete)
	r.Get("/api/v1/stats", stats.Get)
	return r
}

func TestLogsList(t *testing.T) {
	s := memory.New()
	seedEvents(t, s, 5)

	rec := httptest.NewRecorder()
	testRouter(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Logs  []sink.Event `json:"logs"`
		Count int          `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Count != 5 || len(body.Logs) != 5 {
		t.Errorf("expected 5 events, got count=%d len=%d", body.Count, len(body.Logs))
	}
	for i := 1; i < len(body.Logs); i++ {
		if body.Logs[i].Timestamp.After(body.Logs[i-1].Timestamp) {
			t.Errorf("events out of order at index %d", i)
		}
	}
}

func TestLogsList_Limit(t *testing.T) {
	s := memory.New()
	seedEvents(t, s, 5)

	rec := httptest.NewRecorder()
	testRouter(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/logs?limit=2", nil))

	var body struct {
		Logs []sink.Event `json:"logs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Logs) != 2 {
		t.Errorf("expected 2 events, got %d", len(body.Logs))
	}
}

func TestLogsList_InvalidLimit(t *testing.T) {
	for _, limit := range []string{"abc", "0", "-3"} {
		rec := httptest.NewRecorder()
		testRouter(memory.New()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/logs?limit="+limit, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit %q: expected 400, got %d", limit, rec.Code)
		}
	}
}

func TestLogsList_EmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(memory.New()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil))

	var body map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if string(body["logs"]) != "[]" {
		t.Errorf("expected empty array, got %s", body["logs"])
	}
}

func TestLogsList_SinkFailure(t *testing.T) {
	s := memory.New()
	s.RecentError = errors.New("backend down")

	rec := httptest.NewRecorder()
	testRouter(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestLogsDelete(t *testing.T) {
	s := memory.New()
	ids := seedEvents(t, s, 2)

	rec := httptest.NewRecorder()
	testRouter(s).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/logs/"+ids[0], nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 remaining event, got %d", s.Len())
	}
}

func TestLogsDelete_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(memory.New()).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/logs/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
