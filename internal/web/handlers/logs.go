package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/doorwarden/doorwarden/internal/sink"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 500
)

// LogsHandler serves the security event log.
type LogsHandler struct {
	events sink.EventSink
}

// NewLogsHandler creates a new logs handler.
func NewLogsHandler(events sink.EventSink) *LogsHandler {
	return &LogsHandler{events: events}
}

// List returns recent events, newest first. The optional limit query
// parameter defaults to 100 and is capped at 500.
func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	events, err := h.events.RecentEvents(r.Context(), limit)
	if err != nil {
		log.Printf("listing events failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load events")
		return
	}
	if events == nil {
		events = []sink.Event{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"logs":  events,
		"count": len(events),
	})
}

// Delete removes a single event by id.
func (h *LogsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing event id")
		return
	}

	err := h.events.DeleteEvent(r.Context(), id)
	if errors.Is(err, sink.ErrNotFound) {
		respondError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		log.Printf("deleting event %s failed: %v", id, err)
		respondError(w, http.StatusInternalServerError, "could not delete event")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
