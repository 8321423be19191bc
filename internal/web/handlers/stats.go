package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/doorwarden/doorwarden/internal/sink"
)

// StatsResponse summarizes the recent event log.
type StatsResponse struct {
	TotalEvents int        `json:"total_events"`
	Authorized  int        `json:"authorized"`
	Intruders   int        `json:"intruders"`
	LastEvent   *time.Time `json:"last_event,omitempty"`
	Devices     []string   `json:"devices"`
}

// StatsHandler computes summary statistics over the recent event window.
type StatsHandler struct {
	events sink.EventSink
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(events sink.EventSink) *StatsHandler {
	return &StatsHandler{events: events}
}

// Get aggregates counts over the newest events. The window matches the
// dashboard's default log view so both screens agree.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.RecentEvents(r.Context(), defaultLogLimit)
	if err != nil {
		log.Printf("loading events for stats failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load events")
		return
	}

	resp := StatsResponse{Devices: []string{}}
	seen := map[string]bool{}
	for _, e := range events {
		resp.TotalEvents++
		switch e.Status {
		case sink.StatusAuthorized:
			resp.Authorized++
		case sink.StatusIntruder:
			resp.Intruders++
		}
		if e.Device != "" && !seen[e.Device] {
			seen[e.Device] = true
			resp.Devices = append(resp.Devices, e.Device)
		}
	}
	if len(events) > 0 {
		// Events arrive newest first.
		ts := events[0].Timestamp
		resp.LastEvent = &ts
	}

	respondJSON(w, http.StatusOK, resp)
}
