// Package sink defines the append-only security event log consumed by the
// gateway and read by the dashboard. Backends: postgres, mariadb, memory.
package sink

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by DeleteEvent when no event has the given id.
var ErrNotFound = errors.New("event not found")

// Status is the recorded access decision for one event.
type Status string

const (
	StatusAuthorized Status = "Authorized"
	StatusIntruder   Status = "Intruder"
)

// Event is one security log record. ID is an opaque document id assigned
// by the sink on write.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	ImageURL  string    `json:"image_url,omitempty"`
	Device    string    `json:"device"`
}

// EventSink is the append-only log contract. All methods are best-effort
// from the gateway's perspective: failures are logged by the caller and
// never abort a detection cycle. Deletion is owned entirely by the sink;
// the gateway needs no notification.
type EventSink interface {
	// RecordEvent appends an event and returns its document id.
	RecordEvent(ctx context.Context, e Event) (string, error)
	// RecentEvents returns up to limit events, newest first.
	RecentEvents(ctx context.Context, limit int) ([]Event, error)
	// DeleteEvent removes an event by document id.
	DeleteEvent(ctx context.Context, id string) error
}
