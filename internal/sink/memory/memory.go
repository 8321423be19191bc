// Package memory provides an in-memory event sink used in tests and when
// no database is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doorwarden/doorwarden/internal/sink"
)

// Sink is an in-memory sink.EventSink. The zero value is not usable;
// create one with New.
type Sink struct {
	mu     sync.RWMutex
	events []sink.Event

	// Error injection for tests.
	RecordError error
	RecentError error
	DeleteError error
}

// New creates an empty in-memory sink.
func New() *Sink {
	return &Sink{}
}

// RecordEvent appends an event, assigning a document id and timestamp if
// they are unset.
func (s *Sink) RecordEvent(ctx context.Context, e sink.Event) (string, error) {
	if s.RecordError != nil {
		return "", s.RecordError
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return e.ID, nil
}

// RecentEvents returns up to limit events, newest first.
func (s *Sink) RecentEvents(ctx context.Context, limit int) ([]sink.Event, error) {
	if s.RecentError != nil {
		return nil, s.RecentError
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]sink.Event, len(s.events))
	copy(out, s.events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteEvent removes an event by id.
func (s *Sink) DeleteEvent(ctx context.Context, id string) error {
	if s.DeleteError != nil {
		return s.DeleteError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.events {
		if e.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("event %s: %w", id, sink.ErrNotFound)
}

// Len returns the number of stored events.
func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
