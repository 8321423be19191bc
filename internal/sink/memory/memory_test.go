package memory

import (
	"context"
	"testing"
	"time"

	"github.com/doorwarden/doorwarden/internal/sink"
)

func TestRecordAndRecent(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"Alice", "Unknown", "Bob"} {
		_, err := s.RecordEvent(ctx, sink.Event{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Name:      name,
			Status:    sink.StatusAuthorized,
			Device:    "Laptop_Gateway",
		})
		if err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	events, err := s.RecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	// Newest first.
	if events[0].Name != "Bob" || events[2].Name != "Alice" {
		t.Errorf("expected descending timestamp order, got %s..%s", events[0].Name, events[2].Name)
	}
}

func TestRecentLimit(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := s.RecordEvent(ctx, sink.Event{Name: "Alice", Status: sink.StatusAuthorized}); err != nil {
			t.Fatal(err)
		}
	}

	events, err := s.RecentEvents(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Errorf("expected limit 2 respected, got %d", len(events))
	}
}

func TestRecordAssignsID(t *testing.T) {
	s := New()

	id, err := s.RecordEvent(context.Background(), sink.Event{Name: "Alice", Status: sink.StatusAuthorized})
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Error("expected a generated document id")
	}
}

func TestDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.RecordEvent(ctx, sink.Event{Name: "Unknown", Status: sink.StatusIntruder})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteEvent(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty sink after delete, got %d events", s.Len())
	}

	if err := s.DeleteEvent(ctx, id); err == nil {
		t.Error("expected error deleting a missing event")
	}
}
