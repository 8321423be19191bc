package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/doorwarden/doorwarden/internal/sink"
)

// EventRepository is the PostgreSQL-backed sink.EventSink.
type EventRepository struct {
	pool *Pool
}

// NewEventRepository creates an event repository on the given pool.
func NewEventRepository(pool *Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// RecordEvent appends a security event and returns its document id.
func (r *EventRepository) RecordEvent(ctx context.Context, e sink.Event) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO security_events (id, ts, name, status, image_url, device)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.ID, e.Timestamp, e.Name, string(e.Status), e.ImageURL, e.Device)
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return e.ID, nil
}

// RecentEvents returns up to limit events ordered by timestamp descending.
func (r *EventRepository) RecentEvents(ctx context.Context, limit int) ([]sink.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, ts, name, status, image_url, device
		FROM security_events
		ORDER BY ts DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []sink.Event
	for rows.Next() {
		var e sink.Event
		var status string
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Name, &status, &e.ImageURL, &e.Device); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Status = sink.Status(status)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// DeleteEvent removes an event by document id.
func (r *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM security_events WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sink.ErrNotFound
	}
	return nil
}
