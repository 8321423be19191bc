// Package mariadb is the MariaDB/MySQL event sink backend.
package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/doorwarden/doorwarden/internal/sink"
)

// Sink is the MariaDB-backed sink.EventSink.
type Sink struct {
	db *sql.DB
}

// New opens a MariaDB connection pool and ensures the events table exists.
func New(dsn string) (*Sink, error) {
	if dsn == "" {
		return nil, errors.New("MariaDB DSN is required")
	}

	// Timestamps must scan into time.Time.
	if !strings.Contains(dsn, "parseTime") {
		if strings.Contains(dsn, "?") {
			dsn += "&parseTime=true"
		} else {
			dsn += "?parseTime=true"
		}
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MariaDB: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MariaDB: %w", err)
	}

	s := &Sink{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sink) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS security_events (
			id VARCHAR(36) PRIMARY KEY,
			ts TIMESTAMP(6) NOT NULL,
			name TEXT NOT NULL,
			status VARCHAR(16) NOT NULL,
			image_url TEXT NOT NULL,
			device TEXT NOT NULL,
			INDEX idx_security_events_ts (ts)
		)
	`)
	if err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}

// RecordEvent appends a security event and returns its document id.
func (s *Sink) RecordEvent(ctx context.Context, e sink.Event) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO security_events (id, ts, name, status, image_url, device)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.Timestamp, e.Name, string(e.Status), e.ImageURL, e.Device)
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return e.ID, nil
}

// RecentEvents returns up to limit events ordered by timestamp descending.
func (s *Sink) RecentEvents(ctx context.Context, limit int) ([]sink.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, name, status, image_url, device
		FROM security_events
		ORDER BY ts DESC
		LIMIT ?
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
func (s *Sink) DeleteEvent(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM security_events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sink.ErrNotFound
	}
	return nil
}

// Close closes the connection pool.
func (s *Sink) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}
