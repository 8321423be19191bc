//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/doorwarden/doorwarden/internal/config"
	"github.com/doorwarden/doorwarden/internal/sink"
)

func setupTestContainer(t *testing.T) (*Pool, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Docker not available or container failed to start, skipping integration test: %v", err)
		return nil, func() {}
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.DatabaseConfig{
		URL:          fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port()),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}

	pool, err := NewPool(cfg)
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("Failed to create pool: %v", err)
	}

	if err := pool.Migrate(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return pool, func() {
		pool.Close()
		container.Terminate(ctx)
	}
}

func TestEventRepository(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	repo := NewEventRepository(pool)

	t.Run("RecordAndRecent", func(t *testing.T) {
		base := time.Now().Add(-time.Hour)
		for i, name := range []string{"Alice", "Unknown", "Bob"} {
			_, err := repo.RecordEvent(ctx, sink.Event{
				Timestamp: base.Add(time.Duration(i) * time.Minute),
				Name:      name,
				Status:    sink.StatusAuthorized,
				Device:    "Test_Gateway",
			})
			if err != nil {
				t.Fatalf("record failed: %v", err)
			}
		}

		events, err := repo.RecentEvents(ctx, 10)
		if err != nil {
			t.Fatalf("recent failed: %v", err)
		}
		if len(events) != 3 {
			t.Fatalf("expected 3 events, got %d", len(events))
		}
		if events[0].Name != "Bob" {
			t.Errorf("expected newest event first, got %s", events[0].Name)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		id, err := repo.RecordEvent(ctx, sink.Event{
			Name:   "Unknown",
			Status: sink.StatusIntruder,
			Device: "Test_Gateway",
		})
		if err != nil {
			t.Fatalf("record failed: %v", err)
		}

		if err := repo.DeleteEvent(ctx, id); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if err := repo.DeleteEvent(ctx, id); err == nil {
			t.Error("expected error deleting a missing event")
		}
	})
}

func TestIdentityCache(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	cache := NewIdentityCache(pool)

	descriptor := make([]float32, 128)
	for i := range descriptor {
		descriptor[i] = float32(i) / 128.0
	}

	if err := cache.PutDescriptor(ctx, "hash-1", "Alice_1.jpg", "Alice", descriptor); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok, err := cache.GetDescriptor(ctx, "hash-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if len(got) != 128 || got[64] != descriptor[64] {
		t.Errorf("descriptor round trip mismatch")
	}

	_, ok, err = cache.GetDescriptor(ctx, "missing-hash")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Error("expected a cache miss for unknown hash")
	}
}
