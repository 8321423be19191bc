package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/doorwarden/doorwarden/internal/config"
	"github.com/doorwarden/doorwarden/internal/evidence"
	"github.com/doorwarden/doorwarden/internal/identity"
	"github.com/doorwarden/doorwarden/internal/sink"
	"github.com/doorwarden/doorwarden/internal/sink/mariadb"
	"github.com/doorwarden/doorwarden/internal/sink/memory"
	"github.com/doorwarden/doorwarden/internal/sink/postgres"
	"github.com/doorwarden/doorwarden/internal/vision"
)

// openEventSink picks the event log backend from DATABASE_URL. The returned
// pool is non-nil only for PostgreSQL, where it also backs the descriptor
// cache. The close function is safe to call once.
func openEventSink(ctx context.Context, cfg *config.Config) (sink.EventSink, *postgres.Pool, func(), error) {
	url := cfg.Database.URL

	switch {
	case url == "":
		log.Printf("DATABASE_URL not set, security events will not survive restarts")
		return memory.New(), nil, func() {}, nil

	case strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://"):
		pool, err := postgres.NewPool(&cfg.Database)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
		}
		if err := pool.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		fmt.Println("Using PostgreSQL event log")
		return postgres.NewEventRepository(pool), pool, func() { _ = pool.Close() }, nil

	default:
		// Anything else is treated as a MySQL/MariaDB DSN.
		s, err := mariadb.New(strings.TrimPrefix(url, "mysql://"))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to MariaDB: %w", err)
		}
		fmt.Println("Using MariaDB event log")
		return s, nil, func() { _ = s.Close() }, nil
	}
}

// openEvidence builds the local evidence store and, when an S3 endpoint is
// configured, the remote upload store.
func openEvidence(cfg *config.Config) (evidence.Store, evidence.Store, error) {
	local := evidence.NewLocalStore(cfg.Evidence.LocalDir, cfg.Evidence.BaseURL)
	if cfg.Evidence.S3Endpoint == "" {
		return local, nil, nil
	}

	remote, err := evidence.NewS3Store(
		cfg.Evidence.S3Endpoint,
		cfg.Evidence.S3AccessKey,
		cfg.Evidence.S3SecretKey,
		cfg.Evidence.S3Bucket,
		cfg.Evidence.S3UseSSL,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("configuring evidence upload: %w", err)
	}
	fmt.Printf("Evidence uploads enabled (bucket %s)\n", cfg.Evidence.S3Bucket)
	return local, remote, nil
}

// loadIdentities reads the known-faces directory and computes one descriptor
// per reference image. With a PostgreSQL pool the descriptors are cached
// across runs.
func loadIdentities(ctx context.Context, cfg *config.Config, pool *postgres.Pool) ([]identity.KnownIdentity, error) {
	loader := &identity.Loader{
		Dir:      cfg.Faces.KnownDir,
		Detector: vision.NewClient(cfg.Faces.ServiceURL),
		Progress: true,
	}
	if pool != nil {
		loader.Cache = postgres.NewIdentityCache(pool)
	}

	known, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading known identities from %s: %w", cfg.Faces.KnownDir, err)
	}
	if len(known) == 0 {
		log.Printf("no known identities loaded, every face will be treated as an intruder")
	}
	return known, nil
}
