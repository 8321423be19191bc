package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// IdentityCache stores face descriptors for reference images keyed by file
// content hash, so unchanged images skip the face service on startup.
// It implements identity.DescriptorCache.
type IdentityCache struct {
	pool *Pool
}

// NewIdentityCache creates a descriptor cache on the given pool.
func NewIdentityCache(pool *Pool) *IdentityCache {
	return &IdentityCache{pool: pool}
}

// GetDescriptor returns the cached descriptor for a file hash, if present.
func (c *IdentityCache) GetDescriptor(ctx context.Context, fileHash string) ([]float32, bool, error) {
	var vec pgvector.Vector
	err := c.pool.QueryRow(ctx,
		"SELECT descriptor FROM known_face_cache WHERE file_hash = $1", fileHash,
	).Scan(&vec)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query descriptor cache: %w", err)
	}
	return vec.Slice(), true, nil
}

// PutDescriptor stores a descriptor, replacing any previous entry for the
// same file hash.
func (c *IdentityCache) PutDescriptor(ctx context.Context, fileHash, fileName, name string, descriptor []float32) error {
	_, err := c.pool.Exec(ctx, `
		INSERT INTO known_face_cache (file_hash, file_name, display_name, descriptor)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (file_hash) DO UPDATE
		SET file_name = EXCLUDED.file_name,
		    display_name = EXCLUDED.display_name,
		    descriptor = EXCLUDED.descriptor
	`, fileHash, fileName, name, pgvector.NewVector(descriptor))
	if err != nil {
		return fmt.Errorf("upsert descriptor cache: %w", err)
	}
	return nil
}
