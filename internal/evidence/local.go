package evidence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes evidence images to a local directory. The returned URL
// is the configured public base URL plus the filename; the dashboard server
// serves the directory under /evidence/.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates a store writing under dir. baseURL may be empty, in
// which case URLs are server-relative (/evidence/<name>).
func NewLocalStore(dir, baseURL string) *LocalStore {
	if baseURL == "" {
		baseURL = "/evidence"
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Save writes the image and returns its URL.
func (s *LocalStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating evidence directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("writing evidence file: %w", err)
	}
	return s.baseURL + "/" + filename, nil
}
