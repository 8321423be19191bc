package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"

	"github.com/doorwarden/doorwarden/internal/vision"
)

// aliasFile is an optional per-directory override for the filename naming
// heuristic. It maps reference image filenames to exact display names.
const aliasFile = "aliases.yaml"

// Detector yields detected faces (with descriptors) for an image.
type Detector interface {
	DetectFaces(ctx context.Context, imageData []byte) ([]vision.Face, error)
}

// DescriptorCache stores reference descriptors keyed by file content hash so
// unchanged images are not re-encoded on every start. Implementations are
// best-effort; the loader falls back to the detector on any cache error.
type DescriptorCache interface {
	GetDescriptor(ctx context.Context, fileHash string) ([]float32, bool, error)
	PutDescriptor(ctx context.Context, fileHash, fileName, name string, descriptor []float32) error
}

// Loader builds the known-identity set from a directory of labeled
// reference images.
type Loader struct {
	Dir      string
	Detector Detector
	Cache    DescriptorCache // optional
	Progress bool            // show a progress bar on stderr
}

// Load reads every jpg/jpeg/png in the directory, obtains one descriptor per
// image (first detected face) and derives display names. The returned set is
// ordered by filename so classification tie-breaks are stable across runs.
// A missing or unreadable directory is an error; images where no face is
// found are skipped with a warning.
func (l *Loader) Load(ctx context.Context) ([]KnownIdentity, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading known faces directory %s: %w", l.Dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, e.Name())
		}
	}

	aliases, err := l.loadAliases()
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if l.Progress {
		bar = progressbar.Default(int64(len(files)), "loading faces")
	}

	var known []KnownIdentity
	for _, name := range files {
		if bar != nil {
			_ = bar.Add(1)
		}

		descriptor, err := l.descriptorFor(ctx, name, aliases)
		if err != nil {
			return nil, err
		}
		if descriptor == nil {
			fmt.Fprintf(os.Stderr, "Warning: no face found in %s, skipping\n", name)
			continue
		}

		display := aliases[name]
		if display == "" {
			display = DisplayName(name)
		}
		known = append(known, KnownIdentity{Name: display, Descriptor: descriptor})
	}

	return known, nil
}

// descriptorFor returns the descriptor for one reference image, consulting
// the cache first. A nil descriptor with nil error means no face was found.
func (l *Loader) descriptorFor(ctx context.Context, name string, aliases map[string]string) ([]float32, error) {
	data, err := os.ReadFile(filepath.Join(l.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading reference image %s: %w", name, err)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if l.Cache != nil {
		if descriptor, ok, err := l.Cache.GetDescriptor(ctx, hash); err == nil && ok {
			return descriptor, nil
		}
	}

	faces, err := l.Detector.DetectFaces(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("encoding reference image %s: %w", name, err)
	}
	if len(faces) == 0 {
		return nil, nil
	}

	descriptor := faces[0].Descriptor
	if l.Cache != nil {
		display := aliases[name]
		if display == "" {
			display = DisplayName(name)
		}
		if err := l.Cache.PutDescriptor(ctx, hash, name, display, descriptor); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: descriptor cache write failed for %s: %v\n", name, err)
		}
	}
	return descriptor, nil
}

// loadAliases reads the optional aliases.yaml from the faces directory.
func (l *Loader) loadAliases() (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(l.Dir, aliasFile))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", aliasFile, err)
	}

	aliases := map[string]string{}
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", aliasFile, err)
	}
	return aliases, nil
}
