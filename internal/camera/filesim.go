package camera

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileDevice is a simulated camera backed by a directory of still images.
// Frames cycle through the directory in filename order, which keeps
// development and tests deterministic without camera hardware.
type FileDevice struct {
	dir    string
	files  []string
	next   int
	opened bool
}

// NewFileDevice creates a simulated camera reading frames from dir.
func NewFileDevice(dir string) *FileDevice {
	return &FileDevice{dir: dir}
}

func (d *FileDevice) Open(ctx context.Context) error {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return fmt.Errorf("reading frame directory %s: %w", d.dir, err)
	}

	d.files = d.files[:0]
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			d.files = append(d.files, e.Name())
		}
	}
	if len(d.files) == 0 {
		return fmt.Errorf("no frame images in %s", d.dir)
	}

	d.opened = true
	return nil
}

func (d *FileDevice) ReadFrame(ctx context.Context) ([]byte, error) {
	if !d.opened {
		return nil, errors.New("device not open")
	}

	name := d.files[d.next%len(d.files)]
	d.next++

	frame, err := os.ReadFile(filepath.Join(d.dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading frame %s: %w", name, err)
	}
	return frame, nil
}

func (d *FileDevice) Close() error {
	d.opened = false
	return nil
}
