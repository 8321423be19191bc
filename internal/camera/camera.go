// Package camera owns the camera resource for the duration of one
// detection attempt and produces a single analyzable frame.
package camera

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDeviceUnavailable means the camera could not be opened.
	ErrDeviceUnavailable = errors.New("camera device unavailable")
	// ErrNoFrame means no frame was successfully read during the session.
	ErrNoFrame = errors.New("no frame captured")
)

// Device is a frame source. Frames are JPEG-encoded bytes. A device is
// opened fresh for every capture session and released before the next one.
type Device interface {
	Open(ctx context.Context) error
	ReadFrame(ctx context.Context) ([]byte, error)
	Close() error
}

// Options controls a capture session.
type Options struct {
	WarmupFrames    int           // frames discarded right after open
	PreviewDuration time.Duration // how long to keep reading before the capture
	ReadInterval    time.Duration // pause between preview reads (default 50ms)
}

// Capture acquires the device, discards warmup frames (devices commonly
// emit dark or stale frames right after opening), then reads frames for the
// preview duration keeping only the most recent one. The device is released
// on every exit path. Individual read errors during the preview are
// tolerated; if no frame was ever read the session fails with ErrNoFrame.
func Capture(ctx context.Context, dev Device, opts Options) ([]byte, error) {
	if err := dev.Open(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	defer dev.Close()

	for i := 0; i < opts.WarmupFrames; i++ {
		_, _ = dev.ReadFrame(ctx)
	}

	interval := opts.ReadInterval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}

	deadline := time.Now().Add(opts.PreviewDuration)
	var latest []byte
	for {
		frame, err := dev.ReadFrame(ctx)
		if err == nil && len(frame) > 0 {
			latest = frame
		}

		if !time.Now().Before(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			if latest == nil {
				return nil, fmt.Errorf("%w: %v", ErrNoFrame, ctx.Err())
			}
			return latest, nil
		case <-time.After(interval):
		}
	}

	if latest == nil {
		return nil, ErrNoFrame
	}
	return latest, nil
}
