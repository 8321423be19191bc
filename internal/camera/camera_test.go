package camera

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeDevice serves a scripted sequence of frames.
type fakeDevice struct {
	openErr error
	frames  [][]byte
	reads   int
	opened  bool
	closed  bool
}

func (d *fakeDevice) Open(ctx context.Context) error {
	if d.openErr != nil {
		return d.openErr
	}
	d.opened = true
	return nil
}

func (d *fakeDevice) ReadFrame(ctx context.Context) ([]byte, error) {
	d.reads++
	if d.reads > len(d.frames) {
		return nil, errors.New("no more frames")
	}
	frame := d.frames[d.reads-1]
	if frame == nil {
		return nil, errors.New("read failed")
	}
	return frame, nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

func shortOpts(warmup int) Options {
	return Options{
		WarmupFrames:    warmup,
		PreviewDuration: 100 * time.Millisecond,
		ReadInterval:    time.Millisecond,
	}
}

func TestCapture_KeepsLatestFrame(t *testing.T) {
	dev := &fakeDevice{frames: [][]byte{
		[]byte("warm1"), []byte("warm2"), []byte("warm3"),
		[]byte("frame1"), []byte("frame2"), []byte("frame3"),
	}}

	frame, err := Capture(context.Background(), dev, shortOpts(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(frame) != "frame3" {
		// Later reads fail, so frame3 must be the retained result.
		t.Errorf("expected latest readable frame 'frame3', got %q", frame)
	}
	if !dev.closed {
		t.Error("device was not closed")
	}
}

func TestCapture_WarmupFramesDiscarded(t *testing.T) {
	dev := &fakeDevice{frames: [][]byte{
		[]byte("dark1"), []byte("dark2"), []byte("dark3"), []byte("good"),
	}}

	frame, err := Capture(context.Background(), dev, shortOpts(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(frame) != "good" {
		t.Errorf("expected warmup frames discarded and 'good' captured, got %q", frame)
	}
}

func TestCapture_OpenFailure(t *testing.T) {
	dev := &fakeDevice{openErr: errors.New("busy")}

	_, err := Capture(context.Background(), dev, shortOpts(0))
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
}

func TestCapture_NoReadableFrames(t *testing.T) {
	dev := &fakeDevice{frames: nil} // every read fails

	_, err := Capture(context.Background(), dev, shortOpts(3))
	if !errors.Is(err, ErrNoFrame) {
		t.Fatalf("expected ErrNoFrame, got %v", err)
	}
	if !dev.closed {
		t.Error("device was not closed after failure")
	}
}

func TestCapture_ReadErrorsDuringPreviewTolerated(t *testing.T) {
	dev := &fakeDevice{frames: [][]byte{
		[]byte("early"), nil, nil, nil, nil, nil, nil, nil, nil, nil,
	}}

	frame, err := Capture(context.Background(), dev, shortOpts(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(frame) != "early" {
		t.Errorf("expected the one readable frame, got %q", frame)
	}
}

func TestCapture_ContextCancelReturnsLatest(t *testing.T) {
	dev := &fakeDevice{frames: [][]byte{[]byte("frame1")}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := Options{WarmupFrames: 0, PreviewDuration: time.Minute, ReadInterval: time.Millisecond}
	frame, err := Capture(ctx, dev, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(frame) != "frame1" {
		t.Errorf("expected latest frame on cancellation, got %q", frame)
	}
	if !dev.closed {
		t.Error("device was not closed")
	}
}

func TestFileDevice_CyclesFrames(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"a.jpg", "b.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte(f), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	dev := NewFileDevice(dir)
	if err := dev.Open(context.Background()); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer dev.Close()

	var got []string
	for i := 0; i < 3; i++ {
		frame, err := dev.ReadFrame(context.Background())
		if err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		got = append(got, string(frame))
	}

	want := []string{"a.jpg", "b.jpg", "a.jpg"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestFileDevice_EmptyDirectory(t *testing.T) {
	dev := NewFileDevice(t.TempDir())
	if err := dev.Open(context.Background()); err == nil {
		t.Fatal("expected error for directory without images")
	}
}
