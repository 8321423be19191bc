// Package gateway runs the detection pipeline: wait for a motion trigger,
// capture a frame, classify every detected face against the known-identity
// set and dispatch the hardware and logging side effects.
package gateway

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/doorwarden/doorwarden/internal/camera"
	"github.com/doorwarden/doorwarden/internal/evidence"
	"github.com/doorwarden/doorwarden/internal/hardware"
	"github.com/doorwarden/doorwarden/internal/identity"
	"github.com/doorwarden/doorwarden/internal/sink"
	"github.com/doorwarden/doorwarden/internal/vision"
)

// Detector yields detected faces (with descriptors) for a frame.
type Detector interface {
	DetectFaces(ctx context.Context, imageData []byte) ([]vision.Face, error)
}

// Deps are the gateway's injected collaborators.
type Deps struct {
	Device   camera.Device
	Detector Detector
	Known    []identity.KnownIdentity
	Link     hardware.Link
	Triggers hardware.TriggerSource
	Events   sink.EventSink
	Local    evidence.Store // local evidence persistence, always set
	Remote   evidence.Store // optional cloud upload; nil = local URLs only
}

// Options are the gateway's tunables.
type Options struct {
	Capture       camera.Options
	Tolerance     float64       // descriptor match tolerance
	DeviceTag     string        // attached to every log entry
	ResultDisplay time.Duration // bounded pause after a decision
}

// Gateway is the top-level detection loop. It processes at most one
// detection cycle at a time; the camera is acquired fresh each cycle and
// released before the next.
type Gateway struct {
	deps Deps
	opts Options
	now  func() time.Time
}

// New creates a gateway. The known-identity set must already be loaded;
// it stays immutable for the process lifetime.
func New(deps Deps, opts Options) *Gateway {
	if opts.Tolerance <= 0 {
		opts.Tolerance = identity.DefaultTolerance
	}
	return &Gateway{deps: deps, opts: opts, now: time.Now}
}

// Run blocks processing triggers until the context is canceled or the
// operator quits (simulated mode). Capture, detection, hardware and sink
// failures abandon the current cycle and never stop the loop.
func (g *Gateway) Run(ctx context.Context) error {
	log.Printf("listening for %s triggers", hardware.TriggerMotion)

	for {
		err := g.deps.Triggers.NextTrigger(ctx)
		if errors.Is(err, hardware.ErrQuit) {
			log.Printf("operator quit, shutting down")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			log.Printf("trigger wait failed: %v", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		g.runCycle(ctx)

		// Triggers that piled up during the cycle would re-fire immediately.
		g.deps.Triggers.Drain()
	}
}

// runCycle performs one Capturing -> Deciding -> Dispatching pass. Every
// failure resolves to abandoning the cycle.
func (g *Gateway) runCycle(ctx context.Context) {
	log.Printf("motion trigger received, opening camera for verification")

	frame, err := camera.Capture(ctx, g.deps.Device, g.opts.Capture)
	if err != nil {
		log.Printf("capture aborted: %v", err)
		return
	}

	result, err := g.Evaluate(ctx, frame)
	if err != nil {
		log.Printf("face detection failed: %v", err)
		return
	}

	if len(result.Classifications) == 0 {
		log.Printf("no face detected in the captured frame")
		return
	}

	g.dispatch(ctx, result)

	// Bounded pause so the outcome is observable before re-listening.
	if g.opts.ResultDisplay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(g.opts.ResultDisplay):
		}
	}
}
