package gateway

import (
	"context"
	"fmt"
	"log"

	"github.com/doorwarden/doorwarden/internal/identity"
	"github.com/doorwarden/doorwarden/internal/vision"
)

// DetectionResult is the classified outcome for a single captured frame.
type DetectionResult struct {
	Frame           []byte
	Faces           []vision.Face
	Classifications []identity.Classification
	AnyIntruder     bool
}

// Evaluate runs face detection on the frame and classifies every face
// against the known-identity set. Classifications keep the detection
// order of Faces. A frame with zero faces yields an empty result with
// AnyIntruder false.
func (g *Gateway) Evaluate(ctx context.Context, frame []byte) (*DetectionResult, error) {
	faces, err := g.deps.Detector.DetectFaces(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("detecting faces: %w", err)
	}

	result := &DetectionResult{Frame: frame, Faces: faces}
	for _, face := range faces {
		c := identity.Classify(face.Descriptor, g.deps.Known, g.opts.Tolerance)
		result.Classifications = append(result.Classifications, c)
		if c.Verdict == identity.VerdictIntruder {
			result.AnyIntruder = true
		} else {
			log.Printf("recognized %s (distance %.3f)", c.Name, c.Distance)
		}
	}

	return result, nil
}
