package gateway

import (
	"context"
	"fmt"
	"image"
	"log"

	"github.com/doorwarden/doorwarden/internal/evidence"
	"github.com/doorwarden/doorwarden/internal/identity"
	"github.com/doorwarden/doorwarden/internal/sink"
)

// Markers recorded as the image URL when the evidence frame could not be
// made available. Stored verbatim, the dashboard renders them as text.
const (
	uploadFailedMarker = "Upload Failed"
	noUploadMarker     = "No Cloud Connection"
)

// dispatch applies the decision policy for an evaluated frame:
//
//  1. every authorized face gets an Authorized log entry without an image,
//  2. a welcome signal fires only when at least one face is authorized
//     and none is an intruder,
//  3. any intruder fires the alarm once, persists one annotated evidence
//     frame and logs one Intruder entry per intruder face,
//  4. the loop continues whatever fails.
func (g *Gateway) dispatch(ctx context.Context, result *DetectionResult) {
	anyAuthorized := false
	for _, c := range result.Classifications {
		if c.Verdict != identity.VerdictAuthorized {
			continue
		}
		anyAuthorized = true
		log.Printf("welcome, %s", c.Name)
		g.record(ctx, sink.Event{Name: c.Name, Status: sink.StatusAuthorized})
	}

	if anyAuthorized && !result.AnyIntruder {
		if err := g.deps.Link.SendWelcome(); err != nil {
			log.Printf("welcome signal failed: %v", err)
		}
	}

	if !result.AnyIntruder {
		return
	}

	log.Printf("INTRUDER DETECTED")
	if err := g.deps.Link.SendAlarm(); err != nil {
		log.Printf("alarm signal failed: %v", err)
	}

	imageURL := g.persistEvidence(ctx, result)
	for _, c := range result.Classifications {
		if c.Verdict != identity.VerdictIntruder {
			continue
		}
		g.record(ctx, sink.Event{
			Name:     identity.UnknownName,
			Status:   sink.StatusIntruder,
			ImageURL: imageURL,
		})
	}
}

// record writes one event to the sink, tagging it with the gateway's
// device name. Sink failures are logged and swallowed.
func (g *Gateway) record(ctx context.Context, event sink.Event) {
	event.Device = g.opts.DeviceTag
	if _, err := g.deps.Events.RecordEvent(ctx, event); err != nil {
		log.Printf("event log failed: %v", err)
	}
}

// persistEvidence annotates the frame, saves it locally and uploads it to
// the remote store when one is configured. The returned string is the URL
// to record, or a marker when no URL could be produced.
func (g *Gateway) persistEvidence(ctx context.Context, result *DetectionResult) string {
	frame := result.Frame
	annotated, err := evidence.Annotate(frame, evidenceBoxes(result))
	if err != nil {
		log.Printf("frame annotation failed, keeping raw frame: %v", err)
	} else {
		frame = annotated
	}

	filename := fmt.Sprintf("intruder_%s.jpg", g.now().Format("20060102_150405"))

	localURL := ""
	if g.deps.Local != nil {
		localURL, err = g.deps.Local.Save(ctx, filename, frame)
		if err != nil {
			log.Printf("local evidence save failed: %v", err)
			localURL = ""
		} else {
			log.Printf("evidence saved as %s", filename)
		}
	}

	if g.deps.Remote == nil {
		if localURL == "" {
			return noUploadMarker
		}
		return localURL
	}

	url, err := g.deps.Remote.Save(ctx, filename, frame)
	if err != nil {
		log.Printf("evidence upload failed: %v", err)
		return uploadFailedMarker
	}
	return url
}

// evidenceBoxes converts detection output into annotation boxes, pairing
// each bounding box with its classification label.
func evidenceBoxes(result *DetectionResult) []evidence.Box {
	boxes := make([]evidence.Box, 0, len(result.Faces))
	for i, face := range result.Faces {
		if len(face.BBox) < 4 {
			continue
		}
		box := evidence.Box{
			Rect: image.Rect(
				int(face.BBox[0]), int(face.BBox[1]),
				int(face.BBox[2]), int(face.BBox[3]),
			),
			Label: identity.UnknownName,
		}
		if i < len(result.Classifications) {
			c := result.Classifications[i]
			box.Label = c.Name
			box.Intruder = c.Verdict == identity.VerdictIntruder
		}
		boxes = append(boxes, box)
	}
	return boxes
}
