// Package detector finds face candidates in camera frames and filters
// them down to at most one acceptable face per frame.
package detector

import (
	"context"
	"image"

	"github.com/insighted-labs/presence/internal/camera"
)

// Candidate is one detected face in a frame. Eye-openness probabilities
// are optional: a nil pointer means the signal was not reported.
type Candidate struct {
	Box          image.Rectangle // frame pixel coordinates
	Confidence   float64
	LeftEyeOpen  *float64 // [0,1], nil when not reported
	RightEyeOpen *float64 // [0,1], nil when not reported
}

// Detector finds faces in a single frame. Implementations are reused
// across calls; a detection failure is returned as an error and must
// never panic the pipeline.
type Detector interface {
	Detect(ctx context.Context, frame *camera.Frame) ([]Candidate, error)
}

func eyeProb(v float64) *float64 { return &v }
