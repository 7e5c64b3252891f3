package detector

import (
	"github.com/insighted-labs/presence/internal/domain"
)

// Gate defaults. Box thresholds are raw sensor pixels, matching the
// capture geometry the distance threshold was tuned against.
const (
	DefaultMinBoxSize = 400
	DefaultMinEyeOpen = 0.6
)

// QualityGate filters detector output down to at most one acceptable
// face. Candidates are considered in detector-reported order; no
// re-ranking by size or confidence is performed.
type QualityGate struct {
	MinBoxSize int
	MinEyeOpen float64
}

func NewQualityGate() *QualityGate {
	return &QualityGate{
		MinBoxSize: DefaultMinBoxSize,
		MinEyeOpen: DefaultMinEyeOpen,
	}
}

// Select returns the first candidate that passes the size and
// eye-openness checks, or a typed error describing why the frame was
// rejected. Small faces embed unreliably, and closed or undetected eyes
// reject printed-photo and blink captures.
func (g *QualityGate) Select(candidates []Candidate) (*Candidate, error) {
	if len(candidates) == 0 {
		return nil, domain.ErrNoFaceDetected
	}

	c := candidates[0]

	if c.Box.Dx() < g.MinBoxSize || c.Box.Dy() < g.MinBoxSize {
		return nil, domain.ErrFaceTooSmall
	}

	if c.LeftEyeOpen == nil || c.RightEyeOpen == nil {
		return nil, domain.ErrEyesNotOpen
	}
	if *c.LeftEyeOpen < g.MinEyeOpen || *c.RightEyeOpen < g.MinEyeOpen {
		return nil, domain.ErrEyesNotOpen
	}

	return &c, nil
}
