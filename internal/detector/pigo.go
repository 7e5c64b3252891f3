package detector

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/insighted-labs/presence/internal/camera"
	"github.com/insighted-labs/presence/internal/domain"
)

// PigoConfig holds cascade assets and detection parameters for the
// pure-Go pigo face detector.
type PigoConfig struct {
	CascadePath string // facefinder binary cascade
	PuplocPath  string // pupil localization cascade, optional
	MinSize     int
	MaxSize     int
	ShiftFactor float64
	ScaleFactor float64
	IoUThresh   float64
	QThresh     float32
}

// DefaultPigoConfig returns detection parameters tuned for near-field
// selfie frames.
func DefaultPigoConfig(cascadePath, puplocPath string) PigoConfig {
	return PigoConfig{
		CascadePath: cascadePath,
		PuplocPath:  puplocPath,
		MinSize:     100,
		MaxSize:     2000,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		IoUThresh:   0.2,
		QThresh:     5.0,
	}
}

// PigoDetector implements Detector over the pigo cascade classifier.
// The classifier and pupil localizer are unpacked once and reused for
// every frame.
type PigoDetector struct {
	classifier *pigo.Pigo
	puploc     *pigo.PuplocCascade
	cfg        PigoConfig
}

func NewPigoDetector(cfg PigoConfig) (*PigoDetector, error) {
	cascade, err := os.ReadFile(cfg.CascadePath)
	if err != nil {
		return nil, fmt.Errorf("read face cascade: %w", err)
	}

	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("unpack face cascade: %w", err)
	}

	d := &PigoDetector{classifier: classifier, cfg: cfg}

	if cfg.PuplocPath != "" {
		plc, err := os.ReadFile(cfg.PuplocPath)
		if err != nil {
			return nil, fmt.Errorf("read puploc cascade: %w", err)
		}
		d.puploc, err = pigo.NewPuplocCascade().UnpackCascade(plc)
		if err != nil {
			return nil, fmt.Errorf("unpack puploc cascade: %w", err)
		}
	}

	return d, nil
}

func (d *PigoDetector) Detect(ctx context.Context, frame *camera.Frame) (candidates []Candidate, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// a malformed frame must surface as an error, not kill the loop
	defer func() {
		if r := recover(); r != nil {
			candidates = nil
			err = domain.ErrDetectorFailed.WithError(fmt.Errorf("pigo panic: %v", r))
		}
	}()

	src := pigo.ImgToNRGBA(frame.Image)
	pixels := pigo.RgbToGrayscale(src)
	cols, rows := src.Bounds().Dx(), src.Bounds().Dy()

	imgParams := pigo.ImageParams{
		Pixels: pixels,
		Rows:   rows,
		Cols:   cols,
		Dim:    cols,
	}

	cParams := pigo.CascadeParams{
		MinSize:     d.cfg.MinSize,
		MaxSize:     d.cfg.MaxSize,
		ShiftFactor: d.cfg.ShiftFactor,
		ScaleFactor: d.cfg.ScaleFactor,
		ImageParams: imgParams,
	}

	dets := d.classifier.RunCascade(cParams, rotationAngle(frame.Rotation))
	dets = d.classifier.ClusterDetections(dets, d.cfg.IoUThresh)

	candidates = make([]Candidate, 0, len(dets))
	for _, det := range dets {
		if det.Q < d.cfg.QThresh {
			continue
		}

		half := det.Scale / 2
		c := Candidate{
			Box: image.Rect(
				det.Col-half,
				det.Row-half,
				det.Col+half,
				det.Row+half,
			),
			Confidence: float64(det.Q),
		}

		if d.puploc != nil {
			c.LeftEyeOpen = d.eyeOpenness(imgParams, det, false)
			c.RightEyeOpen = d.eyeOpenness(imgParams, det, true)
		}

		candidates = append(candidates, c)
	}

	return candidates, nil
}

// eyeOpenness localizes one pupil and scores openness from the local
// intensity contrast around it. An open eye shows a dark pupil against
// the sclera (high contrast); a closed lid is near-uniform skin. Returns
// nil when the localizer does not fire, which callers treat as a
// missing signal.
func (d *PigoDetector) eyeOpenness(img pigo.ImageParams, det pigo.Detection, right bool) *float64 {
	colShift := -0.175
	if right {
		colShift = 0.175
	}

	pl := pigo.Puploc{
		Row:      det.Row - int(0.075*float32(det.Scale)),
		Col:      det.Col + int(colShift*float64(det.Scale)),
		Scale:    float32(det.Scale) * 0.25,
		Perturbs: 50,
	}

	loc := d.puploc.RunDetector(pl, img, 0.0, false)
	if loc == nil || loc.Row <= 0 || loc.Col <= 0 {
		return nil
	}

	score := contrastScore(img, loc.Row, loc.Col, int(loc.Scale))
	return eyeProb(score)
}

// contrastScore computes the normalized intensity standard deviation in
// a window around (row, col), clamped to [0,1].
func contrastScore(img pigo.ImageParams, row, col, radius int) float64 {
	if radius < 2 {
		radius = 2
	}

	var sum, sumSq float64
	count := 0
	for r := row - radius; r <= row+radius; r++ {
		if r < 0 || r >= img.Rows {
			continue
		}
		for c := col - radius; c <= col+radius; c++ {
			if c < 0 || c >= img.Cols {
				continue
			}
			v := float64(img.Pixels[r*img.Dim+c])
			sum += v
			sumSq += v * v
			count++
		}
	}

	if count == 0 {
		return 0
	}

	mean := sum / float64(count)
	variance := sumSq/float64(count) - mean*mean
	if variance < 0 {
		variance = 0
	}

	score := math.Sqrt(variance) / 64.0
	return math.Min(score, 1.0)
}

func rotationAngle(degrees int) float64 {
	return float64(((degrees%360)+360)%360) / 360.0
}

var _ Detector = (*PigoDetector)(nil)
