package detector

import (
	"image"
	"image/draw"

	"github.com/insighted-labs/presence/internal/camera"
	"github.com/insighted-labs/presence/internal/domain"
)

// Crop extracts the candidate's bounding box from the frame, clamped to
// the frame extent. A box that clamps to zero width or height yields
// ErrEmptyCrop and the candidate is discarded.
func Crop(frame *camera.Frame, box image.Rectangle) (image.Image, error) {
	clamped := box.Intersect(frame.Bounds())
	if clamped.Dx() <= 0 || clamped.Dy() <= 0 {
		return nil, domain.ErrEmptyCrop
	}

	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}

	if src, ok := frame.Image.(subImager); ok {
		return src.SubImage(clamped), nil
	}

	// fallback for image types without SubImage
	dst := image.NewRGBA(image.Rect(0, 0, clamped.Dx(), clamped.Dy()))
	draw.Draw(dst, dst.Bounds(), frame.Image, clamped.Min, draw.Src)
	return dst, nil
}
