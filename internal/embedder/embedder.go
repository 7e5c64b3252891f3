// Package embedder maps cropped face images to fixed-length embedding
// vectors. The production implementation wraps a frozen ONNX model
// asset; a deterministic mock backs tests and development.
package embedder

import (
	"context"
	"image"

	"github.com/insighted-labs/presence/internal/domain"
)

// Embedder produces a raw (unnormalized) embedding for a face crop.
// Identical pixel input and an identical model asset yield identical
// output, modulo floating-point evaluation order across hardware.
type Embedder interface {
	Embed(ctx context.Context, crop image.Image) (domain.Embedding, error)
	Close() error
}
