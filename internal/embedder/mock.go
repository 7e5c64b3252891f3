package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"image"
	"math"

	"github.com/insighted-labs/presence/internal/domain"
)

// MockEmbedder derives a deterministic embedding from the preprocessed
// pixel tensor. Identical pixel input always yields the same vector, so
// self-distance is zero and tests can exercise the verification flow
// without a model asset.
type MockEmbedder struct{}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

func (m *MockEmbedder) Embed(ctx context.Context, crop image.Image) (domain.Embedding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tensor := Preprocess(crop)
	buf := make([]byte, len(tensor)*4)
	for i, v := range tensor {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	hash := sha256.Sum256(buf)

	embedding := make(domain.Embedding, domain.EmbeddingDim)
	for i := range embedding {
		embedding[i] = (float64(hash[i%len(hash)])/255.0)*2 - 1
	}

	// guard the degenerate hash that would zero every component
	allZero := true
	for _, v := range embedding {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		embedding[0] = 1
	}

	return embedding, nil
}

func (m *MockEmbedder) Close() error { return nil }

var _ Embedder = (*MockEmbedder)(nil)
