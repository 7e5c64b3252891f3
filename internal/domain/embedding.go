package domain

import "math"

// EmbeddingDim is the output dimension of the face embedding model.
const EmbeddingDim = 128

// Embedding is a face embedding vector. Raw model output is unnormalized;
// every vector entering a distance comparison must be normalized first.
type Embedding []float64

// Normalize returns the embedding scaled to unit Euclidean length.
// A zero-norm vector indicates a malfunctioning model and is rejected
// instead of propagating NaN through the distance computation.
func (e Embedding) Normalize() (Embedding, error) {
	var sum float64
	for _, v := range e {
		sum += v * v
	}

	if sum == 0 {
		return nil, ErrZeroNormEmbedding
	}

	norm := math.Sqrt(sum)
	normalized := make(Embedding, len(e))
	for i, v := range e {
		normalized[i] = v / norm
	}

	return normalized, nil
}

// Norm returns the Euclidean length of the embedding.
func (e Embedding) Norm() float64 {
	var sum float64
	for _, v := range e {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// EuclideanDistance computes the L2 distance between two embeddings.
// For unit-normalized vectors the result lies in [0, 2].
func EuclideanDistance(a, b Embedding) float64 {
	if len(a) != len(b) {
		return math.MaxFloat64
	}

	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}

	return math.Sqrt(sum)
}
