package embedder

import (
	"context"
	"fmt"
	"image"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/insighted-labs/presence/internal/domain"
)

// ONNXConfig identifies the frozen model asset and its tensor names.
type ONNXConfig struct {
	ModelPath  string
	InputName  string
	OutputName string
}

// DefaultONNXConfig returns the tensor names of the stock FaceNet
// export.
func DefaultONNXConfig(modelPath string) ONNXConfig {
	return ONNXConfig{
		ModelPath:  modelPath,
		InputName:  "input",
		OutputName: "embeddings",
	}
}

// ONNXEmbedder runs the face embedding model through ONNX Runtime. The
// session and its tensors are allocated once at startup and reused; the
// model is treated as a pure function from 160x160x3 input to a
// 128-length vector.
type ONNXEmbedder struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

func NewONNXEmbedder(cfg ONNXConfig) (*ONNXEmbedder, error) {
	if !ort.IsInitialized() {
		return nil, fmt.Errorf("onnx runtime not initialized: call embedder.Initialize first")
	}

	inputShape := ort.NewShape(1, InputSize, InputSize, 3)
	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	outputShape := ort.NewShape(1, domain.EmbeddingDim)
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		[]ort.Value{inputTensor},
		[]ort.Value{outputTensor},
		nil,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("create embedder session: %w", err)
	}

	return &ONNXEmbedder{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

func (e *ONNXEmbedder) Embed(ctx context.Context, crop image.Image) (domain.Embedding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// the session owns one set of tensors; serialize access
	e.mu.Lock()
	defer e.mu.Unlock()

	copy(e.inputTensor.GetData(), Preprocess(crop))

	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("run embedding model: %w", err)
	}

	out := e.outputTensor.GetData()
	embedding := make(domain.Embedding, domain.EmbeddingDim)
	for i := range embedding {
		embedding[i] = float64(out[i])
	}

	return embedding, nil
}

func (e *ONNXEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	if e.inputTensor != nil {
		e.inputTensor.Destroy()
		e.inputTensor = nil
	}
	if e.outputTensor != nil {
		e.outputTensor.Destroy()
		e.outputTensor = nil
	}
	return nil
}

var _ Embedder = (*ONNXEmbedder)(nil)
