package embedder

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	runtimeOnce sync.Once
	runtimeErr  error
)

// Initialize loads the ONNX Runtime shared library and sets up the
// process-wide environment. It must succeed before any ONNXEmbedder is
// constructed. The first call wins; later calls return its result.
// An empty libPath uses the runtime's default library name for the
// platform.
func Initialize(libPath string) error {
	runtimeOnce.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			runtimeErr = fmt.Errorf("initialize onnx runtime: %w", err)
		}
	})
	return runtimeErr
}

// Shutdown releases the runtime environment. Safe to call when
// Initialize never ran or failed.
func Shutdown() error {
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}
