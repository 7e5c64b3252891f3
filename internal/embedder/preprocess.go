package embedder

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// InputSize is the model's fixed input edge length in pixels.
const InputSize = 160

// Preprocess stretches the crop to the model's 160x160 canvas (aspect
// ratio is intentionally not preserved) and emits R,G,B channel values
// in row-major order, each mapped from [0,255] to roughly [-1,1] via
// (v-128)/128.
func Preprocess(crop image.Image) []float32 {
	dst := image.NewRGBA(image.Rect(0, 0, InputSize, InputSize))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), crop, crop.Bounds(), xdraw.Src, nil)

	out := make([]float32, InputSize*InputSize*3)
	i := 0
	for y := 0; y < InputSize; y++ {
		for x := 0; x < InputSize; x++ {
			off := dst.PixOffset(x, y)
			out[i] = (float32(dst.Pix[off]) - 128) / 128
			out[i+1] = (float32(dst.Pix[off+1]) - 128) / 128
			out[i+2] = (float32(dst.Pix[off+2]) - 128) / 128
			i += 3
		}
	}

	return out
}
