// Package camera supplies frames to the analysis pipeline. Device capture
// lives behind the Source interface; the package owns frame lifecycle
// (release-exactly-once) and the newest-frame-wins delivery policy.
package camera

import (
	"image"
	"sync"
	"time"
)

// PixelFormat tags the pixel layout of a frame buffer.
type PixelFormat string

const (
	FormatRGBA PixelFormat = "RGBA"
	FormatGray PixelFormat = "GRAY"
	FormatNV21 PixelFormat = "NV21"
)

// Frame is a single camera frame. The frame is owned by its source for
// the duration of one analysis cycle and must be released exactly once,
// on every exit path. Release is idempotent so structural guarantees
// (defer) can coexist with explicit early releases.
type Frame struct {
	Image     image.Image
	Format    PixelFormat
	Rotation  int // clockwise degrees applied by the sensor
	Timestamp time.Time

	release func()
	once    sync.Once
}

// NewFrame wraps an image into a Frame. The release hook returns the
// underlying buffer to its source and may be nil.
func NewFrame(img image.Image, format PixelFormat, rotation int, release func()) *Frame {
	return &Frame{
		Image:     img,
		Format:    format,
		Rotation:  rotation,
		Timestamp: time.Now(),
		release:   release,
	}
}

// Bounds returns the pixel extent of the frame.
func (f *Frame) Bounds() image.Rectangle {
	return f.Image.Bounds()
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.Image.Bounds().Dx() }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.Image.Bounds().Dy() }

// Release returns the frame buffer to its source. Safe to call more
// than once; only the first call runs the release hook.
func (f *Frame) Release() {
	f.once.Do(func() {
		if f.release != nil {
			f.release()
		}
	})
}
