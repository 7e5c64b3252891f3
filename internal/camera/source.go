package camera

import (
	"context"
	"errors"
	"image"
	"sync"
)

// ErrSourceClosed is returned when reading from a closed source.
var ErrSourceClosed = errors.New("frame source closed")

// Source delivers camera frames to the analysis loop.
type Source interface {
	// Next blocks until a frame is available or the context is done.
	Next(ctx context.Context) (*Frame, error)
	Close() error
}

// Stream is a single-slot frame buffer between a capture goroutine and
// the analysis loop. At most one frame is in flight: publishing while an
// undelivered frame sits in the slot drops and releases the older frame.
type Stream struct {
	mu     sync.Mutex
	slot   *Frame
	ready  chan struct{}
	closed bool
}

func NewStream() *Stream {
	return &Stream{ready: make(chan struct{}, 1)}
}

// Publish offers a frame to the consumer, replacing any undelivered one.
// The replaced frame is released here so the producer never leaks buffers.
// Publishing to a closed stream releases the frame immediately.
func (s *Stream) Publish(f *Frame) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		f.Release()
		return
	}
	old := s.slot
	s.slot = f
	s.mu.Unlock()

	if old != nil {
		old.Release()
	}

	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Next returns the most recent published frame, blocking until one
// arrives. Ownership of the frame transfers to the caller.
func (s *Stream) Next(ctx context.Context) (*Frame, error) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return nil, ErrSourceClosed
		}
		if f := s.slot; f != nil {
			s.slot = nil
			s.mu.Unlock()
			return f, nil
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.ready:
		}
	}
}

// Close shuts the stream down and releases any undelivered frame.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	pending := s.slot
	s.slot = nil
	s.mu.Unlock()

	if pending != nil {
		pending.Release()
	}

	select {
	case s.ready <- struct{}{}:
	default:
	}
	return nil
}

var _ Source = (*Stream)(nil)

// StillSource replays a fixed image as a sequence of frames. Used in
// development and tests where no capture device is available.
type StillSource struct {
	img      image.Image
	format   PixelFormat
	rotation int

	mu       sync.Mutex
	closed   bool
	released int
}

func NewStillSource(img image.Image, format PixelFormat, rotation int) *StillSource {
	return &StillSource{img: img, format: format, rotation: rotation}
}

func (s *StillSource) Next(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSourceClosed
	}

	return NewFrame(s.img, s.format, s.rotation, func() {
		s.mu.Lock()
		s.released++
		s.mu.Unlock()
	}), nil
}

func (s *StillSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Released reports how many frames have been returned to the source.
func (s *StillSource) Released() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

var _ Source = (*StillSource)(nil)
