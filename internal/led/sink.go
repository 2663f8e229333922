// Package led hands rendered frames to output devices.
package led

import (
	"errors"

	"github.com/coreman2200/ledmatrix/internal/render"
)

// Sink consumes frames. The frame slice is only valid for the duration of
// Write; implementations that keep it must copy.
type Sink interface {
	Write(frame []render.Color) error
	Close() error
}

// ErrFrameSize is returned when a frame does not match the sink's pixel count.
var ErrFrameSize = errors.New("led: frame size mismatch")

// Multi writes every frame to each sink in order.
type Multi []Sink

func (m Multi) Write(frame []render.Color) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
