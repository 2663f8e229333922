// Package sensor provides raw temperature samples for the thermal monitor.
//
// Samples are expressed on a 12-bit, 3.3V reference scale regardless of the
// converter that produced them.
package sensor

import (
	"context"
	"fmt"
	"math"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

const (
	RefVolts  = 3.3
	RefCounts = 4096
)

// Sampler reads one raw sample. An error means the sensor is unusable.
type Sampler interface {
	Sample(ctx context.Context) (int, error)
}

// ToRef converts a voltage to a reference-scale sample.
func ToRef(volts float64) int {
	return int(math.Round(volts / RefVolts * RefCounts))
}

// ADC samples a periph analog pin.
type ADC struct {
	Pin analog.PinADC
}

func (a ADC) Sample(context.Context) (int, error) {
	s, err := a.Pin.Read()
	if err != nil {
		return 0, fmt.Errorf("adc %s: %w", a.Pin, err)
	}
	return ToRef(float64(s.V) / float64(physic.Volt)), nil
}

// Fixed always returns Value. Used when no sensor is fitted.
type Fixed struct {
	Value int
}

func (f Fixed) Sample(context.Context) (int, error) { return f.Value, nil }

// Func adapts a function to Sampler.
type Func func(ctx context.Context) (int, error)

func (f Func) Sample(ctx context.Context) (int, error) { return f(ctx) }
