// Package producer turns sensor and input state into control events.
//
// Each producer is a long-running task. Run returns nil when its context is
// cancelled and an error only when the producer cannot continue.
package producer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/ledmatrix/internal/event"
	"github.com/coreman2200/ledmatrix/internal/sensor"
)

// Sender is the producer side of the mailbox.
type Sender interface {
	Send(ctx context.Context, ev event.Event) error
}

// ErrSensor marks a failed temperature read. The device cannot run safely
// without thermal visibility, so callers treat it as fatal.
var ErrSensor = errors.New("temperature sensor failure")

const (
	ThermalPeriod = time.Second

	// Temperature above which throttling is considered.
	ThrottleOnsetC = 40.0
	// Linear ramp from full power at RampStartC to zero at RampEndC.
	RampStartC = 55.0
	RampEndC   = 65.0

	sensorRefC     = 27.0
	sensorRefVolts = 0.706
	sensorSlope    = 0.001721
)

// Celsius converts a reference-scale sample to degrees.
func Celsius(sample int) float64 {
	volts := float64(sample) * (sensor.RefVolts / sensor.RefCounts)
	return sensorRefC - (volts-sensorRefVolts)/sensorSlope
}

// ThrottleGain returns the raw-gain cap for tempC. ok is false when the
// temperature is below the onset and no throttling applies.
func ThrottleGain(tempC float64) (gain float64, ok bool) {
	if tempC <= ThrottleOnsetC {
		return 1, false
	}
	gain = 1 - (tempC-RampStartC)/(RampEndC-RampStartC)
	switch {
	case gain < 0:
		gain = 0
	case gain > 1:
		gain = 1
	}
	return gain, true
}

// Thermal samples the temperature sensor once per Period and publishes
// ThermalThrottle events. Nothing is published at or below the onset, and a
// gain equal to the last one published is not sent again; the implied
// starting gain is 1.
type Thermal struct {
	Sampler sensor.Sampler
	Out     Sender
	Period  time.Duration
	Log     zerolog.Logger

	last float64
	init bool
}

// Check takes one sample and publishes a throttle event if the gain changed.
func (m *Thermal) Check(ctx context.Context) error {
	if !m.init {
		m.last, m.init = 1, true
	}
	raw, err := m.Sampler.Sample(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSensor, err)
	}
	tempC := Celsius(raw)
	gain, ok := ThrottleGain(tempC)
	if !ok || gain == m.last {
		return nil
	}
	m.Log.Debug().Float64("tempC", tempC).Float64("gain", gain).Msg("thermal throttle")
	if err := m.Out.Send(ctx, event.ThermalThrottle{Factor: gain}); err != nil {
		return err
	}
	m.last = gain
	return nil
}

func (m *Thermal) Run(ctx context.Context) error {
	period := m.Period
	if period <= 0 {
		period = ThermalPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		if err := m.Check(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
