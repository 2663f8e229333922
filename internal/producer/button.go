package producer

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"

	"github.com/coreman2200/ledmatrix/internal/event"
)

const (
	LongPressAfter = 1000 * time.Millisecond
	DebounceMin    = 50 * time.Millisecond

	// Upper bound on a single edge wait so cancellation is noticed.
	buttonPoll = 100 * time.Millisecond
)

// Pin is the subset of gpio.PinIn the debouncer needs. The button is
// active low.
type Pin interface {
	Read() gpio.Level
	WaitForEdge(timeout time.Duration) bool
}

var _ Pin = gpio.PinIn(nil)

// Button debounces a push button into ShortPress and LongPress events.
//
// A press held for LongPressAfter reports LongPress at that moment and then
// waits for release without reporting anything else. A shorter press
// reports ShortPress on release if it lasted at least DebounceMin.
type Button struct {
	Pin Pin
	Out Sender
	Log zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (b *Button) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Button) Run(ctx context.Context) error {
	for {
		// Idle.
		if ok := b.waitLevel(ctx, gpio.Low, 0); !ok {
			return nil
		}
		start := b.now()

		// Pressed.
		released := b.waitLevel(ctx, gpio.High, LongPressAfter)
		if ctx.Err() != nil {
			return nil
		}
		if !released {
			b.Log.Debug().Msg("long press")
			if err := b.Out.Send(ctx, event.LongPress{}); err != nil {
				return nil
			}
			if ok := b.waitLevel(ctx, gpio.High, 0); !ok {
				return nil
			}
			continue
		}

		held := b.now().Sub(start)
		if held < DebounceMin || held >= LongPressAfter {
			b.Log.Trace().Dur("held", held).Msg("press ignored")
			continue
		}
		b.Log.Debug().Dur("held", held).Msg("short press")
		if err := b.Out.Send(ctx, event.ShortPress{}); err != nil {
			return nil
		}
	}
}

// waitLevel waits until the pin reads level. A zero timeout waits until ctx
// is done. It reports whether the level was reached.
func (b *Button) waitLevel(ctx context.Context, level gpio.Level, timeout time.Duration) bool {
	var deadline time.Time
	if timeout > 0 {
		deadline = b.now().Add(timeout)
	}
	for {
		if b.Pin.Read() == level {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		wait := buttonPoll
		if timeout > 0 {
			remaining := deadline.Sub(b.now())
			if remaining <= 0 {
				return false
			}
			if remaining < wait {
				wait = remaining
			}
		}
		b.Pin.WaitForEdge(wait)
	}
}
