package scenes

import (
	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/pattern"
	"github.com/coreman2200/ledmatrix/internal/render"
)

// CalibrationCycle is the seconds each calibration step is shown for.
const CalibrationCycle = 1.0

// Calibration returns wiring and colour-order checks for m: an index sweep
// lighting bit 0 first, and a full-matrix red, green, blue cycle.
func Calibration(m layout.Matrix) []Named {
	n := m.Count()
	all := uint16(1)<<n - 1

	sweep := make([]uint16, n)
	for i := range sweep {
		sweep[i] = 1 << i
	}
	sweepAnim := pattern.NewAnimation(sweep...)

	channel := func(step int) render.Command {
		frames := make([]uint16, 3)
		frames[step] = all
		c := render.Color{}
		switch step {
		case 0:
			c.R = 255
		case 1:
			c.G = 255
		default:
			c.B = 255
		}
		return render.Command{
			Effect:  render.Animation{Pattern: pattern.NewAnimation(frames...), Cycle: 3 * CalibrationCycle},
			Palette: render.Solid{Color: c},
		}
	}

	return []Named{
		{"index sweep", render.Scene{{
			Effect:  render.Animation{Pattern: sweepAnim, Cycle: float64(n) * CalibrationCycle},
			Palette: render.Solid{Color: render.White},
		}}},
		{"rgb channels", render.Scene{channel(0), channel(1), channel(2)}},
	}
}

// Of returns the scenes of a Named list in order.
func Of(named []Named) []render.Scene {
	out := make([]render.Scene, len(named))
	for i, n := range named {
		out[i] = n.Scene
	}
	return out
}
