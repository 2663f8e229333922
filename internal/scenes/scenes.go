// Package scenes holds the compiled-in pattern library and scene list.
package scenes

import (
	"github.com/coreman2200/ledmatrix/internal/pattern"
	"github.com/coreman2200/ledmatrix/internal/render"
)

// Power-level indicators.
var (
	Power100 = pattern.New(0b111111111)
	Power75  = pattern.New(0b000111111)
	Power50  = pattern.New(0b000000111)
	Power25  = pattern.New(0b000000001)
)

var (
	Glider = pattern.New(0b010001111)
	AllOn  = pattern.New(0b111111111)

	// EverythingOnce lights each cell in turn, highest bit first.
	EverythingOnce = pattern.NewAnimation(
		0b100000000,
		0b010000000,
		0b001000000,
		0b000100000,
		0b000010000,
		0b000001000,
		0b000000100,
		0b000000010,
		0b000000001,
	)
)

// Levels are the user brightness steps, cycled by a long press.
var Levels = []float64{1, 0.75, 0.5, 0.25}

// Indicators[i] is shown when switching to Levels[i].
var Indicators = []pattern.LedPattern{Power100, Power75, Power50, Power25}

var (
	blue  = render.Solid{Color: render.Color{B: 255}}
	ember = render.Solid{Color: render.Color{R: 255, G: 96, B: 12}}
)

type Named struct {
	Name  string
	Scene render.Scene
}

// Library is the scene rotation, in short-press order.
var Library = []Named{
	{"strobing glider", render.Scene{
		{Effect: render.Simple{Pattern: Glider}, Palette: blue,
			Shaders: []render.Shader{render.Breathing{Rate: 0.7}, render.Blinking{Rate: 10}}},
	}},
	{"glider with particles", render.Scene{
		{Effect: render.Simple{Pattern: Glider}, Palette: blue,
			Shaders: []render.Shader{render.Breathing{Rate: 0.7}}},
		{Effect: render.Animation{Pattern: EverythingOnce, Cycle: 6}, Palette: render.Rainbow{Speed: 0.25}},
		{Effect: render.ReverseAnimation{Pattern: EverythingOnce, Cycle: 6}, Palette: render.Rainbow{Speed: 0.25, Phase: 0.5}},
	}},
	{"double rainbow glider", render.Scene{
		{Effect: render.Simple{Pattern: AllOn}, Palette: render.Rainbow{Speed: 0.25}},
		{Effect: render.Simple{Pattern: Glider}, Palette: render.Rainbow{Speed: 0.25, Phase: 0.5}},
	}},
	{"candle", render.Scene{
		{Effect: render.Simple{Pattern: AllOn}, Palette: ember,
			Shaders: []render.Shader{render.Flicker{Rate: 2.5, Depth: 0.6}}},
	}},
}

// Scenes returns the scenes of Library in order.
func Scenes() []render.Scene { return Of(Library) }

// Indicator returns the one-command scene shown for brightness level i.
func Indicator(level int) render.Scene {
	return render.Scene{{
		Effect:  render.Simple{Pattern: Indicators[level%len(Indicators)]},
		Palette: render.Solid{Color: render.White},
	}}
}
