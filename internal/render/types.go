package render

import (
	"math"

	"github.com/coreman2200/ledmatrix/internal/pattern"
)

// Color is an 8-bit RGB triple.
type Color struct{ R, G, B uint8 }

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
)

// Scale multiplies every channel by f and truncates, like the strip firmware.
// Results are clamped to 0..255.
func (c Color) Scale(f float64) Color {
	return Color{R: scale8(c.R, f), G: scale8(c.G, f), B: scale8(c.B, f)}
}

func scale8(v uint8, f float64) uint8 {
	x := float64(v) * f
	if !(x > 0) { // catches NaN
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(x)
}

// MaxCommands bounds the number of commands in one scene.
const MaxCommands = 8

// Command is one layer of a scene: where to paint, with what colour,
// modulated by an ordered shader chain.
type Command struct {
	Effect  Effect
	Palette Palette
	Shaders []Shader
}

// Eval resolves the command at time t into an active mask and a colour.
func (c Command) Eval(t float64) (pattern.LedPattern, Color) {
	var mask pattern.LedPattern
	if c.Effect != nil {
		mask = c.Effect.Mask(t)
	}
	col := Black
	if c.Palette != nil {
		col = c.Palette.At(t)
	}
	for _, s := range c.Shaders {
		col = col.Scale(s.Factor(t))
	}
	return mask, col
}

// Scene is an ordered list of commands; later commands paint over earlier ones.
type Scene []Command

// fract returns x - floor(x), in [0,1) for finite x.
func fract(x float64) float64 {
	return x - math.Floor(x)
}
