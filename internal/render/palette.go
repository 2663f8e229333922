package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette yields the base colour of a command at time t.
// The variant set is closed: Solid, Rainbow.
type Palette interface {
	At(t float64) Color
	palette()
}

// Solid is a constant colour.
type Solid struct {
	Color Color
}

// Rainbow cycles the hue at Speed turns per second, offset by Phase turns,
// at full saturation and value.
type Rainbow struct {
	Speed float64
	Phase float64
}

func (Solid) palette()   {}
func (Rainbow) palette() {}

func (s Solid) At(float64) Color { return s.Color }

func (r Rainbow) At(t float64) Color {
	h := fract(t*r.Speed+r.Phase) * 360
	c := colorful.Hsv(h, 1, 1)
	if !c.IsValid() {
		c = c.Clamped()
	}
	red, green, blue := c.RGB255()
	return Color{R: red, G: green, B: blue}
}
