package render

import (
	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/pattern"
)

const (
	DefaultGain    = 0.5
	DefaultRawGain = 1.0
)

// Grid owns the frame buffer and the two gain scalars.
//
// correctedGain is the user-facing brightness and is applied before gamma;
// rawGain is the thermal cap and is applied after gamma, so throttling
// scales physical current linearly.
type Grid struct {
	m   layout.Matrix
	buf []Color

	correctedGain float64
	rawGain       float64
}

func NewGrid(m layout.Matrix) *Grid {
	return &Grid{
		m:             m,
		buf:           make([]Color, m.Count()),
		correctedGain: DefaultGain,
		rawGain:       DefaultRawGain,
	}
}

func (g *Grid) Matrix() layout.Matrix { return g.m }

// SetGain sets the corrected gain. Callers clamp to [0,1].
func (g *Grid) SetGain(v float64) { g.correctedGain = v }

// SetRawGain sets the post-gamma gain. Callers clamp to [0,1].
func (g *Grid) SetRawGain(v float64) { g.rawGain = v }

func (g *Grid) Gain() float64    { return g.correctedGain }
func (g *Grid) RawGain() float64 { return g.rawGain }

// Correct runs c through gain -> gamma -> raw gain.
func (g *Grid) Correct(c Color) Color {
	return gammaColor(c.Scale(g.correctedGain)).Scale(g.rawGain)
}

// WritePixel stores the corrected colour at x,y. Out-of-bounds writes are dropped.
func (g *Grid) WritePixel(x, y int, c Color) {
	if !g.m.Contains(x, y) {
		return
	}
	g.buf[g.m.Index(x, y)] = g.Correct(c)
}

// Render paints c on every cell selected by p.
func (g *Grid) Render(p pattern.LedPattern, c Color) {
	for i, cell := range g.m.Wiring {
		if p.Has(i) {
			g.WritePixel(cell.X, cell.Y, c)
		}
	}
}

// Fill writes c to every cell.
func (g *Grid) Fill(c Color) {
	for y := 0; y < g.m.Height; y++ {
		for x := 0; x < g.m.Width; x++ {
			g.WritePixel(x, y, c)
		}
	}
}

// Clear blacks out the frame buffer. Gains are untouched.
func (g *Grid) Clear() {
	for i := range g.buf {
		g.buf[i] = Black
	}
}

// Frame exposes the frame buffer in wiring order for the output sink.
// The slice is reused between frames.
func (g *Grid) Frame() []Color { return g.buf }
