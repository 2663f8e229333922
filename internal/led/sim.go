package led

import (
	"github.com/rs/zerolog"

	"github.com/coreman2200/ledmatrix/internal/render"
)

// Sim discards frames, logging a compact summary every Every frames.
// Useful headless.
type Sim struct {
	Log   zerolog.Logger
	Every int

	Count int
	Last  []render.Color
}

func (d *Sim) Write(frame []render.Color) error {
	d.Count++
	d.Last = append(d.Last[:0], frame...)
	every := d.Every
	if every <= 0 {
		every = 1
	}
	if d.Count%every != 0 || len(frame) == 0 {
		return nil
	}
	var r, g, b int
	lit := 0
	for _, c := range frame {
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
		if c != render.Black {
			lit++
		}
	}
	n := len(frame)
	d.Log.Debug().
		Int("frame", d.Count).
		Int("lit", lit).
		Ints("avg", []int{r / n, g / n, b / n}).
		Ints("first", []int{int(frame[0].R), int(frame[0].G), int(frame[0].B)}).
		Msg("sim frame")
	return nil
}

func (d *Sim) Close() error { return nil }
