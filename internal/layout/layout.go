package layout

import (
	"errors"
	"fmt"
)

var (
	ErrWiringLength = errors.New("layout: wiring length does not match cell count")
	ErrOutOfBounds  = errors.New("layout: wired cell outside matrix")
	ErrAlias        = errors.New("layout: two bits wired to the same cell")
)

// Cell addresses one LED by column (X) and row (Y).
type Cell struct{ X, Y int }

// Matrix describes the LED grid and how pattern bits are wired to it.
// Wiring[i] is the cell lit by bit i of a pattern.
type Matrix struct {
	Width  int
	Height int
	Wiring []Cell
}

// Default is the 3x3 board. Bits run column by column, bottom row first.
var Default = Matrix{
	Width:  3,
	Height: 3,
	Wiring: []Cell{
		{0, 2}, // bit 0, first led
		{0, 1},
		{0, 0},
		{1, 2},
		{1, 1},
		{1, 0},
		{2, 2},
		{2, 1},
		{2, 0}, // bit 8, last led
	},
}

// Index maps x,y -> framebuffer index (0..N-1), row-major.
func (m Matrix) Index(x, y int) int {
	return y*m.Width + x
}

func (m Matrix) Count() int {
	return m.Width * m.Height
}

// Contains reports whether x,y lies inside the matrix.
func (m Matrix) Contains(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// Validate checks that every cell is addressed by exactly one bit.
func (m Matrix) Validate() error {
	if len(m.Wiring) != m.Count() {
		return fmt.Errorf("%w: %d bits for %d cells", ErrWiringLength, len(m.Wiring), m.Count())
	}
	seen := make(map[Cell]int, len(m.Wiring))
	for i, c := range m.Wiring {
		if !m.Contains(c.X, c.Y) {
			return fmt.Errorf("%w: bit %d -> (%d,%d)", ErrOutOfBounds, i, c.X, c.Y)
		}
		if j, ok := seen[c]; ok {
			return fmt.Errorf("%w: bits %d and %d -> (%d,%d)", ErrAlias, j, i, c.X, c.Y)
		}
		seen[c] = i
	}
	return nil
}
