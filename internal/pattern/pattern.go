// Package pattern holds immutable LED bitmasks and animation sequences.
// Bit i of a pattern selects the cell wired to bit i (see layout.Matrix).
package pattern

// MaxBits is the widest pattern supported.
const MaxBits = 16

// LedPattern is a bitmask over the matrix cells.
type LedPattern struct {
	bits uint16
}

func New(bits uint16) LedPattern { return LedPattern{bits: bits} }

func (p LedPattern) Bits() uint16 { return p.bits }

// Has reports whether bit i is set.
func (p LedPattern) Has(i int) bool {
	if i < 0 || i >= MaxBits {
		return false
	}
	return p.bits&(1<<uint(i)) != 0
}

// AnimationPattern is an ordered, fixed-length sequence of frames.
// The cycle duration is supplied when the animation is evaluated.
type AnimationPattern struct {
	frames []LedPattern
}

func NewAnimation(frames ...uint16) *AnimationPattern {
	a := &AnimationPattern{frames: make([]LedPattern, len(frames))}
	for i, f := range frames {
		a.frames[i] = New(f)
	}
	return a
}

func (a *AnimationPattern) Len() int {
	if a == nil {
		return 0
	}
	return len(a.frames)
}

// Frame returns frame i. Out-of-range indices yield an empty pattern.
func (a *AnimationPattern) Frame(i int) LedPattern {
	if i < 0 || i >= a.Len() {
		return LedPattern{}
	}
	return a.frames[i]
}
