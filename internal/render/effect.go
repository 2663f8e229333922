package render

import (
	"math"

	"github.com/coreman2200/ledmatrix/internal/pattern"
)

// Effect selects the active mask of a command at time t.
// The variant set is closed: Simple, Animation, ReverseAnimation.
type Effect interface {
	Mask(t float64) pattern.LedPattern
	effect()
}

// Simple is a constant mask.
type Simple struct {
	Pattern pattern.LedPattern
}

// Animation plays Pattern forward, looping every Cycle seconds.
type Animation struct {
	Pattern *pattern.AnimationPattern
	Cycle   float64
}

// ReverseAnimation plays Pattern back-to-front, looping every Cycle seconds.
type ReverseAnimation struct {
	Pattern *pattern.AnimationPattern
	Cycle   float64
}

func (Simple) effect()           {}
func (Animation) effect()        {}
func (ReverseAnimation) effect() {}

func (s Simple) Mask(float64) pattern.LedPattern { return s.Pattern }

func (a Animation) Mask(t float64) pattern.LedPattern {
	if a.Pattern == nil {
		return pattern.LedPattern{}
	}
	return a.Pattern.Frame(FrameIndex(t, a.Cycle, a.Pattern.Len()))
}

func (a ReverseAnimation) Mask(t float64) pattern.LedPattern {
	if a.Pattern == nil {
		return pattern.LedPattern{}
	}
	k := a.Pattern.Len()
	return a.Pattern.Frame(k - 1 - FrameIndex(t, a.Cycle, k))
}

// FrameIndex returns floor((t mod cycle) / (cycle/k)) clamped to [0, k-1].
// Degenerate cycles (zero, negative, NaN) are not rejected; whatever the
// arithmetic yields is clamped, and NaN maps to frame 0.
func FrameIndex(t, cycle float64, k int) int {
	if k <= 0 {
		return 0
	}
	f := math.Floor(math.Mod(t, cycle) / (cycle / float64(k)))
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > float64(k-1):
		return k - 1
	}
	return int(f)
}
