package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/ledmatrix/internal/pattern"
)

var sweep = pattern.NewAnimation(
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

func TestAnimationIndexing(t *testing.T) {
	fwd := Animation{Pattern: sweep, Cycle: 6.0}
	rev := ReverseAnimation{Pattern: sweep, Cycle: 6.0}

	assert.Equal(t, sweep.Frame(0), fwd.Mask(0))
	assert.Equal(t, sweep.Frame(8), fwd.Mask(5.999))
	assert.Equal(t, sweep.Frame(8), rev.Mask(0))
	assert.Equal(t, sweep.Frame(0), rev.Mask(5.999))

	// wraps every cycle
	assert.Equal(t, sweep.Frame(1), fwd.Mask(6.7))
}

func TestFrameIndexClamps(t *testing.T) {
	assert.Equal(t, 0, FrameIndex(1, 0, 9))
	assert.Equal(t, 0, FrameIndex(math.NaN(), 6, 9))
	assert.Equal(t, 0, FrameIndex(-1, 6, 9))
	assert.Equal(t, 0, FrameIndex(1, 6, 0))
	assert.Equal(t, 4, FrameIndex(3.0, 6, 9))
}

func TestNilAnimationIsEmpty(t *testing.T) {
	assert.Equal(t, pattern.LedPattern{}, Animation{Cycle: 1}.Mask(0))
	assert.Equal(t, pattern.LedPattern{}, ReverseAnimation{Cycle: 1}.Mask(0))
}

func TestRainbowHue(t *testing.T) {
	assert.Equal(t, Color{R: 255}, Rainbow{Speed: 0.25}.At(0))
	assert.Equal(t, Color{G: 255, B: 255}, Rainbow{Speed: 0.25, Phase: 0.5}.At(0))
	// a quarter turn per second: after 2s the hue has advanced half a turn
	assert.Equal(t, Color{G: 255, B: 255}, Rainbow{Speed: 0.25}.At(2))
	// wraps
	assert.Equal(t, Color{R: 255}, Rainbow{Speed: 0.25}.At(4))
}

func TestBreathingRange(t *testing.T) {
	b := Breathing{Rate: 1}
	assert.InDelta(t, 1.0, b.Factor(0.25), 1e-9)
	assert.InDelta(t, BreathingFloor, b.Factor(0.75), 1e-9)
	for ts := 0.0; ts < 2; ts += 0.01 {
		f := b.Factor(ts)
		assert.True(t, f >= BreathingFloor-1e-9 && f <= 1+1e-9, "t=%v f=%v", ts, f)
	}
}

func TestBlinkingSquareWave(t *testing.T) {
	b := Blinking{Rate: 10}
	assert.Equal(t, 1.0, b.Factor(0.01))
	assert.Equal(t, 0.0, b.Factor(0.06))
	assert.Equal(t, 1.0, b.Factor(0.11))
}

func TestFlickerStaysInRange(t *testing.T) {
	f := Flicker{Rate: 3, Depth: 0.6}
	for ts := 0.0; ts < 5; ts += 0.05 {
		v := f.Factor(ts)
		assert.True(t, v >= 0.35 && v <= 1.05, "t=%v v=%v", ts, v)
	}
}

func TestShaderChainMultiplies(t *testing.T) {
	cmd := Command{
		Effect:  Simple{Pattern: pattern.New(1)},
		Palette: Solid{Color: Color{B: 200}},
		Shaders: []Shader{Breathing{Rate: 1}, Blinking{Rate: 1}},
	}
	_, on := cmd.Eval(0.25)
	assert.Equal(t, Color{B: 200}, on)

	_, off := cmd.Eval(0.75)
	assert.Equal(t, Black, off)
}

func TestColorScaleClamps(t *testing.T) {
	c := Color{R: 200, G: 10}
	assert.Equal(t, Color{R: 255, G: 20}, c.Scale(2))
	assert.Equal(t, Black, c.Scale(-1))
	assert.Equal(t, Black, c.Scale(math.NaN()))
	assert.Equal(t, Color{R: 100, G: 5}, c.Scale(0.5))
}

func TestSceneValidate(t *testing.T) {
	good := Scene{
		{Effect: Animation{Pattern: sweep, Cycle: 6}, Palette: Rainbow{Speed: 0.25}},
		{Effect: Simple{Pattern: pattern.New(3)}, Palette: Solid{Color: White}, Shaders: []Shader{Breathing{Rate: 0.7}}},
	}
	assert.NoError(t, good.Validate())

	assert.ErrorIs(t, Scene{{Effect: Animation{Pattern: sweep, Cycle: 0}}}.Validate(), ErrBadCycle)
	assert.ErrorIs(t, Scene{{Effect: ReverseAnimation{Cycle: 1}}}.Validate(), ErrEmptyAnimation)
	assert.ErrorIs(t, Scene{{Shaders: []Shader{Blinking{Rate: -1}}}}.Validate(), ErrBadRate)

	long := make(Scene, MaxCommands+1)
	assert.ErrorIs(t, long.Validate(), ErrSceneTooLong)
	assert.ErrorIs(t, ValidateScenes([]Scene{good, long}), ErrSceneTooLong)
}
