package render

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// BreathingFloor is the dimmest point of the Breathing oscillation.
const BreathingFloor = 0.1

// flickerSeed keeps Flicker deterministic across runs.
const flickerSeed = 69420

var flickerNoise = opensimplex.NewNormalized(flickerSeed)

// Shader returns a brightness factor for time t. Chains compose multiplicatively.
// The variant set is closed: Breathing, Blinking, Flicker.
type Shader interface {
	Factor(t float64) float64
	shader()
}

// Breathing oscillates sinusoidally between BreathingFloor and 1 at Rate Hz.
type Breathing struct {
	Rate float64
}

// Blinking is a 0/1 square wave at Rate Hz, lit during the first half cycle.
type Blinking struct {
	Rate float64
}

// Flicker dims by up to Depth following smooth noise sampled at Rate per second.
type Flicker struct {
	Rate  float64
	Depth float64
}

func (Breathing) shader() {}
func (Blinking) shader()  {}
func (Flicker) shader()   {}

func (b Breathing) Factor(t float64) float64 {
	wave := 0.5 + 0.5*math.Sin(2*math.Pi*b.Rate*t)
	return BreathingFloor + (1-BreathingFloor)*wave
}

func (b Blinking) Factor(t float64) float64 {
	if fract(t*b.Rate) < 0.5 {
		return 1
	}
	return 0
}

func (f Flicker) Factor(t float64) float64 {
	return 1 - f.Depth*flickerNoise.Eval2(t*f.Rate, 0)
}
