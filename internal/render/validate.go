package render

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrSceneTooLong   = errors.New("render: scene exceeds command capacity")
	ErrBadCycle       = errors.New("render: animation cycle must be positive")
	ErrEmptyAnimation = errors.New("render: animation has no frames")
	ErrBadRate        = errors.New("render: shader rate must be positive")
)

// Validate reports parameters that would make evaluation degenerate.
// Evaluate itself never checks them.
func (s Scene) Validate() error {
	if len(s) > MaxCommands {
		return fmt.Errorf("%w: %d > %d", ErrSceneTooLong, len(s), MaxCommands)
	}
	for i, cmd := range s {
		if err := validateEffect(cmd.Effect); err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
		for j, sh := range cmd.Shaders {
			if err := validateShader(sh); err != nil {
				return fmt.Errorf("command %d shader %d: %w", i, j, err)
			}
		}
	}
	return nil
}

// ValidateScenes validates each scene, naming the first bad one.
func ValidateScenes(scenes []Scene) error {
	for i, s := range scenes {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("scene %d: %w", i, err)
		}
	}
	return nil
}

func validateEffect(e Effect) error {
	switch v := e.(type) {
	case Animation:
		return validateAnimation(v.Pattern.Len(), v.Cycle)
	case ReverseAnimation:
		return validateAnimation(v.Pattern.Len(), v.Cycle)
	}
	return nil
}

func validateAnimation(frames int, cycle float64) error {
	if frames == 0 {
		return ErrEmptyAnimation
	}
	if !(cycle > 0) || math.IsInf(cycle, 1) {
		return fmt.Errorf("%w: %v", ErrBadCycle, cycle)
	}
	return nil
}

func validateShader(s Shader) error {
	var rate float64
	switch v := s.(type) {
	case Breathing:
		rate = v.Rate
	case Blinking:
		rate = v.Rate
	case Flicker:
		rate = v.Rate
	default:
		return nil
	}
	if !(rate > 0) || math.IsInf(rate, 1) {
		return fmt.Errorf("%w: %v", ErrBadRate, rate)
	}
	return nil
}
