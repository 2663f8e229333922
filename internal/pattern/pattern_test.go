package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedPatternBits(t *testing.T) {
	p := New(0b010001111)
	for _, i := range []int{0, 1, 2, 3, 7} {
		assert.True(t, p.Has(i), "bit %d", i)
	}
	for _, i := range []int{4, 5, 6, 8, -1, 16} {
		assert.False(t, p.Has(i), "bit %d", i)
	}
}

func TestAnimationFrames(t *testing.T) {
	a := NewAnimation(0b001, 0b010, 0b100)
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, uint16(0b010), a.Frame(1).Bits())
	assert.Equal(t, uint16(0), a.Frame(3).Bits())
	assert.Equal(t, uint16(0), a.Frame(-1).Bits())
}
