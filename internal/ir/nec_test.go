package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(d Decoder, edges []Edge) []uint32 {
	var codes []uint32
	for _, e := range edges {
		if code, ok := d.Edge(e.At, e.Rising); ok {
			codes = append(codes, code)
		}
	}
	return codes
}

func TestNECDecodesFrame(t *testing.T) {
	var d NEC
	codes := feed(&d, Encode(time.Second, 0x04, 0x08))
	require.Len(t, codes, 1)
	assert.Equal(t, byte(0x08), Command(codes[0]))
	assert.Equal(t, uint16(0x04), Address(codes[0]))
	assert.Equal(t, uint32(0xF708FB04), codes[0])
}

func TestNECBackToBackFrames(t *testing.T) {
	var d NEC
	edges := Encode(0, 0x00, 0x45)
	edges = append(edges, Encode(edges[len(edges)-1].At+40*time.Millisecond, 0x00, 0x46)...)
	codes := feed(&d, edges)
	require.Len(t, codes, 2)
	assert.Equal(t, byte(0x45), Command(codes[0]))
	assert.Equal(t, byte(0x46), Command(codes[1]))
}

func TestNECToleratesJitter(t *testing.T) {
	var d NEC
	edges := Encode(0, 0x10, 0x20)
	for i := range edges {
		if i%2 == 1 {
			edges[i].At += 60 * time.Microsecond
		}
	}
	codes := feed(&d, edges)
	require.Len(t, codes, 1)
	assert.Equal(t, byte(0x20), Command(codes[0]))
}

func TestNECTruncatedFrameDropped(t *testing.T) {
	var d NEC
	edges := Encode(0, 0x01, 0x02)
	assert.Empty(t, feed(&d, edges[:40]))

	// A fresh frame after the partial one still decodes.
	codes := feed(&d, Encode(edges[39].At+50*time.Millisecond, 0x01, 0x03))
	require.Len(t, codes, 1)
	assert.Equal(t, byte(0x03), Command(codes[0]))
}

func TestNECBadInverseDropped(t *testing.T) {
	var d NEC
	edges := Encode(0, 0x01, 0x02)
	// Bit 24 is the first bit of the inverted command. Shorten its space so
	// it reads as zero instead of one.
	mark := 2 + 2*24
	shift := OneSpace - ZeroSpace
	for i := mark + 2; i < len(edges); i++ {
		edges[i].At -= shift
	}
	assert.Empty(t, feed(&d, edges))
}

func TestNECRepeatIgnored(t *testing.T) {
	var d NEC
	edges := []Edge{
		{At: 0, Rising: false},
		{At: LeaderMark, Rising: true},
		{At: LeaderMark + RepeatSpace, Rising: false},
		{At: LeaderMark + RepeatSpace + BitMark, Rising: true},
	}
	assert.Empty(t, feed(&d, edges))
}

func TestNECNoiseIgnored(t *testing.T) {
	var d NEC
	edges := []Edge{
		{At: 0, Rising: true},
		{At: 100 * time.Microsecond, Rising: false},
		{At: 300 * time.Microsecond, Rising: true},
		{At: 2 * time.Millisecond, Rising: false},
		{At: 3 * time.Millisecond, Rising: false},
	}
	assert.Empty(t, feed(&d, edges))
}

func TestAddressExtended(t *testing.T) {
	assert.Equal(t, uint16(0x1234), Address(0x00001234))
	assert.Equal(t, uint16(0x34), Address(0x0000CB34))
}
