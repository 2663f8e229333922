// Package ir decodes infrared remote-control transmissions from timestamped
// receiver edges.
package ir

import "time"

// Decoder consumes edges from a demodulating IR receiver and reports a code
// once a complete, valid transmission has been seen.
type Decoder interface {
	Edge(at time.Duration, rising bool) (code uint32, ok bool)
}

// NEC pulse-distance timings.
const (
	LeaderMark  = 9000 * time.Microsecond
	LeaderSpace = 4500 * time.Microsecond
	RepeatSpace = 2250 * time.Microsecond
	BitMark     = 562 * time.Microsecond
	ZeroSpace   = 562 * time.Microsecond
	OneSpace    = 1687 * time.Microsecond

	frameBits = 32
)

type necState int

const (
	necIdle necState = iota
	necLeaderMark
	necLeaderSpace
	necBitMark
	necBitSpace
)

// NEC decodes the NEC protocol from an active-low receiver: a falling edge
// starts a mark, a rising edge ends it. The returned code is the 32-bit
// frame as transmitted (address, inverted address, command, inverted
// command; least significant bit first). Frames whose command byte fails
// the inverse check are discarded, as are repeat codes.
//
// A zero NEC is ready to use. It is not safe for concurrent use.
type NEC struct {
	state necState
	last  time.Duration
	bits  uint32
	n     int
}

var _ Decoder = (*NEC)(nil)

func (d *NEC) Edge(at time.Duration, rising bool) (uint32, bool) {
	width := at - d.last
	d.last = at

	switch d.state {
	case necIdle:
		if !rising {
			d.state = necLeaderMark
		}
	case necLeaderMark:
		if rising && near(width, LeaderMark) {
			d.state = necLeaderSpace
			return 0, false
		}
		d.restart(rising)
	case necLeaderSpace:
		switch {
		case !rising && near(width, LeaderSpace):
			d.state, d.bits, d.n = necBitMark, 0, 0
		case !rising && near(width, RepeatSpace):
			d.state = necIdle
		default:
			d.restart(rising)
		}
	case necBitMark:
		if !rising || !near(width, BitMark) {
			d.restart(rising)
			return 0, false
		}
		if d.n < frameBits {
			d.state = necBitSpace
			return 0, false
		}
		d.state = necIdle
		if valid(d.bits) {
			return d.bits, true
		}
	case necBitSpace:
		switch {
		case rising:
			d.restart(rising)
		case near(width, ZeroSpace):
			d.n++
			d.state = necBitMark
		case near(width, OneSpace):
			d.bits |= 1 << d.n
			d.n++
			d.state = necBitMark
		default:
			d.restart(rising)
		}
	}
	return 0, false
}

// Reset drops any partially received frame.
func (d *NEC) Reset() {
	*d = NEC{}
}

// restart abandons the current frame. A falling edge may be the start of a
// new leader, so it is kept.
func (d *NEC) restart(rising bool) {
	d.bits, d.n = 0, 0
	if rising {
		d.state = necIdle
	} else {
		d.state = necLeaderMark
	}
}

func near(got, want time.Duration) bool {
	tol := want / 4
	return got >= want-tol && got <= want+tol
}

func valid(frame uint32) bool {
	cmd := byte(frame >> 16)
	inv := byte(frame >> 24)
	return cmd^inv == 0xFF
}

// Command extracts the command byte from a frame returned by NEC.
func Command(frame uint32) byte { return byte(frame >> 16) }

// Address extracts the address from a frame returned by NEC. Extended
// remotes use both address bytes.
func Address(frame uint32) uint16 {
	lo, hi := byte(frame), byte(frame>>8)
	if lo^hi == 0xFF {
		return uint16(lo)
	}
	return uint16(lo) | uint16(hi)<<8
}

// Encode returns the edges an active-low receiver would produce for a
// standard NEC frame with the given address and command, starting at start.
// Used by tests and the simulated remote.
func Encode(start time.Duration, addr, cmd byte) []Edge {
	frame := uint32(addr) | uint32(^addr)<<8 | uint32(cmd)<<16 | uint32(^cmd)<<24
	t := start
	out := make([]Edge, 0, 2*(frameBits+2))
	mark := func(w time.Duration) {
		out = append(out, Edge{At: t, Rising: false})
		t += w
		out = append(out, Edge{At: t, Rising: true})
	}
	mark(LeaderMark)
	t += LeaderSpace
	for i := 0; i < frameBits; i++ {
		mark(BitMark)
		if frame&(1<<i) != 0 {
			t += OneSpace
		} else {
			t += ZeroSpace
		}
	}
	mark(BitMark)
	return out
}

// Edge is one receiver transition.
type Edge struct {
	At     time.Duration
	Rising bool
}
