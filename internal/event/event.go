// Package event carries control events from the input producers to the
// render loop.
package event

import "fmt"

// Event is a control event. The variant set is closed:
// ThermalThrottle, RemoteCommand, ShortPress, LongPress.
type Event interface {
	fmt.Stringer
	event()
}

// ThermalThrottle caps output power. 1 = no throttle, 0 = fully throttled.
type ThermalThrottle struct {
	Factor float64
}

// RemoteCommand is a decoded remote-control code.
type RemoteCommand struct {
	Code uint32
}

// ShortPress is a button press held for 50ms..1s.
type ShortPress struct{}

// LongPress is a button held for at least 1s, reported once at the 1s mark.
type LongPress struct{}

func (ThermalThrottle) event() {}
func (RemoteCommand) event()   {}
func (ShortPress) event()      {}
func (LongPress) event()       {}

func (e ThermalThrottle) String() string { return fmt.Sprintf("thermal_throttle(%.3f)", e.Factor) }
func (e RemoteCommand) String() string   { return fmt.Sprintf("remote_command(0x%08x)", e.Code) }
func (ShortPress) String() string        { return "short_press" }
func (LongPress) String() string         { return "long_press" }
