package key

import "fmt"

// State is the physical state carried by a key event.
type State uint8

const (
	// Released indicates the key went up.
	Released State = iota
	// Pressed indicates the key went down.
	Pressed
)

// String returns "pressed" or "released".
func (s State) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// Event is a raw key event as delivered by an input device.
type Event struct {
	// TimeMsec is the device timestamp in milliseconds.
	TimeMsec uint32

	// Code is the evdev key code (not offset into xkb numbering).
	Code uint32

	// State is the key state after the event.
	State State
}

// Keycode returns the xkb keycode for the event.
func (e Event) Keycode() Keycode {
	return Keycode(e.Code) + EvdevOffset
}

// Pressed returns true for press events.
func (e Event) Pressed() bool {
	return e.State == Pressed
}

// String returns a short description for logging.
func (e Event) String() string {
	return fmt.Sprintf("key %d %s", e.Code, e.State)
}
