package key

import (
	"strconv"

	"github.com/holoplot/go-evdev"
	"github.com/pkg/errors"
)

// EvdevOffset is the distance between evdev codes and xkb keycodes.
const EvdevOffset = 8

// Keycode identifies a physical key in xkb numbering.
type Keycode uint32

// FromEvdev converts an evdev key code to a Keycode.
func FromEvdev(code evdev.EvCode) Keycode {
	return Keycode(code) + EvdevOffset
}

// Evdev returns the evdev key code for k.
func (k Keycode) Evdev() evdev.EvCode {
	if k < EvdevOffset {
		return 0
	}
	return evdev.EvCode(k - EvdevOffset)
}

// String returns the decimal keycode.
func (k Keycode) String() string {
	return strconv.FormatUint(uint64(k), 10)
}

// ParseKeycode parses a decimal xkb keycode as written in bindcode bindings.
func ParseKeycode(s string) (Keycode, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid keycode %q", s)
	}
	if n < EvdevOffset {
		return 0, errors.Errorf("keycode %d below xkb minimum %d", n, EvdevOffset)
	}
	return Keycode(n), nil
}
