package keymap

import (
	"fmt"
	"strings"

	"github.com/dshills/seatkeys/internal/input/key"
)

// InputAny is the input selector that matches every device.
const InputAny = "*"

// GroupAny marks a binding that is not scoped to a layout group.
const GroupAny = -1

// Flags modify when a binding triggers.
type Flags uint8

const (
	// FlagRelease triggers the binding when its keys are released.
	FlagRelease Flags = 1 << iota

	// FlagLocked keeps the binding active while input is inhibited.
	FlagLocked

	// FlagCode marks a keycode binding.
	FlagCode
)

// Binding maps a key combination to a compositor command.
// Bindings are immutable once their mode has been built.
type Binding struct {
	// Order is the declaration index within the configuration.
	Order int

	// Keys are the keysyms or keycodes, sorted ascending.
	Keys []uint32

	// Modifiers must equal the active modifier mask exactly.
	Modifiers key.Modifier

	// Input is a device identifier or InputAny.
	Input string

	// Group is the layout group index the binding is limited to, or GroupAny.
	Group int

	// Flags holds the release, locked and code flags.
	Flags Flags

	// Command is handed to the command executor when the binding fires.
	Command string
}

// Release returns true for release-triggered bindings.
func (b *Binding) Release() bool {
	return b.Flags&FlagRelease != 0
}

// Locked returns true if the binding stays active while input is inhibited.
func (b *Binding) Locked() bool {
	return b.Flags&FlagLocked != 0
}

// IsCode returns true for keycode bindings.
func (b *Binding) IsCode() bool {
	return b.Flags&FlagCode != 0
}

// HasGroup returns true if the binding is scoped to one layout group.
func (b *Binding) HasGroup() bool {
	return b.Group != GroupAny
}

// KeySpec renders the binding's keys the way they are written in configuration.
func (b *Binding) KeySpec() string {
	var parts []string
	if b.HasGroup() {
		parts = append(parts, fmt.Sprintf("Group%d", b.Group+1))
	}
	parts = append(parts, b.Modifiers.Names()...)
	for _, k := range b.Keys {
		if b.IsCode() {
			parts = append(parts, key.Keycode(k).String())
		} else {
			parts = append(parts, key.Keysym(k).String())
		}
	}
	return strings.Join(parts, "+")
}

// String returns a description like "bindsym --release Mod4+q kill".
func (b *Binding) String() string {
	var sb strings.Builder
	if b.IsCode() {
		sb.WriteString("bindcode")
	} else {
		sb.WriteString("bindsym")
	}
	if b.Release() {
		sb.WriteString(" --release")
	}
	if b.Locked() {
		sb.WriteString(" --locked")
	}
	if b.Input != "" && b.Input != InputAny {
		sb.WriteString(" --input-device=")
		sb.WriteString(b.Input)
	}
	sb.WriteByte(' ')
	sb.WriteString(b.KeySpec())
	if b.Command != "" {
		sb.WriteByte(' ')
		sb.WriteString(b.Command)
	}
	return sb.String()
}
