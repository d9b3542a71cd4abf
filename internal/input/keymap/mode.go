package keymap

import "github.com/pkg/errors"

// DefaultMode is the name of the mode active after startup.
const DefaultMode = "default"

// Mode is a named set of bindings. Only one mode is active at a time.
type Mode struct {
	// Name is the mode identifier.
	Name string

	// KeycodeBindings are matched against the keycode state.
	KeycodeBindings []*Binding

	// KeysymBindings are matched against the raw and translated keysym states.
	KeysymBindings []*Binding

	next int
}

// NewMode creates an empty mode.
func NewMode(name string) *Mode {
	return &Mode{Name: name}
}

// Add appends a binding and assigns its declaration order.
// A binding that repeats an earlier key combination with the same scope
// replaces it in place, keeping the original order.
func (m *Mode) Add(b *Binding) error {
	if b == nil || len(b.Keys) == 0 {
		return errors.Wrap(ErrInvalidKey, "binding has no keys")
	}
	if b.Input == "" {
		b.Input = InputAny
	}

	list := &m.KeysymBindings
	if b.IsCode() {
		list = &m.KeycodeBindings
	}
	for i, existing := range *list {
		if sameTrigger(existing, b) {
			b.Order = existing.Order
			(*list)[i] = b
			return nil
		}
	}

	b.Order = m.next
	m.next++
	*list = append(*list, b)
	return nil
}

// Len returns the total number of bindings in the mode.
func (m *Mode) Len() int {
	return len(m.KeycodeBindings) + len(m.KeysymBindings)
}

func sameTrigger(a, b *Binding) bool {
	if a.Modifiers != b.Modifiers || a.Flags != b.Flags ||
		a.Input != b.Input || a.Group != b.Group || len(a.Keys) != len(b.Keys) {
		return false
	}
	for i := range a.Keys {
		if a.Keys[i] != b.Keys[i] {
			return false
		}
	}
	return true
}
