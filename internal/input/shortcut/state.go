package shortcut

import "github.com/dshills/seatkeys/internal/input/key"

// Capacity is the maximum number of identifiers a State tracks.
// Presses beyond it are dropped.
const Capacity = 32

// State is the pressed-key model for one interpretation space.
// The zero value is an empty state ready for use.
type State struct {
	keys     [Capacity]uint32
	keycodes [Capacity]key.Keycode
	n        int

	lastKeycode      key.Keycode
	lastRawModifiers key.Modifier
	currentKey       uint32
}

// Len returns the number of tracked identifiers.
func (s *State) Len() int {
	return s.n
}

// Keys returns a copy of the tracked identifiers in ascending order.
func (s *State) Keys() []uint32 {
	out := make([]uint32, s.n)
	copy(out, s.keys[:s.n])
	return out
}

// Keycodes returns a copy of the keycodes aligned with Keys.
func (s *State) Keycodes() []key.Keycode {
	out := make([]key.Keycode, s.n)
	copy(out, s.keycodes[:s.n])
	return out
}

// CurrentKey returns the identifier most recently added, or 0 after an erase.
func (s *State) CurrentKey() uint32 {
	return s.currentKey
}

// LastKeycode returns the most recent keycode that was pressed.
func (s *State) LastKeycode() key.Keycode {
	return s.lastKeycode
}

// Equal reports whether the tracked identifiers equal keys.
// keys must be sorted ascending.
func (s *State) Equal(keys []uint32) bool {
	if len(keys) != s.n {
		return false
	}
	for i, k := range keys {
		if s.keys[i] != k {
			return false
		}
	}
	return true
}

// Add inserts id at its sorted position and records keycode alongside it.
// Nothing happens when the state is full.
func (s *State) Add(keycode key.Keycode, id uint32) {
	if s.n >= Capacity {
		return
	}
	i := 0
	for i < s.n && s.keys[i] < id {
		i++
	}
	for j := s.n; j > i; j-- {
		s.keys[j] = s.keys[j-1]
		s.keycodes[j] = s.keycodes[j-1]
	}
	s.keys[i] = id
	s.keycodes[i] = keycode
	s.n++
	s.currentKey = id
}

// Erase removes every identifier recorded for keycode, compacting the rest.
// It clears the current key and reports whether anything was removed.
func (s *State) Erase(keycode key.Keycode) bool {
	found := false
	j := 0
	for i := 0; i < s.n; i++ {
		if s.keycodes[i] == keycode {
			found = true
			continue
		}
		s.keys[j] = s.keys[i]
		s.keycodes[j] = s.keycodes[i]
		j++
	}
	for k := j; k < s.n; k++ {
		s.keys[k] = 0
		s.keycodes[k] = 0
	}
	s.n = j
	s.currentKey = 0
	return found
}

// Update applies a key event to the state.
//
// When rawModifiers differs from the mask seen on the previous update, the
// previously pressed key changed the modifiers and is dropped from the set.
// Presses add id; releases erase the event's keycode and report whether it
// was tracked. Presses always return false.
func (s *State) Update(ev key.Event, id uint32, rawModifiers key.Modifier) bool {
	lastWasModifier := rawModifiers != s.lastRawModifiers
	s.lastRawModifiers = rawModifiers

	if lastWasModifier && s.lastKeycode != 0 {
		s.Erase(s.lastKeycode)
	}

	keycode := ev.Keycode()
	if ev.Pressed() {
		s.Add(keycode, id)
		s.lastKeycode = keycode
		return false
	}
	return s.Erase(keycode)
}

// Reset empties the state.
func (s *State) Reset() {
	*s = State{}
}
