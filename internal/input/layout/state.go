package layout

import "github.com/dshills/seatkeys/internal/input/key"

// Modifiers is the modifier state sent to clients along with key events.
type Modifiers struct {
	Depressed key.Modifier
	Locked    key.Modifier
	Group     int
}

// Effective returns the combined active modifier mask.
func (m Modifiers) Effective() key.Modifier {
	return m.Depressed | m.Locked
}

// State tracks the modifier and group state of one keyboard using a
// compiled Layout.
type State struct {
	layout *Layout
	mods   Modifiers

	// held records the modifier contributed by each pressed modifier key.
	held map[key.Keycode]key.Modifier
}

// NewState creates a state with nothing pressed, no locks and the first
// group active.
func NewState(l *Layout) *State {
	return &State{
		layout: l,
		held:   make(map[key.Keycode]key.Modifier),
	}
}

// Layout returns the layout the state was created for.
func (s *State) Layout() *Layout {
	return s.layout
}

// Modifiers returns the current modifier state.
func (s *State) Modifiers() Modifiers {
	return s.mods
}

// Effective returns the active modifier mask.
func (s *State) Effective() key.Modifier {
	return s.mods.Effective()
}

// Group returns the active group index.
func (s *State) Group() int {
	return s.mods.Group
}

// SetGroup makes group g active, wrapping out of range values.
func (s *State) SetGroup(g int) {
	n := s.layout.NumGroups()
	if n == 0 {
		return
	}
	s.mods.Group = ((g % n) + n) % n
}

// SetLocked sets or clears a locked modifier such as Lock or Mod2.
func (s *State) SetLocked(mod key.Modifier, on bool) {
	if on {
		s.mods.Locked |= mod
	} else {
		s.mods.Locked &^= mod
	}
}

// UpdateKey applies a key press or release and reports whether the
// modifier state or the active group changed.
func (s *State) UpdateKey(kc key.Keycode, pressed bool) bool {
	before := s.mods

	if !pressed {
		if _, ok := s.held[kc]; ok {
			delete(s.held, kc)
			s.recomputeDepressed()
		}
		return s.mods != before
	}

	syms := s.layout.Syms(kc, s.mods.Group)
	if len(syms) == 0 {
		return false
	}
	sym := syms[0]

	if mk, ok := modifierKeys[sym]; ok {
		if mk.lock {
			s.mods.Locked ^= mk.mod
		} else {
			if s.layout.GroupToggle && s.togglesGroup(mk.mod) {
				s.SetGroup(s.mods.Group + 1)
			}
			s.held[kc] = mk.mod
			s.recomputeDepressed()
		}
	}

	switch sym {
	case key.KeyISONextGroup:
		s.SetGroup(s.mods.Group + 1)
	case key.KeyISOPrevGroup:
		s.SetGroup(s.mods.Group - 1)
	}
	return s.mods != before
}

// togglesGroup reports whether pressing mod completes Alt+Shift.
func (s *State) togglesGroup(mod key.Modifier) bool {
	switch mod {
	case key.ModAlt:
		return s.mods.Depressed.Has(key.ModShift)
	case key.ModShift:
		return s.mods.Depressed.Has(key.ModAlt)
	}
	return false
}

func (s *State) recomputeDepressed() {
	var mods key.Modifier
	for _, mod := range s.held {
		mods |= mod
	}
	s.mods.Depressed = mods
}

// KeyGroup returns the group whose symbols apply to kc right now.
func (s *State) KeyGroup(kc key.Keycode) int {
	return s.layout.keyGroup(kc, s.mods.Group)
}

// TranslatedKeysyms returns the keysyms kc produces with the current
// modifiers, and the modifiers the translation consumed.
func (s *State) TranslatedKeysyms(kc key.Keycode) ([]key.Keysym, key.Modifier) {
	syms := s.layout.Syms(kc, s.mods.Group)
	if len(syms) == 0 {
		return nil, 0
	}
	level, consumed := typeOf(syms).level(syms, s.Effective())
	if level >= len(syms) || syms[level] == key.NoSymbol {
		return nil, consumed
	}
	return []key.Keysym{syms[level]}, consumed
}

// RawKeysyms returns the base level keysyms of kc in its active group,
// ignoring modifiers.
func (s *State) RawKeysyms(kc key.Keycode) []key.Keysym {
	syms := s.layout.Syms(kc, s.mods.Group)
	if len(syms) == 0 || syms[0] == key.NoSymbol {
		return nil
	}
	return syms[:1:1]
}
