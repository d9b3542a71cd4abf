package key

import "strings"

// Modifier is a modifier mask in the layout's real-modifier numbering.
type Modifier uint32

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift is the Shift modifier.
	ModShift Modifier = 1 << 0

	// ModCaps is the Lock (Caps Lock) modifier.
	ModCaps Modifier = 1 << 1

	// ModCtrl is the Control modifier.
	ModCtrl Modifier = 1 << 2

	// ModAlt is Mod1, usually bound to Alt.
	ModAlt Modifier = 1 << 3

	// ModMod2 is Mod2, usually bound to Num Lock.
	ModMod2 Modifier = 1 << 4

	// ModMod3 is Mod3.
	ModMod3 Modifier = 1 << 5

	// ModLogo is Mod4, usually bound to the logo (Super) key.
	ModLogo Modifier = 1 << 6

	// ModMod5 is Mod5.
	ModMod5 Modifier = 1 << 7
)

// modifierNames is ordered; the first name of a mask is its canonical name.
var modifierNames = []struct {
	name string
	mod  Modifier
}{
	{"Shift", ModShift},
	{"Lock", ModCaps},
	{"Control", ModCtrl},
	{"Ctrl", ModCtrl},
	{"Mod1", ModAlt},
	{"Alt", ModAlt},
	{"Mod2", ModMod2},
	{"Mod3", ModMod3},
	{"Mod4", ModLogo},
	{"Mod5", ModMod5},
}

// Has returns true if m contains every bit of mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod == mod
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// Names returns the canonical name of every modifier in m.
// Each bit is reported once even though some bits have aliases.
func (m Modifier) Names() []string {
	var names []string
	for _, entry := range modifierNames {
		if m&entry.mod != 0 {
			names = append(names, entry.name)
			m &^= entry.mod
		}
	}
	return names
}

// String returns a representation like "Shift+Mod4".
func (m Modifier) String() string {
	return strings.Join(m.Names(), "+")
}

// ModifierFromName returns the Modifier for a given name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	for _, entry := range modifierNames {
		if strings.EqualFold(entry.name, name) {
			return entry.mod
		}
	}
	return ModNone
}

// ModifierName returns the canonical name for a single-bit mask.
// Returns "" when mod is not exactly one known modifier.
func ModifierName(mod Modifier) string {
	for _, entry := range modifierNames {
		if entry.mod == mod {
			return entry.name
		}
	}
	return ""
}
