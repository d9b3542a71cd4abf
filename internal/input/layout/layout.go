package layout

import (
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/seatkeys/internal/input/key"
)

// MaxGroups is the number of groups a layout may hold.
const MaxGroups = 4

// Group is one selectable layout within a compiled Layout.
type Group struct {
	// Name is the human readable layout name, e.g. "English (US)".
	Name string

	// Keys maps a keycode to its keysyms by shift level.
	Keys map[key.Keycode][]key.Keysym
}

// Layout is a compiled keyboard layout. A Layout is immutable after
// compilation and may be shared between keyboards.
type Layout struct {
	// Names are the rule names the layout was compiled from, if any.
	Names RuleNames

	// Groups holds between one and MaxGroups groups.
	Groups []Group

	// GroupToggle enables switching groups with Alt+Shift.
	GroupToggle bool

	canonical string
}

// NumGroups returns the number of groups.
func (l *Layout) NumGroups() int {
	return len(l.Groups)
}

// GroupName returns the name of group g, or "" if out of range.
func (l *Layout) GroupName(g int) string {
	if g < 0 || g >= len(l.Groups) {
		return ""
	}
	return l.Groups[g].Name
}

// keyGroup returns the group whose symbols apply to kc while group g is
// active. Keys missing from the active group fall back to the first group.
func (l *Layout) keyGroup(kc key.Keycode, g int) int {
	if g >= 0 && g < len(l.Groups) {
		if _, ok := l.Groups[g].Keys[kc]; ok {
			return g
		}
	}
	return 0
}

// Syms returns the keysyms of kc in group g, by level.
func (l *Layout) Syms(kc key.Keycode, g int) []key.Keysym {
	if len(l.Groups) == 0 {
		return nil
	}
	return l.Groups[l.keyGroup(kc, g)].Keys[kc]
}

// KeycodesForKeysym returns the keycodes producing sym in the first group
// at the base level, in ascending order.
func (l *Layout) KeycodesForKeysym(sym key.Keysym) []key.Keycode {
	if len(l.Groups) == 0 {
		return nil
	}
	var codes []key.Keycode
	for kc, syms := range l.Groups[0].Keys {
		if len(syms) > 0 && syms[0] == sym {
			codes = append(codes, kc)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// String returns the canonical serialization of the layout. Two layouts
// with the same serialization behave identically.
func (l *Layout) String() string {
	if l == nil {
		return ""
	}
	if l.canonical == "" {
		l.canonical = l.serialize()
	}
	return l.canonical
}

// Equal reports whether two layouts are deeply equal.
func Equal(a, b *Layout) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a == b || a.String() == b.String()
}

type canonicalKey struct {
	Code uint32   `toml:"code"`
	Syms []string `toml:"syms"`
}

type canonicalGroup struct {
	Name string         `toml:"name"`
	Keys []canonicalKey `toml:"key"`
}

type canonicalLayout struct {
	GroupToggle bool             `toml:"group_toggle"`
	Groups      []canonicalGroup `toml:"group"`
}

func (l *Layout) serialize() string {
	out := canonicalLayout{GroupToggle: l.GroupToggle}
	for _, g := range l.Groups {
		codes := make([]key.Keycode, 0, len(g.Keys))
		for kc := range g.Keys {
			codes = append(codes, kc)
		}
		sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

		cg := canonicalGroup{Name: g.Name, Keys: make([]canonicalKey, 0, len(codes))}
		for _, kc := range codes {
			ck := canonicalKey{Code: uint32(kc)}
			for _, sym := range g.Keys[kc] {
				ck.Syms = append(ck.Syms, sym.String())
			}
			cg.Keys = append(cg.Keys, ck)
		}
		out.Groups = append(out.Groups, cg)
	}

	data, err := toml.Marshal(out)
	if err != nil {
		// Only plain strings, ints and slices are marshalled.
		panic(err)
	}
	return string(data)
}
