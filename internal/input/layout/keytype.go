package layout

import "github.com/dshills/seatkeys/internal/input/key"

// keyType determines how modifiers select a shift level. It is derived
// from the symbols a key carries.
type keyType uint8

const (
	typeOneLevel keyType = iota
	typeTwoLevel
	typeAlphabetic
	typeFourLevel
	typeCtrlAlt
)

func typeOf(syms []key.Keysym) keyType {
	switch {
	case len(syms) <= 1:
		return typeOneLevel
	case len(syms) == 2 && syms[1].IsSwitchVT():
		return typeCtrlAlt
	case len(syms) == 2 && isAlphabetic(syms):
		return typeAlphabetic
	case len(syms) == 2:
		return typeTwoLevel
	default:
		return typeFourLevel
	}
}

func isAlphabetic(syms []key.Keysym) bool {
	return syms[0].IsLetter() && syms[0].Lower() == syms[0] && syms[1] == syms[0].Upper()
}

// level returns the shift level selected by mods and the modifiers the
// key type consumes. All modifiers of the type are consumed, whether or
// not they are active.
func (t keyType) level(syms []key.Keysym, mods key.Modifier) (int, key.Modifier) {
	shift := mods.Has(key.ModShift)
	switch t {
	case typeTwoLevel:
		if shift {
			return 1, key.ModShift
		}
		return 0, key.ModShift
	case typeAlphabetic:
		if shift != mods.Has(key.ModCaps) {
			return 1, key.ModShift | key.ModCaps
		}
		return 0, key.ModShift | key.ModCaps
	case typeFourLevel:
		consumed := key.ModShift | key.ModMod5
		if isAlphabetic(syms[:2]) {
			consumed |= key.ModCaps
			shift = shift != mods.Has(key.ModCaps)
		}
		level := 0
		if shift {
			level++
		}
		if mods.Has(key.ModMod5) {
			level += 2
		}
		return level, consumed
	case typeCtrlAlt:
		if mods.Has(key.ModCtrl | key.ModAlt) {
			return 1, key.ModCtrl | key.ModAlt
		}
		return 0, key.ModCtrl | key.ModAlt
	default:
		return 0, 0
	}
}

// modifierKey describes the effect of pressing a modifier keysym.
type modifierKey struct {
	mod  key.Modifier
	lock bool
}

var modifierKeys = map[key.Keysym]modifierKey{
	key.KeyShiftL:         {mod: key.ModShift},
	key.KeyShiftR:         {mod: key.ModShift},
	key.KeyControlL:       {mod: key.ModCtrl},
	key.KeyControlR:       {mod: key.ModCtrl},
	key.KeyAltL:           {mod: key.ModAlt},
	key.KeyAltR:           {mod: key.ModAlt},
	key.KeySuperL:         {mod: key.ModLogo},
	key.KeySuperR:         {mod: key.ModLogo},
	key.KeyISOLevel3Shift: {mod: key.ModMod5},
	key.KeyCapsLock:       {mod: key.ModCaps, lock: true},
	key.KeyNumLock:        {mod: key.ModMod2, lock: true},
}
