package layout

import (
	"reflect"
	"testing"

	"github.com/dshills/seatkeys/internal/input/key"
)

// xkb keycodes of the keys used below.
const (
	kcOne      key.Keycode = 10
	kcQ        key.Keycode = 24
	kcY        key.Keycode = 29
	kcLeftCtrl key.Keycode = 37
	kcA        key.Keycode = 38
	kcShift    key.Keycode = 50
	kcAlt      key.Keycode = 64
	kcCaps     key.Keycode = 66
	kcF1       key.Keycode = 67
	kcNumLock  key.Keycode = 77
	kcRightAlt key.Keycode = 108
)

func TestStateShiftTranslation(t *testing.T) {
	s := NewState(mustCompile(t, RuleNames{Layout: "us"}))

	if !s.UpdateKey(kcShift, true) {
		t.Fatal("pressing Shift should change modifiers")
	}
	if s.Effective() != key.ModShift {
		t.Fatalf("Effective() = %v, want Shift", s.Effective())
	}

	syms, consumed := s.TranslatedKeysyms(kcOne)
	if !reflect.DeepEqual(syms, []key.Keysym{'!'}) || consumed != key.ModShift {
		t.Errorf("TranslatedKeysyms(1) = %v, %v; want [exclam], Shift", syms, consumed)
	}
	if raw := s.RawKeysyms(kcOne); !reflect.DeepEqual(raw, []key.Keysym{'1'}) {
		t.Errorf("RawKeysyms(1) = %v, want [1]", raw)
	}

	if s.UpdateKey(kcOne, true) {
		t.Error("pressing an ordinary key should not change modifiers")
	}
	if !s.UpdateKey(kcShift, false) || s.Effective() != 0 {
		t.Errorf("releasing Shift left %v", s.Effective())
	}
}

func TestStateCapsLock(t *testing.T) {
	s := NewState(mustCompile(t, RuleNames{Layout: "us"}))

	s.UpdateKey(kcCaps, true)
	s.UpdateKey(kcCaps, false)
	if s.Modifiers().Locked != key.ModCaps {
		t.Fatalf("Locked = %v, want Lock", s.Modifiers().Locked)
	}

	syms, consumed := s.TranslatedKeysyms(kcA)
	if !reflect.DeepEqual(syms, []key.Keysym{'A'}) || consumed != key.ModShift|key.ModCaps {
		t.Errorf("TranslatedKeysyms(a) = %v, %v", syms, consumed)
	}
	// Lock does not apply to two-level keys.
	if syms, _ := s.TranslatedKeysyms(kcOne); !reflect.DeepEqual(syms, []key.Keysym{'1'}) {
		t.Errorf("TranslatedKeysyms(1) = %v, want [1]", syms)
	}

	s.UpdateKey(kcShift, true)
	if syms, _ := s.TranslatedKeysyms(kcA); !reflect.DeepEqual(syms, []key.Keysym{'a'}) {
		t.Errorf("Shift+Lock a = %v, want [a]", syms)
	}
	s.UpdateKey(kcShift, false)

	s.UpdateKey(kcCaps, true)
	if s.Modifiers().Locked != 0 {
		t.Errorf("second Caps_Lock press left Locked = %v", s.Modifiers().Locked)
	}
}

func TestStateSetLocked(t *testing.T) {
	s := NewState(mustCompile(t, RuleNames{Layout: "us"}))
	s.SetLocked(key.ModMod2, true)
	s.SetLocked(key.ModCaps, true)
	s.SetLocked(key.ModCaps, false)
	if s.Effective() != key.ModMod2 {
		t.Errorf("Effective() = %v, want Mod2", s.Effective())
	}

	s.UpdateKey(kcNumLock, true)
	if s.Effective() != 0 {
		t.Errorf("Num_Lock press should unlock Mod2, got %v", s.Effective())
	}
}

func TestStateSwitchVT(t *testing.T) {
	s := NewState(mustCompile(t, RuleNames{Layout: "us"}))

	syms, _ := s.TranslatedKeysyms(kcF1)
	if !reflect.DeepEqual(syms, []key.Keysym{0xffbe}) {
		t.Errorf("F1 = %v", syms)
	}

	s.UpdateKey(kcLeftCtrl, true)
	s.UpdateKey(kcAlt, true)
	syms, consumed := s.TranslatedKeysyms(kcF1)
	if !reflect.DeepEqual(syms, []key.Keysym{key.KeySwitchVT1}) {
		t.Errorf("Ctrl+Alt+F1 = %v, want XF86Switch_VT_1", syms)
	}
	if consumed != key.ModCtrl|key.ModAlt {
		t.Errorf("consumed = %v, want Control+Mod1", consumed)
	}
	if raw := s.RawKeysyms(kcF1); !reflect.DeepEqual(raw, []key.Keysym{0xffbe}) {
		t.Errorf("raw F1 = %v", raw)
	}
}

func TestStateGroups(t *testing.T) {
	s := NewState(mustCompile(t, RuleNames{Layout: "us,de", Options: "grp:alt_shift_toggle"}))

	s.UpdateKey(kcAlt, true)
	if !s.UpdateKey(kcShift, true) {
		t.Fatal("Alt+Shift should change state")
	}
	if s.Group() != 1 {
		t.Fatalf("Group() = %d, want 1", s.Group())
	}
	s.UpdateKey(kcShift, false)
	s.UpdateKey(kcAlt, false)

	if syms, _ := s.TranslatedKeysyms(kcY); !reflect.DeepEqual(syms, []key.Keysym{'z'}) {
		t.Errorf("de y key = %v, want [z]", syms)
	}
	if raw := s.RawKeysyms(kcY); !reflect.DeepEqual(raw, []key.Keysym{'z'}) {
		t.Errorf("raw de y key = %v, want [z]", raw)
	}

	s.UpdateKey(kcRightAlt, true)
	if s.Effective() != key.ModMod5 {
		t.Fatalf("Effective() = %v, want Mod5", s.Effective())
	}
	syms, consumed := s.TranslatedKeysyms(kcQ)
	if !reflect.DeepEqual(syms, []key.Keysym{'@'}) {
		t.Errorf("AltGr+q = %v, want [at]", syms)
	}
	if consumed != key.ModShift|key.ModMod5|key.ModCaps {
		t.Errorf("consumed = %v", consumed)
	}
	s.UpdateKey(kcRightAlt, false)

	s.SetGroup(5)
	if s.Group() != 1 {
		t.Errorf("SetGroup(5) = %d, want 1", s.Group())
	}
	s.SetGroup(-1)
	if s.Group() != 1 {
		t.Errorf("SetGroup(-1) = %d, want 1", s.Group())
	}
	if s.KeyGroup(kcA) != 1 {
		t.Errorf("KeyGroup(a) = %d, want 1", s.KeyGroup(kcA))
	}
}

func TestStateNoToggleWithoutOption(t *testing.T) {
	s := NewState(mustCompile(t, RuleNames{Layout: "us,de"}))
	s.UpdateKey(kcAlt, true)
	s.UpdateKey(kcShift, true)
	if s.Group() != 0 {
		t.Errorf("Group() = %d, want 0", s.Group())
	}
}

func TestStateUnknownKey(t *testing.T) {
	s := NewState(mustCompile(t, RuleNames{Layout: "us"}))
	if s.UpdateKey(500, true) {
		t.Error("unknown key changed state")
	}
	if syms, _ := s.TranslatedKeysyms(500); syms != nil {
		t.Errorf("TranslatedKeysyms(500) = %v", syms)
	}
	if raw := s.RawKeysyms(500); raw != nil {
		t.Errorf("RawKeysyms(500) = %v", raw)
	}
}
