package key

import (
	"reflect"
	"testing"
)

func TestModifierFromName(t *testing.T) {
	tests := []struct {
		name string
		want Modifier
	}{
		{"Shift", ModShift},
		{"shift", ModShift},
		{"Lock", ModCaps},
		{"Control", ModCtrl},
		{"ctrl", ModCtrl},
		{"Mod1", ModAlt},
		{"Alt", ModAlt},
		{"Mod2", ModMod2},
		{"Mod3", ModMod3},
		{"Mod4", ModLogo},
		{"Mod5", ModMod5},
		{"Hyper", ModNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModifierFromName(tt.name); got != tt.want {
				t.Errorf("ModifierFromName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestModifierNames(t *testing.T) {
	m := ModLogo | ModShift | ModCtrl
	want := []string{"Shift", "Control", "Mod4"}
	if got := m.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if got := m.String(); got != "Shift+Control+Mod4" {
		t.Errorf("String() = %q, want %q", got, "Shift+Control+Mod4")
	}
	if got := ModNone.Names(); got != nil {
		t.Errorf("ModNone.Names() = %v, want nil", got)
	}
}

func TestModifierName(t *testing.T) {
	if got := ModifierName(ModAlt); got != "Mod1" {
		t.Errorf("ModifierName(ModAlt) = %q, want Mod1", got)
	}
	if got := ModifierName(ModAlt | ModShift); got != "" {
		t.Errorf("ModifierName(combined) = %q, want empty", got)
	}
}

func TestModifierSetOps(t *testing.T) {
	m := ModNone.With(ModShift).With(ModLogo)
	if !m.Has(ModShift) || !m.Has(ModLogo) {
		t.Errorf("With() lost a modifier: %v", m)
	}
	if m.Has(ModShift | ModCtrl) {
		t.Error("Has() should require every bit")
	}
	m = m.Without(ModShift)
	if m != ModLogo {
		t.Errorf("Without() = %v, want %v", m, ModLogo)
	}
	if !ModNone.IsEmpty() || m.IsEmpty() {
		t.Error("IsEmpty() mismatch")
	}
}
