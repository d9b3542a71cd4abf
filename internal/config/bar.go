package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/dshills/seatkeys/internal/input/key"
)

// Bar is the part of a bar configuration the seat needs to decide
// whether a bar is shown while its modifier is held.
type Bar struct {
	ID          string `toml:"id"`
	Modifier    string `toml:"modifier"`
	Mode        string `toml:"mode"`
	HiddenState string `toml:"hidden_state"`
}

func (b *Bar) setDefaults(index int) {
	if b.ID == "" {
		b.ID = fmt.Sprintf("bar-%d", index)
	}
	if b.Modifier == "" {
		b.Modifier = "Mod4"
	}
	if b.Mode == "" {
		b.Mode = "dock"
	}
	if b.HiddenState == "" {
		b.HiddenState = "hide"
	}
}

// ModifierMask parses Modifier, e.g. "Mod4" or "Shift+Mod1".
// "none" disables modifier-driven visibility.
func (b Bar) ModifierMask() (key.Modifier, error) {
	if b.Modifier == "" || strings.EqualFold(b.Modifier, "none") {
		return key.ModNone, nil
	}
	var mask key.Modifier
	for _, name := range strings.Split(b.Modifier, "+") {
		mod := key.ModifierFromName(strings.TrimSpace(name))
		if mod == key.ModNone {
			return 0, errors.Errorf("bar %s: unknown modifier %q", b.ID, name)
		}
		mask |= mod
	}
	return mask, nil
}
