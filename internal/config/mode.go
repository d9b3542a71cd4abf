package config

import (
	"github.com/pkg/errors"

	"github.com/dshills/seatkeys/internal/input/keymap"
)

// ModeConfig is a [[mode]] block.
type ModeConfig struct {
	Name     string          `toml:"name"`
	Bindsym  []BindingConfig `toml:"bindsym"`
	Bindcode []BindingConfig `toml:"bindcode"`
}

// BindingConfig is one bindsym or bindcode entry.
type BindingConfig struct {
	Keys    string `toml:"keys"`
	Command string `toml:"command"`
	Release bool   `toml:"release"`
	Locked  bool   `toml:"locked"`
	Input   string `toml:"input"`
	ToCode  bool   `toml:"to_code"`
}

func (b BindingConfig) spec(code bool) keymap.Spec {
	return keymap.Spec{
		Keys:    b.Keys,
		Command: b.Command,
		Release: b.Release,
		Locked:  b.Locked,
		Input:   b.Input,
		Code:    code,
		ToCode:  b.ToCode,
	}
}

func (c *Config) buildModes(blocks []ModeConfig) error {
	c.modes = map[string]*keymap.Mode{}
	c.order = nil
	c.mode(keymap.DefaultMode)

	var resolver keymap.KeycodeResolver
	for _, block := range blocks {
		name := block.Name
		if name == "" {
			name = keymap.DefaultMode
		}
		m := c.mode(name)

		for _, entry := range append(tagged(block.Bindcode, true), tagged(block.Bindsym, false)...) {
			if entry.cfg.ToCode && !entry.code && resolver == nil {
				l, err := c.TranslationLayout()
				if err != nil {
					return err
				}
				resolver = l
			}
			b, err := keymap.Parse(entry.cfg.spec(entry.code), resolver)
			if err != nil {
				return errors.Wrapf(err, "mode %q: %s %q", name, entry.kind(), entry.cfg.Keys)
			}
			if err := m.Add(b); err != nil {
				return errors.Wrapf(err, "mode %q", name)
			}
		}
	}
	return nil
}

type taggedBinding struct {
	cfg  BindingConfig
	code bool
}

func (t taggedBinding) kind() string {
	if t.code {
		return "bindcode"
	}
	return "bindsym"
}

func tagged(list []BindingConfig, code bool) []taggedBinding {
	out := make([]taggedBinding, len(list))
	for i, b := range list {
		out[i] = taggedBinding{cfg: b, code: code}
	}
	return out
}

func (c *Config) mode(name string) *keymap.Mode {
	if m, ok := c.modes[name]; ok {
		return m
	}
	m := keymap.NewMode(name)
	c.modes[name] = m
	c.order = append(c.order, name)
	return m
}

// Mode returns the binding mode with the given name, or nil.
func (c *Config) Mode(name string) *keymap.Mode {
	return c.modes[name]
}

// ModeNames returns the mode names in declaration order, starting with
// the default mode.
func (c *Config) ModeNames() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
