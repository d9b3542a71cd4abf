// Package layout compiles keyboard layouts and tracks per-keyboard layout
// state (modifiers, locks, active group) used to translate keycodes into
// keysyms.
package layout

import (
	"os"
	"strings"
)

// RuleNames selects a layout by rule-based names, in the way xkb rules do.
// Layout and Variant are comma separated lists, one entry per group.
type RuleNames struct {
	Rules   string `toml:"rules,omitempty" yaml:"rules,omitempty"`
	Model   string `toml:"model,omitempty" yaml:"model,omitempty"`
	Layout  string `toml:"layout,omitempty" yaml:"layout,omitempty"`
	Variant string `toml:"variant,omitempty" yaml:"variant,omitempty"`
	Options string `toml:"options,omitempty" yaml:"options,omitempty"`
}

// DefaultRuleNames returns the names used when nothing is configured.
// XKB_DEFAULT_* environment variables override the builtin defaults.
func DefaultRuleNames() RuleNames {
	return RuleNames{
		Rules:   envOr("XKB_DEFAULT_RULES", "evdev"),
		Model:   envOr("XKB_DEFAULT_MODEL", "pc105"),
		Layout:  envOr("XKB_DEFAULT_LAYOUT", "us"),
		Variant: os.Getenv("XKB_DEFAULT_VARIANT"),
		Options: os.Getenv("XKB_DEFAULT_OPTIONS"),
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// Source describes where a layout comes from. File takes precedence
// over Names when set.
type Source struct {
	Names RuleNames
	File  string
}

// IsZero reports whether no source was configured at all.
func (s Source) IsZero() bool {
	return s.File == "" && s.Names == RuleNames{}
}

// withDefaults fills unset rule names from DefaultRuleNames.
func (n RuleNames) withDefaults() RuleNames {
	def := DefaultRuleNames()
	if n.Rules == "" {
		n.Rules = def.Rules
	}
	if n.Model == "" {
		n.Model = def.Model
	}
	if n.Layout == "" {
		n.Layout = def.Layout
		if n.Variant == "" {
			n.Variant = def.Variant
		}
	}
	if n.Options == "" {
		n.Options = def.Options
	}
	return n
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
