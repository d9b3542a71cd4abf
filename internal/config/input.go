package config

import (
	"github.com/dshills/seatkeys/internal/input/layout"
)

// Defaults for unset repeat settings.
const (
	DefaultRepeatRate  = 25
	DefaultRepeatDelay = 600
)

// Input is the configuration of one input device, a device type or every
// device. Unset fields are nil so blocks can be merged.
type Input struct {
	// Identifier is "vendor:product:name", "type:keyboard" or "*".
	Identifier string `toml:"identifier"`

	XkbRules    *string `toml:"xkb_rules"`
	XkbModel    *string `toml:"xkb_model"`
	XkbLayout   *string `toml:"xkb_layout"`
	XkbVariant  *string `toml:"xkb_variant"`
	XkbOptions  *string `toml:"xkb_options"`
	XkbFile     *string `toml:"xkb_file"`
	XkbNumlock  *bool   `toml:"xkb_numlock"`
	XkbCapslock *bool   `toml:"xkb_capslock"`
	RepeatDelay *int    `toml:"repeat_delay"`
	RepeatRate  *int    `toml:"repeat_rate"`
}

// merge returns i with every field set in o overriding it.
func (i Input) merge(o Input) Input {
	mergeField(&i.XkbRules, o.XkbRules)
	mergeField(&i.XkbModel, o.XkbModel)
	mergeField(&i.XkbLayout, o.XkbLayout)
	mergeField(&i.XkbVariant, o.XkbVariant)
	mergeField(&i.XkbOptions, o.XkbOptions)
	mergeField(&i.XkbFile, o.XkbFile)
	mergeField(&i.XkbNumlock, o.XkbNumlock)
	mergeField(&i.XkbCapslock, o.XkbCapslock)
	mergeField(&i.RepeatDelay, o.RepeatDelay)
	mergeField(&i.RepeatRate, o.RepeatRate)
	return i
}

func mergeField[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

// InputFor returns the effective configuration of a keyboard: the "*"
// block, then "type:keyboard", then the block for identifier, each
// overriding the previous one field by field.
func (c *Config) InputFor(identifier string) Input {
	scopes := []string{"*"}
	switch identifier {
	case "*":
	case "type:keyboard":
		scopes = append(scopes, identifier)
	default:
		scopes = append(scopes, "type:keyboard", identifier)
	}

	var out Input
	for _, id := range scopes {
		for _, in := range c.Inputs {
			if in.Identifier == id {
				out = out.merge(in)
			}
		}
	}
	out.Identifier = identifier
	return out
}

// LayoutSource returns where the keyboard layout comes from.
func (i Input) LayoutSource() layout.Source {
	return layout.Source{
		File: deref(i.XkbFile),
		Names: layout.RuleNames{
			Rules:   deref(i.XkbRules),
			Model:   deref(i.XkbModel),
			Layout:  deref(i.XkbLayout),
			Variant: deref(i.XkbVariant),
			Options: deref(i.XkbOptions),
		},
	}
}

// Repeat returns the repeat rate in Hz and delay in milliseconds,
// applying defaults for unset values.
func (i Input) Repeat() (rate, delay int) {
	rate, delay = DefaultRepeatRate, DefaultRepeatDelay
	if i.RepeatRate != nil {
		rate = *i.RepeatRate
	}
	if i.RepeatDelay != nil {
		delay = *i.RepeatDelay
	}
	return rate, delay
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
