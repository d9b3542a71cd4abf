// Package config loads the seat configuration: keyboard grouping,
// per-device input settings, bars and binding modes.
package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/dshills/seatkeys/internal/input/keymap"
	"github.com/dshills/seatkeys/internal/input/layout"
)

// ErrInvalidGrouping is returned for an unknown keyboard_grouping value.
var ErrInvalidGrouping = errors.New("invalid keyboard grouping")

// Grouping selects how physical keyboards are merged into groups.
type Grouping int

const (
	// GroupingDefault groups keyboards with equal layouts.
	GroupingDefault Grouping = iota
	// GroupingNone never groups keyboards.
	GroupingNone
	// GroupingKeymap groups keyboards with equal layouts.
	GroupingKeymap
)

// String returns the configuration spelling.
func (g Grouping) String() string {
	switch g {
	case GroupingNone:
		return "none"
	case GroupingKeymap:
		return "smart"
	default:
		return "default"
	}
}

// ParseGrouping parses a keyboard_grouping value: "none", "smart" (or
// "keymap") and "default". The empty string is the default.
func ParseGrouping(text string) (Grouping, error) {
	switch strings.ToLower(text) {
	case "", "default":
		return GroupingDefault, nil
	case "none":
		return GroupingNone, nil
	case "smart", "keymap":
		return GroupingKeymap, nil
	}
	return GroupingDefault, errors.Wrapf(ErrInvalidGrouping, "%q", text)
}

// Seat holds seat wide settings.
type Seat struct {
	KeyboardGrouping Grouping
}

type seatFile struct {
	KeyboardGrouping string `toml:"keyboard_grouping"`
}

// Config is a loaded configuration. It is read-only once loaded; a
// reload produces a new Config.
type Config struct {
	Seat   Seat
	Inputs []Input
	Bars   []Bar

	path  string
	modes map[string]*keymap.Mode
	order []string
}

type file struct {
	Seat  seatFile     `toml:"seat"`
	Input []Input      `toml:"input"`
	Bar   []Bar        `toml:"bar"`
	Mode  []ModeConfig `toml:"mode"`
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	cfg.path = path
	return cfg, nil
}

// Parse parses a TOML configuration and builds its binding modes.
func Parse(data []byte) (*Config, error) {
	var f file
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decode")
	}

	grouping, err := ParseGrouping(f.Seat.KeyboardGrouping)
	if err != nil {
		return nil, errors.Wrap(err, "seat")
	}
	cfg := &Config{
		Seat:   Seat{KeyboardGrouping: grouping},
		Inputs: f.Input,
		Bars:   f.Bar,
	}
	for i := range cfg.Inputs {
		if cfg.Inputs[i].Identifier == "" {
			return nil, errors.Errorf("input block %d has no identifier", i+1)
		}
	}
	for i := range cfg.Bars {
		cfg.Bars[i].setDefaults(i)
		if _, err := cfg.Bars[i].ModifierMask(); err != nil {
			return nil, err
		}
	}

	if err := cfg.buildModes(f.Mode); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	if err := cfg.buildModes(nil); err != nil {
		panic(err)
	}
	return cfg
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// TranslationLayout returns the layout used to translate --to-code
// bindings: the wildcard input layout, or the default layout when that
// fails to compile.
func (c *Config) TranslationLayout() (*layout.Layout, error) {
	l, err := layout.Compile(c.InputFor("*").LayoutSource())
	if err == nil {
		return l, nil
	}
	def, defErr := layout.Default()
	if defErr != nil {
		return nil, errors.Wrap(err, "compile translation layout")
	}
	return def, nil
}
