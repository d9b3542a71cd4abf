package layout

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dshills/seatkeys/internal/input/key"
)

// Errors reported by the compiler. They are wrapped with context and
// collected into a CompileError.
var (
	ErrUnknownLayout = errors.New("unknown layout")
	ErrUnknownKeysym = errors.New("unknown keysym")
	ErrUnknownOption = errors.New("unknown layout option")
	ErrInvalidLayout = errors.New("invalid layout")
)

// CompileError collects every problem found while compiling one source.
type CompileError struct {
	Errs []error
}

func (e *CompileError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return "compile layout: " + strings.Join(msgs, "; ")
}

// Unwrap returns the collected errors for errors.Is.
func (e *CompileError) Unwrap() []error {
	return e.Errs
}

func compileError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &CompileError{Errs: errs}
}

// Compile builds a Layout from src. Unset rule names take their defaults.
func Compile(src Source) (*Layout, error) {
	if src.File != "" {
		data, err := os.ReadFile(src.File)
		if err != nil {
			return nil, errors.Wrapf(err, "read layout file %s", src.File)
		}
		l, err := CompileYAML(data)
		if err != nil {
			return nil, errors.Wrapf(err, "layout file %s", src.File)
		}
		return l, nil
	}
	return compileNames(src.Names)
}

// Default compiles the default rule names.
func Default() (*Layout, error) {
	return compileNames(RuleNames{})
}

func compileNames(names RuleNames) (*Layout, error) {
	names = names.withDefaults()
	var errs []error

	if names.Rules != "evdev" && names.Rules != "base" {
		errs = append(errs, errors.Wrapf(ErrUnknownLayout, "rules %q", names.Rules))
	}

	layouts := splitList(names.Layout)
	variants := splitList(names.Variant)
	if len(layouts) > MaxGroups {
		errs = append(errs, errors.Wrapf(ErrInvalidLayout, "%d groups, at most %d allowed", len(layouts), MaxGroups))
		layouts = layouts[:MaxGroups]
	}

	l := &Layout{Names: names}
	for i, name := range layouts {
		var variantName string
		if i < len(variants) {
			variantName = variants[i]
		}
		g, err := builtinGroup(name, variantName)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		l.Groups = append(l.Groups, g)
	}

	for _, opt := range splitList(names.Options) {
		if err := l.applyOption(opt); err != nil {
			errs = append(errs, err)
		}
	}

	if err := compileError(errs); err != nil {
		return nil, err
	}
	return l.finish()
}

func builtinGroup(name, variantName string) (Group, error) {
	b, ok := builtins[name]
	if !ok {
		return Group{}, errors.Wrapf(ErrUnknownLayout, "%q", name)
	}
	groupName, keys, err := b.keys(variantName)
	if err != nil {
		return Group{}, errors.Wrapf(err, "layout %q", name)
	}
	return Group{Name: groupName, Keys: keys}, nil
}

// parseBase splits "de(nodeadkeys)" into layout and variant.
func parseBase(s string) (string, string) {
	name, rest, ok := strings.Cut(s, "(")
	if !ok {
		return s, ""
	}
	return name, strings.TrimSuffix(rest, ")")
}

func (l *Layout) applyOption(opt string) error {
	capsKey := key.FromEvdev(capsLockCode)
	switch opt {
	case "":
	case "ctrl:nocaps":
		l.remapAll(capsKey, key.KeyControlL)
	case "caps:escape":
		l.remapAll(capsKey, key.KeyEscape)
	case "grp:alt_shift_toggle":
		l.GroupToggle = true
	default:
		return errors.Wrapf(ErrUnknownOption, "%q", opt)
	}
	return nil
}

func (l *Layout) remapAll(kc key.Keycode, sym key.Keysym) {
	for _, g := range l.Groups {
		g.Keys[kc] = []key.Keysym{sym}
	}
}

func (l *Layout) finish() (*Layout, error) {
	if len(l.Groups) == 0 {
		return nil, errors.Wrap(ErrInvalidLayout, "no groups")
	}
	l.canonical = l.serialize()
	return l, nil
}

type fileGroup struct {
	Name string              `yaml:"name"`
	Base string              `yaml:"base"`
	Keys map[uint32][]string `yaml:"keys"`
}

type fileLayout struct {
	Options []string    `yaml:"options"`
	Groups  []fileGroup `yaml:"groups"`
}

// CompileYAML builds a Layout from a YAML layout description:
//
//	options: [caps:escape]
//	groups:
//	  - base: de(nodeadkeys)
//	    keys:
//	      49: [n, N]
//
// Keys are xkb keycodes mapped to keysym names by level. A group with a
// base starts from that builtin layout.
func CompileYAML(data []byte) (*Layout, error) {
	var f fileLayout
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "decode layout")
	}

	var errs []error
	if len(f.Groups) > MaxGroups {
		errs = append(errs, errors.Wrapf(ErrInvalidLayout, "%d groups, at most %d allowed", len(f.Groups), MaxGroups))
		f.Groups = f.Groups[:MaxGroups]
	}

	l := &Layout{}
	for i, fg := range f.Groups {
		g := Group{Name: fg.Name, Keys: make(map[key.Keycode][]key.Keysym)}
		if fg.Base != "" {
			base, err := builtinGroup(parseBase(fg.Base))
			if err != nil {
				errs = append(errs, errors.Wrapf(err, "group %d", i+1))
				continue
			}
			g.Keys = base.Keys
			if g.Name == "" {
				g.Name = base.Name
			}
		}
		for code, names := range fg.Keys {
			if code < key.EvdevOffset {
				errs = append(errs, errors.Wrapf(ErrInvalidLayout, "group %d: keycode %d", i+1, code))
				continue
			}
			syms, err := parseSyms(names)
			if err != nil {
				errs = append(errs, errors.Wrapf(err, "group %d: keycode %d", i+1, code))
				continue
			}
			if len(syms) == 0 {
				delete(g.Keys, key.Keycode(code))
				continue
			}
			g.Keys[key.Keycode(code)] = syms
		}
		l.Groups = append(l.Groups, g)
	}

	for _, opt := range f.Options {
		if err := l.applyOption(opt); err != nil {
			errs = append(errs, err)
		}
	}

	if err := compileError(errs); err != nil {
		return nil, err
	}
	return l.finish()
}

func parseSyms(names []string) ([]key.Keysym, error) {
	syms := make([]key.Keysym, 0, len(names))
	for _, name := range names {
		sym, ok := key.KeysymFromName(name, false)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownKeysym, "%q", name)
		}
		syms = append(syms, sym)
	}
	return syms, nil
}
