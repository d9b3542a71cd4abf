package keymap

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/dshills/seatkeys/internal/input/key"
)

// Errors returned while building bindings.
var (
	ErrInvalidKey     = errors.New("invalid key")
	ErrUntranslatable = errors.New("keysym has no keycode in layout")
)

// maxGroups is the number of layout groups a binding may be scoped to.
const maxGroups = 4

// Spec is the configuration form of a binding before parsing.
type Spec struct {
	Keys    string
	Command string
	Release bool
	Locked  bool
	Input   string
	Code    bool
	ToCode  bool
}

// KeycodeResolver finds the keycodes that produce a keysym.
// The default layout implements it for --to-code translation.
type KeycodeResolver interface {
	KeycodesForKeysym(sym key.Keysym) []key.Keycode
}

// Parse builds a Binding from a spec. resolver is only consulted when
// spec.ToCode is set on a keysym binding and may otherwise be nil.
func Parse(spec Spec, resolver KeycodeResolver) (*Binding, error) {
	keys, mods, group, err := ParseKeys(spec.Keys, spec.Code)
	if err != nil {
		return nil, err
	}

	b := &Binding{
		Keys:      keys,
		Modifiers: mods,
		Input:     spec.Input,
		Group:     group,
		Command:   spec.Command,
	}
	if b.Input == "" {
		b.Input = InputAny
	}
	if spec.Release {
		b.Flags |= FlagRelease
	}
	if spec.Locked {
		b.Flags |= FlagLocked
	}
	if spec.Code {
		b.Flags |= FlagCode
	}

	if spec.ToCode && !spec.Code {
		if resolver == nil {
			return nil, errors.Errorf("cannot translate %q to keycodes without a layout", spec.Keys)
		}
		if err := b.translateToCode(resolver); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ParseKeys splits a key specification into sorted keys, a modifier mask
// and a layout group scope. With code set, keys are decimal xkb keycodes;
// otherwise they are keysym names, matched case-insensitively.
func ParseKeys(spec string, code bool) ([]uint32, key.Modifier, int, error) {
	var (
		keys  []uint32
		mods  key.Modifier
		group = GroupAny
	)

	for _, token := range strings.Split(spec, "+") {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, 0, 0, errors.Wrapf(ErrInvalidKey, "empty key in %q", spec)
		}
		if mod := key.ModifierFromName(token); mod != key.ModNone {
			mods |= mod
			continue
		}
		if g, ok := parseGroup(token); ok {
			group = g
			continue
		}
		if code {
			kc, err := key.ParseKeycode(token)
			if err != nil {
				return nil, 0, 0, errors.Wrapf(ErrInvalidKey, "%q in %q", token, spec)
			}
			keys = append(keys, uint32(kc))
			continue
		}
		sym, ok := key.KeysymFromName(token, true)
		if !ok {
			return nil, 0, 0, errors.Wrapf(ErrInvalidKey, "unknown keysym %q in %q", token, spec)
		}
		keys = append(keys, uint32(sym))
	}

	if len(keys) == 0 {
		return nil, 0, 0, errors.Wrapf(ErrInvalidKey, "%q has no keys", spec)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, mods, group, nil
}

func parseGroup(token string) (int, bool) {
	if len(token) != len("Group1") || !strings.EqualFold(token[:5], "Group") {
		return 0, false
	}
	n, err := strconv.Atoi(token[5:])
	if err != nil || n < 1 || n > maxGroups {
		return 0, false
	}
	return n - 1, true
}

// translateToCode rewrites a keysym binding into a keycode binding.
func (b *Binding) translateToCode(resolver KeycodeResolver) error {
	codes := make([]uint32, 0, len(b.Keys))
	for _, k := range b.Keys {
		found := resolver.KeycodesForKeysym(key.Keysym(k))
		if len(found) == 0 {
			return errors.Wrapf(ErrUntranslatable, "%s", key.Keysym(k))
		}
		codes = append(codes, uint32(found[0]))
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	b.Keys = codes
	b.Flags |= FlagCode
	return nil
}
