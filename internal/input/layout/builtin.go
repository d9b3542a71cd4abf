package layout

import (
	"fmt"

	"github.com/holoplot/go-evdev"
	"github.com/pkg/errors"

	"github.com/dshills/seatkeys/internal/input/key"
)

// capsLockCode is the physical key remapped by the caps options.
const capsLockCode = evdev.KEY_CAPSLOCK

// symbolTable lists keysym names per evdev key code, by level.
type symbolTable map[evdev.EvCode][]string

// builtin describes one layout known to the rule-based compiler.
type builtin struct {
	name     string
	symbols  symbolTable
	variants map[string]variant
}

type variant struct {
	name    string
	symbols symbolTable
}

var latinLetters = symbolTable{
	evdev.KEY_A: {"a", "A"}, evdev.KEY_B: {"b", "B"},
	evdev.KEY_C: {"c", "C"}, evdev.KEY_D: {"d", "D"},
	evdev.KEY_E: {"e", "E"}, evdev.KEY_F: {"f", "F"},
	evdev.KEY_G: {"g", "G"}, evdev.KEY_H: {"h", "H"},
	evdev.KEY_I: {"i", "I"}, evdev.KEY_J: {"j", "J"},
	evdev.KEY_K: {"k", "K"}, evdev.KEY_L: {"l", "L"},
	evdev.KEY_M: {"m", "M"}, evdev.KEY_N: {"n", "N"},
	evdev.KEY_O: {"o", "O"}, evdev.KEY_P: {"p", "P"},
	evdev.KEY_Q: {"q", "Q"}, evdev.KEY_R: {"r", "R"},
	evdev.KEY_S: {"s", "S"}, evdev.KEY_T: {"t", "T"},
	evdev.KEY_U: {"u", "U"}, evdev.KEY_V: {"v", "V"},
	evdev.KEY_W: {"w", "W"}, evdev.KEY_X: {"x", "X"},
	evdev.KEY_Y: {"y", "Y"}, evdev.KEY_Z: {"z", "Z"},
}

// pcKeys are the keys every layout shares: editing, navigation,
// modifiers, function keys and media keys.
var pcKeys = symbolTable{
	evdev.KEY_ESC:       {"Escape"},
	evdev.KEY_BACKSPACE: {"BackSpace"},
	evdev.KEY_TAB:       {"Tab"},
	evdev.KEY_ENTER:     {"Return"},
	evdev.KEY_SPACE:     {"space"},

	evdev.KEY_LEFTSHIFT:  {"Shift_L"},
	evdev.KEY_RIGHTSHIFT: {"Shift_R"},
	evdev.KEY_LEFTCTRL:   {"Control_L"},
	evdev.KEY_RIGHTCTRL:  {"Control_R"},
	evdev.KEY_LEFTALT:    {"Alt_L"},
	evdev.KEY_RIGHTALT:   {"Alt_R"},
	evdev.KEY_LEFTMETA:   {"Super_L"},
	evdev.KEY_RIGHTMETA:  {"Super_R"},
	evdev.KEY_CAPSLOCK:   {"Caps_Lock"},
	evdev.KEY_NUMLOCK:    {"Num_Lock"},
	evdev.KEY_SCROLLLOCK: {"Scroll_Lock"},
	evdev.KEY_COMPOSE:    {"Menu"},

	evdev.KEY_HOME:     {"Home"},
	evdev.KEY_END:      {"End"},
	evdev.KEY_PAGEUP:   {"Prior"},
	evdev.KEY_PAGEDOWN: {"Next"},
	evdev.KEY_UP:       {"Up"},
	evdev.KEY_DOWN:     {"Down"},
	evdev.KEY_LEFT:     {"Left"},
	evdev.KEY_RIGHT:    {"Right"},
	evdev.KEY_INSERT:   {"Insert"},
	evdev.KEY_DELETE:   {"Delete"},
	evdev.KEY_SYSRQ:    {"Print"},
	evdev.KEY_PAUSE:    {"Pause"},
	evdev.KEY_KPENTER:  {"KP_Enter"},

	evdev.KEY_F1:  {"F1", "XF86Switch_VT_1"},
	evdev.KEY_F2:  {"F2", "XF86Switch_VT_2"},
	evdev.KEY_F3:  {"F3", "XF86Switch_VT_3"},
	evdev.KEY_F4:  {"F4", "XF86Switch_VT_4"},
	evdev.KEY_F5:  {"F5", "XF86Switch_VT_5"},
	evdev.KEY_F6:  {"F6", "XF86Switch_VT_6"},
	evdev.KEY_F7:  {"F7", "XF86Switch_VT_7"},
	evdev.KEY_F8:  {"F8", "XF86Switch_VT_8"},
	evdev.KEY_F9:  {"F9", "XF86Switch_VT_9"},
	evdev.KEY_F10: {"F10", "XF86Switch_VT_10"},
	evdev.KEY_F11: {"F11", "XF86Switch_VT_11"},
	evdev.KEY_F12: {"F12", "XF86Switch_VT_12"},

	evdev.KEY_MUTE:           {"XF86AudioMute"},
	evdev.KEY_VOLUMEDOWN:     {"XF86AudioLowerVolume"},
	evdev.KEY_VOLUMEUP:       {"XF86AudioRaiseVolume"},
	evdev.KEY_PLAYPAUSE:      {"XF86AudioPlay"},
	evdev.KEY_BRIGHTNESSDOWN: {"XF86MonBrightnessDown"},
	evdev.KEY_BRIGHTNESSUP:   {"XF86MonBrightnessUp"},
}

var usSymbols = symbolTable{
	evdev.KEY_1: {"1", "exclam"}, evdev.KEY_2: {"2", "at"},
	evdev.KEY_3: {"3", "numbersign"}, evdev.KEY_4: {"4", "dollar"},
	evdev.KEY_5: {"5", "percent"}, evdev.KEY_6: {"6", "asciicircum"},
	evdev.KEY_7: {"7", "ampersand"}, evdev.KEY_8: {"8", "asterisk"},
	evdev.KEY_9: {"9", "parenleft"}, evdev.KEY_0: {"0", "parenright"},

	evdev.KEY_MINUS:      {"minus", "underscore"},
	evdev.KEY_EQUAL:      {"equal", "plus"},
	evdev.KEY_LEFTBRACE:  {"bracketleft", "braceleft"},
	evdev.KEY_RIGHTBRACE: {"bracketright", "braceright"},
	evdev.KEY_SEMICOLON:  {"semicolon", "colon"},
	evdev.KEY_APOSTROPHE: {"apostrophe", "quotedbl"},
	evdev.KEY_GRAVE:      {"grave", "asciitilde"},
	evdev.KEY_BACKSLASH:  {"backslash", "bar"},
	evdev.KEY_COMMA:      {"comma", "less"},
	evdev.KEY_DOT:        {"period", "greater"},
	evdev.KEY_SLASH:      {"slash", "question"},
	evdev.KEY_102ND:      {"less", "greater"},
}

var deSymbols = symbolTable{
	evdev.KEY_1: {"1", "exclam"}, evdev.KEY_2: {"2", "quotedbl"},
	evdev.KEY_3: {"3", "section"}, evdev.KEY_4: {"4", "dollar"},
	evdev.KEY_5: {"5", "percent"}, evdev.KEY_6: {"6", "ampersand"},
	evdev.KEY_7: {"7", "slash", "braceleft"},
	evdev.KEY_8: {"8", "parenleft", "bracketleft"},
	evdev.KEY_9: {"9", "parenright", "bracketright"},
	evdev.KEY_0: {"0", "equal", "braceright"},

	evdev.KEY_Q: {"q", "Q", "at"},
	evdev.KEY_Y: {"z", "Z"},
	evdev.KEY_Z: {"y", "Y"},

	evdev.KEY_MINUS:      {"ssharp", "question", "backslash"},
	evdev.KEY_EQUAL:      {"dead_acute", "dead_grave"},
	evdev.KEY_LEFTBRACE:  {"udiaeresis", "Udiaeresis"},
	evdev.KEY_RIGHTBRACE: {"plus", "asterisk", "asciitilde"},
	evdev.KEY_SEMICOLON:  {"odiaeresis", "Odiaeresis"},
	evdev.KEY_APOSTROPHE: {"adiaeresis", "Adiaeresis"},
	evdev.KEY_GRAVE:      {"dead_circumflex", "degree"},
	evdev.KEY_BACKSLASH:  {"numbersign", "apostrophe"},
	evdev.KEY_COMMA:      {"comma", "semicolon"},
	evdev.KEY_DOT:        {"period", "colon"},
	evdev.KEY_SLASH:      {"minus", "underscore"},
	evdev.KEY_102ND:      {"less", "greater", "bar"},
	evdev.KEY_RIGHTALT:   {"ISO_Level3_Shift"},
}

var builtins = map[string]builtin{
	"us": {
		name:    "English (US)",
		symbols: usSymbols,
	},
	"de": {
		name:    "German",
		symbols: deSymbols,
		variants: map[string]variant{
			"nodeadkeys": {
				name: "German (no dead keys)",
				symbols: symbolTable{
					evdev.KEY_EQUAL: {"acute", "grave"},
					evdev.KEY_GRAVE: {"asciicircum", "degree"},
				},
			},
		},
	},
}

// keys resolves the builtin into a keycode table for the given variant.
func (b builtin) keys(variantName string) (string, map[key.Keycode][]key.Keysym, error) {
	name := b.name
	tables := []symbolTable{pcKeys, latinLetters, b.symbols}
	if variantName != "" {
		v, ok := b.variants[variantName]
		if !ok {
			return "", nil, errors.Wrapf(ErrUnknownLayout, "variant %q", variantName)
		}
		name = v.name
		tables = append(tables, v.symbols)
	}

	keys := make(map[key.Keycode][]key.Keysym)
	for _, table := range tables {
		for code, names := range table {
			keys[key.FromEvdev(code)] = mustSyms(names)
		}
	}
	return name, keys, nil
}

// mustSyms resolves keysym names from the builtin tables.
func mustSyms(names []string) []key.Keysym {
	syms := make([]key.Keysym, len(names))
	for i, name := range names {
		sym, ok := key.KeysymFromName(name, false)
		if !ok {
			panic(fmt.Sprintf("layout: builtin keysym %q is unknown", name))
		}
		syms[i] = sym
	}
	return syms
}
