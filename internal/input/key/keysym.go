package key

import (
	"fmt"
	"strings"
)

// Keysym is a symbolic key meaning using X11 keysym values.
type Keysym uint32

// Keysyms referenced directly by the binding core and the builtin layouts.
const (
	NoSymbol Keysym = 0

	KeyBackSpace      Keysym = 0xff08
	KeyTab            Keysym = 0xff09
	KeyReturn         Keysym = 0xff0d
	KeyEscape         Keysym = 0xff1b
	KeyShiftL         Keysym = 0xffe1
	KeyShiftR         Keysym = 0xffe2
	KeyControlL       Keysym = 0xffe3
	KeyControlR       Keysym = 0xffe4
	KeyCapsLock       Keysym = 0xffe5
	KeyAltL           Keysym = 0xffe9
	KeyAltR           Keysym = 0xffea
	KeySuperL         Keysym = 0xffeb
	KeySuperR         Keysym = 0xffec
	KeyNumLock        Keysym = 0xff7f
	KeyISOLevel3Shift Keysym = 0xfe03
	KeyISONextGroup   Keysym = 0xfe08
	KeyISOPrevGroup   Keysym = 0xfe0a

	KeySwitchVT1  Keysym = 0x1008fe01
	KeySwitchVT12 Keysym = 0x1008fe0c
)

var keysymNames = map[string]Keysym{
	"space":        0x0020,
	"exclam":       0x0021,
	"quotedbl":     0x0022,
	"numbersign":   0x0023,
	"dollar":       0x0024,
	"percent":      0x0025,
	"ampersand":    0x0026,
	"apostrophe":   0x0027,
	"parenleft":    0x0028,
	"parenright":   0x0029,
	"asterisk":     0x002a,
	"plus":         0x002b,
	"comma":        0x002c,
	"minus":        0x002d,
	"period":       0x002e,
	"slash":        0x002f,
	"0":            0x0030,
	"1":            0x0031,
	"2":            0x0032,
	"3":            0x0033,
	"4":            0x0034,
	"5":            0x0035,
	"6":            0x0036,
	"7":            0x0037,
	"8":            0x0038,
	"9":            0x0039,
	"colon":        0x003a,
	"semicolon":    0x003b,
	"less":         0x003c,
	"equal":        0x003d,
	"greater":      0x003e,
	"question":     0x003f,
	"at":           0x0040,
	"A":            0x0041,
	"B":            0x0042,
	"C":            0x0043,
	"D":            0x0044,
	"E":            0x0045,
	"F":            0x0046,
	"G":            0x0047,
	"H":            0x0048,
	"I":            0x0049,
	"J":            0x004a,
	"K":            0x004b,
	"L":            0x004c,
	"M":            0x004d,
	"N":            0x004e,
	"O":            0x004f,
	"P":            0x0050,
	"Q":            0x0051,
	"R":            0x0052,
	"S":            0x0053,
	"T":            0x0054,
	"U":            0x0055,
	"V":            0x0056,
	"W":            0x0057,
	"X":            0x0058,
	"Y":            0x0059,
	"Z":            0x005a,
	"bracketleft":  0x005b,
	"backslash":    0x005c,
	"bracketright": 0x005d,
	"asciicircum":  0x005e,
	"underscore":   0x005f,
	"grave":        0x0060,
	"a":            0x0061,
	"b":            0x0062,
	"c":            0x0063,
	"d":            0x0064,
	"e":            0x0065,
	"f":            0x0066,
	"g":            0x0067,
	"h":            0x0068,
	"i":            0x0069,
	"j":            0x006a,
	"k":            0x006b,
	"l":            0x006c,
	"m":            0x006d,
	"n":            0x006e,
	"o":            0x006f,
	"p":            0x0070,
	"q":            0x0071,
	"r":            0x0072,
	"s":            0x0073,
	"t":            0x0074,
	"u":            0x0075,
	"v":            0x0076,
	"w":            0x0077,
	"x":            0x0078,
	"y":            0x0079,
	"z":            0x007a,
	"braceleft":    0x007b,
	"bar":          0x007c,
	"braceright":   0x007d,
	"asciitilde":   0x007e,
	"section":      0x00a7,
	"degree":       0x00b0,
	"acute":        0x00b4,
	"Adiaeresis":   0x00c4,
	"Odiaeresis":   0x00d6,
	"Udiaeresis":   0x00dc,
	"ssharp":       0x00df,
	"adiaeresis":   0x00e4,
	"odiaeresis":   0x00f6,
	"udiaeresis":   0x00fc,

	"BackSpace":        0xff08,
	"Tab":              0xff09,
	"Return":           0xff0d,
	"Pause":            0xff13,
	"Scroll_Lock":      0xff14,
	"Escape":           0xff1b,
	"Home":             0xff50,
	"Left":             0xff51,
	"Up":               0xff52,
	"Right":            0xff53,
	"Down":             0xff54,
	"Prior":            0xff55,
	"Next":             0xff56,
	"End":              0xff57,
	"Print":            0xff61,
	"Insert":           0xff63,
	"Menu":             0xff67,
	"Num_Lock":         0xff7f,
	"KP_Enter":         0xff8d,
	"F1":               0xffbe,
	"F2":               0xffbf,
	"F3":               0xffc0,
	"F4":               0xffc1,
	"F5":               0xffc2,
	"F6":               0xffc3,
	"F7":               0xffc4,
	"F8":               0xffc5,
	"F9":               0xffc6,
	"F10":              0xffc7,
	"F11":              0xffc8,
	"F12":              0xffc9,
	"Shift_L":          0xffe1,
	"Shift_R":          0xffe2,
	"Control_L":        0xffe3,
	"Control_R":        0xffe4,
	"Caps_Lock":        0xffe5,
	"Alt_L":            0xffe9,
	"Alt_R":            0xffea,
	"Super_L":          0xffeb,
	"Super_R":          0xffec,
	"Delete":           0xffff,
	"ISO_Level3_Shift": 0xfe03,
	"ISO_Next_Group":   0xfe08,
	"ISO_Prev_Group":   0xfe0a,
	"dead_grave":       0xfe50,
	"dead_acute":       0xfe51,
	"dead_circumflex":  0xfe52,

	"XF86Switch_VT_1":       0x1008fe01,
	"XF86Switch_VT_2":       0x1008fe02,
	"XF86Switch_VT_3":       0x1008fe03,
	"XF86Switch_VT_4":       0x1008fe04,
	"XF86Switch_VT_5":       0x1008fe05,
	"XF86Switch_VT_6":       0x1008fe06,
	"XF86Switch_VT_7":       0x1008fe07,
	"XF86Switch_VT_8":       0x1008fe08,
	"XF86Switch_VT_9":       0x1008fe09,
	"XF86Switch_VT_10":      0x1008fe0a,
	"XF86Switch_VT_11":      0x1008fe0b,
	"XF86Switch_VT_12":      0x1008fe0c,
	"XF86AudioLowerVolume":  0x1008ff11,
	"XF86AudioMute":         0x1008ff12,
	"XF86AudioRaiseVolume":  0x1008ff13,
	"XF86AudioPlay":         0x1008ff14,
	"XF86MonBrightnessUp":   0x1008ff02,
	"XF86MonBrightnessDown": 0x1008ff03,
}

var (
	keysymByValue = make(map[Keysym]string, len(keysymNames))
	keysymByFold  = make(map[string]Keysym, len(keysymNames))
)

func init() {
	for name, sym := range keysymNames {
		keysymByValue[sym] = name
		// Case-insensitive lookups prefer the lowercase keysym.
		if folded := strings.ToLower(name); folded == name {
			keysymByFold[folded] = sym
		}
	}
	for name, sym := range keysymNames {
		folded := strings.ToLower(name)
		if _, ok := keysymByFold[folded]; !ok {
			keysymByFold[folded] = sym
		}
	}
}

// KeysymFromName looks up a keysym by its xkb name. With caseInsensitive
// set, lowercase keysyms are preferred: "Q" and "q" both resolve to q.
func KeysymFromName(name string, caseInsensitive bool) (Keysym, bool) {
	if caseInsensitive {
		if sym, ok := keysymByFold[strings.ToLower(name)]; ok {
			return sym, true
		}
	} else if sym, ok := keysymNames[name]; ok {
		return sym, true
	}
	if strings.HasPrefix(name, "0x") {
		var v uint32
		if _, err := fmt.Sscanf(name, "0x%x", &v); err == nil {
			return Keysym(v), true
		}
	}
	return NoSymbol, false
}

// String returns the xkb name, or a hex value for unnamed keysyms.
func (s Keysym) String() string {
	if name, ok := keysymByValue[s]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", uint32(s))
}

// IsLetter reports whether s is a Latin-1 letter with a case pair.
func (s Keysym) IsLetter() bool {
	return s.Lower() != s.Upper()
}

// Lower returns the lowercase form of a Latin-1 letter.
func (s Keysym) Lower() Keysym {
	switch {
	case s >= 'A' && s <= 'Z':
		return s + 0x20
	case s >= 0xc0 && s <= 0xde && s != 0xd7:
		return s + 0x20
	}
	return s
}

// Upper returns the uppercase form of a Latin-1 letter.
func (s Keysym) Upper() Keysym {
	switch {
	case s >= 'a' && s <= 'z':
		return s - 0x20
	case s >= 0xe0 && s <= 0xfe && s != 0xf7:
		return s - 0x20
	}
	return s
}

// IsSwitchVT reports whether s is one of XF86Switch_VT_1..12.
func (s Keysym) IsSwitchVT() bool {
	return s >= KeySwitchVT1 && s <= KeySwitchVT12
}
