// Package key provides the primitive types shared by the keyboard binding core.
//
// This package defines:
//
//   - Keycode: a physical key position in xkb numbering (evdev code + 8)
//   - Keysym: a symbolic key meaning, using X11 keysym values
//   - Modifier: a modifier mask (Shift, Lock, Control, Mod1-Mod5)
//   - Event: a single raw press or release delivered by an input device
//
// # Key Names
//
// Keysyms are named the way xkb names them ("Return", "a", "XF86Switch_VT_1").
// Modifiers accept both the xkb names and the common aliases:
//
//   - "Shift", "Lock", "Control" or "Ctrl", "Mod1" or "Alt"
//   - "Mod2" (usually NumLock), "Mod3", "Mod4" (the logo key), "Mod5"
package key
