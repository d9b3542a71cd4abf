// Package shortcut tracks which keys are currently held for binding matching.
//
// A State keeps a bounded, sorted set of key identifiers together with the
// keycode that produced each one. A keyboard keeps one State per
// interpretation of a key event (keycode, raw keysym, translated keysym) plus
// one that records which keycodes were forwarded to the client as pressed.
//
// Identifiers are plain uint32 values so the same tracker serves keycodes and
// keysyms. The same identifier may be held twice when two different keycodes
// produce it.
package shortcut
