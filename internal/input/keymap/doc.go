// Package keymap holds configured key bindings and selects the binding that
// matches the current keyboard state.
//
// Bindings come in two flavors. Keysym bindings ("bindsym") name symbolic
// keys such as "Mod4+Return" and are matched against both the raw and the
// layout-translated keysym states. Keycode bindings ("bindcode") name
// physical keys such as "Mod4+36" and are matched against the keycode state.
//
// # Key Specifications
//
// A key specification is a '+' separated list of tokens:
//
//   - Modifier names: "Shift", "Lock", "Control", "Ctrl", "Mod1"-"Mod5", "Alt"
//   - Layout group scopes: "Group1" through "Group4"
//   - Keys: keysym names ("Return", "q") or decimal xkb keycodes ("36")
//
// # Selection
//
// Matcher.Best scans a binding list in declaration order and keeps a running
// best match. A device-specific binding beats a wildcard one, a binding
// scoped to the active layout group beats one that is not, and a binding
// whose lock flag fits the lock context wins after that. Equal candidates
// keep the earlier binding and log a conflict.
package keymap
