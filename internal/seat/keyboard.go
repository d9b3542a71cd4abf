package seat

import (
	"sort"

	"github.com/dshills/seatkeys/internal/event"
	"github.com/dshills/seatkeys/internal/eventloop"
	"github.com/dshills/seatkeys/internal/input/key"
	"github.com/dshills/seatkeys/internal/input/keymap"
	"github.com/dshills/seatkeys/internal/input/layout"
	"github.com/dshills/seatkeys/internal/input/shortcut"
	"github.com/dshills/seatkeys/internal/ipc"
)

// Interpretation spaces of a key event.
const (
	spaceKeycode = iota
	spaceRaw
	spaceTranslated
	numSpaces
)

// Keyboard is a keyboard attached to a seat: either a physical device or
// the synthetic keyboard of a Group.
type Keyboard struct {
	seat   *Seat
	handle Handle
	device Device

	// group is the group a physical keyboard belongs to.
	group *Group
	// owner is set on a group's synthetic keyboard.
	owner *Group

	layout          *layout.Layout
	xkb             *layout.State
	effectiveLayout int
	repeatRate      int
	repeatDelay     int

	// pressed holds the keycodes currently down on the device.
	pressed map[key.Keycode]struct{}

	states      [numSpaces]shortcut.State
	pressedSent shortcut.State

	held        *keymap.Binding
	repeat      *keymap.Binding
	repeatTimer *eventloop.Timer

	keys      event.Signal[key.Event]
	modifiers event.Signal[layout.Modifiers]

	keyListener  event.ListenerID
	modsListener event.ListenerID
}

// Handle returns the keyboard's handle.
func (kb *Keyboard) Handle() Handle {
	return kb.handle
}

// Device returns the device description.
func (kb *Keyboard) Device() Device {
	return kb.device
}

// Identifier returns the device identifier.
func (kb *Keyboard) Identifier() string {
	return kb.device.Identifier()
}

// Synthetic reports whether kb is a group keyboard.
func (kb *Keyboard) Synthetic() bool {
	return kb.owner != nil
}

// Group returns the group kb belongs to, or nil.
func (kb *Keyboard) Group() *Group {
	return kb.group
}

// Layout returns the compiled layout, or nil before the first successful
// configure.
func (kb *Keyboard) Layout() *layout.Layout {
	return kb.layout
}

// Modifiers returns the keyboard's modifier state.
func (kb *Keyboard) Modifiers() layout.Modifiers {
	if kb.xkb == nil {
		return layout.Modifiers{}
	}
	return kb.xkb.Modifiers()
}

// EffectiveLayout returns the last layout group the keyboard reported.
func (kb *Keyboard) EffectiveLayout() int {
	return kb.effectiveLayout
}

// RepeatInfo returns the repeat rate in Hz and delay in milliseconds.
func (kb *Keyboard) RepeatInfo() (rate, delay int) {
	return kb.repeatRate, kb.repeatDelay
}

// Pressed returns the keycodes held on the device, sorted.
func (kb *Keyboard) Pressed() []key.Keycode {
	out := make([]key.Keycode, 0, len(kb.pressed))
	for kc := range kb.pressed {
		out = append(out, kc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (kb *Keyboard) effective() key.Modifier {
	if kb.xkb == nil {
		return key.ModNone
	}
	return kb.xkb.Effective()
}

func (kb *Keyboard) rawKeysyms(kc key.Keycode) []key.Keysym {
	if kb.xkb == nil {
		return nil
	}
	return kb.xkb.RawKeysyms(kc)
}

func (kb *Keyboard) translatedKeysyms(kc key.Keycode) ([]key.Keysym, key.Modifier) {
	if kb.xkb == nil {
		return nil, key.ModNone
	}
	return kb.xkb.TranslatedKeysyms(kc)
}

// notifyKey delivers a key event from the device. Listeners see the
// modifier state from before the key; the modifiers signal follows when
// the key changed it.
func (kb *Keyboard) notifyKey(ev key.Event) {
	kc := ev.Keycode()
	if ev.Pressed() {
		kb.pressed[kc] = struct{}{}
	} else {
		delete(kb.pressed, kc)
	}

	kb.keys.Emit(ev)
	if !kb.seat.alive(kb) || kb.xkb == nil {
		return
	}
	if kb.xkb.UpdateKey(kc, ev.Pressed()) {
		kb.modifiers.Emit(kb.xkb.Modifiers())
	}
}

// setLocked replaces the locked modifiers and the active group.
func (kb *Keyboard) setLocked(locked key.Modifier, group int) {
	if kb.xkb == nil {
		return
	}
	before := kb.xkb.Modifiers()
	kb.xkb.SetLocked(before.Locked&^locked, false)
	kb.xkb.SetLocked(locked, true)
	kb.xkb.SetGroup(group)
	if after := kb.xkb.Modifiers(); after != before {
		kb.modifiers.Emit(after)
	}
}

// setLayout installs l with a fresh state. Keys still held are replayed
// into the new state.
func (kb *Keyboard) setLayout(l *layout.Layout) {
	var before layout.Modifiers
	if kb.xkb != nil {
		before = kb.xkb.Modifiers()
	}
	kb.layout = l
	kb.xkb = layout.NewState(l)
	for _, kc := range kb.Pressed() {
		kb.xkb.UpdateKey(kc, true)
	}
	if after := kb.xkb.Modifiers(); after != before {
		kb.modifiers.Emit(after)
	}
}

func (kb *Keyboard) setRepeatInfo(rate, delay int) {
	if rate < 0 {
		rate = 0
	}
	if delay < 0 {
		delay = 0
	}
	kb.repeatRate, kb.repeatDelay = rate, delay

	if g := kb.group; g != nil && g.leader() == kb {
		g.keyboard.repeatRate, g.keyboard.repeatDelay = rate, delay
	}
}

// listen registers the handlers that drive bindings from kb's signals,
// replacing earlier registrations. Handlers added by a group before
// this call run first.
func (kb *Keyboard) listen(onKey func(key.Event), onMods func(layout.Modifiers)) {
	kb.unlisten()
	kb.keyListener = kb.keys.Add(onKey)
	kb.modsListener = kb.modifiers.Add(onMods)
}

func (kb *Keyboard) unlisten() {
	kb.keys.Remove(kb.keyListener)
	kb.modifiers.Remove(kb.modsListener)
	kb.keyListener, kb.modsListener = 0, 0
}

func (kb *Keyboard) disarmRepeat() {
	kb.repeat = nil
	if kb.repeatTimer == nil {
		return
	}
	if err := kb.repeatTimer.Update(0); err != nil {
		kb.seat.log.WithError(err).Debug("Failed to disarm key repeat timer")
	}
}

func (kb *Keyboard) info() ipc.InputInfo {
	info := ipc.InputInfo{
		Identifier:  kb.Identifier(),
		Name:        kb.device.Name,
		Vendor:      kb.device.Vendor,
		Product:     kb.device.Product,
		ActiveIndex: -1,
		RepeatDelay: kb.repeatDelay,
		RepeatRate:  kb.repeatRate,
	}
	if kb.layout != nil {
		for g := 0; g < kb.layout.NumGroups(); g++ {
			info.LayoutNames = append(info.LayoutNames, kb.layout.GroupName(g))
		}
	}
	if kb.xkb != nil {
		info.ActiveIndex = kb.xkb.Group()
	}
	return info
}
