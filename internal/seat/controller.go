package seat

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/seatkeys/internal/config"
	"github.com/dshills/seatkeys/internal/input/key"
	"github.com/dshills/seatkeys/internal/input/keymap"
	"github.com/dshills/seatkeys/internal/input/layout"
	"github.com/dshills/seatkeys/internal/ipc"
)

// Key feeds a key event from the physical keyboard h.
func (s *Seat) Key(h Handle, ev key.Event) error {
	kb := s.devices.get(h)
	if kb == nil {
		return ErrStaleHandle
	}
	if kb.owner != nil {
		return ErrSyntheticDevice
	}
	kb.notifyKey(ev)
	return nil
}

// spaceInput is what one interpretation space contributes to matching.
type spaceInput struct {
	bindings  []*keymap.Binding
	modifiers key.Modifier
}

// best runs the matcher over the keycode, raw keysym and translated
// keysym spaces in that order, carrying the best binding across them.
func (s *Seat) best(kb *Keyboard, spaces [numSpaces]spaceInput, q keymap.Query) *keymap.Binding {
	var b *keymap.Binding
	for i := range spaces {
		q.Modifiers = spaces[i].modifiers
		b = s.matcher.Best(b, &kb.states[i], spaces[i].bindings, q)
	}
	return b
}

// handleKey runs the binding state machine for one key event on kb.
func (s *Seat) handleKey(kb *Keyboard, ev key.Event) {
	identifier := kb.Identifier()
	exact := kb.group != nil
	s.idle.NotifyActivity(IdleSourceKeyboard)

	kc := ev.Keycode()
	rawSyms := kb.rawKeysyms(kc)
	translatedSyms, consumed := kb.translatedKeysyms(kc)
	codeMods := kb.effective()
	rawMods := codeMods
	translatedMods := codeMods &^ consumed

	kb.states[spaceKeycode].Update(ev, uint32(kc), codeMods)
	for _, sym := range rawSyms {
		kb.states[spaceRaw].Update(ev, uint32(sym), codeMods)
	}
	for _, sym := range translatedSyms {
		kb.states[spaceTranslated].Update(ev, uint32(sym), codeMods)
	}

	mode := s.currentMode()
	spaces := [numSpaces]spaceInput{
		spaceKeycode:    {bindings: mode.KeycodeBindings, modifiers: codeMods},
		spaceRaw:        {bindings: mode.KeysymBindings, modifiers: rawMods},
		spaceTranslated: {bindings: mode.KeysymBindings, modifiers: translatedMods},
	}
	q := keymap.Query{
		Release:    true,
		Locked:     s.locked,
		Input:      identifier,
		ExactInput: exact,
		Group:      kb.effectiveLayout,
	}

	released := s.best(kb, spaces, q)

	// A held release binding fires once it stops matching on a release.
	var fire *keymap.Binding
	if kb.held != nil && released != kb.held && !ev.Pressed() {
		fire = kb.held
	}
	if released != kb.held {
		kb.held = nil
	}
	if released != nil && ev.Pressed() {
		kb.held = released
	}

	var binding *keymap.Binding
	if ev.Pressed() {
		q.Release = false
		binding = s.best(kb, spaces, q)
	}

	// The timer is updated before executing, since the command may
	// destroy the keyboard.
	if binding != nil && kb.repeatDelay > 0 {
		kb.repeat = binding
		if err := kb.repeatTimer.Update(kb.repeatDelay); err != nil {
			s.log.WithError(err).Debug("Failed to set key repeat timer")
		}
	} else if kb.repeat != nil {
		kb.disarmRepeat()
	}

	handled := false
	if fire != nil {
		s.execute(fire)
		handled = true
	}
	if binding != nil {
		s.execute(binding)
		handled = true
	}
	if handled && !s.alive(kb) {
		s.commit()
		return
	}

	if !handled && exact {
		// Grouped keyboards only handle their device specific bindings;
		// the group keyboard handles the rest.
		return
	}

	if !handled && ev.Pressed() {
		handled = s.executeBuiltin(translatedSyms)
		if !handled {
			handled = s.executeBuiltin(rawSyms)
		}
	}

	if !handled || !ev.Pressed() {
		sent := kb.pressedSent.Update(ev, uint32(kc), key.ModNone)
		if sent || ev.Pressed() {
			s.client.SetKeyboard(kb.handle)
			s.client.NotifyKey(ev.TimeMsec, ev.Code, ev.State)
		}
	}

	s.commit()
}

// handleRepeat runs the repeat binding of kb. The next tick is scheduled
// before the command runs, so the command can still cancel it.
func (s *Seat) handleRepeat(kb *Keyboard) {
	if kb.repeat == nil || !s.alive(kb) {
		return
	}
	if kb.repeatRate > 0 {
		if err := kb.repeatTimer.Update(1000 / kb.repeatRate); err != nil {
			s.log.WithError(err).Debug("Failed to update key repeat timer")
		}
	}
	s.execute(kb.repeat)
	s.commit()
}

// executeBuiltin handles the fixed virtual terminal switch keysyms.
func (s *Seat) executeBuiltin(syms []key.Keysym) bool {
	for _, sym := range syms {
		if !sym.IsSwitchVT() {
			continue
		}
		vt := int(sym-key.KeySwitchVT1) + 1
		if s.session != nil {
			if err := s.session.ChangeVT(vt); err != nil {
				s.log.WithError(err).WithField("vt", vt).Error("Failed to change virtual terminal")
			}
		}
		return true
	}
	return false
}

// handleModifiers forwards modifier changes and tracks the active layout
// group of kb.
func (s *Seat) handleModifiers(kb *Keyboard, mods layout.Modifiers) {
	if kb.group == nil {
		s.client.SetKeyboard(kb.handle)
		s.client.NotifyModifiers(mods)
		s.updateBarVisibility(mods.Effective())
	}

	if mods.Group != kb.effectiveLayout {
		kb.effectiveLayout = mods.Group
		if kb.owner == nil {
			s.notifyInput(ipc.ChangeLayout, kb)
		}
	}
}

type barState struct {
	bar     config.Bar
	mask    key.Modifier
	visible bool
}

func newBarStates(bars []config.Bar, log *logrus.Entry) []barState {
	out := make([]barState, 0, len(bars))
	for _, b := range bars {
		mask, err := b.ModifierMask()
		if err != nil {
			log.WithError(err).WithField("bar", b.ID).Error("Ignoring bar modifier")
		}
		out = append(out, barState{bar: b, mask: mask})
	}
	return out
}

// updateBarVisibility shows bars whose modifier is held. A bar that is
// not visible by modifier only changes state when its mode is its hidden
// state.
func (s *Seat) updateBarVisibility(mods key.Modifier) {
	for i := range s.bars {
		b := &s.bars[i]
		if b.mask == key.ModNone {
			continue
		}
		visible := ^mods&b.mask == 0
		if b.visible == visible {
			continue
		}
		if b.visible || b.bar.Mode == b.bar.HiddenState {
			b.visible = visible
			s.notifier.BarStateUpdate(b.bar.ID, visible)
		}
	}
}

// BarVisible reports whether the bar with the given id is shown by its
// modifier.
func (s *Seat) BarVisible(id string) bool {
	for _, b := range s.bars {
		if b.bar.ID == id {
			return b.visible
		}
	}
	return false
}
