package seat

import (
	"github.com/pkg/errors"

	"github.com/dshills/seatkeys/internal/input/key"
	"github.com/dshills/seatkeys/internal/input/layout"
	"github.com/dshills/seatkeys/internal/ipc"
)

// Create attaches a keyboard for dev. The keyboard has no layout and
// ignores bindings until it is configured.
func (s *Seat) Create(dev Device) (Handle, error) {
	if dev.SysName == "" {
		return Handle{}, errors.New("device has no system name")
	}
	if _, ok := s.names.Get(dev.SysName); ok {
		return Handle{}, errors.Wrapf(ErrDuplicateDevice, "device %q", dev.SysName)
	}
	kb, err := s.newKeyboard(dev)
	if err != nil {
		return Handle{}, err
	}
	s.log.WithField("keyboard", kb.Identifier()).Debug("Created keyboard")
	return kb.handle, nil
}

// AddKeyboard creates and configures a keyboard for dev.
func (s *Seat) AddKeyboard(dev Device) (Handle, error) {
	h, err := s.Create(dev)
	if err != nil {
		return Handle{}, err
	}
	if err := s.Configure(h); err != nil {
		return Handle{}, err
	}
	return h, nil
}

func (s *Seat) newKeyboard(dev Device) (*Keyboard, error) {
	kb := &Keyboard{
		seat:    s,
		device:  dev,
		pressed: make(map[key.Keycode]struct{}),
	}
	timer, err := s.loop.AddTimer(func() { s.handleRepeat(kb) })
	if err != nil {
		return nil, errors.Wrap(err, "add key repeat timer")
	}
	kb.repeatTimer = timer
	kb.handle = s.devices.insert(kb)
	s.names.Insert(dev.SysName, kb.handle)
	return kb, nil
}

// Configure compiles the keyboard's layout from the configuration and
// applies it, together with its repeat settings and group membership.
// Layout compile failures fall back to the default layout; when that also
// fails the keyboard keeps its previous layout.
func (s *Seat) Configure(h Handle) error {
	kb := s.devices.get(h)
	if kb == nil {
		return ErrStaleHandle
	}
	if kb.owner != nil {
		return ErrSyntheticDevice
	}
	s.configure(kb)
	return nil
}

func (s *Seat) configure(kb *Keyboard) {
	log := s.log.WithField("keyboard", kb.Identifier())
	in := s.cfg.InputFor(kb.Identifier())

	l, err := s.compile(in.LayoutSource())
	if err != nil {
		log.WithError(err).Error("Failed to compile keymap. Attempting defaults")
		l, err = s.compile(layout.Source{})
		if err != nil {
			log.WithError(err).Error("Failed to compile default keymap. Aborting configure")
			return
		}
	}

	keymapChanged := kb.layout == nil || !layout.Equal(kb.layout, l)
	layoutChanged := kb.effectiveLayout != 0

	if keymapChanged || s.reloading {
		kb.layout = l
		kb.effectiveLayout = 0

		s.removeInvalidFromGroup(kb)
		kb.setLayout(l)
		if kb.group == nil {
			s.addToGroup(kb)
		}

		var locked key.Modifier
		if in.XkbNumlock != nil && *in.XkbNumlock {
			locked |= key.ModMod2
		}
		if in.XkbCapslock != nil && *in.XkbCapslock {
			locked |= key.ModCaps
		}
		if locked != key.ModNone {
			kb.setLocked(locked, 0)
		}
	} else {
		s.removeInvalidFromGroup(kb)
		if kb.group == nil {
			s.addToGroup(kb)
		}
	}

	kb.setRepeatInfo(in.Repeat())
	s.client.SetKeyboard(kb.handle)

	kb.listen(
		func(ev key.Event) { s.handleKey(kb, ev) },
		func(mods layout.Modifiers) { s.handleModifiers(kb, mods) },
	)

	switch {
	case keymapChanged:
		s.notifyInput(ipc.ChangeKeymap, kb)
	case layoutChanged:
		s.notifyInput(ipc.ChangeLayout, kb)
	}
}

// Destroy detaches the keyboard h from the seat.
func (s *Seat) Destroy(h Handle) error {
	kb := s.devices.get(h)
	if kb == nil {
		return ErrStaleHandle
	}
	if kb.owner != nil {
		return ErrSyntheticDevice
	}
	s.destroy(kb)
	return nil
}

func (s *Seat) destroy(kb *Keyboard) {
	if kb.group != nil {
		s.removeFromGroup(kb)
	}
	if s.client.Keyboard() == kb.handle {
		s.client.SetKeyboard(Handle{})
	}
	kb.unlisten()
	kb.disarmRepeat()
	kb.repeatTimer.Remove()
	kb.held = nil

	s.names.Delete(kb.device.SysName)
	s.devices.remove(kb.handle)
	s.log.WithField("keyboard", kb.Identifier()).Debug("Destroyed keyboard")
}
