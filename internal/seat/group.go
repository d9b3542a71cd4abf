package seat

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dshills/seatkeys/internal/config"
	"github.com/dshills/seatkeys/internal/event"
	"github.com/dshills/seatkeys/internal/input/key"
	"github.com/dshills/seatkeys/internal/input/layout"
)

// GroupDeviceName is the device name of every group keyboard.
const GroupDeviceName = "wlr_keyboard_group"

// Group merges physical keyboards with equal layouts. Its synthetic
// keyboard receives a key press when the first member presses it and the
// release when the last member lets go.
type Group struct {
	id       uuid.UUID
	keyboard *Keyboard
	members  []*member

	// keys counts the members holding each keycode.
	keys map[key.Keycode]int
}

type member struct {
	kb           *Keyboard
	keyListener  event.ListenerID
	modsListener event.ListenerID
}

// ID returns the group id.
func (g *Group) ID() uuid.UUID {
	return g.id
}

// Keyboard returns the synthetic keyboard.
func (g *Group) Keyboard() *Keyboard {
	return g.keyboard
}

// Members returns the physical keyboards in the group, in join order.
func (g *Group) Members() []*Keyboard {
	out := make([]*Keyboard, len(g.members))
	for i, m := range g.members {
		out[i] = m.kb
	}
	return out
}

func (g *Group) leader() *Keyboard {
	if len(g.members) == 0 {
		return nil
	}
	return g.members[0].kb
}

func (g *Group) join(kb *Keyboard) {
	m := &member{kb: kb}
	m.keyListener = kb.keys.Add(func(ev key.Event) { g.memberKey(ev) })
	m.modsListener = kb.modifiers.Add(func(mods layout.Modifiers) { g.memberModifiers(kb, mods) })
	if len(g.members) == 0 {
		g.keyboard.repeatRate, g.keyboard.repeatDelay = kb.repeatRate, kb.repeatDelay
	}
	g.members = append(g.members, m)
	kb.group = g
}

// leave detaches kb, releasing the keys only it was holding. The group
// keyboard takes its repeat settings from the remaining first member.
func (g *Group) leave(kb *Keyboard) {
	for i, m := range g.members {
		if m.kb != kb {
			continue
		}
		kb.keys.Remove(m.keyListener)
		kb.modifiers.Remove(m.modsListener)
		g.members = append(g.members[:i:i], g.members[i+1:]...)
		break
	}
	kb.group = nil
	if l := g.leader(); l != nil {
		g.keyboard.repeatRate, g.keyboard.repeatDelay = l.repeatRate, l.repeatDelay
	}

	for _, kc := range kb.Pressed() {
		g.release(kc)
	}
}

func (g *Group) memberKey(ev key.Event) {
	kc := ev.Keycode()
	if ev.Pressed() {
		g.keys[kc]++
		if g.keys[kc] > 1 {
			return
		}
		g.keyboard.notifyKey(ev)
		return
	}
	if g.keys[kc] == 0 {
		return
	}
	g.keys[kc]--
	if g.keys[kc] > 0 {
		return
	}
	delete(g.keys, kc)
	g.keyboard.notifyKey(ev)
}

func (g *Group) release(kc key.Keycode) {
	if g.keys[kc] == 0 {
		return
	}
	if g.keys[kc]--; g.keys[kc] == 0 {
		delete(g.keys, kc)
		g.keyboard.notifyKey(key.Event{Code: uint32(kc - key.EvdevOffset), State: key.Released})
	}
}

// memberModifiers spreads a member's locked modifiers and active layout
// group to the group keyboard and the other members.
func (g *Group) memberModifiers(from *Keyboard, mods layout.Modifiers) {
	if g.keyboard.xkb == nil {
		return
	}
	g.keyboard.setLocked(mods.Locked, mods.Group)
	for _, m := range g.Members() {
		if m != from && m.group == g {
			m.setLocked(mods.Locked, mods.Group)
		}
	}
}

// removeInvalidFromGroup detaches kb from its group when grouping is
// disabled or its layout no longer matches the group's.
func (s *Seat) removeInvalidFromGroup(kb *Keyboard) {
	g := kb.group
	if g == nil {
		return
	}
	switch s.grouping() {
	case config.GroupingNone:
		s.removeFromGroup(kb)
	default:
		if !layout.Equal(kb.layout, g.keyboard.layout) {
			s.removeFromGroup(kb)
		}
	}
}

// addToGroup puts kb in the first group with an equal layout, creating a
// group when there is none.
func (s *Seat) addToGroup(kb *Keyboard) {
	if s.grouping() == config.GroupingNone {
		return
	}
	for _, g := range s.groups {
		if layout.Equal(kb.layout, g.keyboard.layout) {
			s.log.WithFields(logrus.Fields{
				"keyboard": kb.Identifier(),
				"group":    g.id,
			}).Debug("Adding keyboard to group")
			g.join(kb)
			return
		}
	}

	g := &Group{
		id:   uuid.New(),
		keys: make(map[key.Keycode]int),
	}
	synth, err := s.newKeyboard(Device{
		SysName: "group-" + g.id.String(),
		Name:    GroupDeviceName,
	})
	if err != nil {
		s.log.WithError(err).Error("Failed to create keyboard group")
		return
	}
	synth.owner = g
	synth.setLayout(kb.layout)
	g.keyboard = synth
	s.log.WithField("group", g.id).Debug("Created keyboard group")

	s.log.WithFields(logrus.Fields{
		"keyboard": kb.Identifier(),
		"group":    g.id,
	}).Debug("Adding keyboard to group")
	g.join(kb)

	s.groups = append([]*Group{g}, s.groups...)
	s.groupByID[g.id] = g
	synth.listen(
		func(ev key.Event) { s.handleKey(synth, ev) },
		func(mods layout.Modifiers) { s.handleModifiers(synth, mods) },
	)
}

// removeFromGroup detaches kb and destroys its group once empty.
func (s *Seat) removeFromGroup(kb *Keyboard) {
	g := kb.group
	if g == nil {
		return
	}
	s.log.WithFields(logrus.Fields{
		"keyboard": kb.Identifier(),
		"group":    g.id,
	}).Debug("Removing keyboard from group")
	g.leave(kb)

	if len(g.members) > 0 {
		return
	}
	s.log.WithField("group", g.id).Debug("Destroying empty keyboard group")
	for i, other := range s.groups {
		if other == g {
			s.groups = append(s.groups[:i:i], s.groups[i+1:]...)
			break
		}
	}
	delete(s.groupByID, g.id)
	s.destroy(g.keyboard)
}
