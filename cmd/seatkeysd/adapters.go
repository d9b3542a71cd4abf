package main

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dshills/seatkeys/internal/input/key"
	"github.com/dshills/seatkeys/internal/input/keymap"
	"github.com/dshills/seatkeys/internal/input/layout"
	"github.com/dshills/seatkeys/internal/ipc"
	"github.com/dshills/seatkeys/internal/seat"
)

// commandExecutor reports every executed binding on the ipc stream.
// "mode <name>" commands switch the seat's binding mode; everything else
// is left to the ipc subscribers.
type commandExecutor struct {
	log      *logrus.Entry
	notifier *ipc.Notifier
	seat     *seat.Seat
}

func (e *commandExecutor) Execute(b *keymap.Binding) {
	e.log.WithFields(logrus.Fields{
		"binding": b.KeySpec(),
		"command": b.Command,
	}).Info("Running binding")
	e.notifier.Binding(bindingInfo(b))

	if name, ok := strings.CutPrefix(b.Command, "mode "); ok && e.seat != nil {
		name = strings.Trim(strings.TrimSpace(name), `"`)
		if err := e.seat.SetMode(name); err != nil {
			e.log.WithError(err).WithField("mode", name).Warn("Failed to switch mode")
		}
	}
}

func bindingInfo(b *keymap.Binding) ipc.BindingInfo {
	info := ipc.BindingInfo{
		Command:   b.Command,
		Modifiers: b.Modifiers,
	}
	if b.IsCode() {
		info.Keycodes = b.Keys
		return info
	}
	for _, k := range b.Keys {
		info.Symbols = append(info.Symbols, key.Keysym(k).String())
	}
	return info
}

// logClient stands in for the focused client and logs what it receives.
type logClient struct {
	log *logrus.Entry
	kb  seat.Handle
}

func (c *logClient) SetKeyboard(h seat.Handle) { c.kb = h }
func (c *logClient) Keyboard() seat.Handle     { return c.kb }

func (c *logClient) NotifyKey(timeMsec uint32, code uint32, state key.State) {
	c.log.WithFields(logrus.Fields{
		"keyboard": c.kb,
		"code":     code,
		"state":    state,
		"time":     timeMsec,
	}).Trace("Forwarding key")
}

func (c *logClient) NotifyModifiers(mods layout.Modifiers) {
	c.log.WithFields(logrus.Fields{
		"keyboard":  c.kb,
		"depressed": mods.Depressed,
		"locked":    mods.Locked,
	}).Trace("Forwarding modifiers")
}

type logSession struct {
	log *logrus.Entry
}

func (s logSession) ChangeVT(vt int) error {
	s.log.WithField("vt", vt).Info("Virtual terminal switch requested")
	return nil
}
