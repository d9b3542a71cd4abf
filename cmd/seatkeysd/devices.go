package main

import (
	"path/filepath"
	"slices"

	"github.com/holoplot/go-evdev"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dshills/seatkeys/internal/input/key"
	"github.com/dshills/seatkeys/internal/seat"
)

// keyboardDevice is an opened evdev node that reports key events.
type keyboardDevice struct {
	path string
	dev  *evdev.InputDevice
	info seat.Device
}

func openKeyboard(path string, grab bool) (*keyboardDevice, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	name, err := dev.Name()
	if err != nil {
		_ = dev.Close()
		return nil, errors.Wrapf(err, "read name of %s", path)
	}
	id, err := dev.InputID()
	if err != nil {
		_ = dev.Close()
		return nil, errors.Wrapf(err, "read id of %s", path)
	}
	if grab {
		if err := dev.Grab(); err != nil {
			_ = dev.Close()
			return nil, errors.Wrapf(err, "grab %s", path)
		}
	}
	return &keyboardDevice{
		path: path,
		dev:  dev,
		info: seat.Device{
			SysName: filepath.Base(path),
			Name:    name,
			Vendor:  int(id.Vendor),
			Product: int(id.Product),
		},
	}, nil
}

// readKeys reads events until the device fails or is closed. Autorepeat
// events are dropped; the seat generates its own repeats.
func (d *keyboardDevice) readKeys(emit func(key.Event)) error {
	for {
		ev, err := d.dev.ReadOne()
		if err != nil {
			return err
		}
		if ev.Type != evdev.EV_KEY || ev.Value > 1 {
			continue
		}
		state := key.Released
		if ev.Value == 1 {
			state = key.Pressed
		}
		emit(key.Event{
			TimeMsec: uint32(ev.Time.Sec*1000 + ev.Time.Usec/1000),
			Code:     uint32(ev.Code),
			State:    state,
		})
	}
}

func (d *keyboardDevice) Close() error {
	return d.dev.Close()
}

// discoverKeyboards lists the evdev nodes that report letter keys.
func discoverKeyboards(log *logrus.Entry) ([]string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, errors.Wrap(err, "list input devices")
	}
	var out []string
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			log.WithError(err).WithField("path", p.Path).Debug("Skipping unreadable device")
			continue
		}
		if slices.Contains(dev.CapableEvents(evdev.EV_KEY), evdev.KEY_A) {
			out = append(out, p.Path)
		}
		_ = dev.Close()
	}
	return out, nil
}
