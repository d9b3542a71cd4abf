package seat

import (
	"fmt"
	"strings"
)

// Device describes an input device attached to the seat.
type Device struct {
	// SysName is the unique system name of the device, e.g. "event3".
	SysName string

	// Name is the human readable device name.
	Name string

	Vendor  int
	Product int
}

// Identifier returns "vendor:product:name" with the name's surrounding
// whitespace removed and inner spaces replaced by underscores. Input
// configuration and device-scoped bindings refer to keyboards by it.
func (d Device) Identifier() string {
	name := strings.ReplaceAll(strings.TrimSpace(d.Name), " ", "_")
	return fmt.Sprintf("%d:%d:%s", d.Vendor, d.Product, name)
}

// Handle refers to a keyboard owned by a Seat. A handle stays valid until
// the keyboard is destroyed; after that it never resolves again, even if
// the slot is reused. The zero Handle refers to nothing.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

func (h Handle) String() string {
	if h.IsZero() {
		return "kbd(none)"
	}
	return fmt.Sprintf("kbd(%d.%d)", h.index, h.gen)
}

type slot struct {
	gen uint32
	kb  *Keyboard
}

// arena stores keyboards by generation-checked index.
type arena struct {
	slots []slot
	free  []uint32
}

func (a *arena) insert(kb *Keyboard) Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.gen++
		s.kb = kb
		return Handle{index: idx, gen: s.gen}
	}
	a.slots = append(a.slots, slot{gen: 1, kb: kb})
	return Handle{index: uint32(len(a.slots) - 1), gen: 1}
}

func (a *arena) get(h Handle) *Keyboard {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return nil
	}
	s := a.slots[h.index]
	if s.gen != h.gen {
		return nil
	}
	return s.kb
}

func (a *arena) remove(h Handle) bool {
	if a.get(h) == nil {
		return false
	}
	s := &a.slots[h.index]
	s.kb = nil
	s.gen++
	a.free = append(a.free, h.index)
	return true
}

// all returns the live keyboards in slot order.
func (a *arena) all() []*Keyboard {
	var out []*Keyboard
	for _, s := range a.slots {
		if s.kb != nil {
			out = append(out, s.kb)
		}
	}
	return out
}
