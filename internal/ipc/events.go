package ipc

import (
	"github.com/dshills/seatkeys/internal/input/key"
)

// InputInfo describes a keyboard in input events.
type InputInfo struct {
	Identifier  string
	Name        string
	Vendor      int
	Product     int
	LayoutNames []string
	ActiveIndex int
	RepeatDelay int
	RepeatRate  int
}

// Input publishes an input event with change ChangeKeymap or ChangeLayout.
func (n *Notifier) Input(change string, in InputInfo) {
	layouts := in.LayoutNames
	if layouts == nil {
		layouts = []string{}
	}
	var active any
	if in.ActiveIndex >= 0 && in.ActiveIndex < len(layouts) {
		active = layouts[in.ActiveIndex]
	}

	payload, err := set([]byte(`{}`),
		"change", change,
		"input.identifier", in.Identifier,
		"input.name", in.Name,
		"input.vendor", in.Vendor,
		"input.product", in.Product,
		"input.type", "keyboard",
		"input.repeat_delay", in.RepeatDelay,
		"input.repeat_rate", in.RepeatRate,
		"input.xkb_layout_names", layouts,
		"input.xkb_active_layout_index", in.ActiveIndex,
		"input.xkb_active_layout_name", active,
	)
	if err != nil {
		n.log.WithError(err).Warn("Failed to build input event")
		return
	}
	n.publish(EventInput, payload)
}

// BarStateUpdate publishes a bar visibility change.
func (n *Notifier) BarStateUpdate(id string, visibleByModifier bool) {
	payload, err := set([]byte(`{}`),
		"id", id,
		"visible_by_modifier", visibleByModifier,
	)
	if err != nil {
		n.log.WithError(err).Warn("Failed to build bar_state_update event")
		return
	}
	n.publish(EventBarStateUpdate, payload)
}

// BindingInfo describes an executed binding.
type BindingInfo struct {
	Command   string
	Modifiers key.Modifier
	Keycodes  []uint32
	Symbols   []string
}

// Binding publishes a binding event with change "run".
func (n *Notifier) Binding(b BindingInfo) {
	mods := b.Modifiers.Names()
	if mods == nil {
		mods = []string{}
	}
	symbols := b.Symbols
	if symbols == nil {
		symbols = []string{}
	}
	var code uint32
	if len(b.Keycodes) > 0 {
		code = b.Keycodes[0]
	}
	var symbol any
	if len(symbols) > 0 {
		symbol = symbols[0]
	}

	payload, err := set([]byte(`{}`),
		"change", "run",
		"binding.command", b.Command,
		"binding.event_state_mask", mods,
		"binding.input_code", code,
		"binding.symbol", symbol,
		"binding.symbols", symbols,
		"binding.input_type", "keyboard",
	)
	if err != nil {
		n.log.WithError(err).Warn("Failed to build binding event")
		return
	}
	n.publish(EventBinding, payload)
}
