package ipc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/seatkeys/internal/input/key"
)

func TestInputEvent(t *testing.T) {
	n := NewNotifier(nil)
	var got []Message
	n.Subscribe(func(m Message) { got = append(got, m) }, EventInput)

	n.Input(ChangeLayout, InputInfo{
		Identifier:  "1:1:AT_Translated_Set_2_keyboard",
		Name:        "AT Translated Set 2 keyboard",
		Vendor:      1,
		Product:     1,
		LayoutNames: []string{"English (US)", "German"},
		ActiveIndex: 1,
		RepeatDelay: 600,
		RepeatRate:  25,
	})

	if len(got) != 1 {
		t.Fatalf("received %d messages, want 1", len(got))
	}
	m := got[0]
	if m.Type != EventInput || m.Change() != ChangeLayout {
		t.Errorf("message = %s %q", m.Type, m.Change())
	}
	checks := map[string]string{
		"input.identifier":             "1:1:AT_Translated_Set_2_keyboard",
		"input.type":                   "keyboard",
		"input.xkb_active_layout_name": "German",
		"input.xkb_layout_names.0":     "English (US)",
		"input.repeat_delay":           "600",
	}
	for path, want := range checks {
		if v := m.Get(path).String(); v != want {
			t.Errorf("%s = %q, want %q", path, v, want)
		}
	}
	if !gjson.ValidBytes(m.Payload) {
		t.Errorf("payload is not valid JSON: %s", m.Payload)
	}
}

func TestInputEventWithoutLayouts(t *testing.T) {
	n := NewNotifier(nil)
	var m Message
	n.Subscribe(func(msg Message) { m = msg })

	n.Input(ChangeKeymap, InputInfo{Identifier: "0:0:wlr_keyboard_group", ActiveIndex: 0})

	if m.Get("input.xkb_active_layout_name").Type != gjson.Null {
		t.Errorf("active layout name = %s, want null", m.Get("input.xkb_active_layout_name").Raw)
	}
	if !m.Get("input.xkb_layout_names").IsArray() {
		t.Errorf("layout names = %s, want an array", m.Get("input.xkb_layout_names").Raw)
	}
}

func TestSubscribeFiltersTypes(t *testing.T) {
	n := NewNotifier(nil)
	counts := map[EventType]int{}
	n.Subscribe(func(m Message) { counts[m.Type]++ }, EventBarStateUpdate)
	all := 0
	id := n.Subscribe(func(Message) { all++ })

	n.BarStateUpdate("bar-0", true)
	n.Input(ChangeKeymap, InputInfo{})
	n.Binding(BindingInfo{Command: "exec foot"})

	if counts[EventBarStateUpdate] != 1 || len(counts) != 1 {
		t.Errorf("filtered counts = %v", counts)
	}
	if all != 3 {
		t.Errorf("unfiltered subscriber got %d messages, want 3", all)
	}

	if !n.Unsubscribe(id) {
		t.Error("Unsubscribe() = false")
	}
	n.BarStateUpdate("bar-0", false)
	if all != 3 {
		t.Errorf("unsubscribed listener still called")
	}
}

func TestBarStateUpdate(t *testing.T) {
	n := NewNotifier(nil)
	var m Message
	n.Subscribe(func(msg Message) { m = msg })

	n.BarStateUpdate("bar-1", false)
	if m.Get("id").String() != "bar-1" {
		t.Errorf("id = %s", m.Get("id").Raw)
	}
	if v := m.Get("visible_by_modifier"); v.Type != gjson.False {
		t.Errorf("visible_by_modifier = %s, want false", v.Raw)
	}
}

func TestBindingEvent(t *testing.T) {
	n := NewNotifier(nil)
	var m Message
	n.Subscribe(func(msg Message) { m = msg }, EventBinding)

	n.Binding(BindingInfo{
		Command:   "kill",
		Modifiers: key.ModLogo | key.ModShift,
		Symbols:   []string{"q"},
	})

	if m.Change() != "run" {
		t.Errorf("change = %q, want run", m.Change())
	}
	if got := m.Get("binding.event_state_mask").String(); got != `["Shift","Mod4"]` {
		t.Errorf("event_state_mask = %s", got)
	}
	if m.Get("binding.symbol").String() != "q" || m.Get("binding.input_code").Int() != 0 {
		t.Errorf("binding = %s", m.Get("binding").Raw)
	}

	n.Binding(BindingInfo{Command: "exec foot", Keycodes: []uint32{36}})
	if m.Get("binding.input_code").Int() != 36 || m.Get("binding.symbol").Type != gjson.Null {
		t.Errorf("binding = %s", m.Get("binding").Raw)
	}
}

func TestStream(t *testing.T) {
	n := NewNotifier(nil)
	var buf bytes.Buffer
	n.Stream(&buf, EventBarStateUpdate)

	n.BarStateUpdate("bar-0", true)
	n.Input(ChangeKeymap, InputInfo{})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("stream lines = %q", lines)
	}
	if gjson.Get(lines[0], "type").String() != "bar_state_update" ||
		!gjson.Get(lines[0], "payload.visible_by_modifier").Bool() {
		t.Errorf("line = %s", lines[0])
	}
}
