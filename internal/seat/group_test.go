package seat

import (
	"testing"

	"github.com/holoplot/go-evdev"

	"github.com/dshills/seatkeys/internal/config"
	"github.com/dshills/seatkeys/internal/input/key"
)

const grouped = `
[seat]
keyboard_grouping = "keymap"

[[mode]]
bindsym = [{ keys = "Mod4+Return", command = "exec foot" }]
`

func TestGroupingByLayout(t *testing.T) {
	tests := []struct {
		name       string
		grouping   string
		wantGroups int
	}{
		{"keymap", "keymap", 1},
		{"default", "default", 1},
		{"smart", "smart", 1},
		{"none", "none", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "[seat]\nkeyboard_grouping = \""+tt.grouping+"\"\n")
			a := h.add("kbd0")
			b := h.add("kbd1")

			groups := h.seat.Groups()
			if len(groups) != tt.wantGroups {
				t.Fatalf("groups = %d, want %d", len(groups), tt.wantGroups)
			}
			if tt.wantGroups == 0 {
				if h.keyboard(a).Group() != nil || h.keyboard(b).Group() != nil {
					t.Error("keyboard grouped with grouping disabled")
				}
				return
			}
			g := groups[0]
			members := g.Members()
			if len(members) != 2 || members[0].Handle() != a || members[1].Handle() != b {
				t.Errorf("members = %v, want kbd0 and kbd1", members)
			}
			synth := g.Keyboard()
			if !synth.Synthetic() {
				t.Error("group keyboard not synthetic")
			}
			if got := synth.Identifier(); got != "0:0:"+GroupDeviceName {
				t.Errorf("group keyboard identifier = %q", got)
			}
			if found, ok := h.seat.GroupByID(g.ID()); !ok || found != g {
				t.Error("GroupByID did not find the group")
			}
		})
	}
}

func TestGroupedKeyboardsShareBindings(t *testing.T) {
	h := newHarness(t, grouped)
	a := h.add("kbd0")
	b := h.add("kbd1")
	synth := h.seat.Groups()[0].Keyboard()

	// The chord spans both members.
	h.press(a, evdev.KEY_LEFTMETA)
	h.press(b, evdev.KEY_ENTER)

	if want := []string{"exec foot"}; !equalStrings(h.commands(), want) {
		t.Errorf("commands = %v, want %v", h.commands(), want)
	}
	if len(h.client.keys) != 1 {
		t.Fatalf("client keys = %v, want only the logo press", h.client.keys)
	}
	if got := h.client.keys[0]; got.kb != synth.Handle() || got.code != uint32(evdev.KEY_LEFTMETA) {
		t.Errorf("client key = %v, want logo from the group keyboard", got)
	}
}

func TestGroupForwardsUnionOfKeys(t *testing.T) {
	h := newHarness(t, grouped)
	a := h.add("kbd0")
	b := h.add("kbd1")

	h.press(a, evdev.KEY_A)
	h.press(b, evdev.KEY_A)
	h.release(a, evdev.KEY_A)
	if len(h.client.keys) != 1 {
		t.Fatalf("client keys = %v, want a single press", h.client.keys)
	}
	h.release(b, evdev.KEY_A)

	want := []key.State{key.Pressed, key.Released}
	if len(h.client.keys) != len(want) {
		t.Fatalf("client keys = %v, want press and release", h.client.keys)
	}
	for i, st := range want {
		if h.client.keys[i].state != st {
			t.Errorf("client key %d state = %v, want %v", i, h.client.keys[i].state, st)
		}
	}
}

func TestDeviceSpecificBindingOnGroupMember(t *testing.T) {
	h := newHarness(t, `
[[mode]]
bindsym = [
  { keys = "q", command = "any" },
  { keys = "q", command = "kbd1", input = "1:2:kbd1" },
]
`)
	a := h.add("kbd0")
	b := h.add("kbd1")

	h.press(a, evdev.KEY_Q)
	h.release(a, evdev.KEY_Q)
	h.press(b, evdev.KEY_Q)

	// The group keyboard sees each press first and runs the wildcard
	// binding; a member only runs bindings scoped to its own identifier.
	if want := []string{"any", "any", "kbd1"}; !equalStrings(h.commands(), want) {
		t.Errorf("commands = %v, want %v", h.commands(), want)
	}
}

func TestRemovingLastMemberDestroysGroup(t *testing.T) {
	h := newHarness(t, grouped)
	a := h.add("kbd0")
	b := h.add("kbd1")
	g := h.seat.Groups()[0]
	synth := g.Keyboard().Handle()

	if err := h.seat.Destroy(a); err != nil {
		t.Fatalf("Destroy(kbd0) error = %v", err)
	}
	if len(h.seat.Groups()) != 1 || len(g.Members()) != 1 {
		t.Fatalf("group destroyed while kbd1 is still a member")
	}
	if err := h.seat.Destroy(b); err != nil {
		t.Fatalf("Destroy(kbd1) error = %v", err)
	}

	if len(h.seat.Groups()) != 0 {
		t.Errorf("groups = %d, want 0", len(h.seat.Groups()))
	}
	if _, ok := h.seat.GroupByID(g.ID()); ok {
		t.Error("destroyed group still registered")
	}
	if _, ok := h.seat.Keyboard(synth); ok {
		t.Error("group keyboard still attached")
	}
	if got := len(h.seat.Keyboards()); got != 0 {
		t.Errorf("keyboards = %d, want 0", got)
	}
}

func TestLeavingGroupReleasesKeys(t *testing.T) {
	h := newHarness(t, grouped)
	a := h.add("kbd0")
	h.add("kbd1")

	h.press(a, evdev.KEY_A)
	if err := h.seat.Destroy(a); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}

	if len(h.client.keys) != 2 {
		t.Fatalf("client keys = %v, want press and release", h.client.keys)
	}
	if got := h.client.keys[1]; got.state != key.Released || got.code != uint32(evdev.KEY_A) {
		t.Errorf("last client key = %v, want release of a", got)
	}
}

func TestLayoutChangeMovesKeyboardToNewGroup(t *testing.T) {
	h := newHarness(t, grouped)
	h.add("kbd0")
	b := h.add("kbd1")
	first := h.seat.Groups()[0]

	h.seat.ApplyConfig(parseConfig(t, grouped+`
[[input]]
identifier = "1:2:kbd1"
xkb_layout = "de"
`), false)

	groups := h.seat.Groups()
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if got := h.keyboard(b).Group(); got == first || got == nil {
		t.Error("kbd1 did not move to a new group")
	}
	if got := len(first.Members()); got != 1 {
		t.Errorf("first group members = %d, want 1", got)
	}
}

func TestGroupingDisabledOnReload(t *testing.T) {
	h := newHarness(t, grouped)
	a := h.add("kbd0")
	h.add("kbd1")

	cfg := parseConfig(t, grouped)
	cfg.Seat.KeyboardGrouping = config.GroupingNone
	h.seat.ApplyConfig(cfg, true)

	if got := len(h.seat.Groups()); got != 0 {
		t.Errorf("groups = %d, want 0", got)
	}
	if h.keyboard(a).Group() != nil {
		t.Error("kbd0 still grouped")
	}
}

func TestGroupKeyboardRepeatFollowsFirstMember(t *testing.T) {
	h := newHarness(t, grouped+`
[[input]]
identifier = "*"
repeat_rate = 40
repeat_delay = 250
`)
	h.add("kbd0")
	h.add("kbd1")

	rate, delay := h.seat.Groups()[0].Keyboard().RepeatInfo()
	if rate != 40 || delay != 250 {
		t.Errorf("group repeat = %d/%d, want 40/250", rate, delay)
	}
}

func TestGroupKeyboardRepeatFollowsNewLeader(t *testing.T) {
	h := newHarness(t, grouped+`
[[input]]
identifier = "1:2:kbd0"
repeat_rate = 40
repeat_delay = 250

[[input]]
identifier = "1:2:kbd1"
repeat_rate = 10
repeat_delay = 900
`)
	a := h.add("kbd0")
	h.add("kbd1")
	synth := h.seat.Groups()[0].Keyboard()

	if err := h.seat.Destroy(a); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	rate, delay := synth.RepeatInfo()
	if rate != 10 || delay != 900 {
		t.Errorf("group repeat = %d/%d, want 10/900", rate, delay)
	}
}

func TestGroupSyncsLockedModifiers(t *testing.T) {
	h := newHarness(t, grouped)
	a := h.add("kbd0")
	b := h.add("kbd1")
	synth := h.seat.Groups()[0].Keyboard()

	h.press(a, evdev.KEY_CAPSLOCK)
	h.release(a, evdev.KEY_CAPSLOCK)

	for _, kb := range []*Keyboard{h.keyboard(a), h.keyboard(b), synth} {
		if got := kb.Modifiers().Locked; got != key.ModCaps {
			t.Errorf("%s locked = %v, want Lock", kb.Identifier(), got)
		}
	}
}

func TestSyntheticKeyboardRejectsDeviceOperations(t *testing.T) {
	h := newHarness(t, grouped)
	h.add("kbd0")
	synth := h.seat.Groups()[0].Keyboard().Handle()

	if err := h.seat.Key(synth, key.Event{}); err != ErrSyntheticDevice {
		t.Errorf("Key() error = %v, want %v", err, ErrSyntheticDevice)
	}
	if err := h.seat.Configure(synth); err != ErrSyntheticDevice {
		t.Errorf("Configure() error = %v, want %v", err, ErrSyntheticDevice)
	}
	if err := h.seat.Destroy(synth); err != ErrSyntheticDevice {
		t.Errorf("Destroy() error = %v, want %v", err, ErrSyntheticDevice)
	}
}
