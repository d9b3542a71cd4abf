package seat

import (
	"testing"
	"time"

	"github.com/holoplot/go-evdev"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/dshills/seatkeys/internal/config"
	"github.com/dshills/seatkeys/internal/eventloop"
	"github.com/dshills/seatkeys/internal/input/key"
	"github.com/dshills/seatkeys/internal/input/keymap"
	"github.com/dshills/seatkeys/internal/input/layout"
	"github.com/dshills/seatkeys/internal/ipc"
)

type recordingExecutor struct {
	commands  []string
	onExecute func(b *keymap.Binding)
}

func (e *recordingExecutor) Execute(b *keymap.Binding) {
	e.commands = append(e.commands, b.Command)
	if e.onExecute != nil {
		e.onExecute(b)
	}
}

type sentKey struct {
	kb    Handle
	code  uint32
	state key.State
}

type fakeClient struct {
	kb   Handle
	keys []sentKey
	mods []layout.Modifiers
}

func (c *fakeClient) SetKeyboard(h Handle) { c.kb = h }
func (c *fakeClient) Keyboard() Handle     { return c.kb }

func (c *fakeClient) NotifyKey(_ uint32, code uint32, state key.State) {
	c.keys = append(c.keys, sentKey{kb: c.kb, code: code, state: state})
}

func (c *fakeClient) NotifyModifiers(mods layout.Modifiers) {
	c.mods = append(c.mods, mods)
}

type fakeSession struct {
	vts []int
}

func (s *fakeSession) ChangeVT(vt int) error {
	s.vts = append(s.vts, vt)
	return nil
}

type countingCommitter struct {
	n int
}

func (c *countingCommitter) Commit() { c.n++ }

type barUpdate struct {
	id      string
	visible bool
}

type recordingNotifier struct {
	inputs []string
	bars   []barUpdate
}

func (n *recordingNotifier) Input(change string, info ipc.InputInfo) {
	n.inputs = append(n.inputs, change+" "+info.Identifier)
}

func (n *recordingNotifier) BarStateUpdate(id string, visible bool) {
	n.bars = append(n.bars, barUpdate{id: id, visible: visible})
}

type countingIdle struct {
	n int
}

func (i *countingIdle) NotifyActivity(IdleSource) { i.n++ }

type harness struct {
	t       *testing.T
	clock   *testingclock.FakeClock
	loop    *eventloop.Loop
	seat    *Seat
	exec    *recordingExecutor
	client  *fakeClient
	session *fakeSession
	commits *countingCommitter
	notes   *recordingNotifier
	idle    *countingIdle
}

func parseConfig(t *testing.T, text string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(text))
	if err != nil {
		t.Fatalf("config.Parse() error = %v", err)
	}
	return cfg
}

func newHarness(t *testing.T, cfgText string, opts ...Option) *harness {
	t.Helper()
	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	loop := eventloop.New(clk, nil)
	t.Cleanup(loop.Close)

	h := &harness{
		t:       t,
		clock:   clk,
		loop:    loop,
		exec:    &recordingExecutor{},
		client:  &fakeClient{},
		session: &fakeSession{},
		commits: &countingCommitter{},
		notes:   &recordingNotifier{},
		idle:    &countingIdle{},
	}
	all := []Option{
		WithExecutor(h.exec),
		WithClient(h.client),
		WithSession(h.session),
		WithCommitter(h.commits),
		WithNotifier(h.notes),
		WithIdleNotifier(h.idle),
	}
	h.seat = New(loop, parseConfig(t, cfgText), append(all, opts...)...)
	return h
}

// add attaches and configures a keyboard named name with identifier
// "1:2:<name>".
func (h *harness) add(name string) Handle {
	h.t.Helper()
	kb, err := h.seat.AddKeyboard(Device{SysName: "sys-" + name, Name: name, Vendor: 1, Product: 2})
	if err != nil {
		h.t.Fatalf("AddKeyboard(%q) error = %v", name, err)
	}
	return kb
}

func (h *harness) keyboard(kb Handle) *Keyboard {
	h.t.Helper()
	k, ok := h.seat.Keyboard(kb)
	if !ok {
		h.t.Fatalf("Keyboard(%v) not found", kb)
	}
	return k
}

func (h *harness) send(kb Handle, state key.State, codes ...evdev.EvCode) {
	h.t.Helper()
	for _, code := range codes {
		if err := h.seat.Key(kb, key.Event{Code: uint32(code), State: state}); err != nil {
			h.t.Fatalf("Key(%v, %d) error = %v", kb, code, err)
		}
	}
}

func (h *harness) press(kb Handle, codes ...evdev.EvCode) {
	h.t.Helper()
	h.send(kb, key.Pressed, codes...)
}

func (h *harness) release(kb Handle, codes ...evdev.EvCode) {
	h.t.Helper()
	h.send(kb, key.Released, codes...)
}

// advance moves the fake clock and runs the expirations it caused.
func (h *harness) advance(d time.Duration) {
	h.clock.Step(d)
	h.loop.Drain()
}

func (h *harness) commands() []string {
	return h.exec.commands
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDeviceIdentifier(t *testing.T) {
	tests := []struct {
		dev  Device
		want string
	}{
		{Device{Name: "AT Translated Set 2 keyboard", Vendor: 1, Product: 1}, "1:1:AT_Translated_Set_2_keyboard"},
		{Device{Name: "  padded name ", Vendor: 1133, Product: 49970}, "1133:49970:padded_name"},
		{Device{Name: GroupDeviceName}, "0:0:wlr_keyboard_group"},
	}
	for _, tt := range tests {
		if got := tt.dev.Identifier(); got != tt.want {
			t.Errorf("Identifier() = %q, want %q", got, tt.want)
		}
	}
}

func TestArenaGenerations(t *testing.T) {
	var a arena
	first := &Keyboard{}
	h1 := a.insert(first)
	if a.get(h1) != first {
		t.Fatal("get(h1) did not return the inserted keyboard")
	}
	if !a.remove(h1) {
		t.Fatal("remove(h1) = false, want true")
	}
	if a.remove(h1) {
		t.Error("second remove(h1) = true, want false")
	}

	second := &Keyboard{}
	h2 := a.insert(second)
	if h2.index != h1.index {
		t.Errorf("slot not reused: index %d, want %d", h2.index, h1.index)
	}
	if a.get(h1) != nil {
		t.Error("stale handle resolved after slot reuse")
	}
	if a.get(h2) != second {
		t.Error("get(h2) did not return the second keyboard")
	}
	if a.get(Handle{}) != nil {
		t.Error("zero handle resolved")
	}
	if got := len(a.all()); got != 1 {
		t.Errorf("len(all()) = %d, want 1", got)
	}
}
