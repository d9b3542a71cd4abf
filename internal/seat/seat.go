// Package seat turns keyboard events into client input or bound commands.
//
// A Seat owns every keyboard attached to it. Physical keyboards whose
// compiled layouts are equal are merged into groups, each with a synthetic
// keyboard that sees the union of its members' keys. For every key event
// the seat tracks pressed keys in three interpretation spaces (keycodes,
// raw keysyms and translated keysyms), picks the best binding of the
// current mode, and either runs it through the Executor or forwards the
// key to the focused Client.
//
// A Seat is not safe for concurrent use. All calls, including the repeat
// timer callbacks, are expected to run on one eventloop.Loop.
package seat

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vishalkuo/bimap"

	"github.com/dshills/seatkeys/internal/config"
	"github.com/dshills/seatkeys/internal/eventloop"
	"github.com/dshills/seatkeys/internal/input/key"
	"github.com/dshills/seatkeys/internal/input/keymap"
	"github.com/dshills/seatkeys/internal/input/layout"
	"github.com/dshills/seatkeys/internal/ipc"
	"github.com/dshills/seatkeys/internal/logging"
)

var (
	// ErrStaleHandle is returned for handles of destroyed keyboards.
	ErrStaleHandle = errors.New("stale keyboard handle")

	// ErrDuplicateDevice is returned when a device's system name is taken.
	ErrDuplicateDevice = errors.New("device already attached")

	// ErrSyntheticDevice is returned for operations that only apply to
	// physical keyboards.
	ErrSyntheticDevice = errors.New("operation not allowed on a group keyboard")

	// ErrUnknownMode is returned by SetMode for undefined binding modes.
	ErrUnknownMode = errors.New("unknown binding mode")
)

// Executor runs the command of a binding. Execute may re-enter the seat,
// including destroying the keyboard that triggered it.
type Executor interface {
	Execute(b *keymap.Binding)
}

// Client receives the keys and modifiers that no binding consumed.
type Client interface {
	// SetKeyboard makes h the keyboard whose events are sent to the
	// focused client. The zero Handle clears it.
	SetKeyboard(h Handle)

	// Keyboard returns the keyboard set by SetKeyboard.
	Keyboard() Handle

	NotifyKey(timeMsec uint32, code uint32, state key.State)
	NotifyModifiers(mods layout.Modifiers)
}

// Session switches virtual terminals.
type Session interface {
	ChangeVT(vt int) error
}

// Committer applies pending compositor state once an event is handled.
type Committer interface {
	Commit()
}

// Notifier receives the seat's change notifications. *ipc.Notifier
// implements it.
type Notifier interface {
	Input(change string, info ipc.InputInfo)
	BarStateUpdate(id string, visibleByModifier bool)
}

// IdleSource names the kind of activity reported to an IdleNotifier.
type IdleSource string

// IdleSourceKeyboard is reported for every key event.
const IdleSourceKeyboard IdleSource = "keyboard"

// IdleNotifier is told about user activity.
type IdleNotifier interface {
	NotifyActivity(source IdleSource)
}

// CompileFunc compiles a layout source into a layout.
type CompileFunc func(src layout.Source) (*layout.Layout, error)

// Option configures a Seat.
type Option func(*Seat)

// WithName sets the seat name used in logs.
func WithName(name string) Option {
	return func(s *Seat) { s.name = name }
}

// WithLogger sets the seat logger.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Seat) {
		if log != nil {
			s.log = log
		}
	}
}

// WithExecutor sets the command executor.
func WithExecutor(e Executor) Option {
	return func(s *Seat) { s.exec = e }
}

// WithClient sets the client receiving forwarded input.
func WithClient(c Client) Option {
	return func(s *Seat) { s.client = c }
}

// WithSession sets the session used for virtual terminal switches.
func WithSession(sess Session) Option {
	return func(s *Seat) { s.session = sess }
}

// WithCommitter sets the committer run after each event.
func WithCommitter(c Committer) Option {
	return func(s *Seat) { s.committer = c }
}

// WithNotifier sets the receiver of input and bar notifications.
func WithNotifier(n Notifier) Option {
	return func(s *Seat) { s.notifier = n }
}

// WithIdleNotifier sets the receiver of activity notifications.
func WithIdleNotifier(n IdleNotifier) Option {
	return func(s *Seat) { s.idle = n }
}

// WithCompiler replaces layout.Compile.
func WithCompiler(fn CompileFunc) Option {
	return func(s *Seat) {
		if fn != nil {
			s.compile = fn
		}
	}
}

// Seat is a set of keyboards feeding one focused client.
type Seat struct {
	name string
	log  *logrus.Entry
	loop *eventloop.Loop

	exec      Executor
	client    Client
	session   Session
	committer Committer
	notifier  Notifier
	idle      IdleNotifier
	compile   CompileFunc
	matcher   *keymap.Matcher

	cfg       *config.Config
	reloading bool
	mode      string
	locked    bool
	bars      []barState

	devices arena
	names   *bimap.BiMap[string, Handle]

	// groups is ordered newest first.
	groups    []*Group
	groupByID map[uuid.UUID]*Group
}

// New creates a seat whose timers run on loop. A nil cfg means
// config.Default().
func New(loop *eventloop.Loop, cfg *config.Config, opts ...Option) *Seat {
	s := &Seat{
		name:      "seat0",
		log:       logging.Discard(),
		loop:      loop,
		exec:      nopExecutor{},
		client:    &nopClient{},
		committer: nopCommitter{},
		notifier:  nopNotifier{},
		idle:      nopIdle{},
		compile:   layout.Compile,
		mode:      keymap.DefaultMode,
		names:     bimap.NewBiMap[string, Handle](),
		groupByID: make(map[uuid.UUID]*Group),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("seat", s.name)
	s.matcher = keymap.NewMatcher(s.log)
	s.setConfig(cfg)
	return s
}

// Name returns the seat name.
func (s *Seat) Name() string {
	return s.name
}

// Config returns the active configuration.
func (s *Seat) Config() *config.Config {
	return s.cfg
}

func (s *Seat) setConfig(cfg *config.Config) {
	if cfg == nil {
		cfg = config.Default()
	}
	s.cfg = cfg
	s.bars = newBarStates(cfg.Bars, s.log)
	if cfg.Mode(s.mode) == nil {
		s.mode = keymap.DefaultMode
	}
}

// ApplyConfig replaces the configuration and reconfigures every physical
// keyboard. With reloading set, layouts are reapplied even when they did
// not change.
func (s *Seat) ApplyConfig(cfg *config.Config, reloading bool) {
	s.setConfig(cfg)
	s.reloading = reloading
	defer func() { s.reloading = false }()

	for _, kb := range s.devices.all() {
		if kb.owner != nil || !s.alive(kb) {
			continue
		}
		s.configure(kb)
	}
}

// Mode returns the name of the current binding mode.
func (s *Seat) Mode() string {
	return s.mode
}

// SetMode switches the binding mode.
func (s *Seat) SetMode(name string) error {
	if s.cfg.Mode(name) == nil {
		return errors.Wrapf(ErrUnknownMode, "mode %q", name)
	}
	s.mode = name
	return nil
}

func (s *Seat) currentMode() *keymap.Mode {
	if m := s.cfg.Mode(s.mode); m != nil {
		return m
	}
	if m := s.cfg.Mode(keymap.DefaultMode); m != nil {
		return m
	}
	return keymap.NewMode(keymap.DefaultMode)
}

// SetLocked sets the locked context. While locked, for example while a
// lock screen holds exclusive input, only bindings marked --locked fire.
func (s *Seat) SetLocked(locked bool) {
	s.locked = locked
}

// Locked reports whether the locked context is active.
func (s *Seat) Locked() bool {
	return s.locked
}

// Keyboard returns the keyboard for h.
func (s *Seat) Keyboard(h Handle) (*Keyboard, bool) {
	kb := s.devices.get(h)
	return kb, kb != nil
}

// Lookup returns the handle of the keyboard with the given system name.
func (s *Seat) Lookup(sysName string) (Handle, bool) {
	return s.names.Get(sysName)
}

// Keyboards returns every live keyboard, physical and synthetic.
func (s *Seat) Keyboards() []*Keyboard {
	return s.devices.all()
}

// Groups returns the keyboard groups, newest first.
func (s *Seat) Groups() []*Group {
	out := make([]*Group, len(s.groups))
	copy(out, s.groups)
	return out
}

// GroupByID returns the group with the given id.
func (s *Seat) GroupByID(id uuid.UUID) (*Group, bool) {
	g, ok := s.groupByID[id]
	return g, ok
}

// alive reports whether kb is still the keyboard its handle refers to.
func (s *Seat) alive(kb *Keyboard) bool {
	return s.devices.get(kb.handle) == kb
}

func (s *Seat) grouping() config.Grouping {
	return s.cfg.Seat.KeyboardGrouping
}

func (s *Seat) execute(b *keymap.Binding) {
	s.log.WithField("binding", b.String()).Debug("Executing binding")
	s.exec.Execute(b)
}

func (s *Seat) commit() {
	s.committer.Commit()
}

func (s *Seat) notifyInput(change string, kb *Keyboard) {
	s.notifier.Input(change, kb.info())
}

type nopExecutor struct{}

func (nopExecutor) Execute(*keymap.Binding) {}

type nopClient struct {
	kb Handle
}

func (c *nopClient) SetKeyboard(h Handle)                { c.kb = h }
func (c *nopClient) Keyboard() Handle                    { return c.kb }
func (c *nopClient) NotifyKey(uint32, uint32, key.State) {}
func (c *nopClient) NotifyModifiers(layout.Modifiers)    {}

type nopCommitter struct{}

func (nopCommitter) Commit() {}

type nopNotifier struct{}

func (nopNotifier) Input(string, ipc.InputInfo) {}
func (nopNotifier) BarStateUpdate(string, bool) {}

type nopIdle struct{}

func (nopIdle) NotifyActivity(IdleSource) {}
