package keymap

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/seatkeys/internal/input/key"
	"github.com/dshills/seatkeys/internal/input/shortcut"
	"github.com/dshills/seatkeys/internal/logging"
)

// Query describes the event context a binding must fit.
type Query struct {
	// Modifiers is the modifier mask for this interpretation space.
	Modifiers key.Modifier

	// Release selects release-triggered bindings.
	Release bool

	// Locked is set while input is inhibited.
	Locked bool

	// Input is the identifier of the device that produced the event.
	Input string

	// ExactInput disables wildcard input selectors.
	ExactInput bool

	// Group is the active layout group of the device.
	Group int
}

// Matcher selects the best binding for a keyboard state.
type Matcher struct {
	log *logrus.Entry
}

// NewMatcher creates a matcher that logs conflicts to log.
func NewMatcher(log *logrus.Entry) *Matcher {
	if log == nil {
		log = logging.Discard()
	}
	return &Matcher{log: log}
}

// Accepts reports whether b passes the modifier, release, lock, group and
// input filters for q. Key state is not considered.
func Accepts(b *Binding, q Query) bool {
	if b.Modifiers != q.Modifiers {
		return false
	}
	if b.Release() != q.Release {
		return false
	}
	if q.Locked && !b.Locked() {
		return false
	}
	if b.HasGroup() && b.Group != q.Group {
		return false
	}
	if b.Input != q.Input && (b.Input != InputAny || q.ExactInput) {
		return false
	}
	return true
}

// KeysMatch reports whether the pressed keys in st trigger b. The held set
// must equal the binding's keys, except that a single-key binding also
// matches the most recently pressed key while other keys are held.
func KeysMatch(b *Binding, st *shortcut.State) bool {
	if st.Len() == len(b.Keys) {
		return st.Equal(b.Keys)
	}
	if len(b.Keys) == 1 {
		return st.CurrentKey() == b.Keys[0]
	}
	return false
}

// Best scans bindings in order and returns the best match, starting from
// current. current may come from an earlier interpretation space and is
// returned unchanged when nothing better is found.
func (m *Matcher) Best(current *Binding, st *shortcut.State, bindings []*Binding, q Query) *Binding {
	for _, b := range bindings {
		if !Accepts(b, q) || !KeysMatch(b, st) {
			continue
		}

		if current != nil {
			if current == b {
				continue
			}
			if !m.prefer(current, b, q) {
				continue
			}
		}

		current = b
		if b.Input == q.Input && b.Locked() == q.Locked && b.Group == q.Group {
			// Perfect match.
			return current
		}
	}
	return current
}

// prefer reports whether candidate should replace current.
func (m *Matcher) prefer(current, candidate *Binding, q Query) bool {
	currentInput := current.Input == q.Input
	candidateInput := candidate.Input == q.Input

	if currentInput == candidateInput &&
		current.Locked() == candidate.Locked() &&
		current.HasGroup() == candidate.HasGroup() {
		m.log.WithFields(logrus.Fields{
			"kept":    current.Order,
			"skipped": candidate.Order,
		}).Debugf("Encountered conflicting bindings %d and %d", current.Order, candidate.Order)
		return false
	}

	if currentInput && !candidateInput {
		return false
	}
	if currentInput == candidateInput && current.Group == q.Group {
		return false
	}
	if currentInput == candidateInput &&
		current.HasGroup() == candidate.HasGroup() &&
		current.Locked() == q.Locked {
		return false
	}
	return true
}
