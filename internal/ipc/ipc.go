// Package ipc publishes seat events to subscribed clients as JSON
// messages shaped like i3-style ipc event payloads.
package ipc

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/seatkeys/internal/event"
	"github.com/dshills/seatkeys/internal/logging"
)

// EventType names an ipc event stream.
type EventType string

const (
	// EventInput reports keymap and layout changes of a keyboard.
	EventInput EventType = "input"

	// EventBarStateUpdate reports a bar shown or hidden by its modifier.
	EventBarStateUpdate EventType = "bar_state_update"

	// EventBinding reports an executed binding.
	EventBinding EventType = "binding"
)

// Changes carried by input events.
const (
	ChangeKeymap = "xkb_keymap"
	ChangeLayout = "xkb_layout"
)

// Message is one published event.
type Message struct {
	Type    EventType
	Payload []byte
}

// Change returns the "change" field of the payload, if any.
func (m Message) Change() string {
	return gjson.GetBytes(m.Payload, "change").String()
}

// Get returns the payload value at a gjson path.
func (m Message) Get(path string) gjson.Result {
	return gjson.GetBytes(m.Payload, path)
}

// Notifier fans out messages to subscribers on the caller's goroutine.
type Notifier struct {
	log      *logrus.Entry
	messages event.Signal[Message]
}

// NewNotifier creates a notifier. A nil log discards.
func NewNotifier(log *logrus.Entry) *Notifier {
	if log == nil {
		log = logging.Discard()
	}
	return &Notifier{log: log}
}

// Subscribe registers fn for the given event types, or for every type
// when none are given.
func (n *Notifier) Subscribe(fn func(Message), types ...EventType) event.ListenerID {
	if len(types) == 0 {
		return n.messages.Add(fn)
	}
	want := make(map[EventType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	return n.messages.Add(func(m Message) {
		if want[m.Type] {
			fn(m)
		}
	})
}

// Unsubscribe removes a subscription.
func (n *Notifier) Unsubscribe(id event.ListenerID) bool {
	return n.messages.Remove(id)
}

// Stream writes each message as a JSON line {"type":...,"payload":...} to w.
func (n *Notifier) Stream(w io.Writer, types ...EventType) event.ListenerID {
	return n.Subscribe(func(m Message) {
		line, err := sjson.SetBytes([]byte(`{}`), "type", string(m.Type))
		if err == nil {
			line, err = sjson.SetRawBytes(line, "payload", m.Payload)
		}
		if err != nil {
			n.log.WithError(err).Warn("Failed to encode ipc message")
			return
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			n.log.WithError(err).Debug("Failed to write ipc message")
		}
	}, types...)
}

func (n *Notifier) publish(t EventType, payload []byte) {
	n.log.WithFields(logrus.Fields{
		"type":   t,
		"change": gjson.GetBytes(payload, "change").String(),
	}).Debug("Sending ipc event")
	n.messages.Emit(Message{Type: t, Payload: payload})
}

// set applies sjson updates in order, stopping at the first error.
func set(doc []byte, kv ...any) ([]byte, error) {
	var err error
	for i := 0; i+1 < len(kv); i += 2 {
		doc, err = sjson.SetBytes(doc, kv[i].(string), kv[i+1])
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}
