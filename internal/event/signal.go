// Package event provides typed signals: ordered listener lists that are
// emitted synchronously on the caller's goroutine.
package event

// ListenerID identifies a listener added to a Signal.
type ListenerID uint64

type listener[T any] struct {
	id     ListenerID
	fn     func(T)
	active bool
}

// Signal is an ordered set of listeners for values of type T.
// Listeners run in the order they were added. A Signal is not safe for
// concurrent use; it is meant to be owned by one event loop.
type Signal[T any] struct {
	listeners []*listener[T]
	next      ListenerID
}

// Add appends fn and returns an ID for Remove.
func (s *Signal[T]) Add(fn func(T)) ListenerID {
	s.next++
	s.listeners = append(s.listeners, &listener[T]{id: s.next, fn: fn, active: true})
	return s.next
}

// Remove removes the listener with the given ID. It returns false if the
// listener was not registered. A listener removed while the signal is
// being emitted is not called for the rest of that emission.
func (s *Signal[T]) Remove(id ListenerID) bool {
	for i, l := range s.listeners {
		if l.id == id {
			l.active = false
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Emit calls every listener with v. Listeners added during the emission
// are not called until the next one.
func (s *Signal[T]) Emit(v T) {
	if len(s.listeners) == 0 {
		return
	}
	snapshot := make([]*listener[T], len(s.listeners))
	copy(snapshot, s.listeners)
	for _, l := range snapshot {
		if l.active {
			l.fn(v)
		}
	}
}

// Len returns the number of registered listeners.
func (s *Signal[T]) Len() int {
	return len(s.listeners)
}

// Clear removes every listener.
func (s *Signal[T]) Clear() {
	for _, l := range s.listeners {
		l.active = false
	}
	s.listeners = nil
}
