package eventloop

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// Timer runs a callback on the loop after a delay. A Timer is armed at
// most once at a time; re-arming replaces the pending expiration.
type Timer struct {
	loop *Loop
	cb   func()

	mu      sync.Mutex
	seq     uint64
	pending clock.Timer
	armed   bool
	removed bool
}

// AddTimer creates a disarmed timer whose callback runs on the loop.
func (l *Loop) AddTimer(cb func()) (*Timer, error) {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return nil, ErrLoopClosed
	}
	return &Timer{loop: l, cb: cb}, nil
}

// Update arms the timer to fire after ms milliseconds, replacing any
// pending expiration. ms <= 0 disarms it. Disarming an already disarmed
// timer is a no-op.
func (t *Timer) Update(ms int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.removed {
		return ErrTimerRemoved
	}
	t.stopLocked()
	if ms <= 0 {
		return nil
	}

	seq := t.seq
	t.armed = true
	t.pending = t.loop.clock.AfterFunc(time.Duration(ms)*time.Millisecond, func() {
		if err := t.loop.Post(func() { t.fire(seq) }); err != nil {
			t.loop.log.WithError(err).Debug("Dropping timer expiration")
		}
	})
	return nil
}

// stopLocked cancels the pending expiration. Bumping seq makes an
// expiration that was already posted to the loop a no-op.
func (t *Timer) stopLocked() {
	t.seq++
	t.armed = false
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

func (t *Timer) fire(seq uint64) {
	t.mu.Lock()
	if t.removed || seq != t.seq || !t.armed {
		t.mu.Unlock()
		return
	}
	t.armed = false
	t.pending = nil
	t.mu.Unlock()

	t.cb()
}

// Armed reports whether an expiration is pending.
func (t *Timer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed
}

// Remove disarms the timer permanently.
func (t *Timer) Remove() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.removed {
		return
	}
	t.stopLocked()
	t.removed = true
}
