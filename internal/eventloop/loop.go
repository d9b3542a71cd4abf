// Package eventloop runs every seat callback on a single goroutine.
//
// Device events, timer expirations and configuration reloads are posted
// as tasks. A task always runs to completion before the next one starts,
// so code running on the loop never needs locking.
package eventloop

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/dshills/seatkeys/internal/logging"
)

// Errors returned by the loop and its timers.
var (
	ErrLoopClosed     = errors.New("event loop closed")
	ErrAlreadyRunning = errors.New("event loop already running")
	ErrTimerRemoved   = errors.New("timer removed")
)

// Loop is a single-threaded task queue with timers.
type Loop struct {
	clock clock.WithDelayedExecution
	log   *logrus.Entry

	mu     sync.Mutex
	queue  []func()
	closed bool

	wake    chan struct{}
	done    chan struct{}
	running atomic.Bool
}

// New creates a loop. A nil clock uses the real clock; a nil log discards.
func New(clk clock.WithDelayedExecution, log *logrus.Entry) *Loop {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Loop{
		clock: clk,
		log:   log,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Clock returns the clock timers are scheduled on.
func (l *Loop) Clock() clock.WithDelayedExecution {
	return l.clock
}

// Post queues fn to run on the loop. It is safe to call from any goroutine.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Run processes tasks until ctx is cancelled or the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			l.Drain()
			return nil
		case <-l.wake:
		}
	}
}

// Drain runs queued tasks on the calling goroutine until the queue is
// empty, including tasks posted by the tasks it runs. It returns the
// number of tasks run.
func (l *Loop) Drain() int {
	n := 0
	for {
		fn := l.next()
		if fn == nil {
			return n
		}
		fn()
		n++
	}
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Close stops Run after the queued tasks have run. Further posts fail
// with ErrLoopClosed. Close is idempotent.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	close(l.done)
}
