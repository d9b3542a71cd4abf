package eventloop

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	testingclock "k8s.io/utils/clock/testing"
)

func newTestLoop() (*Loop, *testingclock.FakeClock) {
	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	return New(clk, nil), clk
}

func TestDrainRunsInOrder(t *testing.T) {
	l, _ := newTestLoop()
	var got []int

	_ = l.Post(func() { got = append(got, 1) })
	_ = l.Post(func() {
		got = append(got, 2)
		_ = l.Post(func() { got = append(got, 4) })
	})
	_ = l.Post(func() { got = append(got, 3) })

	if n := l.Drain(); n != 4 {
		t.Errorf("Drain() = %d, want 4", n)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Errorf("order = %v", got)
	}
	if l.Pending() != 0 {
		t.Errorf("Pending() = %d after Drain", l.Pending())
	}
}

func TestPostAfterClose(t *testing.T) {
	l, _ := newTestLoop()
	l.Close()
	l.Close()
	if err := l.Post(func() {}); !errors.Is(err, ErrLoopClosed) {
		t.Errorf("Post() error = %v, want ErrLoopClosed", err)
	}
	if _, err := l.AddTimer(func() {}); !errors.Is(err, ErrLoopClosed) {
		t.Errorf("AddTimer() error = %v, want ErrLoopClosed", err)
	}
}

func TestRunProcessesPostedTasks(t *testing.T) {
	l, _ := newTestLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	ran := make(chan struct{})
	if err := l.Post(func() { close(ran) }); err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("task did not run")
	}

	l.Close()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after Close")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	l, _ := newTestLoop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestTimerFiresAfterDelay(t *testing.T) {
	l, clk := newTestLoop()
	fired := 0
	timer, err := l.AddTimer(func() { fired++ })
	if err != nil {
		t.Fatalf("AddTimer() error = %v", err)
	}

	if err := timer.Update(600); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	clk.Step(599 * time.Millisecond)
	l.Drain()
	if fired != 0 {
		t.Fatalf("fired %d times before the delay", fired)
	}
	clk.Step(time.Millisecond)
	l.Drain()
	if fired != 1 {
		t.Fatalf("fired %d times, want 1", fired)
	}
	if timer.Armed() {
		t.Error("timer still armed after firing")
	}

	clk.Step(time.Hour)
	l.Drain()
	if fired != 1 {
		t.Errorf("one-shot timer fired %d times", fired)
	}
}

func TestTimerRearmReplaces(t *testing.T) {
	l, clk := newTestLoop()
	fired := 0
	timer, _ := l.AddTimer(func() { fired++ })

	_ = timer.Update(600)
	clk.Step(300 * time.Millisecond)
	_ = timer.Update(600)
	clk.Step(300 * time.Millisecond)
	l.Drain()
	if fired != 0 {
		t.Fatalf("replaced expiration fired")
	}
	clk.Step(300 * time.Millisecond)
	l.Drain()
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

func TestTimerDisarmDropsPostedExpiration(t *testing.T) {
	l, clk := newTestLoop()
	fired := 0
	timer, _ := l.AddTimer(func() { fired++ })

	_ = timer.Update(10)
	clk.Step(10 * time.Millisecond)
	if l.Pending() != 1 {
		t.Fatalf("Pending() = %d, want the posted expiration", l.Pending())
	}
	_ = timer.Update(0)
	_ = timer.Update(0)
	l.Drain()
	if fired != 0 {
		t.Errorf("disarmed timer fired %d times", fired)
	}
}

func TestTimerCallbackRearms(t *testing.T) {
	l, clk := newTestLoop()
	var ticks []time.Duration
	start := clk.Now()

	var timer *Timer
	timer, _ = l.AddTimer(func() {
		ticks = append(ticks, clk.Since(start))
		_ = timer.Update(40)
	})
	_ = timer.Update(600)

	for i := 0; i < 4; i++ {
		clk.Step(nextStep(i))
		l.Drain()
	}

	want := []time.Duration{600 * time.Millisecond, 640 * time.Millisecond, 680 * time.Millisecond, 720 * time.Millisecond}
	if !reflect.DeepEqual(ticks, want) {
		t.Errorf("ticks = %v, want %v", ticks, want)
	}
}

func nextStep(i int) time.Duration {
	if i == 0 {
		return 600 * time.Millisecond
	}
	return 40 * time.Millisecond
}

func TestTimerRemove(t *testing.T) {
	l, clk := newTestLoop()
	fired := 0
	timer, _ := l.AddTimer(func() { fired++ })

	_ = timer.Update(5)
	timer.Remove()
	timer.Remove()
	clk.Step(time.Second)
	l.Drain()
	if fired != 0 {
		t.Errorf("removed timer fired")
	}
	if err := timer.Update(5); !errors.Is(err, ErrTimerRemoved) {
		t.Errorf("Update() error = %v, want ErrTimerRemoved", err)
	}
}
