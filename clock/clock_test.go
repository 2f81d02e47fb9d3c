// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package clock

import (
	"sync/atomic"
	"testing"
	"time"
)

// fakeTime returns a controllable now function.
type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestNewSchedulesFirstTick(t *testing.T) {
	var s ManualScheduler
	c := New(&s)

	if got := s.Pending(); got != 1 {
		t.Fatalf("pending frames = %d, want 1", got)
	}
	f := c.Frame()
	if f.Delta != DefaultDelta {
		t.Errorf("initial Delta = %v, want %v", f.Delta, DefaultDelta)
	}
	if f.Elapsed != 0 {
		t.Errorf("initial Elapsed = %v, want 0", f.Elapsed)
	}
}

func TestFirstTickUsesFallback(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	var s ManualScheduler
	c := New(&s, WithNow(ft.now))

	var got []Frame
	c.OnTick(func(f Frame) { got = append(got, f) })

	// The host fires the first frame immediately: zero wall time passed.
	s.Step()

	if len(got) != 1 {
		t.Fatalf("ticks = %d, want 1", len(got))
	}
	if got[0].Delta != DefaultDelta {
		t.Errorf("first Delta = %v, want fallback %v", got[0].Delta, DefaultDelta)
	}
}

func TestTickDeltas(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	var s ManualScheduler
	c := New(&s, WithNow(ft.now), WithFallbackDelta(10*time.Millisecond))

	var got []Frame
	c.OnTick(func(f Frame) { got = append(got, f) })

	steps := []time.Duration{5 * time.Millisecond, 17 * time.Millisecond, 0, 33 * time.Millisecond}
	for _, d := range steps {
		ft.advance(d)
		s.Step()
	}

	if len(got) != len(steps) {
		t.Fatalf("ticks = %d, want %d", len(got), len(steps))
	}
	if got[0].Delta != 10*time.Millisecond {
		t.Errorf("first Delta = %v, want 10ms", got[0].Delta)
	}
	var elapsed time.Duration
	for i, f := range got {
		elapsed += steps[i]
		if f.Delta < 0 {
			t.Errorf("tick %d: negative delta %v", i, f.Delta)
		}
		if i > 0 && f.Delta != steps[i] {
			t.Errorf("tick %d: Delta = %v, want %v", i, f.Delta, steps[i])
		}
		if f.Elapsed != elapsed {
			t.Errorf("tick %d: Elapsed = %v, want %v", i, f.Elapsed, elapsed)
		}
	}
	if c.Ticks() != uint64(len(steps)) {
		t.Errorf("Ticks() = %d", c.Ticks())
	}
}

func TestBackwardsTimeClampsDelta(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	var s ManualScheduler
	c := New(&s, WithNow(ft.now))
	s.Step()

	ft.advance(-time.Second)
	s.Step()

	if d := c.Frame().Delta; d != 0 {
		t.Errorf("Delta = %v, want 0 after time went backwards", d)
	}
}

func TestStop(t *testing.T) {
	var s ManualScheduler
	c := New(&s)
	ticks := 0
	c.OnTick(func(Frame) { ticks++ })

	s.Step()
	c.Stop()
	c.Stop()
	s.Run(3)

	if ticks != 1 {
		t.Errorf("ticks = %d, want 1", ticks)
	}
	if !c.Stopped() {
		t.Error("Stopped() = false")
	}
	if got := s.Pending(); got != 0 {
		t.Errorf("pending frames after stop = %d, want 0", got)
	}
}

func TestStopFromHandler(t *testing.T) {
	var s ManualScheduler
	c := New(&s)
	ticks := 0
	c.OnTick(func(Frame) {
		ticks++
		c.Stop()
	})

	s.Run(3)
	if ticks != 1 {
		t.Errorf("ticks = %d, want 1", ticks)
	}
}

func TestOffTick(t *testing.T) {
	var s ManualScheduler
	c := New(&s)
	ticks := 0
	c.OnTick(func(Frame) { ticks++ })
	c.OffTick()

	s.Run(2)
	if ticks != 0 {
		t.Errorf("ticks = %d after OffTick", ticks)
	}
	if c.Ticks() != 2 {
		t.Errorf("clock kept running: Ticks() = %d, want 2", c.Ticks())
	}
}

func TestNilSchedulerNeverTicks(t *testing.T) {
	c := New(nil)
	if c.Ticks() != 0 {
		t.Errorf("Ticks() = %d", c.Ticks())
	}
}

func TestIntervalScheduler(t *testing.T) {
	s := NewIntervalScheduler(200)
	if s.Interval() != 5*time.Millisecond {
		t.Fatalf("Interval() = %v", s.Interval())
	}

	done := make(chan struct{})
	var ticks atomic.Int32
	c := New(s)
	c.OnTick(func(Frame) {
		if ticks.Add(1) == 3 {
			close(done)
		}
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("interval scheduler did not deliver 3 ticks")
	}
	c.Stop()

	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	if got := ticks.Load(); got > after+1 {
		t.Errorf("ticks kept running after Stop: %d -> %d", after, got)
	}
}

func TestIntervalSchedulerDefaultFPS(t *testing.T) {
	s := NewIntervalScheduler(0)
	if want := time.Second / 60; s.Interval() != want {
		t.Errorf("Interval() = %v, want %v", s.Interval(), want)
	}
	s.Stop()
	s.RequestFrame(func() { t.Error("frame ran after Stop") })
	time.Sleep(3 * s.Interval())
}

func TestStopKeepsSharedScheduler(t *testing.T) {
	s := NewIntervalScheduler(200)
	defer s.Stop()

	first := New(s)
	first.Stop()

	done := make(chan struct{})
	var ticks atomic.Int32
	second := New(s)
	defer second.Stop()
	second.OnTick(func(Frame) {
		if ticks.Add(1) == 2 {
			close(done)
		}
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("a clock stopped earlier halted the shared scheduler")
	}
	if first.Ticks() != 0 {
		t.Errorf("stopped clock ticked %d times", first.Ticks())
	}
}
