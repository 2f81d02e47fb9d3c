// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package clock drives a per-frame Tick event.
//
// A Clock is armed on construction and re-arms itself after every tick
// through a Scheduler, the host's "call me before the next screen update"
// primitive. Ticking stops when Stop is called or when the scheduler never
// fires again.
package clock

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/stage/event"
	"github.com/gogpu/stage/internal/logging"
)

// DefaultDelta is the delta reported by the first tick, when there is no
// previous frame to measure against. It is never zero so consumers may
// divide by it.
const DefaultDelta = 16 * time.Millisecond

// Event identifies the clock's event channels.
type Event uint8

const (
	// Tick is published once per frame with the current Frame.
	Tick Event = iota
)

// Frame is the clock state observed by a tick.
type Frame struct {
	// Start is when the clock was created.
	Start time.Time

	// Current is the time of the latest tick.
	Current time.Time

	// Elapsed is Current - Start.
	Elapsed time.Duration

	// Delta is the time since the previous tick, never negative.
	Delta time.Duration
}

// Scheduler is the frame-scheduling primitive supplied by the host.
// RequestFrame arranges for fn to be called once, before the next frame.
type Scheduler interface {
	RequestFrame(fn func())
}

// Option configures a Clock.
type Option func(*options)

type options struct {
	now      func() time.Time
	fallback time.Duration
}

// WithNow replaces time.Now, mostly for tests.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithFallbackDelta sets the delta reported by the first tick.
// Non-positive values are ignored.
func WithFallbackDelta(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.fallback = d
		}
	}
}

// Clock produces elapsed/delta time once per frame.
type Clock struct {
	emitter event.Emitter[Event, Frame]
	sched   Scheduler
	now     func() time.Time

	mu       sync.Mutex
	frame    Frame
	fallback time.Duration
	ticks    uint64

	stopped atomic.Bool
}

// New creates a clock and schedules its first tick immediately.
func New(sched Scheduler, opts ...Option) *Clock {
	o := options{now: time.Now, fallback: DefaultDelta}
	for _, opt := range opts {
		opt(&o)
	}

	start := o.now()
	c := &Clock{
		sched:    sched,
		now:      o.now,
		fallback: o.fallback,
		frame: Frame{
			Start:   start,
			Current: start,
			Delta:   o.fallback,
		},
	}
	c.arm()
	return c
}

// OnTick registers h to run on every tick.
func (c *Clock) OnTick(h event.Handler[Frame]) *event.Subscription {
	return c.emitter.On(Tick, h)
}

// OffTick removes every tick handler.
func (c *Clock) OffTick() {
	c.emitter.Off(Tick)
}

// Frame returns the state observed by the latest tick.
func (c *Clock) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Ticks returns the number of ticks run so far.
func (c *Clock) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Stop ends the tick loop. A frame already requested from the scheduler
// runs as a no-op. The scheduler itself keeps running, so it may drive a
// later clock; stopping it is up to its owner. Stop is idempotent.
func (c *Clock) Stop() {
	c.stopped.Store(true)
}

// Stopped reports whether Stop was called.
func (c *Clock) Stopped() bool {
	return c.stopped.Load()
}

func (c *Clock) arm() {
	if c.sched == nil || c.stopped.Load() {
		return
	}
	c.sched.RequestFrame(c.tick)
}

func (c *Clock) tick() {
	if c.stopped.Load() {
		return
	}

	now := c.now()

	c.mu.Lock()
	delta := now.Sub(c.frame.Current)
	if c.ticks == 0 {
		delta = c.fallback
	} else if delta < 0 {
		delta = 0
	}
	c.frame.Delta = delta
	c.frame.Current = now
	c.frame.Elapsed = now.Sub(c.frame.Start)
	c.ticks++
	frame := c.frame
	c.mu.Unlock()

	c.emitter.Trigger(Tick, frame)

	if c.stopped.Load() {
		logging.Logger().Debug("clock: stopped", "elapsed", frame.Elapsed)
		return
	}
	c.arm()
}
