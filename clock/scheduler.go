// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package clock

import (
	"sync"
	"time"
)

// IntervalScheduler runs requested frames on a fixed interval using timers.
// Callbacks run on timer goroutines, one frame at a time per clock, since a
// clock only requests its next frame after the current one finished. A
// scheduler may serve several clocks in turn.
type IntervalScheduler struct {
	interval time.Duration

	mu      sync.Mutex
	pending map[*time.Timer]struct{}
	stopped bool
}

// NewIntervalScheduler returns a scheduler targeting fps frames per second.
// Non-positive fps selects 60.
func NewIntervalScheduler(fps int) *IntervalScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &IntervalScheduler{
		interval: time.Second / time.Duration(fps),
		pending:  make(map[*time.Timer]struct{}),
	}
}

// Interval returns the time between frames.
func (s *IntervalScheduler) Interval() time.Duration {
	return s.interval
}

// RequestFrame schedules fn after one interval.
func (s *IntervalScheduler) RequestFrame(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.pending == nil {
		s.pending = make(map[*time.Timer]struct{})
	}
	var t *time.Timer
	t = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		delete(s.pending, t)
		s.mu.Unlock()
		fn()
	})
	s.pending[t] = struct{}{}
}

// Stop cancels every pending frame and rejects later requests.
func (s *IntervalScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for t := range s.pending {
		t.Stop()
	}
	clear(s.pending)
}

// ManualScheduler queues requested frames until Step runs them.
// It drives clocks deterministically in tests and headless runs.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

// RequestFrame queues fn for the next Step.
func (s *ManualScheduler) RequestFrame(fn func()) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}

// Pending returns the number of queued frames.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Step runs the frames queued before the call and returns how many ran.
// Frames requested while stepping wait for the next Step.
func (s *ManualScheduler) Step() int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Run steps n times and returns the number of frames that ran.
func (s *ManualScheduler) Run(n int) int {
	ran := 0
	for i := 0; i < n; i++ {
		ran += s.Step()
	}
	return ran
}
