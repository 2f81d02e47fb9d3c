// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package viewport tracks the drawable area of the host window.
//
// A Watcher reads width, height and scale factor from a
// gpucontext.WindowProvider and re-publishes a Resize event every time the
// host reports a size change.
package viewport

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/stage/event"
	"github.com/gogpu/stage/internal/logging"
)

// DefaultMaxPixelRatio bounds the device pixel ratio so that off-screen
// buffers on very dense displays stay affordable.
const DefaultMaxPixelRatio = 2.0

// Event identifies the watcher's event channels.
type Event uint8

const (
	// Resize is published after every host size notification.
	Resize Event = iota
)

// Size is the drawable area in logical pixels plus the clamped pixel ratio.
type Size struct {
	Width      int
	Height     int
	PixelRatio float64
}

// Aspect returns Width/Height, or 1 for an empty area.
func (s Size) Aspect() float64 {
	if s.Width <= 0 || s.Height <= 0 {
		return 1
	}
	return float64(s.Width) / float64(s.Height)
}

// Physical returns the size in device pixels.
func (s Size) Physical() (width, height int) {
	r := s.PixelRatio
	if r <= 0 {
		r = 1
	}
	return int(math.Round(float64(s.Width) * r)), int(math.Round(float64(s.Height) * r))
}

// Notifier is the host mechanism reporting size changes.
// gpucontext.EventSource satisfies it.
type Notifier interface {
	OnResize(fn func(width, height int))
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithMaxPixelRatio overrides DefaultMaxPixelRatio. Values below 1 are ignored.
func WithMaxPixelRatio(r float64) Option {
	return func(w *Watcher) {
		if r >= 1 {
			w.maxRatio = r
		}
	}
}

// Watcher observes the host window and publishes Resize.
type Watcher struct {
	emitter  event.Emitter[Event, Size]
	window   gpucontext.WindowProvider
	maxRatio float64

	mu   sync.RWMutex
	size Size

	closed atomic.Bool
}

// New captures the current window size and subscribes to notifier.
// A nil notifier yields a watcher that never publishes on its own; Refresh
// can still be called by the host.
func New(window gpucontext.WindowProvider, notifier Notifier, opts ...Option) *Watcher {
	if window == nil {
		window = gpucontext.NullWindowProvider{}
	}
	w := &Watcher{
		window:   window,
		maxRatio: DefaultMaxPixelRatio,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.size = w.measure()

	if notifier != nil {
		notifier.OnResize(func(int, int) { w.Refresh() })
	}
	return w
}

// Size returns the latest measured size.
func (w *Watcher) Size() Size {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.size
}

// OnResize registers h to run on every Resize.
func (w *Watcher) OnResize(h event.Handler[Size]) *event.Subscription {
	return w.emitter.On(Resize, h)
}

// OffResize removes every resize handler.
func (w *Watcher) OffResize() {
	w.emitter.Off(Resize)
}

// Refresh re-reads the window and publishes Resize. It is what the host
// notification calls; every call publishes exactly one event.
func (w *Watcher) Refresh() {
	if w.closed.Load() {
		return
	}
	s := w.measure()

	w.mu.Lock()
	w.size = s
	w.mu.Unlock()

	logging.Logger().Debug("viewport: resize", "width", s.Width, "height", s.Height, "ratio", s.PixelRatio)
	w.emitter.Trigger(Resize, s)
}

// Close stops publishing. gpucontext offers no way to unregister a resize
// callback, so later host notifications are ignored instead.
func (w *Watcher) Close() {
	w.closed.Store(true)
}

func (w *Watcher) measure() Size {
	width, height := w.window.Size()
	return Size{
		Width:      width,
		Height:     height,
		PixelRatio: clampRatio(w.window.ScaleFactor(), w.maxRatio),
	}
}

func clampRatio(r, limit float64) float64 {
	if r <= 0 || math.IsNaN(r) {
		return 1
	}
	return math.Min(r, limit)
}
