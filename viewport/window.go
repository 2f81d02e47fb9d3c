// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package viewport

import (
	"sync"

	"github.com/gogpu/gpucontext"
)

// Window is a headless host window. It implements gpucontext.WindowProvider
// and Notifier, so it can stand in for a real windowing backend in tests,
// offline renders and servers.
type Window struct {
	mu        sync.Mutex
	width     int
	height    int
	scale     float64
	listeners []func(width, height int)
	redraws   int
}

var (
	_ gpucontext.WindowProvider = (*Window)(nil)
	_ Notifier                  = (*Window)(nil)
)

// NewWindow creates a headless window of the given logical size.
func NewWindow(width, height int, scale float64) *Window {
	if scale <= 0 {
		scale = 1
	}
	return &Window{width: width, height: height, scale: scale}
}

// Size implements gpucontext.WindowProvider.
func (w *Window) Size() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// ScaleFactor implements gpucontext.WindowProvider.
func (w *Window) ScaleFactor() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

// RequestRedraw implements gpucontext.WindowProvider. It only counts calls.
func (w *Window) RequestRedraw() {
	w.mu.Lock()
	w.redraws++
	w.mu.Unlock()
}

// Redraws returns the number of RequestRedraw calls.
func (w *Window) Redraws() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.redraws
}

// OnResize implements Notifier.
func (w *Window) OnResize(fn func(width, height int)) {
	w.mu.Lock()
	w.listeners = append(w.listeners, fn)
	w.mu.Unlock()
}

// SetSize changes the logical size and notifies listeners, even when the
// size is unchanged, like a raw host resize event.
func (w *Window) SetSize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
	w.notify()
}

// SetScaleFactor changes the device scale factor and notifies listeners.
func (w *Window) SetScaleFactor(scale float64) {
	w.mu.Lock()
	w.scale = scale
	w.mu.Unlock()
	w.notify()
}

func (w *Window) notify() {
	w.mu.Lock()
	width, height := w.width, w.height
	listeners := make([]func(int, int), len(w.listeners))
	copy(listeners, w.listeners)
	w.mu.Unlock()

	for _, fn := range listeners {
		fn(width, height)
	}
}
