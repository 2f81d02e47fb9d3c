// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package event

import (
	"sync"
	"sync/atomic"
)

// Handler receives the payload published on a channel.
type Handler[P any] func(P)

// Emitter is a set of named channels, each holding an ordered list of
// handlers. The zero value is ready to use.
//
// Emitter is safe for concurrent use. Handlers may call back into the
// emitter (subscribe, unsubscribe or trigger) without deadlocking.
type Emitter[K comparable, P any] struct {
	mu       sync.Mutex
	channels map[K][]*subscriber[P]
}

type subscriber[P any] struct {
	fn     Handler[P]
	active atomic.Bool
}

// Subscription is the capability to remove one registered handler.
type Subscription struct {
	once   sync.Once
	remove func()
}

// Unsubscribe removes the handler. Calling it more than once, or after the
// whole channel was removed with Off, is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.remove != nil {
			s.remove()
		}
	})
}

// On registers h for kind. Handlers run in registration order.
func (e *Emitter[K, P]) On(kind K, h Handler[P]) *Subscription {
	sub := &subscriber[P]{fn: h}
	sub.active.Store(true)

	e.mu.Lock()
	if e.channels == nil {
		e.channels = make(map[K][]*subscriber[P])
	}
	e.channels[kind] = append(e.channels[kind], sub)
	e.mu.Unlock()

	return &Subscription{remove: func() { e.remove(kind, sub) }}
}

// Off removes every handler registered for kind.
func (e *Emitter[K, P]) Off(kind K) {
	e.mu.Lock()
	subs := e.channels[kind]
	delete(e.channels, kind)
	e.mu.Unlock()

	for _, s := range subs {
		s.active.Store(false)
	}
}

// Trigger invokes the handlers registered for kind with payload.
//
// The handler list is snapshotted before dispatch: a handler added while
// Trigger runs is not called in this pass, and a handler removed before its
// turn is skipped. Triggering a kind with no handlers does nothing.
func (e *Emitter[K, P]) Trigger(kind K, payload P) {
	e.mu.Lock()
	subs := e.channels[kind]
	if len(subs) == 0 {
		e.mu.Unlock()
		return
	}
	snapshot := make([]*subscriber[P], len(subs))
	copy(snapshot, subs)
	e.mu.Unlock()

	for _, s := range snapshot {
		if s.active.Load() {
			s.fn(payload)
		}
	}
}

// Count returns the number of handlers registered for kind.
func (e *Emitter[K, P]) Count(kind K) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.channels[kind])
}

func (e *Emitter[K, P]) remove(kind K, sub *subscriber[P]) {
	sub.active.Store(false)

	e.mu.Lock()
	defer e.mu.Unlock()

	subs := e.channels[kind]
	for i, s := range subs {
		if s != sub {
			continue
		}
		// Copy on removal: an in-flight Trigger may still hold the old slice.
		next := make([]*subscriber[P], 0, len(subs)-1)
		next = append(next, subs[:i]...)
		next = append(next, subs[i+1:]...)
		if len(next) == 0 {
			delete(e.channels, kind)
		} else {
			e.channels[kind] = next
		}
		return
	}
}
