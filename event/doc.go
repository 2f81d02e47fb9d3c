// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package event provides a small typed publish/subscribe emitter.
//
// Every stateful stage component (clock, viewport watcher, resource loader)
// embeds an Emitter keyed by its own closed set of event kinds, so event
// names and payload types are checked at compile time:
//
//	type Kind uint8
//
//	const Tick Kind = iota
//
//	var e event.Emitter[Kind, time.Duration]
//	sub := e.On(Tick, func(d time.Duration) { fmt.Println(d) })
//	e.Trigger(Tick, 16*time.Millisecond)
//	sub.Unsubscribe()
//
// Dispatch is synchronous: Trigger runs every handler registered for the
// kind, in registration order, on the calling goroutine, and returns once
// all of them have finished.
package event
