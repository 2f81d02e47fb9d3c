// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package stage is an application core for 3D scene demos.
//
// # Overview
//
// An Experience composes the pieces a demo needs and wires them together:
// a viewport watcher, a frame clock, a scene graph, a camera with controls,
// a renderer, a batch of loaded resources, an optional debug panel and the
// demo's own World. The host creates one Root at its entry point and asks
// it for the Experience; later calls return the same instance.
//
// # Quick Start
//
//	var root stage.Root
//
//	exp, err := root.Experience(
//	    stage.WithWindow(window),
//	    stage.WithAssetDir("static"),
//	    stage.WithManifest("sources.yaml"),
//	    stage.WithWorld(NewWorld),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Destroy()
//
// # Frame Loop
//
// Every clock tick runs Update: controls, then the world, then the
// renderer. Every viewport notification runs Resize: camera aspect, then
// renderer surface. Both run under the experience lock, so a frame always
// observes a consistent world.
//
// # Teardown
//
// Destroy detaches from the clock and viewport, cancels pending loads and
// releases every GPU-backed resource reachable from the scene and the
// loaded assets exactly once, then disposes controls, renderer and debug
// panel. Afterwards the Root forgets the instance.
//
// # Logging
//
// stage produces no log output by default. Call SetLogger to enable it.
package stage
