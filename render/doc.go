// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render draws scene graphs through a camera.
//
// # Core Interfaces
//
//   - Renderer: resizes its drawing surface, renders a scene root through a
//     camera, and releases its resources on Dispose
//
// # Renderer Implementations
//
//   - Wireframe: CPU rendering of mesh triangle edges into a gg.Context,
//     usable without a GPU device (tests, headless demos, snapshots)
//
// # Usage
//
//	r, err := render.NewWireframe(800, 600, render.WithBackground(gg.Hex("#211d20")))
//	if err != nil {
//	    return err
//	}
//	defer r.Dispose()
//
//	_ = r.Resize(size.Width, size.Height, size.PixelRatio)
//	if err := r.Render(root, cam); err != nil {
//	    return err
//	}
//	_ = r.SavePNG("frame.png")
package render
