// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package scene is a minimal retained scene graph: nodes with transforms,
// meshes built from geometry and materials, and the textures they sample.
//
// Resources that hold off-heap or GPU memory implement Disposable. A
// Disposer walks a graph and releases each of them exactly once:
//
//	root := scene.NewNode("scene")
//	tex := scene.NewTexture("grass", img)
//	floor := scene.NewMeshNode("floor", scene.NewPlaneGeometry(10, 10),
//	    &scene.StandardMaterial{Map: tex})
//	root.Add(floor)
//
//	released := scene.Dispose(root)
//
// The graph itself is not safe for concurrent mutation; the owner
// serializes access.
package scene
