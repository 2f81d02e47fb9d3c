// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"

	"github.com/gogpu/stage/camera"
	"github.com/gogpu/stage/scene"
)

// Errors.
var (
	// ErrDisposed is returned by a renderer used after Dispose.
	ErrDisposed = errors.New("render: renderer disposed")

	// ErrInvalidSize is returned for non-positive surface dimensions.
	ErrInvalidSize = errors.New("render: invalid surface size")
)

// Renderer draws a scene graph to its surface.
//
// Resize sets the drawing-buffer size: logical width and height multiplied
// by the pixel ratio. Render draws every visible mesh below root as seen by
// cam. Dispose releases the surface; it is idempotent.
//
// Renderers are NOT thread-safe unless an implementation says otherwise.
type Renderer interface {
	Resize(width, height int, pixelRatio float64) error
	Render(root *scene.Node, cam *camera.Perspective) error
	Dispose() error
}

// Stats describes the last rendered frame.
type Stats struct {
	Frames    int // frames rendered since creation
	Meshes    int // meshes drawn in the last frame
	Triangles int // triangles submitted in the last frame
	Segments  int // edges that survived clipping in the last frame
}
