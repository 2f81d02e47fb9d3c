// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"sync"

	"cogentcore.org/core/math32"
)

// Mesh pairs shape data with its appearance.
type Mesh struct {
	Geometry *Geometry
	Material Material
}

// Geometry holds indexed triangle data. Positions are packed XYZ triples.
//
// A real backend uploads it to vertex and index buffers; Dispose drops the
// CPU copy and marks the geometry released.
type Geometry struct {
	Name      string
	Positions []float32
	Indices   []uint32

	mu       sync.Mutex
	disposed bool
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int { return len(g.Positions) / 3 }

// Vertex returns vertex i.
func (g *Geometry) Vertex(i int) math32.Vector3 {
	return math32.Vec3(g.Positions[3*i], g.Positions[3*i+1], g.Positions[3*i+2])
}

// Triangles calls fn for every indexed triangle. Non-indexed geometry is
// read as consecutive vertex triples.
func (g *Geometry) Triangles(fn func(a, b, c int)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.disposed {
		return
	}
	if len(g.Indices) > 0 {
		for i := 0; i+2 < len(g.Indices); i += 3 {
			fn(int(g.Indices[i]), int(g.Indices[i+1]), int(g.Indices[i+2]))
		}
		return
	}
	for i := 0; i+2 < g.VertexCount(); i += 3 {
		fn(i, i+1, i+2)
	}
}

// Dispose releases the geometry. It is idempotent.
func (g *Geometry) Dispose() {
	if g == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disposed = true
	g.Positions = nil
	g.Indices = nil
}

// Disposed reports whether Dispose ran.
func (g *Geometry) Disposed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disposed
}

// NewBoxGeometry returns an axis-aligned box centered on the origin.
func NewBoxGeometry(width, height, depth float32) *Geometry {
	x, y, z := width/2, height/2, depth/2
	return &Geometry{
		Name: "box",
		Positions: []float32{
			-x, -y, -z, x, -y, -z, x, y, -z, -x, y, -z,
			-x, -y, z, x, -y, z, x, y, z, -x, y, z,
		},
		Indices: []uint32{
			0, 2, 1, 0, 3, 2, // back
			4, 5, 6, 4, 6, 7, // front
			0, 1, 5, 0, 5, 4, // bottom
			3, 6, 2, 3, 7, 6, // top
			0, 4, 7, 0, 7, 3, // left
			1, 2, 6, 1, 6, 5, // right
		},
	}
}

// NewPlaneGeometry returns a plane in the XY plane centered on the origin.
// Rotate the node by -π/2 around X to lay it flat.
func NewPlaneGeometry(width, height float32) *Geometry {
	x, y := width/2, height/2
	return &Geometry{
		Name:      "plane",
		Positions: []float32{-x, -y, 0, x, -y, 0, x, y, 0, -x, y, 0},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}
