// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"reflect"

	"github.com/gogpu/stage/internal/logging"
)

// Disposable is implemented by resources that hold memory outside the Go
// heap (GPU buffers, textures, native handles) and must be released
// explicitly.
type Disposable interface {
	Dispose()
}

// Graph is implemented by assets that own a node hierarchy, such as loaded
// models.
type Graph interface {
	Graph() *Node
}

// Disposer releases resources reachable from scene graphs exactly once.
//
// Identity is tracked with a visited set keyed by the Disposable value, so
// a texture shared by two meshes, or a geometry referenced from a model and
// from the scene, is released once even across several Walk and Release
// calls on the same Disposer. Disposables with non-comparable dynamic types
// carry no identity and are released on every visit.
//
// A Disposer is not safe for concurrent use.
type Disposer struct {
	seen     map[Disposable]struct{}
	released int
}

// NewDisposer returns an empty Disposer.
func NewDisposer() *Disposer {
	return &Disposer{seen: make(map[Disposable]struct{})}
}

// Walk visits root and its descendants depth-first. For every node with a
// mesh it releases the geometry, then the material if it is Disposable,
// then every material attribute that is Disposable. Nodes without
// disposable content are skipped.
func (d *Disposer) Walk(root *Node) {
	root.Traverse(func(n *Node) {
		if n.Mesh == nil {
			return
		}
		if n.Mesh.Geometry != nil {
			d.release(n.Mesh.Geometry)
		}
		mat := n.Mesh.Material
		if mat == nil {
			return
		}
		if dm, ok := mat.(Disposable); ok {
			d.release(dm)
		}
		for name, v := range mat.Attributes() {
			if dv, ok := v.(Disposable); ok {
				logging.Logger().Debug("scene: dispose attribute", "node", n.Name, "attribute", name)
				d.release(dv)
			}
		}
	})
}

// Release disposes v once. It accepts a *Node or Graph (walked), or any
// Disposable. It reports whether v was recognized.
func (d *Disposer) Release(v any) bool {
	switch r := v.(type) {
	case nil:
		return false
	case *Node:
		d.Walk(r)
		return true
	case Graph:
		d.Walk(r.Graph())
		if dv, ok := v.(Disposable); ok {
			d.release(dv)
		}
		return true
	case Disposable:
		d.release(r)
		return true
	}
	return false
}

// Released returns the number of Dispose calls made.
func (d *Disposer) Released() int {
	return d.released
}

func (d *Disposer) release(r Disposable) {
	if rv := reflect.ValueOf(r); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return
	}
	if reflect.TypeOf(r).Comparable() {
		if d.seen == nil {
			d.seen = make(map[Disposable]struct{})
		}
		if _, ok := d.seen[r]; ok {
			return
		}
		d.seen[r] = struct{}{}
	}
	r.Dispose()
	d.released++
}

// Dispose walks root with a fresh Disposer and returns the number of
// resources released.
func Dispose(root *Node) int {
	d := NewDisposer()
	d.Walk(root)
	return d.released
}
