// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import "cogentcore.org/core/math32"

// Node is a scene graph node. A node may carry a Mesh; nodes without one
// only group and transform their children.
type Node struct {
	Name     string
	Position math32.Vector3
	Rotation math32.Vector3 // Euler angles in radians, XYZ order
	Scale    math32.Vector3
	Visible  bool
	Mesh     *Mesh

	parent   *Node
	children []*Node
}

// NewNode creates an empty visible node with unit scale.
func NewNode(name string) *Node {
	return &Node{Name: name, Scale: math32.Vec3(1, 1, 1), Visible: true}
}

// NewMeshNode creates a node carrying a mesh.
func NewMeshNode(name string, g *Geometry, m Material) *Node {
	n := NewNode(name)
	n.Mesh = &Mesh{Geometry: g, Material: m}
	return n
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Add attaches children to n, detaching them from any previous parent.
// Adding a node to itself is ignored.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Remove detaches child from n. It reports whether child was attached.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse calls fn for n and every descendant, depth-first, parents
// before children.
func (n *Node) Traverse(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Find returns the first node named name in depth-first order.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(c *Node) {
		if found == nil && c.Name == name {
			found = c
		}
	})
	return found
}

// Matrix returns the local transform: scale, then rotation, then
// translation.
func (n *Node) Matrix() math32.Matrix4 {
	var m math32.Matrix4
	m.SetTransform(n.Position, math32.NewQuatEuler(n.Rotation), n.Scale)
	return m
}

// WorldMatrix returns the transform from n's local space to world space.
func (n *Node) WorldMatrix() math32.Matrix4 {
	m := n.Matrix()
	if n.parent == nil {
		return m
	}
	pm := n.parent.WorldMatrix()
	var w math32.Matrix4
	w.MulMatrices(&pm, &m)
	return w
}

// WorldPoint transforms a point from n's local space to world space.
func (n *Node) WorldPoint(p math32.Vector3) math32.Vector3 {
	m := n.WorldMatrix()
	return TransformPoint(&m, p)
}

// TransformPoint applies the affine transform m to p.
func TransformPoint(m *math32.Matrix4, p math32.Vector3) math32.Vector3 {
	w := math32.Vector4FromVector3(p, 1).MulMatrix4(m)
	return math32.Vec3(w.X, w.Y, w.Z)
}

// WorldVisible reports whether n and all its ancestors are visible.
func (n *Node) WorldVisible() bool {
	for c := n; c != nil; c = c.parent {
		if !c.Visible {
			return false
		}
	}
	return true
}
