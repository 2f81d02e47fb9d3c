// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"testing"

	"cogentcore.org/core/math32"
)

func TestNodeHierarchy(t *testing.T) {
	root := NewNode("root")
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	root.Add(a, b)
	a.Add(c)
	root.Add(root, nil) // ignored

	if len(root.Children()) != 2 || c.Parent() != a {
		t.Fatalf("unexpected hierarchy")
	}

	var order []string
	root.Traverse(func(n *Node) { order = append(order, n.Name) })
	want := []string{"root", "a", "c", "b"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("traversal = %v, want %v", order, want)
		}
	}

	// Re-parenting detaches from the old parent.
	b.Add(c)
	if len(a.Children()) != 0 || c.Parent() != b {
		t.Error("re-parenting did not detach child")
	}
	if root.Find("c") != c || root.Find("missing") != nil {
		t.Error("Find returned the wrong node")
	}
	if root.Remove(NewNode("stranger")) {
		t.Error("Remove of unattached node reported true")
	}
}

func TestWorldPoint(t *testing.T) {
	parent := NewNode("parent")
	parent.Position = math32.Vec3(10, 0, 0)
	parent.Scale = math32.Vec3(2, 2, 2)
	child := NewNode("child")
	child.Position = math32.Vec3(0, 1, 0)
	child.Rotation = math32.Vec3(0, 0, math32.Pi/2)
	parent.Add(child)

	got := child.WorldPoint(math32.Vec3(1, 0, 0))
	// (1,0,0) rotated 90° about Z -> (0,1,0); + (0,1,0) -> (0,2,0); *2 -> (0,4,0); + (10,0,0)
	want := math32.Vec3(10, 4, 0)
	if got.Sub(want).Length() > 1e-5 {
		t.Errorf("WorldPoint = %+v, want %+v", got, want)
	}
}

func TestWorldVisible(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.Add(child)
	if !child.WorldVisible() {
		t.Error("child should be visible")
	}
	parent.Visible = false
	if child.WorldVisible() {
		t.Error("child of hidden parent should be hidden")
	}
}

func TestWorldMatrixRotationOrder(t *testing.T) {
	n := NewNode("n")
	n.Rotation = math32.Vec3(0, math32.Pi/2, 0)
	// A quarter turn about Y carries +X onto -Z.
	if got := n.WorldPoint(math32.Vec3(1, 0, 0)); got.Sub(math32.Vec3(0, 0, -1)).Length() > 1e-5 {
		t.Errorf("WorldPoint = %+v, want (0,0,-1)", got)
	}

	root := NewNode("root")
	root.Position = math32.Vec3(0, 0, 5)
	root.Add(n)
	m := n.WorldMatrix()
	if p := math32.Vector4FromVector3(math32.Vec3(0, 0, 0), 1).MulMatrix4(&m); p.Z != 5 {
		t.Errorf("origin maps to %+v, want z=5", p)
	}
}

func TestGeometryTriangles(t *testing.T) {
	box := NewBoxGeometry(2, 2, 2)
	if box.VertexCount() != 8 {
		t.Errorf("VertexCount() = %d", box.VertexCount())
	}
	tris := 0
	box.Triangles(func(a, b, c int) { tris++ })
	if tris != 12 {
		t.Errorf("box triangles = %d, want 12", tris)
	}
	if v := box.Vertex(6); v != math32.Vec3(1, 1, 1) {
		t.Errorf("Vertex(6) = %+v", v)
	}

	soup := &Geometry{Positions: make([]float32, 18)}
	tris = 0
	soup.Triangles(func(a, b, c int) { tris++ })
	if tris != 2 {
		t.Errorf("non-indexed triangles = %d, want 2", tris)
	}

	box.Dispose()
	box.Dispose()
	tris = 0
	box.Triangles(func(a, b, c int) { tris++ })
	if tris != 0 || box.VertexCount() != 0 {
		t.Error("disposed geometry still yields triangles")
	}
}
