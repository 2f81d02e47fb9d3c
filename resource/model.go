// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"math"
	"path"
	"strings"

	"cogentcore.org/core/math32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gogpu/stage/scene"
)

// Model is a loaded glTF scene.
type Model struct {
	Name       string
	Scene      *scene.Node
	Animations []string
}

// Graph implements scene.Graph.
func (m *Model) Graph() *scene.Node {
	return m.Scene
}

// ModelLoader loads glTF 2.0 models, both .gltf (JSON with embedded or
// external buffers) and .glb (binary container). It builds the node
// hierarchy with transforms, triangle geometry from POSITION and index
// accessors, base color/roughness/metalness materials and animation names.
type ModelLoader struct {
	FS fs.FS
}

var errGLTF = errors.New("resource: invalid glTF")

// Load implements Loader.
func (l *ModelLoader) Load(ctx context.Context, src Source) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := l.FS.Open(src.Location)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// External buffers resolve relative to the model file.
	dir, err := fs.Sub(l.FS, path.Dir(src.Location))
	if err != nil {
		return nil, err
	}
	var doc gltf.Document
	if err := gltf.NewDecoderFS(f, dir).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errGLTF, src.Location, err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, fmt.Errorf("%w: %s: unsupported version %q", errGLTF, src.Location, doc.Asset.Version)
	}

	b := &gltfBuilder{
		ctx:   ctx,
		doc:   &doc,
		geoms: make(map[[2]int]*scene.Geometry),
		mats:  make(map[int]scene.Material),
	}
	root, err := b.build(src.Name)
	if err != nil {
		return nil, fmt.Errorf("resource: model %s: %w", src.Location, err)
	}

	m := &Model{Name: src.Name, Scene: root}
	for i, a := range doc.Animations {
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("animation%d", i)
		}
		m.Animations = append(m.Animations, name)
	}
	return m, nil
}

// gltfBuilder maps a decoded document onto scene nodes.
type gltfBuilder struct {
	ctx   context.Context
	doc   *gltf.Document
	geoms map[[2]int]*scene.Geometry
	mats  map[int]scene.Material
	depth int
}

func (b *gltfBuilder) build(name string) (*scene.Node, error) {
	root := scene.NewNode(name)

	var roots []int
	switch {
	case len(b.doc.Scenes) > 0:
		si := 0
		if b.doc.Scene != nil {
			si = *b.doc.Scene
		}
		if si < 0 || si >= len(b.doc.Scenes) {
			return nil, fmt.Errorf("%w: scene %d out of range", errGLTF, si)
		}
		roots = b.doc.Scenes[si].Nodes
	default:
		// No scenes: every node that is nobody's child is a root.
		child := make(map[int]bool)
		for _, n := range b.doc.Nodes {
			for _, c := range n.Children {
				child[c] = true
			}
		}
		for i := range b.doc.Nodes {
			if !child[i] {
				roots = append(roots, i)
			}
		}
	}

	for _, i := range roots {
		n, err := b.node(i)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	return root, nil
}

func (b *gltfBuilder) node(i int) (*scene.Node, error) {
	if i < 0 || i >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("%w: node %d out of range", errGLTF, i)
	}
	if err := b.ctx.Err(); err != nil {
		return nil, err
	}
	b.depth++
	defer func() { b.depth-- }()
	if b.depth > len(b.doc.Nodes) {
		return nil, fmt.Errorf("%w: node hierarchy has a cycle", errGLTF)
	}

	gn := b.doc.Nodes[i]
	n := scene.NewNode(gn.Name)
	t, s, r := gn.TranslationOrDefault(), gn.ScaleOrDefault(), gn.RotationOrDefault()
	n.Position = math32.Vec3(float32(t[0]), float32(t[1]), float32(t[2]))
	n.Scale = math32.Vec3(float32(s[0]), float32(s[1]), float32(s[2]))
	q := math32.NewQuat(float32(r[0]), float32(r[1]), float32(r[2]), float32(r[3]))
	n.Rotation = q.ToEuler()

	if gn.Mesh != nil {
		if err := b.attachMesh(n, *gn.Mesh); err != nil {
			return nil, err
		}
	}
	for _, c := range gn.Children {
		cn, err := b.node(c)
		if err != nil {
			return nil, err
		}
		n.Add(cn)
	}
	return n, nil
}

// attachMesh puts a single-primitive mesh on n itself and gives each
// primitive of a multi-primitive mesh its own child node.
func (b *gltfBuilder) attachMesh(n *scene.Node, mi int) error {
	if mi < 0 || mi >= len(b.doc.Meshes) {
		return fmt.Errorf("%w: mesh %d out of range", errGLTF, mi)
	}
	mesh := b.doc.Meshes[mi]
	for pi, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		geo, err := b.geometry(mi, pi, prim)
		if err != nil {
			return err
		}
		m := &scene.Mesh{Geometry: geo, Material: b.material(prim.Material)}
		if len(mesh.Primitives) == 1 {
			n.Mesh = m
			continue
		}
		child := scene.NewNode(fmt.Sprintf("%s.%d", mesh.Name, pi))
		child.Mesh = m
		n.Add(child)
	}
	return nil
}

// geometry decodes one primitive. Nodes instancing the same mesh share the
// resulting *scene.Geometry.
func (b *gltfBuilder) geometry(mi, pi int, prim *gltf.Primitive) (*scene.Geometry, error) {
	key := [2]int{mi, pi}
	if g, ok := b.geoms[key]; ok {
		return g, nil
	}
	pos, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("%w: mesh %d primitive %d has no POSITION", errGLTF, mi, pi)
	}
	acr, err := b.accessor(pos)
	if err != nil {
		return nil, err
	}
	vecs, err := modeler.ReadPosition(b.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: POSITION accessor %d: %w", errGLTF, pos, err)
	}
	g := &scene.Geometry{Name: b.doc.Meshes[mi].Name, Positions: make([]float32, 0, 3*len(vecs))}
	for _, v := range vecs {
		g.Positions = append(g.Positions, v[0], v[1], v[2])
	}
	if prim.Indices != nil {
		acr, err := b.accessor(*prim.Indices)
		if err != nil {
			return nil, err
		}
		if g.Indices, err = modeler.ReadIndices(b.doc, acr, nil); err != nil {
			return nil, fmt.Errorf("%w: index accessor %d: %w", errGLTF, *prim.Indices, err)
		}
	}
	b.geoms[key] = g
	return g, nil
}

func (b *gltfBuilder) accessor(ai int) (*gltf.Accessor, error) {
	if ai < 0 || ai >= len(b.doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d out of range", errGLTF, ai)
	}
	acr := b.doc.Accessors[ai]
	if acr.BufferView == nil {
		return nil, fmt.Errorf("%w: accessor %d has no buffer view", errGLTF, ai)
	}
	return acr, nil
}

func (b *gltfBuilder) material(idx *int) scene.Material {
	if idx == nil || *idx < 0 || *idx >= len(b.doc.Materials) {
		return &scene.StandardMaterial{Color: color.RGBA{255, 255, 255, 255}, Roughness: 1, Metalness: 1}
	}
	if m, ok := b.mats[*idx]; ok {
		return m
	}
	m := &scene.StandardMaterial{Color: color.RGBA{255, 255, 255, 255}, Roughness: 1, Metalness: 1}
	if pbr := b.doc.Materials[*idx].PBRMetallicRoughness; pbr != nil {
		f := pbr.BaseColorFactorOrDefault()
		m.Color = color.RGBA{unit8(f[0]), unit8(f[1]), unit8(f[2]), unit8(f[3])}
		m.Roughness = pbr.RoughnessFactorOrDefault()
		m.Metalness = pbr.MetallicFactorOrDefault()
	}
	b.mats[*idx] = m
	return m
}

func unit8(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
}
