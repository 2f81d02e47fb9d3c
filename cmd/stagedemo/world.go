// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"image/color"
	"math"
	"sync/atomic"

	"cogentcore.org/core/math32"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/clock"
	"github.com/gogpu/stage/resource"
	"github.com/gogpu/stage/scene"
)

// Source names declared in assets/sources.yaml.
const (
	envMapSource      = "environmentMapTexture"
	floorColorSource  = "grassColorTexture"
	floorNormalSource = "grassNormalTexture"
	foxSource         = "foxModel"
	floorShaderSource = "floorShader"
)

// world holds the demo content. Floor, fox and environment are built once
// the resources are ready; the debug parameters exist from the start so
// initial values can be applied before loading finishes.
//
// Ready callbacks and Update both run under the experience lock. Debug
// callbacks may run on any goroutine and only touch atomics.
type world struct {
	exp *stage.Experience

	envIntensity float64 // owned by the debug panel
	foxScale     float64
	intensity    atomic.Uint64 // math.Float64bits of the applied intensity
	dirtyEnv     atomic.Bool
	clip         atomic.Value // string

	floor *floor
	fox   *fox
	env   *environment
}

func newWorld(foxScale float64) stage.WorldFunc {
	return func(e *stage.Experience) (stage.World, error) {
		w := &world{exp: e, envIntensity: 0.4, foxScale: foxScale}
		w.clip.Store("Survey")
		w.intensity.Store(math.Float64bits(w.envIntensity))

		if f := e.Debug().Folder("environment"); f != nil {
			f.AddFloat("envMapIntensity", &w.envIntensity).
				Range(0, 4, 0.001).
				OnChange(func(v any) {
					w.intensity.Store(math.Float64bits(v.(float64)))
					w.dirtyEnv.Store(true)
				})
		}
		if f := e.Debug().Folder("fox"); f != nil {
			f.AddAction("playIdle", func() { w.clip.Store("Survey") })
			f.AddAction("playWalking", func() { w.clip.Store("Walk") })
			f.AddAction("playRunning", func() { w.clip.Store("Run") })
		}

		e.OnReady(w.build)
		return w, nil
	}
}

func (w *world) build() {
	res := w.exp.Resources()
	root := w.exp.Scene()

	w.floor = newFloor(res)
	root.Add(w.floor.node)

	if w.fox = newFox(res, w.foxScale); w.fox != nil {
		root.Add(w.fox.node)
	}

	// Materials must exist before the environment map is assigned.
	w.env = newEnvironment(res)
	w.dirtyEnv.Store(true)
}

// Update implements stage.World.
func (w *world) Update(frame clock.Frame) {
	if w.floor == nil {
		return
	}
	res := w.exp.Resources()
	w.floor.refresh(res)
	if w.fox != nil {
		w.fox.refresh(w.exp.Scene(), res)
		w.fox.play(w.clip.Load().(string))
		w.fox.update(frame)
	}
	if w.env.refresh(res) || w.dirtyEnv.Swap(false) {
		w.env.apply(w.exp.Scene(), math.Float64frombits(w.intensity.Load()))
	}
}

type floor struct {
	node     *scene.Node
	material *scene.StandardMaterial
	marker   *scene.Node
}

func newFloor(res *resource.Resources) *floor {
	f := &floor{material: &scene.StandardMaterial{
		Color:     color.RGBA{255, 255, 255, 255},
		Roughness: 1,
	}}
	f.refresh(res)

	f.node = scene.NewMeshNode("floor", scene.NewPlaneGeometry(10, 10), f.material)
	f.node.Rotation.X = -math32.Pi / 2

	if sh, ok := resource.Item[*resource.Shader](res, floorShaderSource); ok {
		f.marker = scene.NewMeshNode("marker", scene.NewBoxGeometry(0.2, 0.2, 0.2), &scene.ShaderMaterial{
			Program: sh,
		})
		f.marker.Position = math32.Vec3(0, 0, 0.1)
		f.node.Add(f.marker)
	}
	return f
}

// refresh picks up textures replaced by a reload.
func (f *floor) refresh(res *resource.Resources) {
	if t, ok := resource.Item[*scene.Texture](res, floorColorSource); ok {
		f.material.Map = t
	}
	if t, ok := resource.Item[*scene.Texture](res, floorNormalSource); ok {
		f.material.NormalMap = t
	}
}

// gait drives the fox procedurally while a clip plays: it turns at turn
// radians per second and bobs up to bob units, steps times per second.
type gait struct {
	turn  float32
	steps float32
	bob   float32
}

var gaits = map[string]gait{
	"Survey": {},
	"Walk":   {turn: 0.6, steps: 2, bob: 0.03},
	"Run":    {turn: 1.8, steps: 4, bob: 0.06},
}

type fox struct {
	model *resource.Model
	node  *scene.Node
	scale float32

	clips   map[string]bool
	current string
	time    float32 // seconds since the current clip started
}

func newFox(res *resource.Resources, scale float64) *fox {
	m, ok := resource.Item[*resource.Model](res, foxSource)
	if !ok || m.Scene == nil {
		return nil
	}
	f := &fox{scale: float32(scale)}
	f.attach(m)
	return f
}

func (f *fox) attach(m *resource.Model) {
	f.model = m
	f.node = m.Scene
	f.node.Scale = math32.Vec3(f.scale, f.scale, f.scale)
	f.clips = make(map[string]bool, len(m.Animations))
	for _, name := range m.Animations {
		f.clips[name] = true
	}
}

// refresh swaps in a reloaded model, keeping heading and clip.
func (f *fox) refresh(root *scene.Node, res *resource.Resources) {
	m, ok := resource.Item[*resource.Model](res, foxSource)
	if !ok || m == f.model || m.Scene == nil {
		return
	}
	rot := f.node.Rotation
	root.Remove(f.node)
	f.attach(m)
	f.node.Rotation = rot
	root.Add(f.node)
}

// play switches to a clip the model carries. Unknown clips are ignored.
func (f *fox) play(name string) {
	if name == f.current || !f.clips[name] {
		return
	}
	f.current = name
	f.time = 0
}

func (f *fox) update(frame clock.Frame) {
	dt := float32(frame.Delta.Seconds())
	f.time += dt
	g := gaits[f.current]
	f.node.Rotation.Y = math32.Mod(f.node.Rotation.Y+g.turn*dt, 2*math32.Pi)
	f.node.Position.Y = g.bob * math32.Abs(math32.Sin(math32.Pi*g.steps*f.time))
}

type environment struct {
	envMap *scene.CubeTexture
}

func newEnvironment(res *resource.Resources) *environment {
	env := &environment{}
	env.refresh(res)
	return env
}

// refresh reports whether the environment map changed.
func (env *environment) refresh(res *resource.Resources) bool {
	c, ok := resource.Item[*scene.CubeTexture](res, envMapSource)
	if !ok || c == env.envMap {
		return false
	}
	env.envMap = c
	return true
}

// apply assigns the environment map to every standard material.
func (env *environment) apply(root *scene.Node, intensity float64) {
	root.Traverse(func(n *scene.Node) {
		if n.Mesh == nil {
			return
		}
		if m, ok := n.Mesh.Material.(*scene.StandardMaterial); ok {
			m.EnvMap = env.envMap
			m.EnvMapIntensity = intensity
		}
	})
}
