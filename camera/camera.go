// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package camera provides a perspective camera and orbit controls.
package camera

import (
	"math"

	"cogentcore.org/core/math32"

	"github.com/gogpu/stage/clock"
)

// Perspective is a pinhole camera looking from Position at Target.
type Perspective struct {
	FOV    float32 // vertical field of view in degrees
	Aspect float32
	Near   float32
	Far    float32

	Position math32.Vector3
	Target   math32.Vector3
	Up       math32.Vector3
}

// NewPerspective returns a camera at the origin looking down -Z.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	return &Perspective{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: math32.Vec3(0, 0, -1),
		Up:     math32.Vec3(0, 1, 0),
	}
}

// SetAspect updates the aspect ratio after a viewport resize. Non-positive
// values are ignored.
func (c *Perspective) SetAspect(aspect float64) {
	if aspect > 0 && aspect <= math.MaxFloat32 {
		c.Aspect = float32(aspect)
	}
}

// LookAt points the camera at target.
func (c *Perspective) LookAt(target math32.Vector3) {
	c.Target = target
}

// ViewMatrix returns the world-to-camera transform.
func (c *Perspective) ViewMatrix() *math32.Matrix4 {
	up := c.Up
	if up == (math32.Vector3{}) {
		up = math32.Vec3(0, 1, 0)
	}
	var look math32.Quat
	look.SetFromRotationMatrix(math32.NewLookAt(c.Position, c.Target, up))
	var cam math32.Matrix4
	cam.SetTransform(c.Position, look, math32.Vec3(1, 1, 1))
	view, err := cam.Inverse()
	if err != nil {
		view = &math32.Matrix4{}
		view.SetIdentity()
	}
	return view
}

// ProjectionMatrix returns the camera-to-clip transform.
func (c *Perspective) ProjectionMatrix() *math32.Matrix4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	var m math32.Matrix4
	m.SetPerspective(c.FOV, aspect, c.Near, c.Far)
	return &m
}

// Projection captures the camera matrices for projecting many points.
func (c *Perspective) Projection() Projection {
	p := Projection{view: *c.ViewMatrix(), near: c.Near, far: c.Far}
	p.viewProj.MulMatrices(c.ProjectionMatrix(), &p.view)
	return p
}

// Project maps a world-space point to normalized device coordinates
// (x and y in [-1, 1] when visible, y up) and a depth in [0, 1] between
// Near and Far. ok is false for points outside the near/far range.
func (c *Perspective) Project(p math32.Vector3) (x, y, depth float32, ok bool) {
	pr := c.Projection()
	return pr.Point(p)
}

// Projection is a snapshot of a camera's view and projection matrices.
type Projection struct {
	view      math32.Matrix4
	viewProj  math32.Matrix4
	near, far float32
}

// Point projects a world-space point like Perspective.Project.
func (pr *Projection) Point(p math32.Vector3) (x, y, depth float32, ok bool) {
	v := math32.Vector4FromVector3(p, 1)
	zc := -v.MulMatrix4(&pr.view).Z
	if zc < pr.near || zc > pr.far {
		return 0, 0, 0, false
	}
	ndc := v.MulMatrix4(&pr.viewProj).PerspDiv()
	return ndc.X, ndc.Y, (zc - pr.near) / (pr.far - pr.near), true
}

// Controls moves a camera every frame.
type Controls interface {
	Update(frame clock.Frame)
	Dispose()
}
