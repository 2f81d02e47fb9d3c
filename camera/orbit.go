// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package camera

import (
	"cogentcore.org/core/math32"

	"github.com/gogpu/stage/clock"
)

const polarEpsilon = 1e-6

// Orbit keeps a camera on a sphere around Target. Rotate and Zoom queue
// input that Update applies, gradually when damping is enabled.
type Orbit struct {
	Target math32.Vector3

	Damping       bool
	DampingFactor float32 // fraction of pending input applied per frame

	AutoRotate      bool
	AutoRotateSpeed float32 // radians per second

	MinDistance float32
	MaxDistance float32

	cam      *Perspective
	azimuth  float32
	polar    float32
	radius   float32
	dAzimuth float32
	dPolar   float32
	zoom     float32
	disposed bool
}

// NewOrbit derives the orbit from the camera's current position and target.
func NewOrbit(cam *Perspective) *Orbit {
	o := &Orbit{
		Target:          cam.Target,
		DampingFactor:   0.05,
		AutoRotateSpeed: 2 * math32.Pi / 30,
		MaxDistance:     math32.Infinity,
		cam:             cam,
		zoom:            1,
	}
	off := cam.Position.Sub(cam.Target)
	o.radius = off.Length()
	if o.radius > 0 {
		o.polar = math32.Acos(math32.Clamp(off.Y/o.radius, -1, 1))
		o.azimuth = math32.Atan2(off.X, off.Z)
	}
	return o
}

// Camera returns the controlled camera.
func (o *Orbit) Camera() *Perspective { return o.cam }

// Rotate queues a rotation by the given azimuth and polar angles in
// radians.
func (o *Orbit) Rotate(azimuth, polar float32) {
	o.dAzimuth += azimuth
	o.dPolar += polar
}

// Zoom queues a distance change; scale < 1 moves the camera closer.
func (o *Orbit) Zoom(scale float32) {
	if scale > 0 {
		o.zoom *= scale
	}
}

// Distance returns the current distance to Target.
func (o *Orbit) Distance() float32 { return o.radius }

// Update applies pending input and auto-rotation and repositions the
// camera. It does nothing after Dispose.
func (o *Orbit) Update(frame clock.Frame) {
	if o.disposed {
		return
	}
	if o.AutoRotate {
		o.dAzimuth += o.AutoRotateSpeed * float32(frame.Delta.Seconds())
	}

	k := float32(1)
	if o.Damping && o.DampingFactor > 0 && o.DampingFactor < 1 {
		k = o.DampingFactor
	}
	o.azimuth += o.dAzimuth * k
	o.polar = math32.Clamp(o.polar+o.dPolar*k, polarEpsilon, math32.Pi-polarEpsilon)
	o.dAzimuth *= 1 - k
	o.dPolar *= 1 - k

	o.radius = math32.Max(o.MinDistance, math32.Min(o.MaxDistance, o.radius*o.zoom))
	o.zoom = 1

	sp, cp := math32.Sincos(o.polar)
	sa, ca := math32.Sincos(o.azimuth)
	o.cam.Position = o.Target.Add(math32.Vec3(o.radius*sp*sa, o.radius*cp, o.radius*sp*ca))
	o.cam.LookAt(o.Target)
}

// Dispose detaches the controls; later updates are ignored.
func (o *Orbit) Dispose() {
	o.disposed = true
}

// Disposed reports whether Dispose was called.
func (o *Orbit) Disposed() bool { return o.disposed }
