// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package camera

import (
	"math"
	"testing"
	"time"

	"cogentcore.org/core/math32"

	"github.com/gogpu/stage/clock"
)

func near(a, b float32) bool { return math32.Abs(a-b) < 1e-4 }

func TestProject(t *testing.T) {
	cam := NewPerspective(90, 2, 0.1, 100)
	cam.Position = math32.Vec3(0, 0, 10)
	cam.LookAt(math32.Vector3{})

	tests := []struct {
		name   string
		p      math32.Vector3
		x, y   float32
		wantOK bool
	}{
		{"target", math32.Vector3{}, 0, 0, true},
		{"right edge", math32.Vec3(20, 0, 0), 1, 0, true},
		{"top edge", math32.Vec3(0, 10, 0), 0, 1, true},
		{"behind", math32.Vec3(0, 0, 20), 0, 0, false},
		{"beyond far", math32.Vec3(0, 0, -200), 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, depth, ok := cam.Project(tt.p)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !near(x, tt.x) || !near(y, tt.y) {
				t.Errorf("Project = (%v, %v), want (%v, %v)", x, y, tt.x, tt.y)
			}
			if depth < 0 || depth > 1 {
				t.Errorf("depth = %v", depth)
			}
		})
	}
}

func TestProjectOffAxis(t *testing.T) {
	cam := NewPerspective(35, 1.5, 0.1, 100)
	cam.Position = math32.Vec3(6, 4, 8)
	target := math32.Vec3(1, 2, 3)
	cam.LookAt(target)

	x, y, depth, ok := cam.Project(target)
	if !ok || !near(x, 0) || !near(y, 0) {
		t.Fatalf("target projects to (%v, %v, %v), want centered", x, y, ok)
	}
	want := (cam.Position.Sub(target).Length() - cam.Near) / (cam.Far - cam.Near)
	if !near(depth, want) {
		t.Errorf("depth = %v, want %v", depth, want)
	}

	// A point above the target lands in the upper half.
	pr := cam.Projection()
	if _, y, _, ok := pr.Point(target.Add(math32.Vec3(0, 1, 0))); !ok || y <= 0 {
		t.Errorf("point above target: y = %v, ok = %v", y, ok)
	}
}

func TestSetAspect(t *testing.T) {
	cam := NewPerspective(35, 1, 0.1, 100)
	cam.SetAspect(16.0 / 9)
	if !near(cam.Aspect, 16.0/9) {
		t.Errorf("Aspect = %v", cam.Aspect)
	}
	cam.SetAspect(0)
	cam.SetAspect(math.Inf(1))
	if !near(cam.Aspect, 16.0/9) {
		t.Errorf("invalid aspect accepted: %v", cam.Aspect)
	}
}

func TestOrbitAutoRotateKeepsDistance(t *testing.T) {
	cam := NewPerspective(35, 1, 0.1, 100)
	cam.Position = math32.Vec3(6, 4, 8)
	cam.LookAt(math32.Vector3{})
	o := NewOrbit(cam)
	o.AutoRotate = true
	o.AutoRotateSpeed = math32.Pi // half a turn per second

	dist := cam.Position.Length()
	start := cam.Position
	o.Update(clock.Frame{Delta: time.Second})

	if !near(cam.Position.Length(), dist) {
		t.Errorf("distance = %v, want %v", cam.Position.Length(), dist)
	}
	if !near(cam.Position.Y, start.Y) {
		t.Errorf("height changed: %v -> %v", start.Y, cam.Position.Y)
	}
	if !near(cam.Position.X, -start.X) || !near(cam.Position.Z, -start.Z) {
		t.Errorf("after half a turn position = %+v, want opposite of %+v", cam.Position, start)
	}
	if cam.Target != (math32.Vector3{}) {
		t.Errorf("camera no longer looks at the target: %+v", cam.Target)
	}
}

func TestOrbitDamping(t *testing.T) {
	cam := NewPerspective(35, 1, 0.1, 100)
	cam.Position = math32.Vec3(0, 0, 5)
	cam.LookAt(math32.Vector3{})
	o := NewOrbit(cam)
	o.Damping = true
	o.DampingFactor = 0.5

	o.Rotate(1, 0)
	o.Update(clock.Frame{Delta: clock.DefaultDelta})
	first := math32.Atan2(cam.Position.X, cam.Position.Z)
	if !near(first, 0.5) {
		t.Errorf("first damped step = %v, want 0.5", first)
	}
	for range 60 {
		o.Update(clock.Frame{Delta: clock.DefaultDelta})
	}
	if got := math32.Atan2(cam.Position.X, cam.Position.Z); math32.Abs(got-1) > 1e-3 {
		t.Errorf("converged azimuth = %v, want 1", got)
	}
}

func TestOrbitZoomClampsAndPolarLimits(t *testing.T) {
	cam := NewPerspective(35, 1, 0.1, 100)
	cam.Position = math32.Vec3(0, 0, 10)
	cam.LookAt(math32.Vector3{})
	o := NewOrbit(cam)
	o.MinDistance = 2

	o.Zoom(0.01)
	o.Rotate(0, 10)
	o.Update(clock.Frame{})
	if !near(o.Distance(), 2) {
		t.Errorf("Distance = %v, want clamp 2", o.Distance())
	}
	if !near(cam.Position.Y, -2) {
		t.Errorf("polar not clamped to the bottom pole: %+v", cam.Position)
	}
}

func TestOrbitDispose(t *testing.T) {
	cam := NewPerspective(35, 1, 0.1, 100)
	cam.Position = math32.Vec3(0, 0, 5)
	o := NewOrbit(cam)
	o.AutoRotate = true
	o.Dispose()

	before := cam.Position
	o.Update(clock.Frame{Delta: time.Second})
	if cam.Position != before {
		t.Error("disposed controls moved the camera")
	}
	if !o.Disposed() {
		t.Error("Disposed() = false")
	}
	var _ Controls = o
}
