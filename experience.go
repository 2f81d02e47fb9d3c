// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stage

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"cogentcore.org/core/math32"
	"github.com/google/uuid"

	"github.com/gogpu/stage/camera"
	"github.com/gogpu/stage/clock"
	"github.com/gogpu/stage/debug"
	"github.com/gogpu/stage/event"
	"github.com/gogpu/stage/internal/logging"
	"github.com/gogpu/stage/render"
	"github.com/gogpu/stage/resource"
	"github.com/gogpu/stage/scene"
	"github.com/gogpu/stage/viewport"
)

// World is the demo content. Update runs once per frame, between the
// controls and the renderer.
type World interface {
	Update(frame clock.Frame)
}

// WorldFunc builds the world. It runs during construction, after every
// other component exists and before resources start loading, so it may
// subscribe to resource events and add debug folders.
type WorldFunc func(e *Experience) (World, error)

// Experience is the composition root of a demo.
type Experience struct {
	id uuid.UUID

	sizes     *viewport.Watcher
	time      *clock.Clock
	scene     *scene.Node
	camera    *camera.Perspective
	controls  camera.Controls
	renderer  render.Renderer
	resources *resource.Resources
	debug     *debug.Debug
	world     World
	watcher   *resource.Watcher

	ownSched *clock.IntervalScheduler // default scheduler, stopped on Destroy
	disposer *scene.Disposer

	// mu serializes Resize, Update, ready callbacks and the teardown.
	mu         sync.Mutex
	frames     atomic.Uint64
	destroyReq atomic.Bool
	destroyed  atomic.Bool
	once       sync.Once
	released   atomic.Int64
	onDestroy  func(*Experience)

	retiredMu sync.Mutex
	retired   []any
}

func newExperience(o options, onDestroy func(*Experience)) (_ *Experience, err error) {
	e := &Experience{id: uuid.New(), disposer: scene.NewDisposer()}
	log := e.log()

	// Partially built experiences are torn down the same way as live ones.
	defer func() {
		if err != nil {
			e.Destroy()
		}
	}()

	e.sizes = viewport.New(o.window, o.notifier, viewport.WithMaxPixelRatio(o.maxPixelRatio))
	size := e.sizes.Size()

	sched := o.scheduler
	if sched == nil {
		e.ownSched = clock.NewIntervalScheduler(60)
		sched = e.ownSched
	}
	e.time = clock.New(sched, o.clockOpts...)

	e.scene = scene.NewNode("scene")

	e.camera = o.camera
	if e.camera == nil {
		e.camera = camera.NewPerspective(35, float32(size.Aspect()), 0.1, 100)
		e.camera.Position = math32.Vec3(6, 4, 8)
		e.camera.LookAt(math32.Vector3{})
	}
	e.camera.SetAspect(size.Aspect())
	if o.controls != nil {
		e.controls = o.controls(e.camera)
	} else {
		orbit := camera.NewOrbit(e.camera)
		orbit.Damping = true
		e.controls = orbit
	}

	e.renderer = o.renderer
	if e.renderer == nil {
		pw, ph := size.Physical()
		wf, err := render.NewWireframe(max(pw, 1), max(ph, 1))
		if err != nil {
			return nil, fmt.Errorf("stage: renderer: %w", err)
		}
		e.renderer = wf
	}
	e.resizeLocked()

	sources := o.sources
	if o.manifest != "" {
		if o.assets == nil {
			return nil, fmt.Errorf("stage: manifest %s: no asset file system", o.manifest)
		}
		listed, err := resource.LoadManifest(o.assets, o.manifest)
		if err != nil {
			return nil, fmt.Errorf("stage: %w", err)
		}
		sources = append(sources, listed...)
	}
	if err := resource.Validate(sources); err != nil {
		return nil, fmt.Errorf("stage: %w", err)
	}
	registry := o.registry
	if registry == nil {
		if o.assets != nil {
			registry = resource.NewDefaultRegistry(o.assets)
		} else {
			registry = resource.NewRegistry()
		}
	}
	e.resources = resource.New(sources, registry, resource.WithPolicy(o.policy))

	active := debug.FromEnv()
	if o.debug != nil {
		active = *o.debug
	}
	e.debug = debug.New(active)

	if o.world != nil {
		if e.world, err = o.world(e); err != nil {
			return nil, fmt.Errorf("stage: world: %w", err)
		}
	}
	if active && len(o.debugValues) > 0 {
		if err := e.debug.UI.Apply(o.debugValues); err != nil {
			log.Warn("stage: debug values", "err", err)
		}
	}

	// No failure path follows; from here on Destroy also detaches the
	// experience from its owner.
	e.onDestroy = onDestroy

	e.resources.On(resource.Failed, func(p resource.Progress) {
		e.log().Warn("stage: resource failed", "name", p.Source.Name, "err", p.Err)
	})
	e.resources.On(resource.Reloaded, e.retire)

	if active && o.assetDir != "" {
		w, err := resource.NewWatcher(e.resources, o.assetDir)
		if err != nil {
			log.Warn("stage: asset watcher disabled", "err", err)
		} else {
			e.watcher = w
			w.Start(o.ctx)
		}
	}

	e.sizes.OnResize(func(viewport.Size) { e.Resize() })
	e.time.OnTick(e.Update)

	e.resources.Start(o.ctx)
	if e.destroyReq.Load() {
		// Destroyed by a ready callback of an empty batch.
		return e, nil
	}

	log.Info("stage: experience created",
		"width", size.Width, "height", size.Height, "ratio", size.PixelRatio,
		"sources", len(sources), "debug", active)
	return e, nil
}

func (e *Experience) log() *slog.Logger {
	return logging.Logger().With("session", e.id.String())
}

// ID returns the session id attached to the experience's log records.
func (e *Experience) ID() uuid.UUID { return e.id }

// Sizes returns the viewport watcher.
func (e *Experience) Sizes() *viewport.Watcher { return e.sizes }

// Time returns the frame clock.
func (e *Experience) Time() *clock.Clock { return e.time }

// Scene returns the scene root.
func (e *Experience) Scene() *scene.Node { return e.scene }

// Camera returns the camera.
func (e *Experience) Camera() *camera.Perspective { return e.camera }

// Controls returns the camera controls.
func (e *Experience) Controls() camera.Controls { return e.controls }

// Renderer returns the renderer.
func (e *Experience) Renderer() render.Renderer { return e.renderer }

// Resources returns the resource batch.
func (e *Experience) Resources() *resource.Resources { return e.resources }

// Debug returns the debug panel holder.
func (e *Experience) Debug() *debug.Debug { return e.debug }

// World returns the world, or nil when none was configured.
func (e *Experience) World() World { return e.world }

// Frames returns the number of frames updated.
func (e *Experience) Frames() uint64 {
	return e.frames.Load()
}

// OnReady runs fn under the experience lock once resources are ready,
// so it never overlaps a frame. It must not be called from Update or from
// another OnReady callback. fn may call Destroy.
func (e *Experience) OnReady(fn func()) *event.Subscription {
	return e.resources.OnReady(func() {
		if !e.lock() {
			return
		}
		defer e.unlock()
		fn()
	})
}

// Resize propagates the current viewport size to the camera aspect and
// then to the renderer surface.
func (e *Experience) Resize() {
	if !e.lock() {
		return
	}
	defer e.unlock()
	e.resizeLocked()
}

func (e *Experience) resizeLocked() {
	s := e.sizes.Size()
	e.camera.SetAspect(s.Aspect())
	if err := e.renderer.Resize(s.Width, s.Height, s.PixelRatio); err != nil {
		e.log().Warn("stage: renderer resize", "err", err)
	}
}

// Update advances one frame: controls, then world, then renderer. Assets
// replaced by a reload are released after the world has had the chance to
// rebind their successors, and before rendering. Render errors are logged.
// The world may call Destroy; the frame then ends without rendering.
func (e *Experience) Update(frame clock.Frame) {
	if !e.lock() {
		return
	}
	defer e.unlock()

	// Assets retired before the world runs have successors the world can
	// rebind; later ones wait for the next frame.
	retired := e.takeRetired()

	n := e.frames.Add(1)
	e.controls.Update(frame)
	if e.world != nil {
		e.world.Update(frame)
	}
	e.release(retired)
	if e.destroyReq.Load() {
		return
	}
	if err := e.renderer.Render(e.scene, e.camera); err != nil {
		e.log().Warn("stage: render", "frame", n, "err", err)
	}
}

// lock takes the experience lock unless the experience is destroyed or
// being destroyed.
func (e *Experience) lock() bool {
	e.mu.Lock()
	if e.destroyed.Load() || e.destroyReq.Load() {
		e.mu.Unlock()
		return false
	}
	return true
}

// unlock releases the experience lock and completes a Destroy requested
// while it was held.
func (e *Experience) unlock() {
	e.mu.Unlock()
	if e.destroyReq.Load() {
		e.Destroy()
	}
}

// retire queues an asset replaced by a reload. The next frame releases it.
func (e *Experience) retire(p resource.Progress) {
	if p.Previous == nil {
		return
	}
	e.retiredMu.Lock()
	e.retired = append(e.retired, p.Previous)
	e.retiredMu.Unlock()
}

func (e *Experience) takeRetired() []any {
	e.retiredMu.Lock()
	defer e.retiredMu.Unlock()
	retired := e.retired
	e.retired = nil
	return retired
}

// release disposes retired assets. Called with e.mu held.
func (e *Experience) release(retired []any) {
	if len(retired) == 0 {
		return
	}
	for _, v := range retired {
		e.disposer.Release(v)
	}
	e.released.Store(int64(e.disposer.Released()))
	e.log().Debug("stage: released reloaded assets", "count", len(retired))
}

// Destroy stops the experience and releases its resources. It is
// idempotent and safe to call on a partially constructed experience.
//
// Destroy may be called from World.Update or a ready callback. When a
// frame, resize or ready callback holds the experience lock, the teardown
// completes as soon as that call returns.
func (e *Experience) Destroy() {
	if e.destroyed.Load() {
		return
	}
	e.destroyReq.Store(true)
	if !e.mu.TryLock() {
		// The holder finishes the teardown in unlock.
		return
	}
	e.mu.Unlock()
	e.once.Do(e.destroy)
}

// Destroyed reports whether the teardown started.
func (e *Experience) Destroyed() bool {
	return e.destroyed.Load()
}

// Released returns the number of resources disposed, by reloads and by
// Destroy.
func (e *Experience) Released() int {
	return int(e.released.Load())
}

func (e *Experience) destroy() {
	e.destroyed.Store(true)

	if e.sizes != nil {
		e.sizes.OffResize()
		e.sizes.Close()
	}
	if e.time != nil {
		e.time.OffTick()
		e.time.Stop()
	}
	if e.ownSched != nil {
		e.ownSched.Stop()
	}
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			e.log().Warn("stage: close asset watcher", "err", err)
		}
	}
	if e.resources != nil {
		e.resources.Close()
	}

	// Wait for a frame in progress on another goroutine.
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.scene != nil {
		e.disposer.Walk(e.scene)
	}
	e.release(e.takeRetired())
	if e.resources != nil {
		for _, name := range e.resources.Names() {
			asset, _ := e.resources.Get(name)
			e.disposer.Release(asset)
		}
	}
	e.released.Store(int64(e.disposer.Released()))

	if e.controls != nil {
		e.controls.Dispose()
	}
	var errs []error
	if e.renderer != nil {
		if err := e.renderer.Dispose(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.debug != nil && e.debug.Active {
		e.debug.Destroy()
	}

	if err := errors.Join(errs...); err != nil {
		e.log().Warn("stage: destroy", "err", err)
	}
	e.log().Info("stage: experience destroyed", "released", e.disposer.Released(), "frames", e.frames.Load())

	if e.onDestroy != nil {
		e.onDestroy(e)
	}
}
