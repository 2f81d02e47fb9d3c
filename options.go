// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stage

import (
	"context"
	"io/fs"
	"os"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/stage/camera"
	"github.com/gogpu/stage/clock"
	"github.com/gogpu/stage/render"
	"github.com/gogpu/stage/resource"
	"github.com/gogpu/stage/viewport"
)

// Option configures an Experience during creation.
//
// Example:
//
//	exp, err := root.Experience(
//	    stage.WithWindow(window),
//	    stage.WithScheduler(clock.NewIntervalScheduler(60)),
//	    stage.WithSources(sources...),
//	)
type Option func(*options)

// ControlsFunc builds the controls driving the experience camera.
type ControlsFunc func(cam *camera.Perspective) camera.Controls

type options struct {
	ctx context.Context

	window        gpucontext.WindowProvider
	notifier      viewport.Notifier
	maxPixelRatio float64

	scheduler clock.Scheduler
	clockOpts []clock.Option

	camera   *camera.Perspective
	controls ControlsFunc
	renderer render.Renderer

	sources  []resource.Source
	manifest string
	registry *resource.Registry
	assets   fs.FS
	assetDir string
	policy   resource.Policy

	world       WorldFunc
	debug       *bool
	debugValues map[string]any
}

func defaultOptions() options {
	return options{
		ctx:           context.Background(),
		maxPixelRatio: viewport.DefaultMaxPixelRatio,
	}
}

// WithContext sets the parent context of resource loading. Cancelling it
// cancels pending loads.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithWindow sets the host window. If it also implements
// viewport.Notifier (as gpucontext.EventSource hosts and viewport.Window
// do), its resize notifications drive the experience.
func WithWindow(w gpucontext.WindowProvider) Option {
	return func(o *options) {
		o.window = w
		if n, ok := w.(viewport.Notifier); ok && o.notifier == nil {
			o.notifier = n
		}
	}
}

// WithNotifier sets the source of resize notifications.
func WithNotifier(n viewport.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithMaxPixelRatio overrides the pixel ratio ceiling (default 2).
func WithMaxPixelRatio(r float64) Option {
	return func(o *options) {
		o.maxPixelRatio = r
	}
}

// WithScheduler sets the frame scheduler. The default is a 60 fps
// clock.IntervalScheduler.
func WithScheduler(s clock.Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithClockOptions passes options to the frame clock.
func WithClockOptions(opts ...clock.Option) Option {
	return func(o *options) {
		o.clockOpts = append(o.clockOpts, opts...)
	}
}

// WithCamera replaces the default camera (35° field of view, placed at
// (6, 4, 8) looking at the origin).
func WithCamera(cam *camera.Perspective) Option {
	return func(o *options) {
		o.camera = cam
	}
}

// WithControls replaces the default damped orbit controls.
func WithControls(fn ControlsFunc) Option {
	return func(o *options) {
		o.controls = fn
	}
}

// WithRenderer sets the renderer. The default is a render.Wireframe sized
// to the viewport. The experience disposes the renderer on Destroy.
func WithRenderer(r render.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithSources appends sources to the batch loaded at startup.
func WithSources(sources ...resource.Source) Option {
	return func(o *options) {
		o.sources = append(o.sources, sources...)
	}
}

// WithManifest reads additional sources from a TOML, YAML or JSON manifest
// in the asset file system.
func WithManifest(name string) Option {
	return func(o *options) {
		o.manifest = name
	}
}

// WithRegistry sets the loader registry. The default registry holds the
// built-in loaders reading from the asset file system.
func WithRegistry(r *resource.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithAssets sets the file system sources are read from.
func WithAssets(fsys fs.FS) Option {
	return func(o *options) {
		o.assets = fsys
	}
}

// WithAssetDir reads sources from a directory. In debug mode the directory
// is watched and changed sources are reloaded.
func WithAssetDir(dir string) Option {
	return func(o *options) {
		o.assetDir = dir
		if o.assets == nil {
			o.assets = os.DirFS(dir)
		}
	}
}

// WithLoadPolicy sets the resource failure policy (default
// resource.FailFast).
func WithLoadPolicy(p resource.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithWorld sets the function building the demo content.
func WithWorld(fn WorldFunc) Option {
	return func(o *options) {
		o.world = fn
	}
}

// WithDebug forces debug mode on or off. Without it, debug mode follows
// the STAGE_DEBUG environment variable.
func WithDebug(on bool) Option {
	return func(o *options) {
		o.debug = &on
	}
}

// WithDebugValues sets initial debug parameter values keyed by
// "folder.param", applied once the world has registered its parameters.
func WithDebugValues(values map[string]any) Option {
	return func(o *options) {
		o.debugValues = values
	}
}
