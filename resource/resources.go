// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/stage/event"
	"github.com/gogpu/stage/internal/logging"
	"github.com/gogpu/stage/scene"
)

// Policy decides what a failed source does to the batch.
type Policy uint8

const (
	// FailFast aborts the batch on the first failure: in-flight loads are
	// cancelled, Aborted is published and Ready never fires.
	FailFast Policy = iota

	// BestEffort counts failures as resolved: Ready fires once every source
	// has either loaded or failed, and Failures lists what went wrong.
	BestEffort
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case BestEffort:
		return "best-effort"
	}
	return fmt.Sprintf("Policy(%d)", p)
}

// ParsePolicy parses "fail-fast" or "best-effort".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "fail-fast", "failfast", "":
		return FailFast, nil
	case "best-effort", "besteffort":
		return BestEffort, nil
	}
	return FailFast, fmt.Errorf("resource: unknown policy %q", s)
}

// Event identifies the resource loader's event channels.
type Event uint8

const (
	// Loaded is published after each source loads.
	Loaded Event = iota

	// Failed is published after each source fails.
	Failed

	// Ready is published once, when the whole batch has resolved.
	Ready

	// Aborted is published once, when FailFast stops the batch.
	Aborted

	// Reloaded is published after Reload swaps an asset.
	Reloaded
)

// Progress is the payload of every resource event.
type Progress struct {
	Source Source
	Asset  any
	Err    error

	// Previous is the asset a reload replaced. Set on Reloaded only.
	Previous any

	Loaded int
	Failed int
	Total  int
}

// Option configures Resources.
type Option func(*Resources)

// WithPolicy sets the failure policy. The default is FailFast.
func WithPolicy(p Policy) Option {
	return func(r *Resources) {
		r.policy = p
	}
}

// Resources loads a fixed batch of named sources concurrently and signals
// completion once.
//
// Typical use:
//
//	res := resource.New(sources, resource.NewDefaultRegistry(os.DirFS("static")))
//	res.OnReady(func() {
//	    tex, _ := resource.Item[*scene.Texture](res, "grassColorTexture")
//	    ...
//	})
//	res.Start(ctx)
//
// Events are published on the goroutine that resolved the source. All
// methods are safe for concurrent use.
type Resources struct {
	emitter  event.Emitter[Event, Progress]
	sources  []Source
	registry *Registry
	policy   Policy

	// publish serializes state transitions with their events, so Ready
	// never overtakes the Loaded event that completed the batch.
	publish sync.Mutex

	mu       sync.Mutex
	items    map[string]any
	failures map[string]error
	loaded   int
	failed   int
	started  bool
	ready    bool
	closed   bool
	err      error
	cancel   context.CancelFunc
	settled  bool
	done     chan struct{}
}

// New prepares a batch. The sources are copied; loading starts with Start.
// A nil registry has no loaders, so every source fails with ErrNoLoader.
func New(sources []Source, registry *Registry, opts ...Option) *Resources {
	if registry == nil {
		registry = NewRegistry()
	}
	r := &Resources{
		sources:  slices.Clone(sources),
		registry: registry,
		items:    make(map[string]any, len(sources)),
		failures: make(map[string]error),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start dispatches one load per source, all concurrently. An empty batch
// is ready before Start returns. Start is a no-op after the first call or
// after Close.
func (r *Resources) Start(ctx context.Context) {
	r.mu.Lock()
	if r.started || r.closed {
		r.mu.Unlock()
		return
	}
	r.started = true
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	total := len(r.sources)
	logging.Logger().Info("resource: loading", "sources", total, "policy", r.policy.String())

	if total == 0 {
		r.publish.Lock()
		r.mu.Lock()
		r.ready = true
		r.mu.Unlock()
		r.emitter.Trigger(Ready, Progress{})
		r.finish()
		r.publish.Unlock()
		cancel()
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range r.sources {
		g.Go(func() error {
			asset, err := r.load(gctx, src)
			r.resolve(src, asset, err)
			if err != nil && r.policy == FailFast {
				return err
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		cancel()
	}()
}

// Close cancels in-flight loads. Sources that have not resolved are
// dropped; if the batch was not ready, Wait returns ErrClosed. Loaded
// items stay available. Close is idempotent.
func (r *Resources) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	// A batch whose final events are being published settles on its own.
	if !r.ready && r.err == nil {
		r.err = ErrClosed
		r.settle()
	}
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the batch is ready (nil), aborted (*LoadError), closed
// (ErrClosed), or ctx is done.
func (r *Resources) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel closed when the batch settles.
func (r *Resources) Done() <-chan struct{} {
	return r.done
}

// On registers h for kind.
func (r *Resources) On(kind Event, h event.Handler[Progress]) *event.Subscription {
	return r.emitter.On(kind, h)
}

// Off removes every handler registered for kind.
func (r *Resources) Off(kind Event) {
	r.emitter.Off(kind)
}

// OnReady runs fn when the batch is ready. If it already is, fn runs
// immediately on the calling goroutine.
func (r *Resources) OnReady(fn func()) *event.Subscription {
	r.mu.Lock()
	if r.ready {
		r.mu.Unlock()
		fn()
		return &event.Subscription{}
	}
	sub := r.emitter.On(Ready, func(Progress) { fn() })
	r.mu.Unlock()
	return sub
}

// Get returns the asset stored under name.
func (r *Resources) Get(name string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[name]
	return v, ok
}

// Item returns the asset stored under name as a T.
func Item[T any](r *Resources, name string) (T, bool) {
	v, ok := r.Get(name)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Names returns the names of stored assets, sorted.
func (r *Resources) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.items))
}

// Items returns a copy of the stored assets.
func (r *Resources) Items() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.items)
}

// Sources returns a copy of the batch.
func (r *Resources) Sources() []Source {
	return slices.Clone(r.sources)
}

// Loaded returns the number of sources loaded successfully.
func (r *Resources) Loaded() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// Failed returns the number of sources that failed.
func (r *Resources) Failed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

// Total returns the batch size.
func (r *Resources) Total() int {
	return len(r.sources)
}

// IsReady reports whether Ready has fired.
func (r *Resources) IsReady() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}

// Err returns the error that settled the batch without Ready, or nil.
func (r *Resources) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Failures returns the errors of failed sources by name.
func (r *Resources) Failures() map[string]error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.failures)
}

// Reload loads the named source again, stores the new asset, publishes
// Reloaded and returns the asset it replaced. The previous asset may still
// be bound into a scene, so it is not disposed here: Reloaded subscribers
// receive it in Progress.Previous and whoever owns the scene releases it
// once nothing renders it.
func (r *Resources) Reload(ctx context.Context, name string) (any, error) {
	r.mu.Lock()
	started, closed := r.started, r.closed
	r.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	if !started {
		return nil, ErrNotStarted
	}

	i := slices.IndexFunc(r.sources, func(s Source) bool { return s.Name == name })
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	src := r.sources[i]

	asset, err := r.load(ctx, src)
	if err != nil {
		return nil, &LoadError{Source: src, Err: err}
	}

	r.mu.Lock()
	prev := r.items[name]
	r.items[name] = asset
	p := r.progressLocked(src)
	r.mu.Unlock()

	p.Asset = asset
	p.Previous = prev
	logging.Logger().Info("resource: reloaded", "name", name)
	r.emitter.Trigger(Reloaded, p)
	return prev, nil
}

func (r *Resources) load(ctx context.Context, src Source) (asset any, err error) {
	l, ok := r.registry.Get(src.Kind)
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoLoader, src.Kind)
	}

	defer func() {
		if p := recover(); p != nil {
			asset, err = nil, fmt.Errorf("resource: loader panic: %v", p)
		}
	}()

	start := time.Now()
	asset, err = l.Load(ctx, src)
	logging.Logger().Debug("resource: load", "name", src.Name, "kind", src.Kind.String(),
		"duration", time.Since(start), "err", err)
	return asset, err
}

func (r *Resources) resolve(src Source, asset any, err error) {
	r.publish.Lock()
	defer r.publish.Unlock()

	r.mu.Lock()
	if r.err != nil || r.closed {
		r.mu.Unlock()
		// Aborted or closed: nobody will read this asset.
		if err == nil {
			scene.NewDisposer().Release(asset)
		}
		return
	}

	if err != nil {
		r.failed++
		r.failures[src.Name] = err
		p := r.progressLocked(src)
		p.Err = err

		loadErr := &LoadError{Source: src, Err: err}
		aborted := r.policy == FailFast
		ready := false
		if aborted {
			r.err = loadErr
		} else {
			ready = r.completeLocked()
		}
		r.mu.Unlock()

		logging.Logger().Warn("resource: load failed", "name", src.Name, "err", err)
		r.emitter.Trigger(Failed, p)
		if aborted {
			p.Err = loadErr
			r.emitter.Trigger(Aborted, p)
		}
		if ready {
			r.emitter.Trigger(Ready, p)
		}
		if aborted || ready {
			r.finish()
		}
		return
	}

	r.items[src.Name] = asset
	r.loaded++
	p := r.progressLocked(src)
	p.Asset = asset
	ready := r.completeLocked()
	r.mu.Unlock()

	r.emitter.Trigger(Loaded, p)
	if ready {
		logging.Logger().Info("resource: ready", "loaded", p.Loaded, "failed", p.Failed)
		r.emitter.Trigger(Ready, p)
		r.finish()
	}
}

// completeLocked marks the batch ready when every source has resolved.
// It reports true exactly once.
func (r *Resources) completeLocked() bool {
	if r.ready || r.loaded+r.failed != len(r.sources) {
		return false
	}
	r.ready = true
	return true
}

// finish settles the batch once its final events have been published, so
// Wait never returns before the Ready or Aborted handlers ran.
func (r *Resources) finish() {
	r.mu.Lock()
	r.settle()
	r.mu.Unlock()
}

func (r *Resources) progressLocked(src Source) Progress {
	return Progress{Source: src, Loaded: r.loaded, Failed: r.failed, Total: len(r.sources)}
}

func (r *Resources) settle() {
	if r.settled {
		return
	}
	r.settled = true
	close(r.done)
}
