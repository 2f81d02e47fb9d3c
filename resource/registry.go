// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"context"
	"io/fs"
	"slices"
	"sync"
)

// Loader loads one source. Load blocks until the asset is ready or fails;
// Resources calls it from its own goroutine, one per source, and cancels
// ctx when the batch is aborted or closed.
type Loader interface {
	Load(ctx context.Context, src Source) (any, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, src Source) (any, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, src Source) (any, error) {
	return f(ctx, src)
}

// Registry maps source kinds to loaders.
//
// The registry lets applications plug in loaders for their own formats
// without changes to this package:
//
//	reg := resource.NewDefaultRegistry(os.DirFS("static"))
//	reg.Register(resource.KindModel, myDracoModelLoader)
//
// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	loaders map[Kind]Loader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[Kind]Loader)}
}

// NewDefaultRegistry creates a registry with the built-in loaders for every
// kind, all reading from fsys.
func NewDefaultRegistry(fsys fs.FS) *Registry {
	r := NewRegistry()
	r.Register(KindTexture, &TextureLoader{FS: fsys})
	r.Register(KindCubeTexture, &CubeTextureLoader{FS: fsys})
	r.Register(KindModel, &ModelLoader{FS: fsys})
	r.Register(KindFont, &FontLoader{FS: fsys})
	r.Register(KindShader, &ShaderLoader{FS: fsys})
	return r
}

// Register installs l for kind. Registering a kind that already exists
// replaces the previous loader; a nil loader unregisters.
func (r *Registry) Register(kind Kind, l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaders == nil {
		r.loaders = make(map[Kind]Loader)
	}
	if l == nil {
		delete(r.loaders, kind)
		return
	}
	r.loaders[kind] = l
}

// Unregister removes the loader for kind.
func (r *Registry) Unregister(kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.loaders, kind)
}

// Get returns the loader for kind.
func (r *Registry) Get(kind Kind) (Loader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.loaders[kind]
	return l, ok
}

// Kinds returns the registered kinds in ascending order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.loaders))
	for k := range r.loaders {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
