// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/stage/internal/logging"
)

// DefaultDebounce is the quiet period a Watcher waits after the last file
// event before reloading.
const DefaultDebounce = 250 * time.Millisecond

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a change is reloaded.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher reloads sources whose files change on disk. It watches the
// directory holding each source (the directory itself for cube textures)
// below an asset root, and calls Reload on the owning Resources once
// writes settle. The replaced asset goes to Reloaded subscribers; the
// watcher never disposes it.
type Watcher struct {
	res      *Resources
	fsw      *fsnotify.Watcher
	debounce time.Duration

	files map[string]string // absolute file path -> source name
	dirs  map[string]string // absolute cube directory -> source name

	once sync.Once
	wg   sync.WaitGroup
	stop chan struct{}
}

// NewWatcher prepares a watcher for the sources of res, whose Location
// values are relative to root.
func NewWatcher(res *Resources, root string, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("resource: create watcher: %w", err)
	}
	w := &Watcher{
		res:      res,
		fsw:      fsw,
		debounce: DefaultDebounce,
		files:    make(map[string]string),
		dirs:     make(map[string]string),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	added := make(map[string]bool)
	for _, src := range res.Sources() {
		p := filepath.Join(root, filepath.FromSlash(src.Location))
		dir := filepath.Dir(p)
		if src.Kind == KindCubeTexture {
			dir = p
			w.dirs[p] = src.Name
		} else {
			w.files[p] = src.Name
		}
		if added[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resource: watch %s: %w", dir, err)
		}
		added[dir] = true
		logging.Logger().Debug("resource: watching", "dir", dir)
	}
	return w, nil
}

// Start runs the event loop until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Close stops the event loop and releases the OS watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	pending := make(map[string]struct{})

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			name, ok := w.match(ev.Name)
			if !ok {
				continue
			}
			logging.Logger().Debug("resource: file changed", "file", ev.Name, "op", ev.Op.String(), "name", name)
			pending[name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Logger().Warn("resource: watcher error", "error", err)

		case <-timer.C:
			for name := range pending {
				w.reload(ctx, name)
			}
			clear(pending)

		case <-w.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) match(file string) (string, bool) {
	file = filepath.Clean(file)
	if name, ok := w.files[file]; ok {
		return name, true
	}
	name, ok := w.dirs[filepath.Dir(file)]
	return name, ok
}

func (w *Watcher) reload(ctx context.Context, name string) {
	if _, err := w.res.Reload(ctx, name); err != nil {
		logging.Logger().Warn("resource: reload failed", "name", name, "error", err)
	}
}
