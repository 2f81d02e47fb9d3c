// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stage

import "sync"

// Root holds at most one live Experience. Create one Root at the program
// entry point and share it; the zero value is ready to use.
type Root struct {
	build sync.Mutex // serializes construction

	mu      sync.Mutex
	current *Experience
}

// Experience returns the live experience, building it from opts on the
// first call. Later calls return the identical instance and ignore opts;
// setup does not run again. After the experience is destroyed the next
// call builds a new one.
func (r *Root) Experience(opts ...Option) (*Experience, error) {
	r.build.Lock()
	defer r.build.Unlock()

	if e := r.Current(); e != nil {
		return e, nil
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e, err := newExperience(o, r.forget)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Destroyed during construction, for example by a ready callback.
	if !e.Destroyed() {
		r.current = e
	}
	return e, nil
}

// Current returns the live experience, or nil.
func (r *Root) Current() *Experience {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Root) forget(e *Experience) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == e {
		r.current = nil
	}
}
