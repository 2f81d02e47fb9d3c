// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package debug

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
)

// Errors.
var (
	ErrUnknownParam = errors.New("debug: unknown parameter")
	ErrType         = errors.New("debug: wrong value type")
	ErrDestroyed    = errors.New("debug: panel destroyed")
)

// Kind is the type of a parameter.
type Kind uint8

// Parameter kinds.
const (
	Float Kind = iota
	Bool
	Action
)

// Panel is a set of named folders. It is safe for concurrent use.
type Panel struct {
	mu        sync.Mutex
	title     string
	folders   []*Folder
	destroyed bool
}

// NewPanel creates an empty panel.
func NewPanel(title string) *Panel {
	return &Panel{title: title}
}

// Title returns the panel title.
func (p *Panel) Title() string { return p.title }

// Folder returns the folder called name, creating it on first use. It
// returns nil on a nil or destroyed panel.
func (p *Panel) Folder(name string) *Folder {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return nil
	}
	for _, f := range p.folders {
		if f.name == name {
			return f
		}
	}
	f := &Folder{name: name, panel: p}
	p.folders = append(p.folders, f)
	return f
}

// Folders returns folder names in creation order.
func (p *Panel) Folders() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.folders))
	for i, f := range p.folders {
		names[i] = f.name
	}
	return names
}

// Lookup finds a parameter by "folder.param" path.
func (p *Panel) Lookup(path string) (*Param, error) {
	folder, name, ok := strings.Cut(path, ".")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParam, path)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return nil, ErrDestroyed
	}
	for _, f := range p.folders {
		if f.name != folder {
			continue
		}
		for _, prm := range f.params {
			if prm.name == name {
				return prm, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownParam, path)
}

// Set assigns a value by "folder.param" path. Actions run when set to true.
func (p *Panel) Set(path string, v any) error {
	prm, err := p.Lookup(path)
	if err != nil {
		return err
	}
	return prm.Set(v)
}

// Apply sets every value of a map keyed by "folder.param" path, in sorted
// key order, and returns the first error.
func (p *Panel) Apply(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := p.Set(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// Values returns the current value of every non-action parameter keyed by
// "folder.param" path.
func (p *Panel) Values() map[string]any {
	p.mu.Lock()
	folders := slices.Clone(p.folders)
	p.mu.Unlock()

	out := make(map[string]any)
	for _, f := range folders {
		for _, prm := range f.Params() {
			if prm.kind != Action {
				out[f.name+"."+prm.name] = prm.Value()
			}
		}
	}
	return out
}

// Destroy removes every folder. Later Folder calls return nil.
func (p *Panel) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.destroyed = true
	p.folders = nil
}

// Destroyed reports whether Destroy was called.
func (p *Panel) Destroyed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.destroyed
}

// Folder groups related parameters. Methods on a nil *Folder return nil,
// so callers may skip checking whether debug mode is active.
type Folder struct {
	name   string
	panel  *Panel
	mu     sync.Mutex
	params []*Param
}

// Name returns the folder name.
func (f *Folder) Name() string { return f.name }

// Params returns the folder's parameters in creation order.
func (f *Folder) Params() []*Param {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.params)
}

// AddFloat binds a float parameter to v.
func (f *Folder) AddFloat(name string, v *float64) *Param {
	if f == nil {
		return nil
	}
	return f.add(&Param{name: name, kind: Float, float: v, min: math.Inf(-1), max: math.Inf(1)})
}

// AddBool binds a boolean parameter to v.
func (f *Folder) AddBool(name string, v *bool) *Param {
	if f == nil {
		return nil
	}
	return f.add(&Param{name: name, kind: Bool, bool: v})
}

// AddAction adds a button running fn.
func (f *Folder) AddAction(name string, fn func()) *Param {
	if f == nil {
		return nil
	}
	return f.add(&Param{name: name, kind: Action, action: fn})
}

func (f *Folder) add(p *Param) *Param {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, p)
	return p
}

// Param is a tunable value or an action.
type Param struct {
	name string
	kind Kind

	mu       sync.Mutex
	float    *float64
	bool     *bool
	action   func()
	min, max float64
	step     float64
	onChange []func(any)
}

// Name returns the parameter name.
func (p *Param) Name() string { return p.name }

// Kind returns the parameter kind.
func (p *Param) Kind() Kind { return p.kind }

// Range limits a float parameter and sets its step. A zero step leaves
// values unquantized.
func (p *Param) Range(lo, hi, step float64) *Param {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.min, p.max, p.step = lo, hi, step
	return p
}

// OnChange registers fn, called with the new value after every Set.
func (p *Param) OnChange(fn func(any)) *Param {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = append(p.onChange, fn)
	return p
}

// Value returns the current value: float64, bool, or nil for actions.
func (p *Param) Value() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.kind {
	case Float:
		return *p.float
	case Bool:
		return *p.bool
	}
	return nil
}

// Set assigns v. Floats accept any numeric type and are clamped to the
// range then snapped to the step. Actions run when v is true or nil.
func (p *Param) Set(v any) error {
	p.mu.Lock()
	var newValue any
	var run func()
	switch p.kind {
	case Float:
		f, ok := toFloat(v)
		if !ok {
			p.mu.Unlock()
			return fmt.Errorf("%w: %s wants a number, got %T", ErrType, p.name, v)
		}
		if p.step > 0 && !math.IsInf(p.min, 0) {
			f = p.min + math.Round((f-p.min)/p.step)*p.step
		}
		f = math.Max(p.min, math.Min(p.max, f))
		*p.float = f
		newValue = f
	case Bool:
		b, ok := v.(bool)
		if !ok {
			p.mu.Unlock()
			return fmt.Errorf("%w: %s wants a bool, got %T", ErrType, p.name, v)
		}
		*p.bool = b
		newValue = b
	case Action:
		if v != nil {
			b, ok := v.(bool)
			if !ok {
				p.mu.Unlock()
				return fmt.Errorf("%w: %s wants true, got %T", ErrType, p.name, v)
			}
			if !b {
				p.mu.Unlock()
				return nil
			}
		}
		run = p.action
	}
	handlers := slices.Clone(p.onChange)
	p.mu.Unlock()

	if run != nil {
		run()
	}
	for _, fn := range handlers {
		fn(newValue)
	}
	return nil
}

// Trigger runs an action parameter.
func (p *Param) Trigger() error {
	if p.kind != Action {
		return fmt.Errorf("%w: %s is not an action", ErrType, p.name)
	}
	return p.Set(nil)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
