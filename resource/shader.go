// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/gogpu/naga"
)

// Shader is a WGSL program compiled to SPIR-V.
type Shader struct {
	Name   string
	Source string

	mu    sync.Mutex
	spirv []byte
}

// SPIRV returns the compiled module, or nil once disposed.
func (s *Shader) SPIRV() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spirv
}

// Dispose drops the compiled module. It is idempotent.
func (s *Shader) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spirv = nil
}

// ShaderLoader compiles .wgsl sources with naga.
type ShaderLoader struct {
	FS fs.FS

	// Options overrides naga.DefaultOptions when set.
	Options *naga.CompileOptions
}

// Load implements Loader.
func (l *ShaderLoader) Load(ctx context.Context, src Source) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(l.FS, src.Location)
	if err != nil {
		return nil, err
	}

	opts := naga.DefaultOptions()
	if l.Options != nil {
		opts = *l.Options
	}
	code := string(data)
	spirv, err := naga.CompileWithOptions(code, opts)
	if err != nil {
		return nil, fmt.Errorf("resource: compile %s: %w", src.Location, err)
	}
	return &Shader{Name: src.Name, Source: code, spirv: spirv}, nil
}
