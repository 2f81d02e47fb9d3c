// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"context"
	"encoding/binary"
	"testing"
	"testing/fstest"

	"github.com/gogpu/naga"
)

const vertexWGSL = `@vertex
fn main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

func TestShaderLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"shaders/fullscreen.wgsl": {Data: []byte(vertexWGSL)},
		"shaders/broken.wgsl":     {Data: []byte("fn (")},
	}
	opts := naga.DefaultOptions()
	opts.Validate = false
	l := &ShaderLoader{FS: fsys, Options: &opts}

	v, err := l.Load(context.Background(), Source{Name: "fullscreen", Kind: KindShader, Location: "shaders/fullscreen.wgsl"})
	if err != nil {
		t.Fatal(err)
	}
	sh := v.(*Shader)
	code := sh.SPIRV()
	if len(code) < 20 || len(code)%4 != 0 {
		t.Fatalf("SPIR-V length = %d", len(code))
	}
	if magic := binary.LittleEndian.Uint32(code); magic != 0x07230203 {
		t.Errorf("SPIR-V magic = %#x", magic)
	}
	if sh.Source != vertexWGSL {
		t.Error("source not kept")
	}

	sh.Dispose()
	sh.Dispose()
	if sh.SPIRV() != nil {
		t.Error("Dispose kept the SPIR-V words")
	}

	if _, err := l.Load(context.Background(), Source{Location: "shaders/broken.wgsl"}); err == nil {
		t.Error("broken shader compiled")
	}
}
