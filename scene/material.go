// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"image/color"
	"iter"
	"maps"
	"slices"
)

// Material describes the appearance of a mesh.
//
// Attributes yields every attribute that may hold a resource, under its
// attribute name. The disposal walk releases those implementing
// Disposable, whatever set of texture slots a material carries. Nil
// attributes are not yielded.
type Material interface {
	Attributes() iter.Seq2[string, any]
}

// BasicMaterial is an unlit material.
type BasicMaterial struct {
	Color     color.RGBA
	Map       *Texture
	Wireframe bool
}

// Attributes implements Material.
func (m *BasicMaterial) Attributes() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m.Map != nil {
			yield("map", m.Map)
		}
	}
}

// StandardMaterial is a physically based material.
type StandardMaterial struct {
	Color           color.RGBA
	Roughness       float64
	Metalness       float64
	EnvMapIntensity float64

	Map          *Texture
	NormalMap    *Texture
	RoughnessMap *Texture
	EnvMap       *CubeTexture
}

// Attributes implements Material.
func (m *StandardMaterial) Attributes() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, a := range []struct {
			name string
			tex  *Texture
		}{
			{"map", m.Map},
			{"normalMap", m.NormalMap},
			{"roughnessMap", m.RoughnessMap},
		} {
			if a.tex != nil && !yield(a.name, a.tex) {
				return
			}
		}
		if m.EnvMap != nil {
			yield("envMap", m.EnvMap)
		}
	}
}

// ShaderMaterial carries a compiled shader program and its uniforms.
// Uniform values that are Disposable (textures, buffers) are released with
// the material.
type ShaderMaterial struct {
	Program  Disposable
	Uniforms map[string]any
}

// Attributes implements Material. Uniforms are yielded in name order.
func (m *ShaderMaterial) Attributes() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m.Program != nil && !yield("program", m.Program) {
			return
		}
		for _, name := range slices.Sorted(maps.Keys(m.Uniforms)) {
			v := m.Uniforms[name]
			if v == nil {
				continue
			}
			if !yield(name, v) {
				return
			}
		}
	}
}
