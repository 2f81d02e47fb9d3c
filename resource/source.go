// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"fmt"
	"strings"
)

// Kind selects the loader used for a source.
type Kind uint8

// Supported source kinds.
const (
	KindUnknown Kind = iota
	KindModel
	KindTexture
	KindCubeTexture
	KindFont
	KindShader
)

var kindNames = [...]string{
	KindUnknown:     "unknown",
	KindModel:       "gltfModel",
	KindTexture:     "texture",
	KindCubeTexture: "cubeTexture",
	KindFont:        "font",
	KindShader:      "shader",
}

// String returns the manifest spelling of k.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind parses a manifest kind name. Matching is case-insensitive and
// accepts "model" as an alias of "gltfModel".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gltfmodel", "gltf", "model":
		return KindModel, nil
	case "texture":
		return KindTexture, nil
	case "cubetexture", "cubemap":
		return KindCubeTexture, nil
	case "font":
		return KindFont, nil
	case "shader", "wgsl":
		return KindShader, nil
	}
	return KindUnknown, fmt.Errorf("%w: unknown kind %q", ErrInvalidManifest, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Source describes one asset to load. Name is unique within a batch;
// Location is a path inside the loader's file system.
type Source struct {
	Name     string `json:"name" toml:"name" yaml:"name"`
	Kind     Kind   `json:"type" toml:"type" yaml:"type"`
	Location string `json:"path" toml:"path" yaml:"path"`
}

func (s Source) String() string {
	return s.Name + " (" + s.Kind.String() + " " + s.Location + ")"
}
