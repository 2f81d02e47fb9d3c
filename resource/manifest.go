// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// json is the codec used for JSON manifests and glTF documents.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Manifest is the on-disk form of a source batch.
//
// TOML:
//
//	[[sources]]
//	name = "grassColorTexture"
//	type = "texture"
//	path = "textures/dirt/color.jpg"
//
// YAML and JSON use the same field names; both also accept a bare list.
type Manifest struct {
	Sources []Source `json:"sources" toml:"sources" yaml:"sources"`
}

// ParseManifest decodes a manifest, choosing the format from the file
// extension of name (.toml, .yaml, .yml or .json), and validates it.
func ParseManifest(name string, data []byte) ([]Source, error) {
	var sources []Source
	var err error

	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".toml":
		var m Manifest
		err = toml.Unmarshal(data, &m)
		sources = m.Sources
	case ".yaml", ".yml":
		sources, err = decodeEither(data, yaml.Unmarshal)
	case ".json":
		sources, err = decodeEither(data, json.Unmarshal)
	default:
		return nil, fmt.Errorf("%w: unsupported manifest format %q", ErrInvalidManifest, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, name, err)
	}

	if err := Validate(sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// LoadManifest reads and parses a manifest from fsys.
func LoadManifest(fsys fs.FS, name string) ([]Source, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("resource: read manifest: %w", err)
	}
	return ParseManifest(name, data)
}

// Validate normalizes source names to NFC in place and checks the batch:
// names must be non-empty and unique, kinds known, locations non-empty.
func Validate(sources []Source) error {
	seen := make(map[string]int, len(sources))
	for i := range sources {
		s := &sources[i]
		s.Name = norm.NFC.String(strings.TrimSpace(s.Name))
		switch {
		case s.Name == "":
			return fmt.Errorf("%w: source %d has no name", ErrInvalidManifest, i)
		case s.Kind == KindUnknown:
			return fmt.Errorf("%w: source %q has no type", ErrInvalidManifest, s.Name)
		case s.Location == "":
			return fmt.Errorf("%w: source %q has no path", ErrInvalidManifest, s.Name)
		}
		if j, dup := seen[s.Name]; dup {
			return fmt.Errorf("%w: duplicate source name %q (entries %d and %d)", ErrInvalidManifest, s.Name, j, i)
		}
		seen[s.Name] = i
	}
	return nil
}

// decodeEither accepts either {"sources": [...]} or a bare list.
func decodeEither(data []byte, unmarshal func([]byte, any) error) ([]Source, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) || bytes.HasPrefix(trimmed, []byte("- ")) {
		var list []Source
		err := unmarshal(data, &list)
		return list, err
	}
	var m Manifest
	err := unmarshal(data, &m)
	return m.Sources, err
}
