// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"

	"github.com/go-text/typesetting/font"
)

// Font is a parsed OpenType/TrueType face.
type Font struct {
	Name string
	Face *font.Face
}

// UnitsPerEm returns the design units per em of the face.
func (f *Font) UnitsPerEm() uint16 {
	return f.Face.Upem()
}

// HasGlyph reports whether the face maps r to a glyph.
func (f *Font) HasGlyph(r rune) bool {
	_, ok := f.Face.NominalGlyph(r)
	return ok
}

// FontLoader parses .ttf and .otf files into *Font values.
type FontLoader struct {
	FS fs.FS
}

// Load implements Loader.
func (l *FontLoader) Load(ctx context.Context, src Source) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(l.FS, src.Location)
	if err != nil {
		return nil, err
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("resource: parse font %s: %w", src.Location, err)
	}
	return &Font{Name: src.Name, Face: face}, nil
}
