// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"image"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Texture is a 2D image sampled by materials.
//
// Texture implements gpucontext.Texture so it can be handed to gogpu
// backends for upload. Dispose drops the pixel data.
type Texture struct {
	Name   string
	Format gputypes.TextureFormat

	mu       sync.RWMutex
	img      *image.RGBA
	width    int
	height   int
	disposed bool
}

var (
	_ gpucontext.Texture = (*Texture)(nil)
	_ Disposable         = (*Texture)(nil)
)

// NewTexture wraps img as an sRGB texture.
func NewTexture(name string, img *image.RGBA) *Texture {
	t := &Texture{Name: name, Format: gputypes.TextureFormatRGBA8UnormSrgb, img: img}
	if img != nil {
		b := img.Bounds()
		t.width, t.height = b.Dx(), b.Dy()
	}
	return t
}

// Width implements gpucontext.Texture.
func (t *Texture) Width() int { return t.width }

// Height implements gpucontext.Texture.
func (t *Texture) Height() int { return t.height }

// Image returns the pixel data, or nil once disposed.
func (t *Texture) Image() *image.RGBA {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.img
}

// Dispose releases the pixel data. It is idempotent and nil-safe.
func (t *Texture) Dispose() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.img = nil
	t.disposed = true
}

// Disposed reports whether Dispose ran.
func (t *Texture) Disposed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.disposed
}

// CubeFace indexes the faces of a cube texture.
type CubeFace int

// Cube faces in the +X, -X, +Y, -Y, +Z, -Z layer order used by GPU APIs.
const (
	FacePositiveX CubeFace = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
)

// CubeFaceNames are the conventional file stems of the six faces.
var CubeFaceNames = [6]string{"px", "nx", "py", "ny", "pz", "nz"}

// CubeTexture is a six-face environment texture.
type CubeTexture struct {
	Name          string
	Format        gputypes.TextureFormat
	ViewDimension gputypes.TextureViewDimension

	mu       sync.RWMutex
	faces    [6]*image.RGBA
	size     int
	disposed bool
}

var (
	_ gpucontext.Texture = (*CubeTexture)(nil)
	_ Disposable         = (*CubeTexture)(nil)
)

// NewCubeTexture creates a cube texture from square faces of equal size.
func NewCubeTexture(name string, faces [6]*image.RGBA) *CubeTexture {
	c := &CubeTexture{
		Name:          name,
		Format:        gputypes.TextureFormatRGBA8UnormSrgb,
		ViewDimension: gputypes.TextureViewDimensionCube,
		faces:         faces,
	}
	if faces[0] != nil {
		c.size = faces[0].Bounds().Dx()
	}
	return c
}

// Width implements gpucontext.Texture; it is the face edge length.
func (c *CubeTexture) Width() int { return c.size }

// Height implements gpucontext.Texture; it is the face edge length.
func (c *CubeTexture) Height() int { return c.size }

// Face returns one face image, or nil once disposed.
func (c *CubeTexture) Face(f CubeFace) *image.RGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if f < 0 || int(f) >= len(c.faces) {
		return nil
	}
	return c.faces[f]
}

// Dispose releases all faces. It is idempotent and nil-safe.
func (c *CubeTexture) Dispose() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faces = [6]*image.RGBA{}
	c.disposed = true
}

// Disposed reports whether Dispose ran.
func (c *CubeTexture) Disposed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.disposed
}
