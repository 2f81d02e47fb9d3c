// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io/fs"
	"path"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/stage/scene"
)

// TextureLoader decodes PNG, JPEG, BMP, TIFF and WebP images into
// *scene.Texture values.
type TextureLoader struct {
	FS fs.FS

	// MaxSize downsamples images whose larger edge exceeds it, keeping the
	// aspect ratio. Zero means no limit.
	MaxSize int
}

// Load implements Loader.
func (l *TextureLoader) Load(ctx context.Context, src Source) (any, error) {
	img, err := decodeImage(ctx, l.FS, src.Location, l.MaxSize)
	if err != nil {
		return nil, err
	}
	return scene.NewTexture(src.Name, img), nil
}

// CubeTextureLoader loads the six faces of an environment map. The source
// location is a directory holding px, nx, py, ny, pz and nz images with any
// supported extension.
type CubeTextureLoader struct {
	FS fs.FS
}

// Load implements Loader.
func (l *CubeTextureLoader) Load(ctx context.Context, src Source) (any, error) {
	var faces [6]*image.RGBA
	for i, face := range scene.CubeFaceNames {
		matches, err := fs.Glob(l.FS, path.Join(src.Location, face+".*"))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("resource: cube face %s missing in %s: %w", face, src.Location, fs.ErrNotExist)
		}
		img, err := decodeImage(ctx, l.FS, matches[0], 0)
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		if b.Dx() != b.Dy() {
			return nil, fmt.Errorf("resource: cube face %s is %dx%d, want square", face, b.Dx(), b.Dy())
		}
		if i > 0 && b.Dx() != faces[0].Bounds().Dx() {
			return nil, fmt.Errorf("resource: cube face %s is %dpx, want %dpx", face, b.Dx(), faces[0].Bounds().Dx())
		}
		faces[i] = img
	}
	return scene.NewCubeTexture(src.Name, faces), nil
}

func decodeImage(ctx context.Context, fsys fs.FS, name string, maxSize int) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("resource: decode %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			w, h = maxSize, max(1, h*maxSize/w)
		} else {
			w, h = max(1, w*maxSize/h), maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
		return dst, nil
	}

	if rgba, ok := src.(*image.RGBA); ok && sb.Min == (image.Point{}) {
		return rgba, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
	return dst, nil
}
