// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/stage/camera"
	"github.com/gogpu/stage/internal/logging"
	"github.com/gogpu/stage/scene"
)

// Option configures a Wireframe renderer.
type Option func(*Wireframe)

// WithBackground sets the clear color.
func WithBackground(c gg.RGBA) Option {
	return func(w *Wireframe) {
		w.background = c
	}
}

// WithLineWidth sets the edge width in physical pixels.
func WithLineWidth(width float64) Option {
	return func(w *Wireframe) {
		if width > 0 {
			w.lineWidth = width
		}
	}
}

// Wireframe renders mesh edges on the CPU with gg.
//
// Every visible node with a mesh is drawn in its material color; triangle
// edges whose end points fall outside the camera's near/far range are
// skipped. The surface is an RGBA pixmap in sRGB.
//
// Wireframe is safe for concurrent use.
type Wireframe struct {
	mu         sync.Mutex
	dc         *gg.Context
	background gg.RGBA
	lineWidth  float64
	stats      Stats
	disposed   bool
}

// NewWireframe creates a renderer with a width×height surface.
func NewWireframe(width, height int, opts ...Option) (*Wireframe, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	w := &Wireframe{
		background: gg.Hex("#211d20"),
		lineWidth:  1,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.dc = gg.NewContext(width, height)
	return w, nil
}

// Format returns the pixel format of the surface.
func (w *Wireframe) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8UnormSrgb
}

// Size returns the surface size in physical pixels.
func (w *Wireframe) Size() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disposed {
		return 0, 0
	}
	return w.dc.Width(), w.dc.Height()
}

// Resize implements Renderer. The pixel ratio multiplies the logical size;
// a non-positive ratio counts as 1.
func (w *Wireframe) Resize(width, height int, pixelRatio float64) error {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	pw := int(math.Round(float64(width) * pixelRatio))
	ph := int(math.Round(float64(height) * pixelRatio))
	if pw <= 0 || ph <= 0 {
		return fmt.Errorf("%w: %dx%d at ratio %g", ErrInvalidSize, width, height, pixelRatio)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disposed {
		return ErrDisposed
	}
	if err := w.dc.Resize(pw, ph); err != nil {
		return fmt.Errorf("render: resize: %w", err)
	}
	logging.Logger().Debug("render: resize", "width", pw, "height", ph)
	return nil
}

// Render implements Renderer.
func (w *Wireframe) Render(root *scene.Node, cam *camera.Perspective) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disposed {
		return ErrDisposed
	}

	dc := w.dc
	dc.ClearWithColor(w.background)
	dc.SetLineWidth(w.lineWidth)

	width, height := float64(dc.Width()), float64(dc.Height())
	toPixel := func(x, y float64) (float64, float64) {
		return (x + 1) / 2 * width, (1 - y) / 2 * height
	}

	st := Stats{Frames: w.stats.Frames + 1}
	proj := cam.Projection()
	var err error
	root.Traverse(func(n *scene.Node) {
		if err != nil || n.Mesh == nil || n.Mesh.Geometry == nil || !n.WorldVisible() {
			return
		}
		g := n.Mesh.Geometry
		if g.Disposed() {
			return
		}
		st.Meshes++

		// Project each vertex once.
		type projected struct {
			x, y float64
			ok   bool
		}
		model := n.WorldMatrix()
		pts := make([]projected, g.VertexCount())
		for i := range pts {
			x, y, _, ok := proj.Point(scene.TransformPoint(&model, g.Vertex(i)))
			pts[i].x, pts[i].y = toPixel(float64(x), float64(y))
			pts[i].ok = ok
		}

		segments := 0
		edge := func(a, b int) {
			if !pts[a].ok || !pts[b].ok {
				return
			}
			dc.DrawLine(pts[a].x, pts[a].y, pts[b].x, pts[b].y)
			segments++
		}
		g.Triangles(func(a, b, c int) {
			st.Triangles++
			edge(a, b)
			edge(b, c)
			edge(c, a)
		})
		if segments == 0 {
			return
		}
		st.Segments += segments
		dc.SetColor(materialColor(n.Mesh.Material))
		if serr := dc.Stroke(); serr != nil {
			err = fmt.Errorf("render: stroke %s: %w", n.Name, serr)
		}
	})
	w.stats = st
	return err
}

// Stats returns statistics of the last frame.
func (w *Wireframe) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Image returns a snapshot of the surface.
func (w *Wireframe) Image() (image.Image, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disposed {
		return nil, ErrDisposed
	}
	return w.dc.Image(), nil
}

// SavePNG writes the surface to a PNG file.
func (w *Wireframe) SavePNG(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disposed {
		return ErrDisposed
	}
	return w.dc.SavePNG(path)
}

// EncodePNG writes the surface as PNG to wr.
func (w *Wireframe) EncodePNG(wr io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disposed {
		return ErrDisposed
	}
	return w.dc.EncodePNG(wr)
}

// Dispose implements Renderer.
func (w *Wireframe) Dispose() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disposed {
		return nil
	}
	w.disposed = true
	return w.dc.Close()
}

func materialColor(m scene.Material) color.Color {
	switch m := m.(type) {
	case *scene.BasicMaterial:
		return m.Color
	case *scene.StandardMaterial:
		return m.Color
	}
	return color.White
}
