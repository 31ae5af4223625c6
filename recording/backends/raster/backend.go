// Package raster provides a raster backend for the recording system.
// It renders recordings to an *image.RGBA with golang.org/x/image/vector.
//
// Segments are stroked as quads in screen space, so line width does not
// change with zoom. Consecutive segments with the same stroke are
// accumulated in one rasterizer pass. Labels use the Go Regular font from
// golang.org/x/image/font/gofont.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/gridview/recording/backends/raster"
//
//	// Create via registry
//	backend, _ := recording.NewBackend("raster")
//
//	// Or create directly
//	backend := raster.NewBackend()
//
//	// Playback recording
//	frame.Paint(backend)
//
//	// Get output
//	backend.SavePNG("frame.png")
package raster

import (
	"bufio"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/gridview"
	"github.com/gogpu/gridview/geom"
	"github.com/gogpu/gridview/recording"
)

func init() {
	recording.Register("raster", func() recording.Backend {
		return NewBackend()
	})
}

// Backend renders recordings to a pixel image.
// It implements recording.Backend, recording.WriterBackend,
// recording.FileBackend, and recording.ImageBackend.
//
// Backend is not safe for concurrent use.
type Backend struct {
	img    *image.RGBA
	raster *vector.Rasterizer
	face   font.Face

	// pixelScale maps recording units to device pixels; 0 means 1.
	pixelScale float64
	faceScale  float64

	transform   geom.Matrix
	strokeColor recording.RGBA
	strokeWidth float64

	// pending is the number of quads waiting in the rasterizer.
	pending int
	stroked int
	culled  int
}

// Ensure Backend implements all required interfaces.
var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
	_ recording.ImageBackend  = (*Backend)(nil)
)

// NewBackend creates a new raster backend.
// The backend must be initialized with Begin before use.
func NewBackend() *Backend {
	return &Backend{}
}

// SetPixelScale sets how many device pixels one recording unit covers, for
// HiDPI output. The canvas, line widths and labels grow with it. It takes
// effect at the next Begin.
func (b *Backend) SetPixelScale(s float64) {
	if !(s > 0) || math.IsInf(s, 0) {
		s = 1
	}
	b.pixelScale = s
}

func (b *Backend) scale() float64 {
	if b.pixelScale == 0 {
		return 1
	}
	return b.pixelScale
}

// Begin initializes the backend for rendering at the given dimensions,
// multiplied by the pixel scale. A zero-sized canvas is valid and renders
// nothing.
func (b *Backend) Begin(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("raster: invalid canvas size %dx%d", width, height)
	}
	s := b.scale()
	if b.face == nil || b.faceScale != s {
		face, err := labelFace(s)
		if err != nil {
			return fmt.Errorf("raster: load label font: %w", err)
		}
		b.face, b.faceScale = face, s
	}
	width = int(math.Ceil(float64(width) * s))
	height = int(math.Ceil(float64(height) * s))
	b.img = image.NewRGBA(image.Rect(0, 0, width, height))
	if b.raster == nil {
		b.raster = vector.NewRasterizer(width, height)
	} else {
		b.raster.Reset(width, height)
	}
	b.raster.DrawOp = draw.Over
	b.transform = geom.Scale(s, s)
	b.strokeColor = recording.GridLine
	b.strokeWidth = recording.DefaultLineWidth
	b.pending, b.stroked, b.culled = 0, 0, 0
	return nil
}

// End flushes pending strokes.
func (b *Backend) End() error {
	if b.img == nil {
		return fmt.Errorf("raster: End called before Begin")
	}
	b.flush()
	gridview.Logger().Debug("raster: frame rendered",
		"width", b.Width(), "height", b.Height(),
		"segments", b.stroked, "culled", b.culled)
	return nil
}

// SetTransform sets the model-to-screen matrix for segments.
func (b *Backend) SetTransform(m geom.Matrix) {
	s := b.scale()
	b.transform = geom.Scale(s, s).Multiply(m)
}

// SetStroke sets the stroke color and screen-space width.
func (b *Backend) SetStroke(c recording.RGBA, width float64) {
	if c == b.strokeColor && width == b.strokeWidth {
		return
	}
	b.flush()
	b.strokeColor = c
	b.strokeWidth = width
}

// Clear fills the whole canvas, replacing its content.
func (b *Backend) Clear(c recording.RGBA) {
	b.flush()
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(c.NRGBA()), image.Point{}, draw.Src)
}

// StrokeSegment strokes a model-space segment with the current transform.
func (b *Backend) StrokeSegment(s geom.Segment) {
	if !(b.strokeWidth > 0) {
		return
	}
	p := b.transform.TransformPoint(s.Start())
	q := b.transform.TransformPoint(s.End())
	hw := b.strokeWidth * b.scale() / 2
	if b.offCanvas(p, q, hw) {
		b.culled++
		return
	}

	d := q.Sub(p)
	l := d.Length()
	if l == 0 {
		return
	}
	// Normal of length hw. Every quad has the same winding, so crossing
	// lines add coverage instead of cancelling it.
	n := geom.Pt(-d.Y/l*hw, d.X/l*hw)
	b.raster.MoveTo(float32(p.X+n.X), float32(p.Y+n.Y))
	b.raster.LineTo(float32(q.X+n.X), float32(q.Y+n.Y))
	b.raster.LineTo(float32(q.X-n.X), float32(q.Y-n.Y))
	b.raster.LineTo(float32(p.X-n.X), float32(p.Y-n.Y))
	b.raster.ClosePath()
	b.pending++
	b.stroked++
}

// DrawLabel draws text with its baseline origin at (x, y).
func (b *Backend) DrawLabel(text string, x, y float64, c recording.RGBA) {
	b.flush()
	s := b.scale()
	x, y = x*s, y*s
	d := font.Drawer{
		Dst:  b.img,
		Src:  image.NewUniform(c.NRGBA()),
		Face: b.face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(y * 64))},
	}
	d.DrawString(text)
}

// flush composites the accumulated quads.
func (b *Backend) flush() {
	if b.pending == 0 {
		return
	}
	b.raster.Draw(b.img, b.img.Bounds(), image.NewUniform(b.strokeColor.NRGBA()), image.Point{})
	b.raster.Reset(b.img.Bounds().Dx(), b.img.Bounds().Dy())
	b.raster.DrawOp = draw.Over
	b.pending = 0
}

func (b *Backend) offCanvas(p, q geom.Point, margin float64) bool {
	bb := geom.BoundsOf(p, q)
	w, h := float64(b.Width()), float64(b.Height())
	return bb.MaxX < -margin || bb.MaxY < -margin || bb.MinX > w+margin || bb.MinY > h+margin
}

// Image returns the rendered image.
func (b *Backend) Image() image.Image {
	if b.img == nil {
		return nil
	}
	return b.img
}

// WriteTo writes the rendered content as PNG to the given writer.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if b.img == nil {
		return 0, fmt.Errorf("raster: WriteTo called before Begin")
	}
	cw := &countingWriter{w: w}
	err := png.Encode(cw, b.img)
	return cw.n, err
}

// SaveToFile saves the rendered content as PNG to a file.
func (b *Backend) SaveToFile(path string) error {
	return b.SavePNG(path)
}

// SavePNG is a convenience method to save the image as PNG.
func (b *Backend) SavePNG(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	bw := bufio.NewWriter(f)
	if _, err = b.WriteTo(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// Width returns the backend width.
func (b *Backend) Width() int {
	if b.img == nil {
		return 0
	}
	return b.img.Bounds().Dx()
}

// Height returns the backend height.
func (b *Backend) Height() int {
	if b.img == nil {
		return 0
	}
	return b.img.Bounds().Dy()
}

// Stats returns how many segments the last frame stroked and culled.
func (b *Backend) Stats() (stroked, culled int) {
	return b.stroked, b.culled
}

// countingWriter wraps an io.Writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
