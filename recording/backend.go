package recording

import (
	"image"
	"io"

	"github.com/gogpu/gridview/geom"
)

// Backend is the interface that all playback backends must implement.
// Backends receive drawing commands and translate them to their output
// (raster pixels, a host canvas, a test log).
//
// Backends are created via the registry using NewBackend(name) and
// registered via Register() in their init() functions.
//
// # Implementation Contract
//
// Each backend must:
//  1. Register in init() using recording.Register()
//  2. Handle all Backend methods (even if no-op for some)
//  3. Apply the current matrix to segments but not to labels
//  4. Keep stroke width in screen pixels
type Backend interface {
	// Begin initializes the backend for rendering at the given dimensions.
	// This must be called before any drawing operations.
	Begin(width, height int) error

	// End finalizes the rendering and prepares the output.
	End() error

	// SetTransform sets the model-to-screen matrix for segments.
	SetTransform(m geom.Matrix)

	// SetStroke sets the stroke color and screen-space width.
	SetStroke(c RGBA, width float64)

	// Clear fills the whole canvas.
	Clear(c RGBA)

	// StrokeSegment strokes a model-space segment.
	StrokeSegment(s geom.Segment)

	// DrawLabel draws text with its baseline origin at (x, y) in screen
	// space.
	DrawLabel(text string, x, y float64, c RGBA)
}

// WriterBackend extends Backend with the ability to write output to an io.Writer.
type WriterBackend interface {
	Backend

	// WriteTo writes the rendered content to the given writer.
	// This should only be called after End().
	WriteTo(w io.Writer) (int64, error)
}

// FileBackend extends Backend with the ability to save output directly to a file.
type FileBackend interface {
	Backend

	// SaveToFile saves the rendered content to a file at the given path.
	// This should only be called after End().
	SaveToFile(path string) error
}

// ImageBackend extends Backend with access to the rendered image.
type ImageBackend interface {
	Backend

	// Image returns the rendered image, or nil before Begin.
	Image() image.Image
}
