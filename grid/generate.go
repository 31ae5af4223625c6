package grid

import (
	"math"

	"github.com/gogpu/gridview/geom"
	"github.com/gogpu/gridview/transform"
)

// maxLinesPerAxis bounds a single recomputation.
const maxLinesPerAxis = 1 << 14

// Axis tells vertical lines from horizontal ones.
type Axis uint8

const (
	Vertical   Axis = iota // Constant X
	Horizontal             // Constant Y
)

// String returns "vertical" or "horizontal".
func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Line is one grid line in model space. Cell is the absolute index of the
// cell that starts at the line.
type Line struct {
	geom.Segment
	Axis Axis
	Cell int64
}

// Generate returns the grid lines covering the viewport for transform t.
// Lines are in model space; t.Matrix maps them onto the screen.
//
// The visible model window is the bounding box of the viewport corners
// under the inverse transform. Each axis gets ceil(window/step)+1 lines,
// the first one at or before the window edge. Vertical lines span the
// window height and horizontal lines its width.
//
// Generate is pure: equal inputs produce identical output.
func Generate(t transform.Affine, viewW, viewH float64, s Spec) []Line {
	scale := t.Scale()
	if !(viewW > 0) || !(viewH > 0) || !(scale > 0) {
		return nil
	}
	s.assertSpacing(s.Spacing)
	step := s.Step(scale)

	inv := t.Matrix.Invert()
	win := geom.BoundsOf(
		inv.TransformPoint(geom.Pt(0, 0)),
		inv.TransformPoint(geom.Pt(viewW, 0)),
		inv.TransformPoint(geom.Pt(0, viewH)),
		inv.TransformPoint(geom.Pt(viewW, viewH)),
	)

	baseX := s.AnchorX - s.SubCellOffsetX/scale
	baseY := s.AnchorY - s.SubCellOffsetY/scale
	i0, nx := span(win.MinX, win.Width(), baseX, step)
	j0, ny := span(win.MinY, win.Height(), baseY, step)

	lines := make([]Line, 0, nx+ny)
	for i := range nx {
		k := i0 + int64(i)
		x := baseX + float64(k)*step
		lines = append(lines, Line{
			Segment: geom.Seg(x, win.MinY, x, win.MaxY),
			Axis:    Vertical,
			Cell:    s.OriginCellX + k,
		})
	}
	for j := range ny {
		k := j0 + int64(j)
		y := baseY + float64(k)*step
		lines = append(lines, Line{
			Segment: geom.Seg(win.MinX, y, win.MaxX, y),
			Axis:    Horizontal,
			Cell:    s.OriginCellY + k,
		})
	}
	return lines
}

// span returns the local index of the first line at or before lo and the
// number of lines needed to cover extent.
func span(lo, extent, base, step float64) (first int64, n int) {
	first = int64(math.Floor((lo - base) / step))
	n = int(math.Ceil(extent/step)) + 1
	return first, min(n, maxLinesPerAxis)
}

// Segments returns just the segments of lines.
func Segments(lines []Line) []geom.Segment {
	out := make([]geom.Segment, len(lines))
	for i, l := range lines {
		out[i] = l.Segment
	}
	return out
}
