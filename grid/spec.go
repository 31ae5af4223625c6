// Package grid computes the visible line segments of a virtual, infinite
// grid for a given transform and viewport.
//
// Grid position is kept as an integer cell index plus a fractional sub-cell
// offset. Every update carries whole cells out of the offset into the index,
// so a long pan session never subtracts ever-growing floats.
package grid

import (
	"math"

	"github.com/gogpu/gridview/geom"
)

// Default spacing bounds, in screen pixels.
const (
	DefaultBaseSpacing = 20.0
	DefaultMinSpacing  = 5.0
	DefaultMaxSpacing  = 100.0
)

// Spec is the grid's position and spacing state.
//
// Spacing is the on-screen distance between adjacent lines and stays within
// [MinSpacing, MaxSpacing]. OriginCellX/Y is the absolute index of the
// grid's local line 0 and SubCellOffsetX/Y (in screen pixels, within
// [0, Spacing)) is how far that line sits before the anchor. AnchorX/Y is
// the model-space point local line 0 is attached to.
type Spec struct {
	BaseSpacing float64
	MinSpacing  float64
	MaxSpacing  float64
	Spacing     float64

	OriginCellX    int64
	OriginCellY    int64
	SubCellOffsetX float64
	SubCellOffsetY float64

	AnchorX float64
	AnchorY float64
}

// NewSpec creates a Spec at cell (0, 0) with the spacing a scale of 1
// gives.
func NewSpec(base, minSpacing, maxSpacing float64) Spec {
	s := Spec{BaseSpacing: base, MinSpacing: minSpacing, MaxSpacing: maxSpacing}
	s.Spacing = s.SpacingForScale(1)
	return s
}

// DefaultSpec returns NewSpec with the default spacing bounds.
func DefaultSpec() Spec {
	return NewSpec(DefaultBaseSpacing, DefaultMinSpacing, DefaultMaxSpacing)
}

// SpacingForScale converts a zoom level into an on-screen spacing within
// the spacing bounds.
func (s Spec) SpacingForScale(scale float64) float64 {
	return min(max(s.BaseSpacing*scale, s.MinSpacing), s.MaxSpacing)
}

// Step returns the model-space distance between lines at the given scale.
func (s Spec) Step(scale float64) float64 {
	return s.Spacing / scale
}

// SetSpacing changes the on-screen spacing. The offsets keep their
// fractional cell position, so lines do not jump.
func (s *Spec) SetSpacing(spacing float64) {
	spacing = min(max(spacing, s.MinSpacing), s.MaxSpacing)
	s.assertSpacing(spacing)
	if s.Spacing > 0 && spacing != s.Spacing {
		ratio := spacing / s.Spacing
		s.SubCellOffsetX *= ratio
		s.SubCellOffsetY *= ratio
	}
	s.Spacing = spacing
	s.normalize()
}

// Scroll moves the grid content by (dx, dy) screen pixels along its own
// axes. The grid is unbounded: whole cells carry into the origin index.
func (s *Spec) Scroll(dx, dy float64) {
	if math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
		return
	}
	s.SubCellOffsetX -= dx
	s.SubCellOffsetY -= dy
	s.normalize()
}

// CellAt returns the absolute cell containing a model-space point.
func (s Spec) CellAt(p geom.Point, scale float64) (cx, cy int64) {
	step := s.Step(scale)
	fx := (p.X - s.AnchorX + s.SubCellOffsetX/scale) / step
	fy := (p.Y - s.AnchorY + s.SubCellOffsetY/scale) / step
	return int64(math.Floor(fx)) + s.OriginCellX, int64(math.Floor(fy)) + s.OriginCellY
}

// normalize carries whole cells out of the offsets so that both lie in
// [0, Spacing).
func (s *Spec) normalize() {
	s.assertSpacing(s.Spacing)
	s.OriginCellX, s.SubCellOffsetX = carry(s.OriginCellX, s.SubCellOffsetX, s.Spacing)
	s.OriginCellY, s.SubCellOffsetY = carry(s.OriginCellY, s.SubCellOffsetY, s.Spacing)
}

func carry(cell int64, off, spacing float64) (int64, float64) {
	whole := math.Floor(off / spacing)
	cell += int64(whole)
	off -= whole * spacing
	// Rounding can leave off == spacing or a tiny negative value.
	if off >= spacing {
		off -= spacing
		cell++
	}
	if off < 0 {
		off = 0
	}
	return cell, off
}

func (s *Spec) assertSpacing(spacing float64) {
	if !(spacing > 0) || math.IsInf(spacing, 0) {
		panic("grid: spacing must be positive and finite")
	}
}
