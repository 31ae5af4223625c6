package geom

// Segment is a straight line between (X1, Y1) and (X2, Y2).
type Segment struct {
	X1, Y1 float64
	X2, Y2 float64
}

// Seg is a convenience function to create a Segment.
func Seg(x1, y1, x2, y2 float64) Segment {
	return Segment{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Start returns the first endpoint.
func (s Segment) Start() Point { return Point{X: s.X1, Y: s.Y1} }

// End returns the second endpoint.
func (s Segment) End() Point { return Point{X: s.X2, Y: s.Y2} }

// Transform returns the segment with both endpoints mapped through m.
func (s Segment) Transform(m Matrix) Segment {
	a := m.TransformPoint(s.Start())
	b := m.TransformPoint(s.End())
	return Segment{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y}
}

// Bounds is an axis-aligned rectangle [MinX, MaxX] x [MinY, MaxY].
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns MaxX - MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// BoundsOf returns the smallest Bounds containing all points.
// It returns the zero Bounds for an empty list.
func BoundsOf(pts ...Point) Bounds {
	if len(pts) == 0 {
		return Bounds{}
	}
	b := Bounds{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}
