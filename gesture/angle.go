package gesture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gogpu/gridview/geom"
)

func vec(p geom.Point) r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// AngleBetween returns the signed angle in degrees that rotates the line
// through before[0] and before[1] onto the line through after[0] and
// after[1]. The result lies in (-180, 180]. Degenerate lines (coincident
// endpoints) yield 0.
func AngleBetween(before, after [2]geom.Point) float64 {
	v1 := r2.Sub(vec(before[1]), vec(before[0]))
	v2 := r2.Sub(vec(after[1]), vec(after[0]))
	if r2.Norm(v1) == 0 || r2.Norm(v2) == 0 {
		return 0
	}
	a := math.Atan2(v2.Y, v2.X) - math.Atan2(v1.Y, v1.X)
	return geom.NormalizeDegrees(geom.Degrees(a))
}

// span returns the distance between the two contacts of a pair.
func span(p [2]geom.Point) float64 {
	return r2.Norm(r2.Sub(vec(p[1]), vec(p[0])))
}

// focal returns the midpoint of a pair.
func focal(p [2]geom.Point) geom.Point {
	m := r2.Scale(0.5, r2.Add(vec(p[0]), vec(p[1])))
	return geom.Pt(m.X, m.Y)
}
