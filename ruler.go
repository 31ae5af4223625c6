package gridview

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/gridview/geom"
	"github.com/gogpu/gridview/grid"
	"github.com/gogpu/gridview/recording"
	"github.com/gogpu/gridview/transform"
)

// DefaultLabelGap is the smallest screen distance, in pixels, between two
// ruler labels on one edge.
const DefaultLabelGap = 40.0

// Label offsets from the viewport edge.
const (
	labelInset    = 3.0
	labelBaseline = 12.0
)

// Ruler writes cell indices next to grid lines where they cross the top and
// left viewport edges. Numbers are formatted for a locale, so large indices
// reached by long pans get digit grouping.
type Ruler struct {
	printer *message.Printer
	// MinGap is the smallest distance between labels.
	MinGap float64
}

// NewRuler creates a ruler formatting for tag.
func NewRuler(tag language.Tag) *Ruler {
	return &Ruler{printer: message.NewPrinter(tag), MinGap: DefaultLabelGap}
}

// Label formats a cell index.
func (r *Ruler) Label(cell int64) string {
	return r.printer.Sprintf("%d", cell)
}

// Stride returns how many cells apart labels are for an on-screen spacing.
// Strides follow 1, 2, 5, 10, 20, 50, ...
func (r *Ruler) Stride(spacing float64) int64 {
	if !(spacing > 0) {
		return 1
	}
	for base := int64(1); base < 1<<40; base *= 10 {
		for _, m := range [...]int64{1, 2, 5} {
			if float64(base*m)*spacing >= r.MinGap {
				return base * m
			}
		}
	}
	return 1 << 40
}

// Record adds labels for lines to rec.
func (r *Ruler) Record(rec *recording.Recorder, t transform.Affine, w, h, spacing float64, lines []grid.Line) {
	stride := r.Stride(spacing)
	for _, l := range lines {
		if l.Cell%stride != 0 {
			continue
		}
		s := l.Transform(t.Matrix)
		switch l.Axis {
		case grid.Vertical:
			if x, ok := crossing(s.Start(), s.End(), 0, false); ok && x >= 0 && x <= w {
				rec.DrawLabel(r.Label(l.Cell), x+labelInset, labelBaseline)
			}
		case grid.Horizontal:
			if y, ok := crossing(s.Start(), s.End(), 0, true); ok && y >= 0 && y <= h {
				rec.DrawLabel(r.Label(l.Cell), labelInset, y-labelInset)
			}
		}
	}
}

// crossing returns where segment pq crosses the line y=at (or x=at when
// vertical is set). It reports the other coordinate.
func crossing(p, q geom.Point, at float64, vertical bool) (float64, bool) {
	pa, qa, pb, qb := p.Y, q.Y, p.X, q.X
	if vertical {
		pa, qa, pb, qb = p.X, q.X, p.Y, q.Y
	}
	if pa == qa || (pa-at)*(qa-at) > 0 {
		return 0, false
	}
	f := (at - pa) / (qa - pa)
	return pb + f*(qb-pb), true
}
