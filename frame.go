package gridview

import (
	"errors"
	"math"
	"time"

	"github.com/gogpu/gridview/geom"
	"github.com/gogpu/gridview/grid"
	"github.com/gogpu/gridview/recording"
	"github.com/gogpu/gridview/transform"
)

// ErrNoFrame is returned when painting a nil frame.
var ErrNoFrame = errors.New("gridview: no frame")

// Frame is one immutable recomputation result. A newer frame replaces the
// published one atomically; frames are never modified after publication,
// so painting one twice gives the same output.
type Frame struct {
	// Seq increases with every request; frame 0 is the empty initial frame.
	Seq  uint64
	Time time.Time

	Transform transform.Affine
	Width     float64
	Height    float64

	// Spacing is the on-screen grid spacing.
	Spacing float64
	Grid    grid.Spec
	Lines   []grid.Line

	Recording *recording.Recording
}

// Paint replays the frame into a backend.
func (f *Frame) Paint(b recording.Backend) error {
	if f == nil {
		return ErrNoFrame
	}
	if err := f.Recording.Playback(b); err != nil {
		Logger().Warn("gridview: paint failed", "seq", f.Seq, "err", err)
		return err
	}
	return nil
}

// Segments returns the model-space segments of the frame.
func (f *Frame) Segments() []geom.Segment {
	if f == nil {
		return nil
	}
	return grid.Segments(f.Lines)
}

// snapshot is what the gesture side hands to the geometry worker.
type snapshot struct {
	transform transform.Affine
	width     float64
	height    float64
	spec      grid.Spec
}

// buildFrame runs on the geometry worker.
func buildFrame(seq uint64, now time.Time, s snapshot, ruler *Ruler) *Frame {
	lines := grid.Generate(s.transform, s.width, s.height, s.spec)

	rec := recording.NewRecorder(int(math.Ceil(s.width)), int(math.Ceil(s.height)))
	rec.Clear(recording.Background)
	rec.SetTransform(s.transform.Matrix)
	rec.SetStroke(recording.GridLine, recording.DefaultLineWidth)
	for _, l := range lines {
		rec.StrokeSegment(l.Segment)
	}
	if ruler != nil {
		ruler.Record(rec, s.transform, s.width, s.height, s.spec.Spacing, lines)
	}

	return &Frame{
		Seq:       seq,
		Time:      now,
		Transform: s.transform,
		Width:     s.width,
		Height:    s.height,
		Spacing:   s.spec.Spacing,
		Grid:      s.spec,
		Lines:     lines,
		Recording: rec.Finish(),
	}
}
