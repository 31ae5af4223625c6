package recording

import (
	"errors"

	"github.com/gogpu/gridview/geom"
)

// ErrNilBackend is returned by Playback when no backend is given.
var ErrNilBackend = errors.New("recording: nil backend")

// Recorder captures drawing operations as commands. Use Finish to obtain
// an immutable Recording that can be replayed to different backends.
//
// Redundant state changes are not recorded.
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	width, height int
	commands      []Command

	transform   geom.Matrix
	strokeColor RGBA
	strokeWidth float64
	labelColor  RGBA
}

// NewRecorder creates a new Recorder for the given dimensions.
// The Recorder starts with an identity transform and the default grid
// stroke.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		width:       width,
		height:      height,
		commands:    make([]Command, 0, 256),
		transform:   geom.Identity(),
		strokeColor: GridLine,
		strokeWidth: DefaultLineWidth,
		labelColor:  LabelColor,
	}
}

// Width returns the width of the recording canvas.
func (r *Recorder) Width() int { return r.width }

// Height returns the height of the recording canvas.
func (r *Recorder) Height() int { return r.height }

// Clear fills the entire canvas with c.
func (r *Recorder) Clear(c RGBA) {
	r.commands = append(r.commands, ClearCommand{Color: c})
}

// SetTransform replaces the matrix applied to subsequent segments.
func (r *Recorder) SetTransform(m geom.Matrix) {
	if m == r.transform {
		return
	}
	r.transform = m
	r.commands = append(r.commands, SetTransformCommand{Matrix: m})
}

// SetStroke sets the stroke color and width of subsequent segments.
func (r *Recorder) SetStroke(c RGBA, width float64) {
	if c == r.strokeColor && width == r.strokeWidth {
		return
	}
	r.strokeColor, r.strokeWidth = c, width
	r.commands = append(r.commands, SetStrokeCommand{Color: c, Width: width})
}

// SetLabelColor sets the color of subsequent labels.
func (r *Recorder) SetLabelColor(c RGBA) {
	r.labelColor = c
}

// StrokeSegment records a model-space segment.
func (r *Recorder) StrokeSegment(s geom.Segment) {
	r.commands = append(r.commands, StrokeSegmentCommand{Segment: s})
}

// DrawLabel records screen-space text with its baseline at (x, y).
func (r *Recorder) DrawLabel(text string, x, y float64) {
	if text == "" {
		return
	}
	r.commands = append(r.commands, DrawLabelCommand{Text: text, X: x, Y: y, Color: r.labelColor})
}

// Finish returns an immutable Recording containing all recorded commands.
// After calling Finish, the Recorder should not be used again.
func (r *Recorder) Finish() *Recording {
	return &Recording{
		width:       r.width,
		height:      r.height,
		commands:    r.commands,
		strokeColor: GridLine,
		strokeWidth: DefaultLineWidth,
	}
}

// Recording is an immutable container for recorded drawing commands.
// It can be replayed to any Backend implementation.
type Recording struct {
	width, height int
	commands      []Command

	// Initial stroke state, sent before the first command.
	strokeColor RGBA
	strokeWidth float64
}

// Width returns the width of the recording canvas.
func (r *Recording) Width() int { return r.width }

// Height returns the height of the recording canvas.
func (r *Recording) Height() int { return r.height }

// Commands returns the recorded commands. The slice must not be modified.
func (r *Recording) Commands() []Command { return r.commands }

// Len returns the number of recorded commands.
func (r *Recording) Len() int {
	if r == nil {
		return 0
	}
	return len(r.commands)
}

// Segments returns how many segments the recording strokes.
func (r *Recording) Segments() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, c := range r.commands {
		if c.Type() == CmdStrokeSegment {
			n++
		}
	}
	return n
}

// Playback replays the recording to the given backend.
// A nil recording plays back as an empty canvas.
func (r *Recording) Playback(backend Backend) error {
	if backend == nil {
		return ErrNilBackend
	}
	if r == nil {
		if err := backend.Begin(0, 0); err != nil {
			return err
		}
		return backend.End()
	}

	if err := backend.Begin(r.width, r.height); err != nil {
		return err
	}
	backend.SetTransform(geom.Identity())
	backend.SetStroke(r.strokeColor, r.strokeWidth)

	for _, cmd := range r.commands {
		switch c := cmd.(type) {
		case SetTransformCommand:
			backend.SetTransform(c.Matrix)
		case SetStrokeCommand:
			backend.SetStroke(c.Color, c.Width)
		case ClearCommand:
			backend.Clear(c.Color)
		case StrokeSegmentCommand:
			backend.StrokeSegment(c.Segment)
		case DrawLabelCommand:
			backend.DrawLabel(c.Text, c.X, c.Y, c.Color)
		}
	}

	return backend.End()
}
