package recording

import "github.com/gogpu/gridview/geom"

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// State commands
	CmdSetTransform CommandType = iota // Set model-to-screen matrix
	CmdSetStroke                       // Set stroke color and width

	// Drawing commands
	CmdClear         // Fill the canvas
	CmdStrokeSegment // Stroke a model-space segment
	CmdDrawLabel     // Draw screen-space text
)

var commandTypeNames = [...]string{
	CmdSetTransform:  "SetTransform",
	CmdSetStroke:     "SetStroke",
	CmdClear:         "Clear",
	CmdStrokeSegment: "StrokeSegment",
	CmdDrawLabel:     "DrawLabel",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// SetTransformCommand sets the matrix applied to subsequent segments.
type SetTransformCommand struct {
	Matrix geom.Matrix
}

// Type implements Command.
func (SetTransformCommand) Type() CommandType { return CmdSetTransform }

// SetStrokeCommand sets the stroke style of subsequent segments.
type SetStrokeCommand struct {
	Color RGBA
	// Width is in screen pixels; it does not scale with the transform.
	Width float64
}

// Type implements Command.
func (SetStrokeCommand) Type() CommandType { return CmdSetStroke }

// ClearCommand fills the whole canvas with a color.
type ClearCommand struct {
	Color RGBA
}

// Type implements Command.
func (ClearCommand) Type() CommandType { return CmdClear }

// StrokeSegmentCommand strokes one line segment in model space.
type StrokeSegmentCommand struct {
	Segment geom.Segment
}

// Type implements Command.
func (StrokeSegmentCommand) Type() CommandType { return CmdStrokeSegment }

// DrawLabelCommand draws text with its baseline origin at (X, Y) in screen
// space.
type DrawLabelCommand struct {
	Text  string
	X, Y  float64
	Color RGBA
}

// Type implements Command.
func (DrawLabelCommand) Type() CommandType { return CmdDrawLabel }
