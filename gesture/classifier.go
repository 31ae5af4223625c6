// Package gesture classifies multi-pointer touch sequences into drag, zoom,
// rotate and tap gestures.
//
// The Classifier is a tagged-state machine: each Mode has its own move
// handler and the only mutable state is the State value it owns. It never
// touches a transform or grid; it reports what the contacts mean through a
// Result and leaves applying it to the caller.
//
//	c := gesture.NewClassifier(gesture.DefaultConfig())
//	res := c.Handle(ev, model.Scale())
//	if res.Has(gesture.EmitTranslate) {
//	    model.ApplyTranslation(res.DX, res.DY)
//	}
package gesture

import (
	"math"

	"github.com/gogpu/gridview/geom"
)

// Default tuning values.
const (
	DefaultMinScale              = 0.5
	DefaultMaxScale              = 5.0
	DefaultRotationThresholdDeg  = 10.0
	DefaultRotationHysteresisDeg = 15.0
	DefaultRotationDamping       = 3.0
	DefaultClickEpsilonPx        = 3.0
	DefaultLongPressMs           = 500
)

// Config tunes the classifier.
type Config struct {
	// MinScale and MaxScale are the exclusive bounds a pinch may reach.
	MinScale float64
	MaxScale float64

	// RotationThresholdDeg is the two-finger twist that turns a zoom into
	// a rotation.
	RotationThresholdDeg float64

	// RotationHysteresisDeg is how far the twist must move past the last
	// committed angle before another rotation is emitted.
	RotationHysteresisDeg float64

	// RotationDamping divides the committed twist.
	RotationDamping float64

	// ClickEpsilonPx is the per-axis travel a tap may have.
	ClickEpsilonPx float64

	// LongPressMs is the hold time after which a tap is a long press.
	LongPressMs int64
}

// DefaultConfig returns the default tuning.
func DefaultConfig() Config {
	return Config{
		MinScale:              DefaultMinScale,
		MaxScale:              DefaultMaxScale,
		RotationThresholdDeg:  DefaultRotationThresholdDeg,
		RotationHysteresisDeg: DefaultRotationHysteresisDeg,
		RotationDamping:       DefaultRotationDamping,
		ClickEpsilonPx:        DefaultClickEpsilonPx,
		LongPressMs:           DefaultLongPressMs,
	}
}

// Mode is the current interpretation of the active contacts.
type Mode uint8

const (
	ModeIdle         Mode = iota // No contacts
	ModeDrag                     // One contact panning
	ModeZoom                     // Two contacts pinching and panning
	ModeRotate                   // Two contacts twisting
	ModePendingClick             // Reported for the release that produced a tap
)

var modeNames = [...]string{
	ModeIdle:         "Idle",
	ModeDrag:         "Drag",
	ModeZoom:         "Zoom",
	ModeRotate:       "Rotate",
	ModePendingClick: "PendingClick",
}

// String returns the string representation of a Mode.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "Unknown"
}

// Emit is a set of outputs carried by a Result.
type Emit uint8

const (
	EmitTranslate Emit = 1 << iota
	EmitRotate
	EmitScale
	EmitClick
	EmitLongPress
)

// Result is what a single event produced.
type Result struct {
	Mode Mode
	Emit Emit

	// Translation delta in screen pixels (EmitTranslate).
	DX, DY float64

	// Rotation in degrees about Pivot (EmitRotate).
	RotationDeg float64
	Pivot       geom.Point

	// Accepted scale about Focus (EmitScale).
	Scale float64
	Focus geom.Point

	// Tap position (EmitClick, EmitLongPress).
	Tap geom.Point
}

// Has reports whether r carries output e.
func (r Result) Has(e Emit) bool { return r.Emit&e != 0 }

// State is the classifier's complete mutable state.
type State struct {
	Mode Mode

	// Last is the previous tracked position; Start is where the sequence
	// began and StartTime when.
	Last      geom.Point
	Start     geom.Point
	StartTime int64

	// RefPair is the two-contact reference line rotations are measured
	// against. AppliedAngle is the raw twist at the last committed rotation.
	RefPair      [2]geom.Point
	HasRef       bool
	AppliedAngle float64

	// Active is set between the first down and the last up.
	Active bool

	// MultiTouch records that the sequence had a second contact.
	MultiTouch bool
}

// Classifier turns pointer events into gesture results.
//
// Classifier is NOT safe for concurrent use.
type Classifier struct {
	cfg Config
	st  State
}

// NewClassifier creates an idle classifier.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Mode returns the current mode.
func (c *Classifier) Mode() Mode { return c.st.Mode }

// State returns a copy of the current state.
func (c *Classifier) State() State { return c.st }

// Reset returns the classifier to Idle.
func (c *Classifier) Reset() { c.st = State{} }

// Handle classifies one pointer event. scale is the current zoom level and
// decides whether a single-finger drag pans.
func (c *Classifier) Handle(ev Event, scale float64) Result {
	switch ev.Phase {
	case PhaseDown:
		return c.down(ev)
	case PhasePointerDown:
		return c.pointerDown(ev)
	case PhaseMove:
		return c.move(ev, scale)
	case PhaseUp:
		return c.up(ev)
	case PhasePointerUp:
		c.st.Mode = ModeIdle
		c.st.HasRef = false
		return Result{Mode: ModeIdle}
	case PhaseCancel:
		c.Reset()
		return Result{Mode: ModeIdle}
	}
	return Result{Mode: c.st.Mode}
}

func (c *Classifier) down(ev Event) Result {
	p := ev.Position()
	c.st = State{
		Mode:      ModeDrag,
		Last:      p,
		Start:     p,
		StartTime: ev.Time,
		Active:    true,
	}
	return Result{Mode: ModeDrag}
}

func (c *Classifier) pointerDown(ev Event) Result {
	c.st.Mode = ModeZoom
	c.st.MultiTouch = true
	c.st.AppliedAngle = 0
	pair, ok := ev.pair()
	c.st.RefPair, c.st.HasRef = pair, ok
	if ok {
		c.st.Last = focal(pair)
	}
	return Result{Mode: ModeZoom}
}

func (c *Classifier) move(ev Event, scale float64) Result {
	var res Result
	pair, two := ev.pair()

	var angle float64
	if two && c.st.HasRef {
		angle = AngleBetween(c.st.RefPair, pair)
		if c.st.Mode == ModeZoom && math.Abs(angle) > c.cfg.RotationThresholdDeg {
			c.st.Mode = ModeRotate
		}
	}

	switch c.st.Mode {
	case ModeDrag:
		c.moveDrag(ev, scale, &res)
	case ModeZoom:
		c.moveZoom(ev, &res)
	case ModeRotate:
		c.moveRotate(pair, two, angle, &res)
	}
	res.Mode = c.st.Mode
	return res
}

func (c *Classifier) moveDrag(ev Event, scale float64, res *Result) {
	if scale <= c.cfg.MinScale {
		c.st.Last = ev.primary()
		return
	}
	c.translateTo(ev.primary(), res)
}

func (c *Classifier) moveZoom(ev Event, res *Result) {
	if pair, ok := ev.pair(); ok {
		c.translateTo(focal(pair), res)
		return
	}
	c.translateTo(ev.primary(), res)
}

func (c *Classifier) moveRotate(pair [2]geom.Point, two bool, angle float64, res *Result) {
	if !two || !c.st.HasRef {
		return
	}
	pending := geom.NormalizeDegrees(angle - c.st.AppliedAngle)
	if math.Abs(pending) <= c.cfg.RotationHysteresisDeg {
		return
	}
	damping := c.cfg.RotationDamping
	if damping <= 0 {
		damping = 1
	}
	res.Emit |= EmitRotate
	res.RotationDeg = pending / damping
	res.Pivot = focal(pair)
	c.st.AppliedAngle = angle
}

func (c *Classifier) translateTo(p geom.Point, res *Result) {
	d := p.Sub(c.st.Last)
	c.st.Last = p
	if d.X == 0 && d.Y == 0 {
		return
	}
	res.Emit |= EmitTranslate
	res.DX, res.DY = d.X, d.Y
}

func (c *Classifier) up(ev Event) Result {
	st := c.st
	c.Reset()
	if !st.Active || st.MultiTouch {
		return Result{Mode: ModeIdle}
	}
	d := ev.Position().Sub(st.Start)
	eps := c.cfg.ClickEpsilonPx
	if math.Abs(d.X) > eps || math.Abs(d.Y) > eps {
		return Result{Mode: ModeIdle}
	}
	res := Result{Mode: ModePendingClick, Tap: st.Start, Emit: EmitClick}
	if c.cfg.LongPressMs > 0 && ev.Time-st.StartTime >= c.cfg.LongPressMs {
		res.Emit = EmitLongPress
	}
	return res
}

// Pinch forwards an out-of-band pinch update. It accepts
// newScale = scale * factor only when MinScale < newScale < MaxScale;
// otherwise the update is dropped and the result carries no scale.
func (c *Classifier) Pinch(factor, focusX, focusY, scale float64) Result {
	res := Result{Mode: c.st.Mode}
	next := scale * factor
	if !(c.cfg.MinScale < next && next < c.cfg.MaxScale) {
		return res
	}
	res.Emit = EmitScale
	res.Scale = next
	res.Focus = geom.Pt(focusX, focusY)
	return res
}
