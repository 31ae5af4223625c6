// Package transform owns the accumulated pan/zoom/rotate matrix of a grid
// view and enforces its pan and zoom bounds.
//
// A Model has a single writer: the goroutine that processes gestures.
// Readers on other goroutines work from the value snapshot returned by
// Current, never from the Model itself.
package transform

import (
	"math"

	"github.com/gogpu/gridview/geom"
)

// Default bounds.
const (
	DefaultMinScale      = 0.5
	DefaultMaxScale      = 5.0
	DefaultContentFactor = 3.0
)

// Config holds the bounds a Model enforces.
type Config struct {
	// MinScale and MaxScale are exclusive zoom bounds.
	MinScale float64
	MaxScale float64

	// ContentFactor is the size of the pannable content expressed in
	// viewports. Content larger than the viewport can be dragged until one
	// of its edges reaches the matching viewport edge.
	ContentFactor float64
}

// DefaultConfig returns the default bounds.
func DefaultConfig() Config {
	return Config{
		MinScale:      DefaultMinScale,
		MaxScale:      DefaultMaxScale,
		ContentFactor: DefaultContentFactor,
	}
}

// Affine is an immutable snapshot of the accumulated transform.
// ScaleX always equals ScaleY.
type Affine struct {
	ScaleX      float64
	ScaleY      float64
	RotationDeg float64
	TranslateX  float64
	TranslateY  float64

	// Matrix maps model space to screen space.
	Matrix geom.Matrix
}

// Identity returns the identity snapshot.
func Identity() Affine {
	return Affine{ScaleX: 1, ScaleY: 1, Matrix: geom.Identity()}
}

// Scale returns the uniform scale factor.
func (a Affine) Scale() float64 { return a.ScaleX }

// ModelToScreen maps a model-space point to the screen.
func (a Affine) ModelToScreen(p geom.Point) geom.Point {
	return a.Matrix.TransformPoint(p)
}

// ScreenToModel maps a screen point back to model space.
func (a Affine) ScreenToModel(p geom.Point) geom.Point {
	return a.Matrix.Invert().TransformPoint(p)
}

// ModelOrigin returns the model-space point currently shown at the screen
// origin.
func (a Affine) ModelOrigin() geom.Point {
	return a.ScreenToModel(geom.Point{})
}

// Model accumulates translation, scale and rotation.
//
// Model is NOT safe for concurrent use.
type Model struct {
	cfg      Config
	matrix   geom.Matrix
	scale    float64
	rotation float64
	viewW    float64
	viewH    float64
}

// New creates a Model for a viewport of the given size. The model starts
// with identity scale, no rotation and a translation of one viewport up and
// left, which centers the content on screen.
func New(cfg Config, viewW, viewH float64) *Model {
	m := &Model{cfg: cfg, viewW: viewW, viewH: viewH}
	m.Reset()
	return m
}

// Reset restores the initial transform for the current viewport size.
func (m *Model) Reset() {
	m.scale = 1
	m.rotation = 0
	m.matrix = geom.Translate(-m.viewW, -m.viewH)
}

// Config returns the bounds this model enforces.
func (m *Model) Config() Config { return m.cfg }

// Resize updates the viewport size. Pan, zoom and rotation are kept.
func (m *Model) Resize(viewW, viewH float64) {
	m.viewW = viewW
	m.viewH = viewH
}

// Viewport returns the viewport size.
func (m *Model) Viewport() (w, h float64) { return m.viewW, m.viewH }

// ContentSize returns the unscaled content size.
func (m *Model) ContentSize() (w, h float64) {
	return m.viewW * m.cfg.ContentFactor, m.viewH * m.cfg.ContentFactor
}

// Scale returns the current uniform scale.
func (m *Model) Scale() float64 { return m.scale }

// Current returns a snapshot of the transform.
func (m *Model) Current() Affine {
	return Affine{
		ScaleX:      m.scale,
		ScaleY:      m.scale,
		RotationDeg: m.rotation,
		TranslateX:  m.matrix.C,
		TranslateY:  m.matrix.F,
		Matrix:      m.matrix,
	}
}

// Bounds returns how far the content may be translated left and up before
// an edge is exposed. A zero bound means the axis is not draggable.
func (m *Model) Bounds() (right, bottom float64) {
	cw, ch := m.ContentSize()
	return max(cw*m.scale-m.viewW, 0), max(ch*m.scale-m.viewH, 0)
}

// ApplyTranslation pans by (dx, dy) after clamping each axis so the content
// never exposes empty space past its edges. Axes whose scaled content fits
// inside the viewport are not draggable. It returns the delta actually
// applied.
func (m *Model) ApplyTranslation(dx, dy float64) (appliedX, appliedY float64) {
	if !finite(dx) || !finite(dy) {
		return 0, 0
	}
	cw, ch := m.ContentSize()
	appliedX = clampAxis(m.matrix.C, dx, cw*m.scale, m.viewW)
	appliedY = clampAxis(m.matrix.F, dy, ch*m.scale, m.viewH)
	if appliedX == 0 && appliedY == 0 {
		return 0, 0
	}
	m.matrix = geom.Translate(appliedX, appliedY).Multiply(m.matrix)
	return appliedX, appliedY
}

// clampAxis limits delta d so that t+d stays within [-(scaled-view), 0].
func clampAxis(t, d, scaled, view float64) float64 {
	if scaled <= view {
		return 0
	}
	limit := scaled - view
	switch {
	case t+d > 0:
		return -t
	case t+d < -limit:
		return -(t + limit)
	}
	return d
}

// ApplyScale replaces the uniform scale with newScale, keeping the focal
// point (fx, fy) fixed on screen. It returns false and leaves the model
// untouched unless MinScale < newScale < MaxScale.
func (m *Model) ApplyScale(newScale, fx, fy float64) bool {
	if !m.ScaleInRange(newScale) || !finite(fx) || !finite(fy) {
		return false
	}
	factor := newScale / m.scale
	m.matrix = geom.ScaleAbout(factor, fx, fy).Multiply(m.matrix)
	m.scale = newScale
	return true
}

// ScaleInRange reports whether s lies strictly inside the zoom bounds.
func (m *Model) ScaleInRange(s float64) bool {
	return m.cfg.MinScale < s && s < m.cfg.MaxScale
}

// ApplyRotation composes a rotation of deltaDeg degrees about (px, py).
// Rotation is unbounded; the reported angle wraps into (-180, 180].
func (m *Model) ApplyRotation(deltaDeg, px, py float64) {
	if !finite(deltaDeg) || !finite(px) || !finite(py) || deltaDeg == 0 {
		return
	}
	m.matrix = geom.RotateAbout(deltaDeg, px, py).Multiply(m.matrix)
	m.rotation = geom.NormalizeDegrees(m.rotation + deltaDeg)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
