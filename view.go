package gridview

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gridview/geom"
	"github.com/gogpu/gridview/gesture"
	"github.com/gogpu/gridview/grid"
	"github.com/gogpu/gridview/internal/worker"
	"github.com/gogpu/gridview/recording"
	"github.com/gogpu/gridview/transform"
)

// View is an infinitely pannable, zoomable and rotatable grid driven by
// pointer gestures.
//
// Input methods (Handle*, Resize, Reset) update the gesture state, the
// transform and the grid position under one lock and hand a snapshot to a
// geometry worker. The worker regenerates the visible lines, records them
// and publishes a new Frame. CurrentFrame never blocks and never sees a
// half-built frame.
//
// View is safe for concurrent use.
type View struct {
	cfg   Config
	opts  viewOptions
	ruler *Ruler

	mu         sync.Mutex
	classifier *gesture.Classifier
	pinch      *gesture.PinchDetector
	model      *transform.Model
	grid       grid.Spec
	width      float64
	height     float64

	// pressCell is the cell under the first contact when it touched down.
	pressCellX, pressCellY int64

	worker *worker.Coalescer[snapshot]
	frame  atomic.Pointer[Frame]
	closed atomic.Bool
}

// New creates a view for a viewport of the given size and starts its
// geometry worker. Call Close to stop it.
func New(width, height float64, opts ...Option) (*View, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	if !positive(width) || !positive(height) {
		return nil, fmt.Errorf("%w: viewport %vx%v must be positive", ErrInvalidConfig, width, height)
	}

	v := &View{
		cfg:        o.config,
		opts:       o,
		ruler:      o.ruler,
		classifier: gesture.NewClassifier(o.config.gestureConfig()),
		model:      transform.New(o.config.transformConfig(), width, height),
		width:      width,
		height:     height,
	}
	if o.pinchDetector {
		v.pinch = &gesture.PinchDetector{}
	}
	v.grid = v.initialGrid()

	v.frame.Store(&Frame{
		Time:      o.clock(),
		Transform: v.model.Current(),
		Width:     width,
		Height:    height,
		Spacing:   v.grid.Spacing,
		Grid:      v.grid,
		Recording: recording.NewRecorder(int(math.Ceil(width)), int(math.Ceil(height))).Finish(),
	})
	v.worker = worker.New(v.recompute)

	v.mu.Lock()
	v.requestLocked()
	v.mu.Unlock()

	Logger().Info("gridview: view created", "width", width, "height", height)
	return v, nil
}

// initialGrid anchors local line 0 at the model point shown at the screen
// origin.
func (v *View) initialGrid() grid.Spec {
	origin := v.model.Current().ModelOrigin()
	return v.cfg.gridSpec(origin.X, origin.Y)
}

// HandlePointerEvent feeds one pointer event through the gesture
// classifier and applies what it produced.
func (v *View) HandlePointerEvent(ev gesture.Event) {
	v.mu.Lock()
	if v.closed.Load() {
		v.mu.Unlock()
		return
	}
	if ev.Phase == gesture.PhaseDown {
		v.pressCellX, v.pressCellY = v.cellAtLocked(ev.Position())
	}
	changed := false
	if v.pinch != nil {
		if factor, focus, ok := v.pinch.Update(ev); ok {
			changed = v.applyPinchLocked(factor, focus.X, focus.Y)
		}
	}
	res := v.classifier.Handle(ev, v.model.Scale())
	events, applied := v.applyLocked(res)
	if changed || applied {
		v.requestLocked()
	}
	v.mu.Unlock()

	v.dispatch(events)
}

// HandlePinch applies one pinch update from a host scale detector: the
// scale is multiplied by factor about (focusX, focusY). Updates that would
// leave the zoom bounds are dropped.
func (v *View) HandlePinch(factor, focusX, focusY float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed.Load() {
		return
	}
	if v.applyPinchLocked(factor, focusX, focusY) {
		v.requestLocked()
	}
}

// HandleScroll shifts the grid by a host scroll detector's distance.
// (dx, dy) follows the platform convention of last minus current position,
// so the content moves by (-dx, -dy). The shift is ignored while zooming
// and when neither component exceeds ScrollThresholdPx.
func (v *View) HandleScroll(dx, dy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed.Load() || v.classifier.Mode() == gesture.ModeZoom {
		return
	}
	th := v.cfg.ScrollThresholdPx
	if !(math.Abs(dx) > th || math.Abs(dy) > th) {
		return
	}
	v.scrollGridLocked(-dx, -dy)
	v.requestLocked()
}

// HandleLongPress reports a long press at a screen position, for hosts
// with their own long-press detector.
func (v *View) HandleLongPress(x, y float64) {
	v.mu.Lock()
	if v.closed.Load() {
		v.mu.Unlock()
		return
	}
	ev := v.cellEventLocked(CellLongPress, geom.Pt(x, y))
	v.mu.Unlock()
	v.dispatch([]CellEvent{ev})
}

// Resize updates the viewport size. Pan, zoom and rotation are kept.
// Non-positive sizes are ignored.
func (v *View) Resize(width, height float64) {
	if !positive(width) || !positive(height) {
		Logger().Debug("gridview: resize ignored", "width", width, "height", height)
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed.Load() || (width == v.width && height == v.height) {
		return
	}
	v.width, v.height = width, height
	v.model.Resize(width, height)
	v.requestLocked()
	Logger().Info("gridview: view resized", "width", width, "height", height)
}

// Reset returns pan, zoom, rotation, grid position and gesture state to
// their initial values.
func (v *View) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed.Load() {
		return
	}
	v.classifier.Reset()
	if v.pinch != nil {
		v.pinch.Reset()
	}
	v.model.Reset()
	v.grid = v.initialGrid()
	v.requestLocked()
}

// CurrentFrame returns the latest published frame. It never blocks and
// never returns nil.
func (v *View) CurrentFrame() *Frame {
	return v.frame.Load()
}

// Transform returns the current transform. It may be newer than the one
// in CurrentFrame.
func (v *View) Transform() transform.Affine {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.model.Current()
}

// Grid returns the current grid position and spacing.
func (v *View) Grid() grid.Spec {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.grid
}

// Mode returns the current gesture mode.
func (v *View) Mode() gesture.Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.classifier.Mode()
}

// Size returns the viewport size.
func (v *View) Size() (width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// CellAt returns the absolute cell under a screen position.
func (v *View) CellAt(x, y float64) (cellX, cellY int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cellAtLocked(geom.Pt(x, y))
}

// Flush waits until the latest change is visible in CurrentFrame.
func (v *View) Flush(ctx context.Context) error {
	return v.worker.Flush(ctx)
}

// Close stops the geometry worker. Input after Close is ignored;
// CurrentFrame keeps returning the last frame.
func (v *View) Close() error {
	if v.closed.Swap(true) {
		return nil
	}
	v.worker.Close()
	Logger().Info("gridview: view closed", "frames", v.worker.Stats().Run)
	return nil
}

// Stats returns geometry worker counters.
func (v *View) Stats() worker.Stats {
	return v.worker.Stats()
}

func (v *View) applyLocked(res gesture.Result) (events []CellEvent, changed bool) {
	if res.Has(gesture.EmitTranslate) {
		v.panLocked(res.DX, res.DY)
		changed = true
	}
	if res.Has(gesture.EmitRotate) {
		v.model.ApplyRotation(res.RotationDeg, res.Pivot.X, res.Pivot.Y)
		changed = true
	}
	// A tap drifts the content by up to the click epsilon before release;
	// report the cell that was pressed.
	if res.Has(gesture.EmitClick) {
		events = append(events, CellEvent{Kind: CellClick, CellX: v.pressCellX, CellY: v.pressCellY})
	}
	if res.Has(gesture.EmitLongPress) {
		events = append(events, CellEvent{Kind: CellLongPress, CellX: v.pressCellX, CellY: v.pressCellY})
	}
	return events, changed
}

// panLocked applies a drag to the bounded transform and routes the part
// the bounds absorb into the unbounded grid scroll.
func (v *View) panLocked(dx, dy float64) {
	ax, ay := v.model.ApplyTranslation(dx, dy)
	rx, ry := dx-ax, dy-ay
	if rx != 0 || ry != 0 {
		v.scrollGridLocked(rx, ry)
	}
}

// scrollGridLocked moves the grid by a screen-space vector. The vector is
// converted to the grid's own axes first, so a rotated grid scrolls along
// the finger.
func (v *View) scrollGridLocked(dx, dy float64) {
	a := v.model.Current()
	d := a.Matrix.Invert().TransformVector(geom.Pt(dx, dy)).Mul(a.Scale())
	v.grid.Scroll(d.X, d.Y)
}

func (v *View) applyPinchLocked(factor, fx, fy float64) bool {
	res := v.classifier.Pinch(factor, fx, fy, v.model.Scale())
	if !res.Has(gesture.EmitScale) {
		Logger().Debug("gridview: pinch dropped", "factor", factor, "scale", v.model.Scale())
		return false
	}
	if !v.model.ApplyScale(res.Scale, res.Focus.X, res.Focus.Y) {
		return false
	}
	v.grid.SetSpacing(v.grid.SpacingForScale(res.Scale))
	return true
}

func (v *View) cellAtLocked(p geom.Point) (int64, int64) {
	a := v.model.Current()
	return v.grid.CellAt(a.ScreenToModel(p), a.Scale())
}

func (v *View) cellEventLocked(kind CellEventKind, p geom.Point) CellEvent {
	cx, cy := v.cellAtLocked(p)
	return CellEvent{Kind: kind, CellX: cx, CellY: cy}
}

func (v *View) dispatch(events []CellEvent) {
	h := v.opts.cellHandler
	for _, ev := range events {
		Logger().Debug("gridview: cell event", "kind", ev.Kind, "x", ev.CellX, "y", ev.CellY)
		if h != nil {
			h(ev)
		}
	}
}

// requestLocked hands the current state to the geometry worker.
func (v *View) requestLocked() {
	v.worker.Submit(snapshot{
		transform: v.model.Current(),
		width:     v.width,
		height:    v.height,
		spec:      v.grid,
	})
}

// recompute runs on the geometry worker.
func (v *View) recompute(seq uint64, s snapshot) {
	f := buildFrame(seq, v.opts.clock(), s, v.ruler)
	v.publish(f)
}

// publish stores f unless a newer frame is already visible.
func (v *View) publish(f *Frame) bool {
	for {
		cur := v.frame.Load()
		if cur != nil && cur.Seq >= f.Seq {
			return false
		}
		if v.frame.CompareAndSwap(cur, f) {
			Logger().Debug("gridview: frame published", "seq", f.Seq, "lines", len(f.Lines))
			return true
		}
	}
}
