package gridview

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/gridview/geom"
	"github.com/gogpu/gridview/gesture"
)

// cellLog collects cell events delivered to a handler.
type cellLog struct {
	mu     sync.Mutex
	events []CellEvent
}

func (l *cellLog) handle(ev CellEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *cellLog) all() []CellEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]CellEvent(nil), l.events...)
}

func newTestView(t *testing.T, opts ...Option) *View {
	t.Helper()
	v, err := New(800, 600, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func flush(t *testing.T, v *View) *Frame {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := v.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	return v.CurrentFrame()
}

func ptrDown(x, y float64, ms int64) gesture.Event {
	return gesture.Event{Phase: gesture.PhaseDown, X: x, Y: y, Time: ms,
		Contacts: []gesture.Contact{{ID: 0, X: x, Y: y}}}
}

func ptrMove(x, y float64, ms int64) gesture.Event {
	return gesture.Event{Phase: gesture.PhaseMove, X: x, Y: y, Time: ms,
		Contacts: []gesture.Contact{{ID: 0, X: x, Y: y}}}
}

func ptrUp(x, y float64, ms int64) gesture.Event {
	return gesture.Event{Phase: gesture.PhaseUp, X: x, Y: y, Time: ms}
}

// pair places two contacts at distance r from (cx, cy) along angle deg.
func pair(phase gesture.Phase, cx, cy, r, deg float64, ms int64) gesture.Event {
	rad := deg * math.Pi / 180
	dx, dy := r*math.Cos(rad), r*math.Sin(rad)
	return gesture.Event{
		Phase: phase, PointerID: 1, X: cx + dx, Y: cy + dy, Time: ms,
		Contacts: []gesture.Contact{
			{ID: 0, X: cx - dx, Y: cy - dy},
			{ID: 1, X: cx + dx, Y: cy + dy},
		},
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	bad := DefaultConfig()
	bad.MinScale = 6

	tests := []struct {
		name string
		w, h float64
		opts []Option
	}{
		{"zero width", 0, 600, nil},
		{"negative height", 800, -1, nil},
		{"NaN size", math.NaN(), 600, nil},
		{"inverted scale bounds", 800, 600, []Option{WithConfig(bad)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := New(tt.w, tt.h, tt.opts...)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v, want ErrInvalidConfig", err)
			}
			if v != nil {
				t.Error("New() returned a view with an error")
			}
		})
	}
}

func TestInitialFrame(t *testing.T) {
	v := newTestView(t)

	if f := v.CurrentFrame(); f == nil {
		t.Fatal("CurrentFrame() = nil before the first recomputation")
	}

	f := flush(t, v)
	if f.Seq == 0 {
		t.Fatal("Flush() did not publish the first frame")
	}
	// 800/20+1 vertical and 600/20+1 horizontal lines.
	if len(f.Lines) != 72 {
		t.Errorf("initial frame has %d lines, want 72", len(f.Lines))
	}
	if f.Spacing != 20 {
		t.Errorf("initial spacing = %v, want 20", f.Spacing)
	}
	tr := f.Transform
	if tr.Scale() != 1 || tr.TranslateX != -800 || tr.TranslateY != -600 {
		t.Errorf("initial transform = %+v, want scale 1 translate (-800, -600)", tr)
	}
}

func TestClickReportsPressedCell(t *testing.T) {
	var log cellLog
	v := newTestView(t, WithCellHandler(log.handle))

	v.HandlePointerEvent(ptrDown(100, 100, 0))
	v.HandlePointerEvent(ptrMove(103, 101, 40))
	v.HandlePointerEvent(ptrUp(103, 101, 80))

	got := log.all()
	want := []CellEvent{{Kind: CellClick, CellX: 5, CellY: 5}}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("cell events = %+v, want %+v", got, want)
	}
	if m := v.Mode(); m != gesture.ModeIdle {
		t.Errorf("mode after click = %v, want Idle", m)
	}
	// The small drift is still applied as a pan.
	if tr := v.Transform(); tr.TranslateX != -797 || tr.TranslateY != -599 {
		t.Errorf("translate = (%v, %v), want (-797, -599)", tr.TranslateX, tr.TranslateY)
	}
}

func TestLongPress(t *testing.T) {
	var log cellLog
	v := newTestView(t, WithCellHandler(log.handle))

	v.HandlePointerEvent(ptrDown(50, 50, 1000))
	v.HandlePointerEvent(ptrUp(50, 50, 1600))
	v.HandleLongPress(250, 130)

	got := log.all()
	want := []CellEvent{
		{Kind: CellLongPress, CellX: 2, CellY: 2},
		{Kind: CellLongPress, CellX: 12, CellY: 6},
	}
	if len(got) != len(want) {
		t.Fatalf("cell events = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDragIsNotAClick(t *testing.T) {
	var log cellLog
	v := newTestView(t, WithCellHandler(log.handle))

	v.HandlePointerEvent(ptrDown(100, 100, 0))
	v.HandlePointerEvent(ptrMove(140, 100, 20))
	v.HandlePointerEvent(ptrUp(140, 100, 40))

	if got := log.all(); len(got) != 0 {
		t.Errorf("drag produced cell events %+v", got)
	}
}

func TestPinchScenario(t *testing.T) {
	v := newTestView(t)

	// Fingers spread from 100px to 300px apart.
	v.HandlePinch(3, 400, 300)
	if s := v.Transform().Scale(); s != 3 {
		t.Fatalf("scale after pinch = %v, want 3", s)
	}
	if sp := v.Grid().Spacing; sp != 60 {
		t.Errorf("spacing after pinch = %v, want 60", sp)
	}

	before := v.Transform()
	v.HandlePinch(2, 400, 300) // 6 is out of range
	if after := v.Transform(); after != before {
		t.Errorf("out-of-range pinch changed the transform: %+v -> %+v", before, after)
	}

	f := flush(t, v)
	if f.Transform.Scale() != 3 || f.Spacing != 60 {
		t.Errorf("frame scale/spacing = %v/%v, want 3/60", f.Transform.Scale(), f.Spacing)
	}
}

func TestPinchKeepsFocusFixed(t *testing.T) {
	v := newTestView(t)
	focus := v.Transform().ScreenToModel(geom.Pt(400, 300))

	v.HandlePinch(1.5, 400, 300)
	got := v.Transform().ModelToScreen(focus)
	if math.Abs(got.X-400) > 1e-9 || math.Abs(got.Y-300) > 1e-9 {
		t.Errorf("focus moved to %+v, want (400, 300)", got)
	}
	if cx, cy := v.CellAt(410, 310); cx != 20 || cy != 15 {
		t.Errorf("CellAt(410, 310) = (%d, %d), want (20, 15)", cx, cy)
	}
}

func TestRotateScenario(t *testing.T) {
	v := newTestView(t)

	v.HandlePointerEvent(ptrDown(250, 300, 0))
	v.HandlePointerEvent(pair(gesture.PhasePointerDown, 300, 300, 50, 0, 10))
	if m := v.Mode(); m != gesture.ModeZoom {
		t.Fatalf("mode after second contact = %v, want Zoom", m)
	}

	v.HandlePointerEvent(pair(gesture.PhaseMove, 300, 300, 50, 12, 20))
	if m := v.Mode(); m != gesture.ModeRotate {
		t.Fatalf("mode after 12° twist = %v, want Rotate", m)
	}
	if r := v.Transform().RotationDeg; r != 0 {
		t.Errorf("rotation within hysteresis = %v, want 0", r)
	}

	v.HandlePointerEvent(pair(gesture.PhaseMove, 300, 300, 50, 30, 30))
	if r := v.Transform().RotationDeg; math.Abs(math.Abs(r)-10) > 1e-9 {
		t.Errorf("rotation after 30° twist = %v, want ±10", r)
	}
}

func TestDragPastBoundsScrollsGrid(t *testing.T) {
	v := newTestView(t)

	// The transform can move 800px right before the content edge shows;
	// the remaining 200px scroll the grid by 10 cells.
	v.HandlePointerEvent(ptrDown(0, 0, 0))
	v.HandlePointerEvent(ptrMove(1000, 0, 20))
	v.HandlePointerEvent(ptrUp(1000, 0, 40))

	tr := v.Transform()
	if tr.TranslateX != 0 {
		t.Errorf("TranslateX = %v, want 0 (clamped)", tr.TranslateX)
	}
	g := v.Grid()
	if g.OriginCellX != -10 || g.SubCellOffsetX != 0 {
		t.Errorf("grid origin = %d + %v, want -10 + 0", g.OriginCellX, g.SubCellOffsetX)
	}
	// Everything moved 1000px = 50 cells.
	if cx, cy := v.CellAt(0, 0); cx != -50 || cy != 0 {
		t.Errorf("CellAt(0, 0) = (%d, %d), want (-50, 0)", cx, cy)
	}
}

func TestImmovableAxisScrollsGridOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ContentFactor = 1
	v := newTestView(t, WithConfig(cfg))
	before := v.Transform()

	v.HandlePointerEvent(ptrDown(100, 100, 0))
	v.HandlePointerEvent(ptrMove(130, 100, 20))

	if after := v.Transform(); after != before {
		t.Errorf("transform moved on an immovable axis: %+v -> %+v", before, after)
	}
	g := v.Grid()
	if g.OriginCellX != -2 || g.SubCellOffsetX != 10 {
		t.Errorf("grid origin = %d + %v, want -2 + 10", g.OriginCellX, g.SubCellOffsetX)
	}
}

func TestHandleScroll(t *testing.T) {
	tests := []struct {
		name     string
		dx, dy   float64
		wantCell int64
	}{
		{"below threshold", 4, 5, 0},
		{"content moves left", 40, 0, 2},
		{"content moves right", -40, 0, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestView(t)
			v.HandleScroll(tt.dx, tt.dy)
			if g := v.Grid(); g.OriginCellX != tt.wantCell {
				t.Errorf("OriginCellX = %d, want %d", g.OriginCellX, tt.wantCell)
			}
		})
	}
}

func TestHandleScrollIgnoredWhileZooming(t *testing.T) {
	v := newTestView(t)
	v.HandlePointerEvent(ptrDown(250, 300, 0))
	v.HandlePointerEvent(pair(gesture.PhasePointerDown, 300, 300, 50, 0, 10))

	before := v.Grid()
	v.HandleScroll(100, 100)
	if after := v.Grid(); after != before {
		t.Errorf("scroll applied in Zoom mode: %+v -> %+v", before, after)
	}
}

func TestPinchDetectorOption(t *testing.T) {
	v := newTestView(t, WithPinchDetector())

	v.HandlePointerEvent(ptrDown(350, 300, 0))
	v.HandlePointerEvent(pair(gesture.PhasePointerDown, 400, 300, 50, 0, 10))
	v.HandlePointerEvent(pair(gesture.PhaseMove, 400, 300, 50, 0, 20))
	v.HandlePointerEvent(pair(gesture.PhaseMove, 400, 300, 100, 0, 30))

	if s := v.Transform().Scale(); math.Abs(s-2) > 1e-9 {
		t.Errorf("scale after spreading contacts = %v, want 2", s)
	}
}

func TestResizeKeepsTransform(t *testing.T) {
	v := newTestView(t)
	v.HandlePinch(2, 0, 0)
	before := v.Transform()

	v.Resize(400, 300)
	v.Resize(0, 300) // ignored

	if w, h := v.Size(); w != 400 || h != 300 {
		t.Errorf("Size() = %vx%v, want 400x300", w, h)
	}
	if after := v.Transform(); after != before {
		t.Errorf("Resize changed the transform: %+v -> %+v", before, after)
	}
	f := flush(t, v)
	if f.Width != 400 || f.Height != 300 {
		t.Errorf("frame size = %vx%v, want 400x300", f.Width, f.Height)
	}
}

func TestReset(t *testing.T) {
	v := newTestView(t)
	initial, initialGrid := v.Transform(), v.Grid()

	v.HandlePinch(2, 100, 100)
	v.HandleScroll(300, 0)
	v.Reset()

	if got := v.Transform(); got != initial {
		t.Errorf("Transform after Reset = %+v, want %+v", got, initial)
	}
	if got := v.Grid(); got != initialGrid {
		t.Errorf("Grid after Reset = %+v, want %+v", got, initialGrid)
	}
}

func TestFrameSequenceMonotonic(t *testing.T) {
	v := newTestView(t)

	var last uint64
	for i := range 50 {
		v.HandleScroll(float64(6+i%3), 0)
		if f := v.CurrentFrame(); f.Seq < last {
			t.Fatalf("frame sequence went back from %d to %d", last, f.Seq)
		} else {
			last = f.Seq
		}
	}
	f := flush(t, v)
	if f.Seq != v.Stats().Submitted {
		t.Errorf("flushed frame seq = %d, want latest request %d", f.Seq, v.Stats().Submitted)
	}
	if f.Grid != v.Grid() {
		t.Errorf("flushed frame grid = %+v, want %+v", f.Grid, v.Grid())
	}
}

func TestConcurrentInputAndPaint(t *testing.T) {
	v := newTestView(t)
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				if f := v.CurrentFrame(); f == nil || f.Recording == nil {
					t.Error("CurrentFrame returned an incomplete frame")
					return
				}
			}
		}
	}()

	for i := range 200 {
		x := float64(100 + i%50)
		v.HandlePointerEvent(ptrDown(x, 100, int64(i)))
		v.HandlePointerEvent(ptrMove(x+10, 110, int64(i)+1))
		v.HandlePointerEvent(ptrUp(x+10, 110, int64(i)+2))
	}
	close(stop)
	wg.Wait()
	flush(t, v)
}

func TestHandlerMayCallBack(t *testing.T) {
	var v *View
	done := make(chan CellEvent, 1)
	v = newTestView(t, WithCellHandler(func(ev CellEvent) {
		_ = v.Transform()
		done <- ev
	}))
	v.HandlePointerEvent(ptrDown(10, 10, 0))
	v.HandlePointerEvent(ptrUp(10, 10, 5))

	select {
	case ev := <-done:
		if ev.Kind != CellClick {
			t.Errorf("event kind = %v, want click", ev.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("handler did not run")
	}
}

func TestClose(t *testing.T) {
	v, err := New(800, 600)
	if err != nil {
		t.Fatal(err)
	}
	flush(t, v)
	if err := v.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := v.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	before := v.Grid()
	v.HandleScroll(100, 0)
	if after := v.Grid(); after != before {
		t.Error("input applied after Close")
	}
	if v.CurrentFrame() == nil {
		t.Error("CurrentFrame() = nil after Close")
	}
}
