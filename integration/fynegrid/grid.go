// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fynegrid

import (
	"context"
	"image"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/gogpu/gridview"
	"github.com/gogpu/gridview/geom"
	"github.com/gogpu/gridview/gesture"
	"github.com/gogpu/gridview/recording/backends/raster"
)

// refreshTimeout bounds how long a refresh waits for the geometry worker.
const refreshTimeout = time.Second

// Grid is a Fyne widget showing a gridview.View.
//
// Grid implements fyne.Draggable, fyne.Tappable, fyne.SecondaryTappable and
// fyne.Scrollable.
type Grid struct {
	widget.BaseWidget

	view   *gridview.View
	raster *fynecanvas.Raster
	input  *tracker

	// mu guards backend, which the render goroutine uses.
	mu      sync.Mutex
	backend *raster.Backend
}

var (
	_ fyne.Draggable         = (*Grid)(nil)
	_ fyne.Tappable          = (*Grid)(nil)
	_ fyne.SecondaryTappable = (*Grid)(nil)
	_ fyne.Scrollable        = (*Grid)(nil)
)

// New creates a grid widget with an initial size. Options are passed to
// gridview.New.
func New(size fyne.Size, opts ...gridview.Option) (*Grid, error) {
	v, err := gridview.New(float64(size.Width), float64(size.Height), opts...)
	if err != nil {
		return nil, err
	}
	g := &Grid{
		view:    v,
		input:   newTracker(nil),
		backend: raster.NewBackend(),
	}
	g.raster = fynecanvas.NewRaster(g.draw)
	g.raster.SetMinSize(fyne.NewSize(100, 100))
	g.ExtendBaseWidget(g)
	return g, nil
}

// View returns the underlying view.
func (g *Grid) View() *gridview.View {
	return g.view
}

// Close stops the view's geometry worker.
func (g *Grid) Close() error {
	return g.view.Close()
}

// CreateRenderer implements fyne.Widget.
func (g *Grid) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(g.raster)
}

// Resize resizes the widget and the view's viewport.
func (g *Grid) Resize(size fyne.Size) {
	g.BaseWidget.Resize(size)
	g.view.Resize(float64(size.Width), float64(size.Height))
	g.refreshLater()
}

// Dragged implements fyne.Draggable.
func (g *Grid) Dragged(ev *fyne.DragEvent) {
	pos := toPoint(ev.Position)
	delta := geom.Pt(float64(ev.Dragged.DX), float64(ev.Dragged.DY))
	g.deliver(g.input.drag(pos, delta)...)
}

// DragEnd implements fyne.Draggable.
func (g *Grid) DragEnd() {
	if ev, ok := g.input.dragEnd(); ok {
		g.deliver(ev)
	}
}

// Tapped reports a click on the cell under the pointer.
func (g *Grid) Tapped(ev *fyne.PointEvent) {
	g.deliver(g.input.tap(toPoint(ev.Position))...)
}

// TappedSecondary reports a long press on the cell under the pointer.
func (g *Grid) TappedSecondary(ev *fyne.PointEvent) {
	p := toPoint(ev.Position)
	g.view.HandleLongPress(p.X, p.Y)
}

// Scrolled zooms about the pointer.
func (g *Grid) Scrolled(ev *fyne.ScrollEvent) {
	f := wheelFactor(ev.Scrolled.DY)
	if f == 1 {
		return
	}
	p := toPoint(ev.Position)
	g.view.HandlePinch(f, p.X, p.Y)
	g.refreshLater()
}

func (g *Grid) deliver(evs ...gesture.Event) {
	for _, ev := range evs {
		g.view.HandlePointerEvent(ev)
	}
	g.refreshLater()
}

// refreshLater repaints once the geometry worker caught up with the input
// delivered so far.
func (g *Grid) refreshLater() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := g.view.Flush(ctx); err != nil {
			gridview.Logger().Debug("fynegrid: refresh skipped", "err", err)
			return
		}
		g.raster.Refresh()
	}()
}

// draw paints the latest frame at the pixel size Fyne asks for. On HiDPI
// canvases w and h exceed the frame's size in device-independent units.
func (g *Grid) draw(w, h int) image.Image {
	f := g.view.CurrentFrame()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.backend.SetPixelScale(pixelScale(w, f.Width))
	if err := f.Paint(g.backend); err != nil {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return g.backend.Image()
}

// pixelScale is the ratio of device pixels to view units, 1 when either
// is unknown.
func pixelScale(pixels int, units float64) float64 {
	if pixels <= 0 || !(units > 0) {
		return 1
	}
	return float64(pixels) / units
}

func toPoint(p fyne.Position) geom.Point {
	return geom.Pt(float64(p.X), float64(p.Y))
}
