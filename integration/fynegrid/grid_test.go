// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fynegrid

import (
	"context"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"github.com/gogpu/gridview"
)

func newTestGrid(t *testing.T, opts ...gridview.Option) *Grid {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	g, err := New(fyne.NewSize(200, 100), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestNewRejectsEmptySize(t *testing.T) {
	if _, err := New(fyne.NewSize(0, 0)); err == nil {
		t.Error("New() with zero size succeeded")
	}
}

func TestGridTapAndSecondaryTap(t *testing.T) {
	var (
		mu  sync.Mutex
		got []gridview.CellEvent
	)
	g := newTestGrid(t, gridview.WithCellHandler(func(ev gridview.CellEvent) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev)
	}))

	g.Tapped(&fyne.PointEvent{Position: fyne.NewPos(50, 30)})
	g.TappedSecondary(&fyne.PointEvent{Position: fyne.NewPos(130, 70)})

	mu.Lock()
	defer mu.Unlock()
	want := []gridview.CellEvent{
		{Kind: gridview.CellClick, CellX: 2, CellY: 1},
		{Kind: gridview.CellLongPress, CellX: 6, CellY: 3},
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

func TestGridDragPans(t *testing.T) {
	g := newTestGrid(t)

	g.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(60, 50)},
		Dragged:    fyne.NewDelta(10, 0),
	})
	g.DragEnd()

	tr := g.View().Transform()
	if tr.TranslateX != -190 || tr.TranslateY != -100 {
		t.Errorf("translate = (%v, %v), want (-190, -100)", tr.TranslateX, tr.TranslateY)
	}
}

func TestGridScrollZooms(t *testing.T) {
	g := newTestGrid(t)

	g.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 50)},
		Scrolled:   fyne.NewDelta(0, 10),
	})
	if s := g.View().Transform().Scale(); s != WheelZoomStep {
		t.Errorf("scale = %v, want %v", s, WheelZoomStep)
	}
}

func TestGridResizeAndDraw(t *testing.T) {
	g := newTestGrid(t)
	g.Resize(fyne.NewSize(120, 80))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.View().Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	img := g.draw(120, 80)
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Errorf("drawn image = %v, want 120x80", b)
	}
}

func TestGridDrawHiDPI(t *testing.T) {
	g := newTestGrid(t)
	g.Resize(fyne.NewSize(120, 80))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.View().Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	img := g.draw(240, 160)
	if b := img.Bounds(); b.Dx() != 240 || b.Dy() != 160 {
		t.Errorf("drawn image = %v, want 240x160", b)
	}
}

func TestPixelScale(t *testing.T) {
	tests := []struct {
		pixels int
		units  float64
		want   float64
	}{
		{120, 120, 1},
		{240, 120, 2},
		{180, 120, 1.5},
		{0, 120, 1},
		{240, 0, 1},
	}
	for _, tt := range tests {
		if got := pixelScale(tt.pixels, tt.units); got != tt.want {
			t.Errorf("pixelScale(%d, %v) = %v, want %v", tt.pixels, tt.units, got, tt.want)
		}
	}
}
