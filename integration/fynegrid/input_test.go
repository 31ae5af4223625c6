// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fynegrid

import (
	"testing"
	"time"

	"github.com/gogpu/gridview/geom"
	"github.com/gogpu/gridview/gesture"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	t0 := time.Unix(0, 0)
	n := 0
	return func() time.Time {
		now := t0.Add(time.Duration(n) * step)
		n++
		return now
	}
}

func TestTrackerDrag(t *testing.T) {
	tr := newTracker(fakeClock(10 * time.Millisecond))

	evs := tr.drag(geom.Pt(60, 50), geom.Pt(10, 0))
	if len(evs) != 2 {
		t.Fatalf("first drag produced %d events, want Down and Move", len(evs))
	}
	if evs[0].Phase != gesture.PhaseDown || evs[0].Position() != geom.Pt(50, 50) {
		t.Errorf("first event = %v at %+v, want Down at (50, 50)", evs[0].Phase, evs[0].Position())
	}
	if evs[1].Phase != gesture.PhaseMove || evs[1].Position() != geom.Pt(60, 50) {
		t.Errorf("second event = %v at %+v, want Move at (60, 50)", evs[1].Phase, evs[1].Position())
	}

	evs = tr.drag(geom.Pt(70, 55), geom.Pt(10, 5))
	if len(evs) != 1 || evs[0].Phase != gesture.PhaseMove {
		t.Fatalf("continued drag = %+v, want one Move", evs)
	}

	up, ok := tr.dragEnd()
	if !ok || up.Phase != gesture.PhaseUp || up.Position() != geom.Pt(70, 55) {
		t.Errorf("dragEnd = %+v, %v; want Up at (70, 55)", up, ok)
	}
	if up.Time <= evs[0].Time {
		t.Errorf("Up time %d not after Move time %d", up.Time, evs[0].Time)
	}
	if _, ok := tr.dragEnd(); ok {
		t.Error("second dragEnd reported an event")
	}
}

func TestTrackerTap(t *testing.T) {
	tr := newTracker(fakeClock(time.Millisecond))
	evs := tr.tap(geom.Pt(5, 7))
	if len(evs) != 2 {
		t.Fatalf("tap produced %d events, want 2", len(evs))
	}
	if evs[0].Phase != gesture.PhaseDown || evs[1].Phase != gesture.PhaseUp {
		t.Errorf("tap phases = %v, %v; want Down, Up", evs[0].Phase, evs[1].Phase)
	}
	if evs[0].Time != evs[1].Time {
		t.Error("tap events should share a timestamp")
	}
}

func TestWheelFactor(t *testing.T) {
	tests := []struct {
		dy   float32
		want float64
	}{
		{10, WheelZoomStep},
		{-10, 1 / WheelZoomStep},
		{0, 1},
	}
	for _, tt := range tests {
		if got := wheelFactor(tt.dy); got != tt.want {
			t.Errorf("wheelFactor(%v) = %v, want %v", tt.dy, got, tt.want)
		}
	}
}
