// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fynegrid

import (
	"time"

	"github.com/gogpu/gridview/geom"
	"github.com/gogpu/gridview/gesture"
)

// WheelZoomStep is the pinch factor one scroll wheel event applies.
const WheelZoomStep = 1.25

// tracker turns Fyne's single-pointer callbacks into gesture events.
// Fyne reports a drag only once the pointer has moved, so the first
// Dragged call synthesizes the Down at the position before the move.
type tracker struct {
	start    time.Time
	now      func() time.Time
	dragging bool
	last     geom.Point
}

func newTracker(now func() time.Time) *tracker {
	if now == nil {
		now = time.Now
	}
	return &tracker{start: now(), now: now}
}

// ms returns the monotonic event time.
func (t *tracker) ms() int64 {
	return t.now().Sub(t.start).Milliseconds()
}

func contactEvent(phase gesture.Phase, p geom.Point, ms int64) gesture.Event {
	return gesture.Event{
		Phase:    phase,
		X:        p.X,
		Y:        p.Y,
		Time:     ms,
		Contacts: []gesture.Contact{{X: p.X, Y: p.Y}},
	}
}

func (t *tracker) drag(pos, delta geom.Point) []gesture.Event {
	ms := t.ms()
	var evs []gesture.Event
	if !t.dragging {
		t.dragging = true
		evs = append(evs, contactEvent(gesture.PhaseDown, pos.Sub(delta), ms))
	}
	t.last = pos
	return append(evs, contactEvent(gesture.PhaseMove, pos, ms))
}

func (t *tracker) dragEnd() (gesture.Event, bool) {
	if !t.dragging {
		return gesture.Event{}, false
	}
	t.dragging = false
	return gesture.Event{Phase: gesture.PhaseUp, X: t.last.X, Y: t.last.Y, Time: t.ms()}, true
}

func (t *tracker) tap(pos geom.Point) []gesture.Event {
	ms := t.ms()
	return []gesture.Event{
		contactEvent(gesture.PhaseDown, pos, ms),
		{Phase: gesture.PhaseUp, X: pos.X, Y: pos.Y, Time: ms},
	}
}

// wheelFactor maps a scroll delta to a pinch factor.
func wheelFactor(dy float32) float64 {
	switch {
	case dy > 0:
		return WheelZoomStep
	case dy < 0:
		return 1 / WheelZoomStep
	}
	return 1
}
