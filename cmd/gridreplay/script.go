package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/gridview"
	"github.com/gogpu/gridview/gesture"
)

// script is a recorded input session.
//
//	{
//	  "width": 800, "height": 600,
//	  "steps": [
//	    {"event": {"phase": "down", "x": 100, "y": 100, "t": 0, "contacts": [{"x": 100, "y": 100}]}},
//	    {"event": {"phase": "up", "x": 100, "y": 100, "t": 40}},
//	    {"pinch": {"factor": 2, "x": 400, "y": 300}},
//	    {"scroll": {"dx": 40, "dy": 0}},
//	    {"resize": {"width": 640, "height": 480}}
//	  ]
//	}
type script struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Steps  []step  `json:"steps"`
}

// step holds exactly one input.
type step struct {
	Event  *gesture.Event `json:"event,omitempty"`
	Pinch  *pinchStep     `json:"pinch,omitempty"`
	Scroll *scrollStep    `json:"scroll,omitempty"`
	Resize *resizeStep    `json:"resize,omitempty"`
}

type pinchStep struct {
	Factor float64 `json:"factor"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type scrollStep struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type resizeStep struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

var errStep = errors.New("step must hold exactly one input")

func loadScript(r io.Reader) (*script, error) {
	var s script
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	for i, st := range s.Steps {
		if st.inputs() != 1 {
			return nil, fmt.Errorf("step %d: %w", i, errStep)
		}
	}
	return &s, nil
}

func (st step) inputs() int {
	n := 0
	for _, set := range []bool{st.Event != nil, st.Pinch != nil, st.Scroll != nil, st.Resize != nil} {
		if set {
			n++
		}
	}
	return n
}

// run feeds every step into v.
func (s *script) run(v *gridview.View) {
	for _, st := range s.Steps {
		switch {
		case st.Event != nil:
			v.HandlePointerEvent(*st.Event)
		case st.Pinch != nil:
			v.HandlePinch(st.Pinch.Factor, st.Pinch.X, st.Pinch.Y)
		case st.Scroll != nil:
			v.HandleScroll(st.Scroll.DX, st.Scroll.DY)
		case st.Resize != nil:
			v.Resize(st.Resize.Width, st.Resize.Height)
		}
	}
}
