// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package fynegrid hosts a gridview.View inside a Fyne window.
//
// The widget translates Fyne input into gridview gestures and paints the
// latest published frame through the raster backend. The data flow is:
//
//	Fyne events -> gesture.Event -> gridview.View -> Frame -> raster -> canvas.Raster
//
// # Input Mapping
//
//   - Drag: a one-contact drag (Down, Move..., Up)
//   - Tap: a click on the cell under the pointer
//   - Secondary tap: a long press on the cell under the pointer
//   - Scroll wheel: a pinch about the pointer, one zoom step per event
//
// Desktop pointers have a single contact, so rotation is only reachable
// from hosts that deliver touches as gesture.Event values directly.
//
// # Usage
//
//	a := app.New()
//	w := a.NewWindow("grid")
//	g, err := fynegrid.New(fyne.NewSize(800, 600), gridview.WithRuler(language.English))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer g.Close()
//	w.SetContent(g)
//	w.ShowAndRun()
//
// # Thread Safety
//
// Fyne delivers events on one goroutine. Painting happens on the render
// goroutine and only reads published frames.
package fynegrid
