// Package gridview provides an infinitely pannable, zoomable and rotatable
// 2D grid driven by multi-touch gestures.
//
// # Overview
//
// A View combines three pieces:
//   - a gesture classifier (package gesture) that turns pointer events into
//     drag, zoom, rotate and tap results
//   - a bounded affine transform (package transform)
//   - a virtual grid (package grid) whose integer cell origin carries any
//     pan the transform bounds absorb, so the grid never ends
//
// After every accepted change the view snapshots its state and hands it to
// a geometry worker. The worker generates only the visible lines, records
// them into a display list (package recording) and publishes an immutable
// Frame. Painting never blocks on the worker.
//
// # Quick Start
//
//	v, err := gridview.New(800, 600,
//	    gridview.WithCellHandler(func(ev gridview.CellEvent) {
//	        fmt.Println(ev.Kind, ev.CellX, ev.CellY)
//	    }),
//	)
//	if err != nil {
//	    return err
//	}
//	defer v.Close()
//
//	v.HandlePointerEvent(gesture.Event{Phase: gesture.PhaseDown, X: 100, Y: 100})
//	v.HandlePointerEvent(gesture.Event{Phase: gesture.PhaseUp, X: 100, Y: 100})
//
//	_ = v.Flush(ctx)
//	b := raster.NewBackend()
//	_ = v.CurrentFrame().Paint(b)
//	_ = b.SavePNG("grid.png")
//
// # Coordinate System
//
// Screen coordinates have the origin at the top-left of the viewport, X to
// the right and Y down. Lines in a Frame are in model space; the frame's
// Transform maps them to the screen.
//
// # Threading
//
// All input methods may be called from any goroutine, but gestures are
// order-sensitive, so hosts deliver them from one input goroutine. The cell
// handler runs on the goroutine that delivered the event.
package gridview
