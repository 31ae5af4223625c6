// Package recording provides a record/replay buffer for grid frames.
//
// The geometry worker draws each frame into a Recorder instead of a live
// surface. The resulting Recording is immutable and can be replayed any
// number of times into any Backend, so painting the same frame twice gives
// the same output and the paint thread never waits for geometry.
//
// # Architecture
//
// Commands are typed structs:
//   - State commands (SetTransform, SetStroke)
//   - Drawing commands (Clear, StrokeSegment, DrawLabel)
//
// Segments are recorded in model space together with the transform that
// maps them onto the screen. Labels are recorded in screen space and are
// not affected by the transform.
//
// # Example
//
//	rec := recording.NewRecorder(800, 600)
//	rec.Clear(recording.Background)
//	rec.SetTransform(affine.Matrix)
//	rec.SetStroke(recording.GridLine, 2)
//	for _, s := range segments {
//	    rec.StrokeSegment(s)
//	}
//	r := rec.Finish()
//
//	// Replay to a backend
//	backend, err := recording.NewBackend("raster")
//	if err != nil {
//	    return err
//	}
//	err = r.Playback(backend)
//
// # Backends
//
// Backends register themselves by name, following the database/sql driver
// pattern:
//
//	import _ "github.com/gogpu/gridview/recording/backends/raster"
//
//	backend, err := recording.NewBackend("raster")
package recording
