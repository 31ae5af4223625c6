package raster

import (
	"bytes"
	"image"
	"image/png"
	"path/filepath"
	"slices"
	"testing"

	"github.com/gogpu/gridview/geom"
	"github.com/gogpu/gridview/recording"
)

var white = recording.RGB(1, 1, 1)

func render(t *testing.T, w, h int, draw func(rec *recording.Recorder)) *Backend {
	t.Helper()
	rec := recording.NewRecorder(w, h)
	rec.Clear(white)
	draw(rec)
	b := NewBackend()
	if err := rec.Finish().Playback(b); err != nil {
		t.Fatalf("Playback: %v", err)
	}
	return b
}

func isWhite(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestBackendRegistration(t *testing.T) {
	if !slices.Contains(recording.Backends(), "raster") {
		t.Fatal("raster backend not registered")
	}
	backend, err := recording.NewBackend("raster")
	if err != nil {
		t.Fatalf("failed to create raster backend: %v", err)
	}
	if _, ok := backend.(*Backend); !ok {
		t.Fatal("backend is not *raster.Backend")
	}
}

func TestBackendLifecycle(t *testing.T) {
	b := NewBackend()
	if err := b.End(); err == nil {
		t.Error("End before Begin should fail")
	}
	if b.Image() != nil {
		t.Error("Image() before Begin should be nil")
	}
	if err := b.Begin(-1, 10); err == nil {
		t.Error("Begin with negative width should fail")
	}

	if err := b.Begin(100, 80); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if b.Width() != 100 || b.Height() != 80 {
		t.Errorf("size = %dx%d, want 100x80", b.Width(), b.Height())
	}
	if err := b.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
}

func TestStrokeSegment(t *testing.T) {
	tests := []struct {
		name      string
		transform geom.Matrix
		seg       geom.Segment
		inked     image.Point
		clean     image.Point
	}{
		{"vertical", geom.Identity(), geom.Seg(50, 0, 50, 100), image.Pt(50, 40), image.Pt(10, 40)},
		{"horizontal", geom.Identity(), geom.Seg(0, 30, 100, 30), image.Pt(60, 30), image.Pt(60, 60)},
		{"translated", geom.Translate(20, 0), geom.Seg(10, 0, 10, 100), image.Pt(30, 40), image.Pt(10, 40)},
		{"scaled width stays", geom.Scale(4, 4), geom.Seg(10, 0, 10, 25), image.Pt(40, 40), image.Pt(44, 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := render(t, 100, 100, func(rec *recording.Recorder) {
				rec.SetTransform(tt.transform)
				rec.StrokeSegment(tt.seg)
			})
			img := b.Image()
			if isWhite(img, tt.inked.X, tt.inked.Y) {
				t.Errorf("pixel %v not inked", tt.inked)
			}
			if !isWhite(img, tt.clean.X, tt.clean.Y) {
				t.Errorf("pixel %v should stay white", tt.clean)
			}
		})
	}
}

// Crossing quads must not cancel each other's coverage.
func TestCrossingLinesKeepIntersection(t *testing.T) {
	b := render(t, 60, 60, func(rec *recording.Recorder) {
		rec.StrokeSegment(geom.Seg(30, 0, 30, 60))
		rec.StrokeSegment(geom.Seg(60, 30, 0, 30))
	})
	if isWhite(b.Image(), 30, 30) {
		t.Error("intersection pixel is white")
	}
}

func TestCulling(t *testing.T) {
	b := render(t, 50, 50, func(rec *recording.Recorder) {
		rec.StrokeSegment(geom.Seg(10, 0, 10, 50))
		rec.StrokeSegment(geom.Seg(500, 0, 500, 50))
		rec.StrokeSegment(geom.Seg(0, -30, 50, -30))
	})
	stroked, culled := b.Stats()
	if stroked != 1 || culled != 2 {
		t.Errorf("Stats() = (%d, %d), want (1, 2)", stroked, culled)
	}
}

func TestDrawLabel(t *testing.T) {
	b := render(t, 60, 30, func(rec *recording.Recorder) {
		rec.SetLabelColor(recording.RGB(0, 0, 0))
		rec.DrawLabel("42", 5, 20)
	})
	img := b.Image()
	inked := false
	for y := 8; y < 21 && !inked; y++ {
		for x := 5; x < 25; x++ {
			if !isWhite(img, x, y) {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Error("label produced no pixels")
	}
	if !isWhite(img, 50, 5) {
		t.Error("label drew outside its box")
	}
}

func TestWriteToPNG(t *testing.T) {
	b := render(t, 32, 16, func(rec *recording.Recorder) {
		rec.StrokeSegment(geom.Seg(0, 8, 32, 8))
	})

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo returned %d, wrote %d", n, buf.Len())
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(32, 16) {
		t.Errorf("decoded size = %v, want 32x16", got)
	}
}

func TestSavePNG(t *testing.T) {
	b := render(t, 8, 8, func(*recording.Recorder) {})
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := b.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if err := b.SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png")); err == nil {
		t.Error("SavePNG into a missing directory should fail")
	}
}

func TestPixelScale(t *testing.T) {
	rec := recording.NewRecorder(50, 40)
	rec.Clear(white)
	rec.SetTransform(geom.Translate(10, 0))
	rec.StrokeSegment(geom.Seg(10, 0, 10, 40))
	r := rec.Finish()

	b := NewBackend()
	b.SetPixelScale(2)
	if err := r.Playback(b); err != nil {
		t.Fatalf("Playback: %v", err)
	}
	if b.Width() != 100 || b.Height() != 80 {
		t.Fatalf("size = %dx%d, want 100x80", b.Width(), b.Height())
	}
	img := b.Image()
	// Screen x=20 lands on device x=40; the line is 4 device pixels wide.
	if isWhite(img, 40, 60) || isWhite(img, 41, 60) {
		t.Error("scaled line not inked at x=40")
	}
	if !isWhite(img, 20, 60) || !isWhite(img, 44, 60) {
		t.Error("pixels beside the scaled line should stay white")
	}

	b.SetPixelScale(0)
	if err := r.Playback(b); err != nil {
		t.Fatalf("Playback: %v", err)
	}
	if b.Width() != 50 || b.Height() != 40 {
		t.Errorf("invalid scale: size = %dx%d, want 50x40", b.Width(), b.Height())
	}
}
