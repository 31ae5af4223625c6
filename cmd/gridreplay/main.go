// Command gridreplay replays a recorded gesture script against a grid view
// and writes the resulting frame as a PNG.
//
// Cell events produced by the script are printed to stdout, one JSON object
// per line. View tuning is read from GRIDVIEW_* environment variables.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gogpu/gridview"
	"github.com/gogpu/gridview/internal/config"
	"github.com/gogpu/gridview/recording"
	_ "github.com/gogpu/gridview/recording/backends/raster"
)

func main() {
	var (
		scriptPath = flag.String("script", "", "gesture script (JSON); stdin when empty")
		output     = flag.String("output", "grid.png", "output file")
		backend    = flag.String("backend", "raster", "recording backend ("+strings.Join(recording.Backends(), ", ")+")")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gridview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	in := os.Stdin
	if *scriptPath != "" {
		f, err := os.Open(*scriptPath)
		if err != nil {
			log.Fatalf("Failed to open script: %v", err)
		}
		defer f.Close()
		in = f
	}
	s, err := loadScript(in)
	if err != nil {
		log.Fatalf("Failed to read script: %v", err)
	}

	if err := replay(s, cfg, *backend, *output, json.NewEncoder(os.Stdout)); err != nil {
		log.Fatalf("Replay failed: %v", err)
	}
	log.Printf("Frame saved to %s", *output)
}

func replay(s *script, cfg *config.Config, backendName, output string, events *json.Encoder) error {
	w, h := s.Width, s.Height
	if w == 0 && h == 0 {
		w, h = float64(cfg.Width), float64(cfg.Height)
	}

	opts := append(cfg.ViewOptions(), gridview.WithCellHandler(func(ev gridview.CellEvent) {
		_ = events.Encode(ev)
	}))
	v, err := gridview.New(w, h, opts...)
	if err != nil {
		return err
	}
	defer v.Close()

	s.run(v)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := v.Flush(ctx); err != nil {
		return err
	}

	b, err := recording.NewBackend(backendName)
	if err != nil {
		return err
	}
	if err := v.CurrentFrame().Paint(b); err != nil {
		return err
	}
	fb, ok := b.(recording.FileBackend)
	if !ok {
		return fmt.Errorf("backend %q cannot write files", backendName)
	}
	return fb.SaveToFile(output)
}
