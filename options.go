package gridview

import (
	"time"

	"golang.org/x/text/language"
)

// Option configures a View during creation.
//
// Example:
//
//	v, err := gridview.New(800, 600,
//	    gridview.WithCellHandler(func(ev gridview.CellEvent) {
//	        log.Printf("%s at cell %d,%d", ev.Kind, ev.CellX, ev.CellY)
//	    }),
//	    gridview.WithRuler(language.English),
//	)
type Option func(*viewOptions)

// viewOptions holds optional configuration for View creation.
type viewOptions struct {
	config        Config
	cellHandler   CellHandler
	ruler         *Ruler
	pinchDetector bool
	clock         func() time.Time
}

// defaultOptions returns the default view options.
func defaultOptions() viewOptions {
	return viewOptions{
		config: DefaultConfig(),
		clock:  time.Now,
	}
}

// WithConfig replaces the default tuning. The config is validated by New.
func WithConfig(c Config) Option {
	return func(o *viewOptions) {
		o.config = c
	}
}

// WithCellHandler sets the function notified of clicks and long presses.
// The handler runs on the goroutine that delivered the gesture, after the
// view has released its lock, so it may call back into the view.
func WithCellHandler(h CellHandler) Option {
	return func(o *viewOptions) {
		o.cellHandler = h
	}
}

// WithRuler labels grid lines with their cell index, formatted for tag.
func WithRuler(tag language.Tag) Option {
	return func(o *viewOptions) {
		o.ruler = NewRuler(tag)
	}
}

// WithPinchDetector derives pinch zoom from two-contact move events. Use it
// when the host has no scale gesture detector of its own and therefore
// never calls HandlePinch.
func WithPinchDetector() Option {
	return func(o *viewOptions) {
		o.pinchDetector = true
	}
}

// WithClock sets the time source used to stamp frames.
func WithClock(now func() time.Time) Option {
	return func(o *viewOptions) {
		if now != nil {
			o.clock = now
		}
	}
}
