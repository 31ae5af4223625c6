package gesture

import (
	"math"

	"github.com/gogpu/gridview/geom"
)

const (
	// minPinchSpan is the smallest contact distance a pinch factor is
	// derived from. Closer contacts give unstable ratios.
	minPinchSpan = 1.0

	// pinchEpsilon is the smallest factor change reported.
	pinchEpsilon = 1e-9
)

// PinchDetector derives incremental pinch factors from two-contact move
// events, for hosts that do not run their own scale detector. Each factor is
// the current contact span divided by the span of the previous update.
//
// PinchDetector is NOT safe for concurrent use.
type PinchDetector struct {
	prevSpan float64
	active   bool
}

// Update feeds one event. It returns the pinch factor and focal point when
// the event moved two tracked contacts apart or together.
func (p *PinchDetector) Update(ev Event) (factor float64, focus geom.Point, ok bool) {
	pair, two := ev.pair()
	if !two || ev.Phase == PhaseUp || ev.Phase == PhaseCancel {
		p.active = false
		return 0, geom.Point{}, false
	}

	s := span(pair)
	if !p.active || ev.Phase != PhaseMove || p.prevSpan < minPinchSpan {
		p.active = true
		p.prevSpan = s
		return 0, geom.Point{}, false
	}

	factor = s / p.prevSpan
	p.prevSpan = s
	if math.Abs(factor-1) < pinchEpsilon {
		return 0, geom.Point{}, false
	}
	return factor, focal(pair), true
}

// Reset forgets the tracked span.
func (p *PinchDetector) Reset() {
	p.active = false
	p.prevSpan = 0
}
