package gridview

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gridview/gesture"
	"github.com/gogpu/gridview/grid"
	"github.com/gogpu/gridview/transform"
)

// ErrInvalidConfig is wrapped by every configuration error.
var ErrInvalidConfig = errors.New("gridview: invalid config")

// DefaultScrollThresholdPx is the smallest host scroll delta HandleScroll
// applies.
const DefaultScrollThresholdPx = 5.0

// Config holds the tuning of a View.
type Config struct {
	// Zoom bounds, exclusive.
	MinScale float64
	MaxScale float64

	// ContentFactor is the content size in viewports per axis.
	ContentFactor float64

	// Grid spacing in screen pixels.
	BaseSpacing float64
	MinSpacing  float64
	MaxSpacing  float64

	RotationThresholdDeg  float64
	RotationHysteresisDeg float64
	RotationDamping       float64

	ClickEpsilonPx    float64
	LongPressMs       int64
	ScrollThresholdPx float64
}

// DefaultConfig returns the default tuning.
func DefaultConfig() Config {
	return Config{
		MinScale:              transform.DefaultMinScale,
		MaxScale:              transform.DefaultMaxScale,
		ContentFactor:         transform.DefaultContentFactor,
		BaseSpacing:           grid.DefaultBaseSpacing,
		MinSpacing:            grid.DefaultMinSpacing,
		MaxSpacing:            grid.DefaultMaxSpacing,
		RotationThresholdDeg:  gesture.DefaultRotationThresholdDeg,
		RotationHysteresisDeg: gesture.DefaultRotationHysteresisDeg,
		RotationDamping:       gesture.DefaultRotationDamping,
		ClickEpsilonPx:        gesture.DefaultClickEpsilonPx,
		LongPressMs:           gesture.DefaultLongPressMs,
		ScrollThresholdPx:     DefaultScrollThresholdPx,
	}
}

// Validate reports the first impossible setting. The error wraps
// ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case !positive(c.MinScale):
		return fmt.Errorf("%w: min scale %v must be positive", ErrInvalidConfig, c.MinScale)
	case !(c.MinScale < c.MaxScale) || math.IsInf(c.MaxScale, 0):
		return fmt.Errorf("%w: min scale %v must be below max scale %v", ErrInvalidConfig, c.MinScale, c.MaxScale)
	case !(c.ContentFactor >= 1) || math.IsInf(c.ContentFactor, 0):
		return fmt.Errorf("%w: content factor %v must be at least 1", ErrInvalidConfig, c.ContentFactor)
	case !positive(c.MinSpacing):
		return fmt.Errorf("%w: min spacing %v must be positive", ErrInvalidConfig, c.MinSpacing)
	case !(c.MinSpacing <= c.MaxSpacing) || math.IsInf(c.MaxSpacing, 0):
		return fmt.Errorf("%w: min spacing %v exceeds max spacing %v", ErrInvalidConfig, c.MinSpacing, c.MaxSpacing)
	case !positive(c.BaseSpacing):
		return fmt.Errorf("%w: base spacing %v must be positive", ErrInvalidConfig, c.BaseSpacing)
	case !positive(c.RotationDamping):
		return fmt.Errorf("%w: rotation damping %v must be positive", ErrInvalidConfig, c.RotationDamping)
	case c.RotationThresholdDeg < 0 || c.RotationHysteresisDeg < 0:
		return fmt.Errorf("%w: rotation thresholds must not be negative", ErrInvalidConfig)
	case c.ClickEpsilonPx < 0 || c.LongPressMs < 0 || c.ScrollThresholdPx < 0:
		return fmt.Errorf("%w: tap and scroll thresholds must not be negative", ErrInvalidConfig)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func (c Config) transformConfig() transform.Config {
	return transform.Config{
		MinScale:      c.MinScale,
		MaxScale:      c.MaxScale,
		ContentFactor: c.ContentFactor,
	}
}

func (c Config) gestureConfig() gesture.Config {
	return gesture.Config{
		MinScale:              c.MinScale,
		MaxScale:              c.MaxScale,
		RotationThresholdDeg:  c.RotationThresholdDeg,
		RotationHysteresisDeg: c.RotationHysteresisDeg,
		RotationDamping:       c.RotationDamping,
		ClickEpsilonPx:        c.ClickEpsilonPx,
		LongPressMs:           c.LongPressMs,
	}
}

func (c Config) gridSpec(anchorX, anchorY float64) grid.Spec {
	s := grid.NewSpec(c.BaseSpacing, c.MinSpacing, c.MaxSpacing)
	s.AnchorX, s.AnchorY = anchorX, anchorY
	return s
}
