// Package config loads command settings from GRIDVIEW_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/text/language"

	"github.com/gogpu/gridview"
)

// Prefix is the environment variable prefix.
const Prefix = "GRIDVIEW"

// Config holds the settings shared by the gridview commands. Defaults match
// the library defaults.
type Config struct {
	Addr     string `envconfig:"ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Width  int `envconfig:"WIDTH" default:"800"`
	Height int `envconfig:"HEIGHT" default:"600"`

	MinScale float64 `envconfig:"MIN_SCALE" default:"0.5"`
	MaxScale float64 `envconfig:"MAX_SCALE" default:"5.0"`

	BaseSpacing float64 `envconfig:"BASE_SPACING" default:"20"`
	MinSpacing  float64 `envconfig:"MIN_SPACING" default:"5"`
	MaxSpacing  float64 `envconfig:"MAX_SPACING" default:"100"`

	Ruler bool `envconfig:"RULER" default:"true"`

	// FrameCache is the number of encoded frames the server keeps.
	FrameCache int `envconfig:"FRAME_CACHE" default:"8"`

	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"localhost:*,127.0.0.1:*"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("config: viewport %dx%d must be positive", cfg.Width, cfg.Height)
	}
	return &cfg, nil
}

// Level parses LogLevel, falling back to Info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Origins splits AllowedOrigins into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ViewConfig returns the library tuning these settings describe.
func (c *Config) ViewConfig() gridview.Config {
	vc := gridview.DefaultConfig()
	vc.MinScale, vc.MaxScale = c.MinScale, c.MaxScale
	vc.BaseSpacing, vc.MinSpacing, vc.MaxSpacing = c.BaseSpacing, c.MinSpacing, c.MaxSpacing
	return vc
}

// ViewOptions returns the gridview options for these settings.
func (c *Config) ViewOptions() []gridview.Option {
	opts := []gridview.Option{gridview.WithConfig(c.ViewConfig())}
	if c.Ruler {
		opts = append(opts, gridview.WithRuler(language.English))
	}
	return opts
}
