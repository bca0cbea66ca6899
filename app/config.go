package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"raycast/diagram"
)

// ErrInvalidConfig reports a configuration value outside its allowed range.
var ErrInvalidConfig = errors.New("invalid config")

// ViewportConfig is the initial math-space rectangle.
type ViewportConfig struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

// Config is the viewer configuration: defaults, overlaid by a YAML file, overlaid by flags.
type Config struct {
	Width    int            `yaml:"width"`
	Height   int            `yaml:"height"`
	FPS      int            `yaml:"fps"`
	Viewport ViewportConfig `yaml:"viewport"`

	// Points are added, in order, before the first frame.
	Points [][2]float64 `yaml:"points"`
}

const (
	DefaultWidth  = 704
	DefaultHeight = 480
	DefaultFPS    = 40

	maxDimension = 1 << 14
	maxFPS       = 1000
)

func DefaultConfig() Config {
	return Config{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FPS:      DefaultFPS,
		Viewport: ViewportConfig{MinX: -10, MaxX: 10, MinY: -10, MaxY: 10},
	}
}

// LoadConfig reads a YAML file over the defaults and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over the defaults. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 || c.Width > maxDimension || c.Height > maxDimension {
		return fmt.Errorf("size %dx%d: %w", c.Width, c.Height, ErrInvalidConfig)
	}
	if c.FPS <= 0 || c.FPS > maxFPS {
		return fmt.Errorf("fps %d: %w", c.FPS, ErrInvalidConfig)
	}
	v := c.Viewport
	if _, err := diagram.NewViewport(v.MinX, v.MaxX, v.MinY, v.MaxY); err != nil {
		return fmt.Errorf("viewport: %w: %w", ErrInvalidConfig, err)
	}
	for i, p := range c.Points {
		if math.IsNaN(p[0]) || math.IsInf(p[0], 0) || math.IsNaN(p[1]) || math.IsInf(p[1], 0) {
			return fmt.Errorf("points[%d] (%g,%g) not finite: %w", i, p[0], p[1], ErrInvalidConfig)
		}
	}
	return nil
}

// Period returns the frame period for FPS.
func (c Config) Period() time.Duration {
	if c.FPS <= 0 {
		return diagram.DefaultPeriod
	}
	return time.Second / time.Duration(c.FPS)
}

// DiagramConfig converts c for diagram.New.
func (c Config) DiagramConfig() (diagram.Config, error) {
	v := c.Viewport
	vp, err := diagram.NewViewport(v.MinX, v.MaxX, v.MinY, v.MaxY)
	if err != nil {
		return diagram.Config{}, err
	}
	return diagram.Config{
		Width:    c.Width,
		Height:   c.Height,
		Period:   c.Period(),
		Viewport: vp,
	}, nil
}
