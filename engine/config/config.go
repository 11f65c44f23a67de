// Package config loads the renderer settings shared by the umbra commands from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine/deferred"
	"github.com/Carmen-Shannon/umbra/engine/light"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Limits on the shadow map resolution.
const (
	MinShadowResolution = 16
	MaxShadowResolution = 8192
)

// Config is the full set of renderer settings.
type Config struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`

	// Shading is "deferred" or "forward".
	Shading string `yaml:"shading"`

	// Workers is the software backend's worker count, 0 means one per CPU.
	Workers  int `yaml:"workers"`
	TileRows int `yaml:"tile_rows"`

	Shadow ShadowConfig `yaml:"shadow"`
	Window WindowConfig `yaml:"window"`

	Debug bool `yaml:"debug"`
}

// ShadowConfig configures the directional light shadow map.
type ShadowConfig struct {
	Resolution int     `yaml:"resolution"`
	HalfExtent float32 `yaml:"half_extent"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`

	// Bias is "slope" or "fixed".
	Bias string `yaml:"bias"`
}

// WindowConfig configures the interactive viewer's surface.
type WindowConfig struct {
	// PresentMode is "fifo", "mailbox" or "immediate".
	PresentMode string `yaml:"present_mode"`
	FixedSize   bool   `yaml:"fixed_size"`
}

// Default returns the settings used for every field a file leaves out.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Width:    1280,
		Height:   720,
		Title:    "umbra",
		Shading:  deferred.ModeDeferred.String(),
		TileRows: deferred.DefaultTileRows,
		Shadow: ShadowConfig{
			Resolution: light.ShadowMapResolution,
			HalfExtent: light.DefaultShadowHalfExtent,
			Near:       light.DefaultShadowNear,
			Far:        light.DefaultShadowFar,
			Bias:       light.BiasSlopeScaled.String(),
		},
		Window: WindowConfig{PresentMode: "fifo"},
	}
}

// Load reads and parses a YAML configuration file.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the validated configuration
//   - error: an error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, fills zero fields from Default and validates the result. Unknown
// keys are rejected. Empty input yields the defaults.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the validated configuration
//   - error: a decode error or an error wrapping ErrInvalidConfig
func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	c.Width = common.Coalesce(c.Width, d.Width)
	c.Height = common.Coalesce(c.Height, d.Height)
	c.Title = common.Coalesce(c.Title, d.Title)
	c.Shading = common.Coalesce(c.Shading, d.Shading)
	c.TileRows = common.Coalesce(c.TileRows, d.TileRows)
	c.Shadow.Resolution = common.Coalesce(c.Shadow.Resolution, d.Shadow.Resolution)
	c.Shadow.HalfExtent = common.Coalesce(c.Shadow.HalfExtent, d.Shadow.HalfExtent)
	c.Shadow.Near = common.Coalesce(c.Shadow.Near, d.Shadow.Near)
	c.Shadow.Far = common.Coalesce(c.Shadow.Far, d.Shadow.Far)
	c.Shadow.Bias = common.Coalesce(c.Shadow.Bias, d.Shadow.Bias)
	c.Window.PresentMode = common.Coalesce(c.Window.PresentMode, d.Window.PresentMode)
}

// Validate checks every field and reports all problems at once.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalidConfig
func (c Config) Validate() error {
	var problems []string
	if c.Width <= 0 || c.Height <= 0 {
		problems = append(problems, fmt.Sprintf("size %dx%d must be positive", c.Width, c.Height))
	}
	if _, err := c.ShadingMode(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Workers < 0 {
		problems = append(problems, fmt.Sprintf("workers %d must not be negative", c.Workers))
	}
	if c.TileRows < 0 {
		problems = append(problems, fmt.Sprintf("tile_rows %d must not be negative", c.TileRows))
	}
	if r := c.Shadow.Resolution; r < MinShadowResolution || r > MaxShadowResolution {
		problems = append(problems, fmt.Sprintf("shadow.resolution %d outside [%d, %d]", r, MinShadowResolution, MaxShadowResolution))
	}
	if c.Shadow.HalfExtent <= 0 {
		problems = append(problems, "shadow.half_extent must be positive")
	}
	if c.Shadow.Near <= 0 || c.Shadow.Far <= c.Shadow.Near {
		problems = append(problems, fmt.Sprintf("shadow clip range [%g, %g] is empty", c.Shadow.Near, c.Shadow.Far))
	}
	if _, err := c.BiasMode(); err != nil {
		problems = append(problems, err.Error())
	}
	switch strings.ToLower(c.Window.PresentMode) {
	case "fifo", "mailbox", "immediate":
	default:
		problems = append(problems, fmt.Sprintf("unknown present mode %q", c.Window.PresentMode))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ShadingMode parses the Shading field.
func (c Config) ShadingMode() (deferred.Mode, error) {
	return deferred.ParseMode(c.Shading)
}

// BiasMode parses the Shadow.Bias field.
func (c Config) BiasMode() (light.BiasMode, error) {
	return light.ParseBiasMode(c.Shadow.Bias)
}

// Logger returns a DefaultLogger for a command, with debug output as configured.
//
// Parameters:
//   - prefix: the log prefix
//
// Returns:
//   - common.Logger: the logger
func (c Config) Logger(prefix string) common.Logger {
	return common.NewDefaultLogger(prefix, c.Debug)
}

// RendererOptions translates the settings into software renderer options.
//
// Parameters:
//   - logger: the logger handed to the renderer
//
// Returns:
//   - []deferred.RendererBuilderOption: the options
//   - error: an error if a mode field does not parse
func (c Config) RendererOptions(logger common.Logger) ([]deferred.RendererBuilderOption, error) {
	mode, err := c.ShadingMode()
	if err != nil {
		return nil, err
	}
	bias, err := c.BiasMode()
	if err != nil {
		return nil, err
	}
	return []deferred.RendererBuilderOption{
		deferred.WithLogger(logger),
		deferred.WithWorkers(c.Workers),
		deferred.WithTileRows(c.TileRows),
		deferred.WithMode(mode),
		deferred.WithBiasMode(bias),
		deferred.WithShadowResolution(c.Shadow.Resolution),
		deferred.WithShadowExtent(c.Shadow.HalfExtent, c.Shadow.Near, c.Shadow.Far),
	}, nil
}
