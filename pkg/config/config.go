// Package config holds the render configuration shared by the CLI and the
// HTTP control surface.
package config

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/df07/go-tile-raytracer/pkg/integrator"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config describes one render
type Config struct {
	Width        int                  `toml:"width"`
	Height       int                  `toml:"height"`
	TileWidth    int                  `toml:"tile_width"`
	TileHeight   int                  `toml:"tile_height"`
	Samples      int                  `toml:"samples"`      // Samples per tile
	Threads      int                  `toml:"threads"`      // 0 = one worker per CPU
	Order        renderer.RenderOrder `toml:"order"`        // Tile traversal order
	Antialiasing bool                 `toml:"antialiasing"` // Jitter samples after the first
	Integrator   string               `toml:"integrator"`   // normal, depth or ao
	Scene        string               `toml:"scene"`        // Built-in preset
	Mesh         string               `toml:"mesh"`         // Optional STL/PLY file rendered instead of the preset
	Output       string               `toml:"output"`       // PNG file
	PreviewScale float64              `toml:"preview_scale"`
	ETAWindow    int                  `toml:"eta_window"`
	Seed         int64                `toml:"seed"` // Shuffle seed for the random order
	Listen       string               `toml:"listen"`
	LogLevel     string               `toml:"log_level"`
}

// Default returns the configuration used when no file or flag overrides it
func Default() Config {
	return Config{
		Width:        400,
		Height:       225,
		TileWidth:    32,
		TileHeight:   32,
		Samples:      4,
		Order:        renderer.OrderFromMiddle,
		Antialiasing: true,
		Integrator:   "normal",
		Scene:        "default",
		Output:       "render.png",
		ETAWindow:    renderer.DefaultETAWindow,
		Seed:         1,
		LogLevel:     "info",
	}
}

// Load reads a TOML file over the defaults. Keys that do not map to a
// field are rejected so that typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}

	return cfg, cfg.Validate()
}

// Validate checks ranges and names
func (c Config) Validate() error {
	var problems []string
	if c.Width <= 0 || c.Height <= 0 {
		problems = append(problems, fmt.Sprintf("image size %dx%d must be positive", c.Width, c.Height))
	}
	if c.TileWidth <= 0 || c.TileHeight <= 0 {
		problems = append(problems, fmt.Sprintf("tile size %dx%d must be positive", c.TileWidth, c.TileHeight))
	}
	if c.Samples <= 0 {
		problems = append(problems, fmt.Sprintf("samples %d must be positive", c.Samples))
	}
	if c.Threads < 0 {
		problems = append(problems, fmt.Sprintf("threads %d must not be negative", c.Threads))
	}
	if c.ETAWindow < 0 {
		problems = append(problems, fmt.Sprintf("eta_window %d must not be negative", c.ETAWindow))
	}
	if c.PreviewScale < 0 || c.PreviewScale > 1 {
		problems = append(problems, fmt.Sprintf("preview_scale %g must be within [0, 1]", c.PreviewScale))
	}
	if _, err := integrator.New(c.Integrator, integrator.DefaultBackground()); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Output == "" {
		problems = append(problems, "output must be set")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Save writes the configuration as TOML
func (c Config) Save(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
