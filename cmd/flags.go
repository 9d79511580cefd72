package cmd

import (
	"github.com/spf13/pflag"

	"github.com/df07/go-tile-raytracer/pkg/config"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// orderValue lets a RenderOrder be used directly as a flag
type orderValue struct {
	order *renderer.RenderOrder
}

func (v orderValue) String() string {
	if v.order == nil {
		return ""
	}
	return v.order.String()
}

func (v orderValue) Set(s string) error {
	parsed, err := renderer.ParseRenderOrder(s)
	if err != nil {
		return err
	}
	*v.order = parsed
	return nil
}

func (v orderValue) Type() string {
	return "order"
}

// renderFlags holds the flag targets of the render command. Only flags the
// user actually set override the config file.
type renderFlags struct {
	cfg config.Config
}

// register binds every config field to a flag with the default config's
// values as flag defaults
func (f *renderFlags) register(flags *pflag.FlagSet) {
	f.cfg = config.Default()
	flags.IntVarP(&f.cfg.Width, "width", "W", f.cfg.Width, "Image width in pixels")
	flags.IntVarP(&f.cfg.Height, "height", "H", f.cfg.Height, "Image height in pixels")
	flags.IntVar(&f.cfg.TileWidth, "tile-width", f.cfg.TileWidth, "Tile width in pixels")
	flags.IntVar(&f.cfg.TileHeight, "tile-height", f.cfg.TileHeight, "Tile height in pixels")
	flags.IntVarP(&f.cfg.Samples, "samples", "s", f.cfg.Samples, "Samples per tile")
	flags.IntVarP(&f.cfg.Threads, "threads", "t", f.cfg.Threads, "Worker count (0 = CPU count)")
	flags.Var(orderValue{&f.cfg.Order}, "order", "Tile order: top-to-bottom, from-middle, to-middle, normal, random")
	flags.BoolVar(&f.cfg.Antialiasing, "antialiasing", f.cfg.Antialiasing, "Jitter samples within each pixel")
	flags.StringVarP(&f.cfg.Integrator, "integrator", "i", f.cfg.Integrator, "Shading: normal, depth, ao")
	flags.StringVar(&f.cfg.Scene, "scene", f.cfg.Scene, "Built-in scene")
	flags.StringVarP(&f.cfg.Mesh, "mesh", "m", f.cfg.Mesh, "STL or PLY file to render instead of the scene preset")
	flags.StringVarP(&f.cfg.Output, "output", "o", f.cfg.Output, "Output PNG file")
	flags.Float64Var(&f.cfg.PreviewScale, "preview-scale", f.cfg.PreviewScale, "Also write a scaled preview PNG (0 = off)")
	flags.IntVar(&f.cfg.ETAWindow, "eta-window", f.cfg.ETAWindow, "Completed tiles averaged for the ETA")
	flags.Int64Var(&f.cfg.Seed, "seed", f.cfg.Seed, "Seed for the random tile order")
	flags.StringVar(&f.cfg.Listen, "listen", f.cfg.Listen, "Serve the HTTP control surface on this address")
}

// apply copies every explicitly set flag onto cfg
func (f *renderFlags) apply(flags *pflag.FlagSet, cfg *config.Config) {
	overrides := map[string]func(){
		"width":         func() { cfg.Width = f.cfg.Width },
		"height":        func() { cfg.Height = f.cfg.Height },
		"tile-width":    func() { cfg.TileWidth = f.cfg.TileWidth },
		"tile-height":   func() { cfg.TileHeight = f.cfg.TileHeight },
		"samples":       func() { cfg.Samples = f.cfg.Samples },
		"threads":       func() { cfg.Threads = f.cfg.Threads },
		"order":         func() { cfg.Order = f.cfg.Order },
		"antialiasing":  func() { cfg.Antialiasing = f.cfg.Antialiasing },
		"integrator":    func() { cfg.Integrator = f.cfg.Integrator },
		"scene":         func() { cfg.Scene = f.cfg.Scene },
		"mesh":          func() { cfg.Mesh = f.cfg.Mesh },
		"output":        func() { cfg.Output = f.cfg.Output },
		"preview-scale": func() { cfg.PreviewScale = f.cfg.PreviewScale },
		"eta-window":    func() { cfg.ETAWindow = f.cfg.ETAWindow },
		"seed":          func() { cfg.Seed = f.cfg.Seed },
		"listen":        func() { cfg.Listen = f.cfg.Listen },
	}

	flags.Visit(func(flag *pflag.Flag) {
		if override, ok := overrides[flag.Name]; ok {
			override()
		}
	})
}

// loadConfig reads the config file, if any, and applies flag overrides
func loadConfig(flags *pflag.FlagSet, f *renderFlags) (config.Config, error) {
	cfg := config.Default()

	path, _ := flags.GetString("config")
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	f.apply(flags, &cfg)
	if level, _ := flags.GetString("log-level"); flags.Changed("log-level") {
		cfg.LogLevel = level
	}
	return cfg, cfg.Validate()
}
