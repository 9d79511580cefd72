package cmd

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-tile-raytracer/pkg/config"
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/integrator"
	"github.com/df07/go-tile-raytracer/pkg/loaders"
	"github.com/df07/go-tile-raytracer/pkg/preview"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
	"github.com/df07/go-tile-raytracer/pkg/scene"
	"github.com/df07/go-tile-raytracer/web/server"
)

// renderEnv carries the long-lived collaborators of the render command
type renderEnv struct {
	logger  core.Logger
	server  *server.Server // nil without --listen
	control *keyControl    // nil without terminal control
}

// buildScene creates the preset, or a scene around the configured mesh
func buildScene(cfg config.Config, logger core.Logger) (*scene.Scene, error) {
	if cfg.Mesh == "" {
		return scene.New(cfg.Scene, cfg.Width, cfg.Height)
	}

	mesh, err := loaders.LoadMesh(cfg.Mesh)
	if err != nil {
		return nil, err
	}
	logger.Printf("Loaded %s: %d polygons, %d vertices\n", mesh.Name, mesh.PolygonCount(), len(mesh.Vertices))
	return scene.NewSceneWithMesh(mesh, renderer.CameraConfig{Width: cfg.Width, Height: cfg.Height}), nil
}

// renderOnce runs one full render of cfg and writes its images. An aborted
// render still writes the tiles that completed and returns
// renderer.ErrRenderAborted.
func renderOnce(ctx context.Context, cfg config.Config, env renderEnv) (renderer.PassResult, error) {
	sceneObj, err := buildScene(cfg, env.logger)
	if err != nil {
		return renderer.PassResult{}, err
	}
	integ, err := integrator.New(cfg.Integrator, sceneObj.Background)
	if err != nil {
		return renderer.PassResult{}, err
	}

	camera := sceneObj.Camera()
	buffer := renderer.NewSampleBuffer(cfg.Width, cfg.Height)
	tileRenderer := renderer.NewTileRenderer(sceneObj.World, camera, integ, buffer, cfg.Antialiasing)

	tiles := renderer.GenerateTiles(cfg.Width, cfg.Height, cfg.TileWidth, cfg.TileHeight, cfg.Order, rand.New(rand.NewSource(cfg.Seed)))
	state := renderer.NewRenderState(tiles, renderer.StateOptions{
		SamplesPerTile: cfg.Samples,
		ETAWindow:      cfg.ETAWindow,
	})

	env.logger.Printf("Scene %s: %d primitives, %dx%d, %d tiles in %s order\n",
		sceneObj.Name, sceneObj.PrimitiveCount(), cfg.Width, cfg.Height, len(tiles), cfg.Order)

	sinks := renderer.MultiSink{renderer.LogSink{Logger: env.logger}}
	logger := env.logger
	if env.server != nil {
		env.server.SetSession(&server.Session{
			Name:   sceneObj.Name,
			State:  state,
			Buffer: buffer,
			World:  sceneObj.World,
			Camera: camera,
		})
		sinks = append(sinks, env.server)
		logger = env.server.Logger(env.logger)
	}
	if env.control != nil {
		env.control.setTarget(state)
		defer env.control.setTarget(nil)
	}

	result, passErr := renderer.RunRenderPass(ctx, state, tileRenderer, renderer.PassOptions{
		NumWorkers: cfg.Threads,
		Sink:       sinks,
		Logger:     logger,
	})

	// Tiles that were interrupted hold a partial sample count
	for _, tile := range state.TileSnapshot() {
		if tile.State == renderer.TileInProgress {
			buffer.ResetRegion(tile.Bounds())
		}
	}

	if err := writeImages(cfg, buffer.Image(), env.logger); err != nil {
		return result, err
	}
	return result, passErr
}

// writeImages saves the render and, when configured, a scaled preview next
// to it
func writeImages(cfg config.Config, img image.Image, logger core.Logger) error {
	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := writePNG(cfg.Output, img); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", cfg.Output)

	if cfg.PreviewScale > 0 {
		previewPath := previewFilename(cfg.Output)
		if err := writePNG(previewPath, preview.Scale(img, cfg.PreviewScale)); err != nil {
			return err
		}
		logger.Printf("Preview saved as %s\n", previewPath)
	}
	return nil
}

// previewFilename turns out/render.png into out/render_preview.png
func previewFilename(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "_preview" + ext
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}
