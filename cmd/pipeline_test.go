package cmd

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-tile-raytracer/pkg/config"
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
	"github.com/df07/go-tile-raytracer/pkg/scene"
	"github.com/df07/go-tile-raytracer/web/server"
)

const tetrahedronSTL = `solid tetra
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 0 1 0
      vertex 1 0 0
    endloop
  endfacet
  facet normal 0 -1 0
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 0 1
    endloop
  endfacet
  facet normal -1 0 0
    outer loop
      vertex 0 0 0
      vertex 0 0 1
      vertex 0 1 0
    endloop
  endfacet
  facet normal 1 1 1
    outer loop
      vertex 1 0 0
      vertex 0 1 0
      vertex 0 0 1
    endloop
  endfacet
endsolid tetra
`

func smallConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Width = 48
	cfg.Height = 32
	cfg.TileWidth = 16
	cfg.TileHeight = 16
	cfg.Samples = 1
	cfg.Threads = 2
	cfg.Output = filepath.Join(t.TempDir(), "out", "render.png")
	return cfg
}

func TestPreviewFilename(t *testing.T) {
	tests := []struct {
		output   string
		expected string
	}{
		{"render.png", "render_preview.png"},
		{"out/frame.png", "out/frame_preview.png"},
		{"noext", "noext_preview"},
	}
	for _, tt := range tests {
		if got := previewFilename(tt.output); got != tt.expected {
			t.Errorf("previewFilename(%q) = %q, expected %q", tt.output, got, tt.expected)
		}
	}
}

func TestBuildScene(t *testing.T) {
	meshPath := filepath.Join(t.TempDir(), "tetra.stl")
	if err := os.WriteFile(meshPath, []byte(tetrahedronSTL), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		sceneName string
		mesh      string
		wantErr   error
	}{
		{"default preset", "default", "", nil},
		{"preset by other case", "SphereGrid", "", nil},
		{"mesh file", "default", meshPath, nil},
		{"unknown preset", "nonexistent", "", scene.ErrUnknownScene},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Scene = tt.sceneName
			cfg.Mesh = tt.mesh

			s, err := buildScene(cfg, core.NopLogger())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildScene failed: %v", err)
			}
			if s.PrimitiveCount() == 0 {
				t.Error("Expected a non-empty scene")
			}
		})
	}
}

func TestBuildScene_MissingMesh(t *testing.T) {
	cfg := config.Default()
	cfg.Mesh = filepath.Join(t.TempDir(), "missing.stl")
	if _, err := buildScene(cfg, core.NopLogger()); err == nil {
		t.Error("Expected error for missing mesh file")
	}
}

func TestRenderOnce_WritesImages(t *testing.T) {
	cfg := smallConfig(t)
	cfg.PreviewScale = 0.5

	result, err := renderOnce(context.Background(), cfg, renderEnv{logger: core.NopLogger()})
	if err != nil {
		t.Fatalf("renderOnce failed: %v", err)
	}
	if !result.Completed || result.TilesCompleted != 6 || result.TotalTiles != 6 {
		t.Errorf("Expected 6/6 tiles complete, got %+v", result)
	}

	img := decodePNG(t, cfg.Output)
	if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 32 {
		t.Errorf("Expected 48x32 render, got %v", b)
	}
	thumb := decodePNG(t, previewFilename(cfg.Output))
	if b := thumb.Bounds(); b.Dx() != 24 || b.Dy() != 16 {
		t.Errorf("Expected 24x16 preview, got %v", b)
	}
}

func TestRenderOnce_CancelledStillWrites(t *testing.T) {
	cfg := smallConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := renderOnce(ctx, cfg, renderEnv{logger: core.NopLogger()})
	if !errors.Is(err, renderer.ErrRenderAborted) {
		t.Fatalf("Expected ErrRenderAborted, got %v", err)
	}
	if result.Completed {
		t.Error("Expected incomplete result")
	}
	if _, err := os.Stat(cfg.Output); err != nil {
		t.Errorf("Expected output written after abort: %v", err)
	}

	if err := finishRender(result, err); err == nil || !strings.Contains(err.Error(), "render aborted") {
		t.Errorf("Expected abort summary, got %v", err)
	}
}

func TestRenderOnce_PublishesToServer(t *testing.T) {
	cfg := smallConfig(t)
	srv := server.NewServer(core.NopLogger())
	env := renderEnv{logger: core.NopLogger(), server: srv, control: newKeyControl(core.NopLogger())}

	if _, err := renderOnce(context.Background(), cfg, env); err != nil {
		t.Fatalf("renderOnce failed: %v", err)
	}
	if env.control.target.Load() != nil {
		t.Error("Expected key control target cleared after render")
	}
}

func TestPrintLists(t *testing.T) {
	var orders bytes.Buffer
	if err := printOrders(&orders); err != nil {
		t.Fatal(err)
	}
	for _, order := range renderer.RenderOrders() {
		if !strings.Contains(orders.String(), order.String()) {
			t.Errorf("Expected order %s in listing", order)
		}
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tetra.stl"), []byte(tetrahedronSTL), 0644); err != nil {
		t.Fatal(err)
	}
	var scenes bytes.Buffer
	if err := printScenes(&scenes, dir); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"default", "spheregrid", "mesh", "tetra.stl"} {
		if !strings.Contains(scenes.String(), want) {
			t.Errorf("Expected %q in scene listing:\n%s", want, scenes.String())
		}
	}
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return img
}
