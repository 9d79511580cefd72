package preview

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestOverlay_FramesOnlyInProgressTiles(t *testing.T) {
	grey := color.RGBA{R: 50, G: 50, B: 50, A: 255}
	img := solid(128, 128, grey)

	tiles := []renderer.RenderTile{
		{Begin: image.Pt(0, 0), End: image.Pt(32, 32), State: renderer.TileInProgress},
		{Begin: image.Pt(32, 0), End: image.Pt(64, 32), State: renderer.TileCompleted},
		{Begin: image.Pt(64, 0), End: image.Pt(96, 32), State: renderer.TilePending},
	}

	out := Overlay(img, tiles, renderer.ProgressUpdate{TotalTiles: 3, CompletedTiles: 1})

	if got := out.RGBAAt(0, 0); got != FrameColor {
		t.Errorf("Expected frame at in-progress tile corner, got %v", got)
	}
	if got := out.RGBAAt(31, 16); got != FrameColor {
		t.Errorf("Expected frame at in-progress tile right edge, got %v", got)
	}
	if got := out.RGBAAt(16, 16); got != grey {
		t.Errorf("Tile interior should be untouched, got %v", got)
	}
	if got := out.RGBAAt(32, 0); got != grey {
		t.Errorf("Completed tile should have no frame, got %v", got)
	}
	if got := out.RGBAAt(64, 0); got != grey {
		t.Errorf("Pending tile should have no frame, got %v", got)
	}
	if got := img.RGBAAt(0, 0); got != grey {
		t.Error("Overlay should not modify the source image")
	}

	// Status band darkens the bottom-left corner
	if got := out.RGBAAt(1, 127); got.R >= grey.R {
		t.Errorf("Expected darkened status band, got %v", got)
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name     string
		progress renderer.ProgressUpdate
		contains []string
	}{
		{"starting", renderer.ProgressUpdate{TotalTiles: 10}, []string{"0/10 tiles (0%)"}},
		{"eta", renderer.ProgressUpdate{TotalTiles: 4, CompletedTiles: 2, ETA: 65 * time.Second}, []string{"2/4 tiles (50%)", "ETA 1m 5s"}},
		{"paused", renderer.ProgressUpdate{TotalTiles: 4, Paused: true}, []string{"paused"}},
		{"aborted", renderer.ProgressUpdate{TotalTiles: 4, Paused: true, Aborted: true}, []string{"aborted"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := StatusLine(tt.progress)
			for _, want := range tt.contains {
				if !strings.Contains(line, want) {
					t.Errorf("StatusLine() = %q, expected to contain %q", line, want)
				}
			}
		})
	}
	if line := StatusLine(renderer.ProgressUpdate{TotalTiles: 4, Paused: true, Aborted: true}); strings.Contains(line, "paused") {
		t.Errorf("Aborted render should not also report paused: %q", line)
	}
}

func TestScale(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	img := solid(100, 50, red)

	half := Scale(img, 0.5)
	if half.Bounds().Dx() != 50 || half.Bounds().Dy() != 25 {
		t.Errorf("Expected 50x25, got %v", half.Bounds())
	}
	if got := half.RGBAAt(25, 12); got.R < 250 || got.G > 5 || got.B > 5 {
		t.Errorf("Solid colour should survive scaling, got %v", got)
	}

	tiny := Scale(img, 0.001)
	if tiny.Bounds().Dx() != 1 || tiny.Bounds().Dy() != 1 {
		t.Errorf("Expected 1x1 minimum, got %v", tiny.Bounds())
	}
}

func TestThumbnail(t *testing.T) {
	img := solid(400, 200, color.RGBA{G: 255, A: 255})

	thumb := Thumbnail(img, 100)
	if thumb.Bounds().Dx() != 100 || thumb.Bounds().Dy() != 50 {
		t.Errorf("Expected 100x50 thumbnail, got %v", thumb.Bounds())
	}

	same := Thumbnail(img, 1000)
	if same.Bounds().Dx() != 400 || same.Bounds().Dy() != 200 {
		t.Errorf("Small image should keep its size, got %v", same.Bounds())
	}
}
