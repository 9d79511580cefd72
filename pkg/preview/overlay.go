// Package preview decorates in-progress renders for live display.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

var (
	// FrameColor outlines tiles that are currently being rendered
	FrameColor = color.RGBA{R: 255, G: 200, A: 255}
	// TextColor is used for the status line
	TextColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	// TextBackground is drawn behind the status line to keep it readable
	TextBackground = color.RGBA{A: 160}
)

// Overlay returns a copy of img with a frame around every in-progress tile
// and a status line along the bottom edge
func Overlay(img image.Image, tiles []renderer.RenderTile, progress renderer.ProgressUpdate) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	for _, tile := range tiles {
		if tile.State == renderer.TileInProgress {
			drawFrame(out, tile.Bounds().Intersect(bounds), FrameColor)
		}
	}

	drawStatus(out, StatusLine(progress))
	return out
}

// StatusLine summarises progress in one short line
func StatusLine(progress renderer.ProgressUpdate) string {
	parts := []string{
		fmt.Sprintf("%d/%d tiles (%.0f%%)", progress.CompletedTiles, progress.TotalTiles, progress.Percent()),
	}
	if progress.ETA > 0 {
		parts = append(parts, "ETA "+renderer.FormatDuration(progress.ETA))
	}
	switch {
	case progress.Aborted:
		parts = append(parts, "aborted")
	case progress.Paused:
		parts = append(parts, "paused")
	}
	return strings.Join(parts, " | ")
}

// drawFrame outlines r with a one pixel border
func drawFrame(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

// drawStatus writes text in the bottom-left corner over a dark band
func drawStatus(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	bounds := img.Bounds()
	metrics := face.Metrics()
	height := (metrics.Height).Ceil()
	ascent := (metrics.Ascent).Ceil()

	padding := 2
	width := font.MeasureString(face, text).Ceil()
	band := image.Rect(bounds.Min.X, bounds.Max.Y-height-2*padding, bounds.Min.X+width+2*padding, bounds.Max.Y).Intersect(bounds)
	draw.Draw(img, band, image.NewUniform(TextBackground), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(TextColor),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(bounds.Min.X + padding), Y: fixed.I(bounds.Max.Y - height - padding + ascent)},
	}
	d.DrawString(text)
}
