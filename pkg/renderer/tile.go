package renderer

import (
	"image"
	"math/rand"
	"time"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// TileState is the lifecycle stage of a render tile
type TileState int

const (
	TilePending    TileState = iota // Not yet claimed by a worker
	TileInProgress                  // Claimed, samples being accumulated
	TileCompleted                   // All samples accumulated
)

// String returns the state name
func (s TileState) String() string {
	switch s {
	case TilePending:
		return "pending"
	case TileInProgress:
		return "in progress"
	case TileCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// RenderTile represents a rectangular region of the image to be rendered.
//
// State, CompletedSamples, Start and Stop are owned by the RenderState and
// only change through its methods. Random belongs to whichever worker holds
// the tile.
type RenderTile struct {
	Index            int         // Row-major generation index
	Width, Height    int         // Size in pixels
	Begin, End       image.Point // Pixel bounds, End exclusive
	CompletedSamples int         // Samples accumulated so far
	State            TileState
	Start, Stop      time.Time
	Random           *rand.Rand // Tile-specific random generator for deterministic results
}

// NewRenderTile creates a pending tile covering bounds
func NewRenderTile(index int, bounds image.Rectangle) *RenderTile {
	return &RenderTile{
		Index:  index,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Begin:  bounds.Min,
		End:    bounds.Max,
		State:  TilePending,
		Random: rand.New(rand.NewSource(int64(index + 42))), // +42 to avoid seed 0
	}
}

// Bounds returns the pixel rectangle covered by the tile
func (t *RenderTile) Bounds() image.Rectangle {
	return image.Rectangle{Min: t.Begin, Max: t.End}
}

// Center returns the tile centre in pixel coordinates
func (t *RenderTile) Center() (float64, float64) {
	return float64(t.Begin.X+t.End.X) / 2, float64(t.Begin.Y+t.End.Y) / 2
}

// NewTileGrid partitions a width x height image into tiles in row-major
// order. Edge tiles are clipped to the image.
func NewTileGrid(width, height, tileWidth, tileHeight int) []*RenderTile {
	core.Assert(width > 0 && height > 0, "image size %dx%d must be positive", width, height)
	core.Assert(tileWidth > 0 && tileHeight > 0, "tile size %dx%d must be positive", tileWidth, tileHeight)

	// Calculate number of tiles in each dimension
	tilesX := (width + tileWidth - 1) / tileWidth // Ceiling division
	tilesY := (height + tileHeight - 1) / tileHeight

	tiles := make([]*RenderTile, 0, tilesX*tilesY)
	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileWidth
			y0 := tileY * tileHeight
			x1 := min(x0+tileWidth, width) // Don't exceed image bounds
			y1 := min(y0+tileHeight, height)

			tiles = append(tiles, NewRenderTile(len(tiles), image.Rect(x0, y0, x1, y1)))
		}
	}
	return tiles
}

// GenerateTiles builds the tile grid and reorders it for traversal
func GenerateTiles(width, height, tileWidth, tileHeight int, order RenderOrder, random *rand.Rand) []*RenderTile {
	tiles := NewTileGrid(width, height, tileWidth, tileHeight)
	ReorderTiles(tiles, order, width, height, random)
	return tiles
}
