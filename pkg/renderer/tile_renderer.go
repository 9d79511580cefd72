package renderer

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/integrator"
)

// TileRenderer casts primary rays for a tile and accumulates the integrator
// result into the shared sample buffer
type TileRenderer struct {
	world        core.Primitive
	camera       *Camera
	integrator   integrator.Integrator
	buffer       *SampleBuffer
	antialiasing bool
}

// NewTileRenderer creates a tile renderer writing into buffer
func NewTileRenderer(world core.Primitive, camera *Camera, integratorInst integrator.Integrator, buffer *SampleBuffer, antialiasing bool) *TileRenderer {
	return &TileRenderer{
		world:        world,
		camera:       camera,
		integrator:   integratorInst,
		buffer:       buffer,
		antialiasing: antialiasing,
	}
}

// Buffer returns the sample buffer the renderer writes to
func (tr *TileRenderer) Buffer() *SampleBuffer {
	return tr.buffer
}

// SampleTile renders one sample for every pixel of the tile. The tile's
// own random generator is used, which the claiming worker owns.
func (tr *TileRenderer) SampleTile(tile *RenderTile, sample int) {
	bounds := tile.Bounds()
	colors := make([]core.Vec3, 0, bounds.Dx()*bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx, dy := 0.5, 0.5
			// The first sample stays at the pixel centre so a single-sample
			// render is deterministic
			if tr.antialiasing && sample > 0 {
				dx, dy = tile.Random.Float64(), tile.Random.Float64()
			}
			ray := tr.camera.GetRay(x, y, dx, dy)
			colors = append(colors, tr.integrator.RayColor(ray, tr.world, tile.Random))
		}
	}

	tr.buffer.CommitTileSample(bounds, colors)
}
