package renderer

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// SampleBuffer accumulates colour samples for every pixel of the image.
//
// Workers write whole tile samples through CommitTileSample while readers
// take full snapshots. Tiles are disjoint, so writers share the read side
// of the lock with each other and snapshots take the write side to exclude
// them all at once.
type SampleBuffer struct {
	mu      sync.RWMutex
	width   int
	height  int
	accum   []core.Vec3 // RGB sum per pixel, row-major
	samples []int       // Samples per pixel
}

// NewSampleBuffer allocates an empty buffer
func NewSampleBuffer(width, height int) *SampleBuffer {
	core.Assert(width > 0 && height > 0, "buffer size %dx%d must be positive", width, height)
	return &SampleBuffer{
		width:   width,
		height:  height,
		accum:   make([]core.Vec3, width*height),
		samples: make([]int, width*height),
	}
}

// Bounds returns the image rectangle of the buffer
func (b *SampleBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// CommitTileSample adds one sample per pixel of bounds. colors holds the
// samples row-major for the bounds.
func (b *SampleBuffer) CommitTileSample(bounds image.Rectangle, colors []core.Vec3) {
	core.Assert(bounds.In(b.Bounds()), "tile bounds %v outside buffer %v", bounds, b.Bounds())
	core.Assert(len(colors) == bounds.Dx()*bounds.Dy(), "got %d colors for %v", len(colors), bounds)

	b.mu.RLock()
	defer b.mu.RUnlock()

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := y * b.width
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			b.accum[row+x] = b.accum[row+x].Add(colors[i])
			b.samples[row+x]++
			i++
		}
	}
}

// Color returns the averaged colour of a pixel, black before any sample
func (b *SampleBuffer) Color(x, y int) core.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.colorAt(y*b.width + x)
}

// SampleCount returns the number of samples taken for a pixel
func (b *SampleBuffer) SampleCount(x, y int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.samples[y*b.width+x]
}

// ResetRegion discards samples inside bounds, used for tiles whose pass
// was aborted before completion
func (b *SampleBuffer) ResetRegion(bounds image.Rectangle) {
	bounds = bounds.Intersect(b.Bounds())
	b.mu.Lock()
	defer b.mu.Unlock()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			b.accum[y*b.width+x] = core.Vec3{}
			b.samples[y*b.width+x] = 0
		}
	}
}

// Image resolves the whole buffer to an 8-bit image
func (b *SampleBuffer) Image() *image.RGBA {
	return b.SubImage(b.Bounds())
}

// SubImage resolves a region of the buffer. The returned image keeps the
// buffer's coordinates.
func (b *SampleBuffer) SubImage(bounds image.Rectangle) *image.RGBA {
	bounds = bounds.Intersect(b.Bounds())
	img := image.NewRGBA(bounds)

	b.mu.Lock()
	defer b.mu.Unlock()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x, y, vec3ToColor(b.colorAt(y*b.width+x)))
		}
	}
	return img
}

// colorAt returns the average at a flat index. Caller holds mu.
func (b *SampleBuffer) colorAt(i int) core.Vec3 {
	if b.samples[i] == 0 {
		return core.Vec3{}
	}
	return b.accum[i].Multiply(1.0 / float64(b.samples[i]))
}

// vec3ToColor converts a linear colour to gamma-corrected RGBA
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	corrected := core.NewVec3(
		math.Sqrt(max(0, colorVec.X)),
		math.Sqrt(max(0, colorVec.Y)),
		math.Sqrt(max(0, colorVec.Z)),
	).Clamp(0, 1)

	return color.RGBA{
		R: uint8(255*corrected.X + 0.5),
		G: uint8(255*corrected.Y + 0.5),
		B: uint8(255*corrected.Z + 0.5),
		A: 255,
	}
}
