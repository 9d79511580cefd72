package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// DepthIntegrator maps hit distance to a grey level, near is white
type DepthIntegrator struct {
	Background  Background
	MaxDistance float64 // Distance that maps to black
}

// NewDepthIntegrator creates a depth integrator. A non-positive maxDistance
// defaults to 20 scene units.
func NewDepthIntegrator(background Background, maxDistance float64) *DepthIntegrator {
	if maxDistance <= 0 {
		maxDistance = 20
	}
	return &DepthIntegrator{Background: background, MaxDistance: maxDistance}
}

// RayColor returns the depth shade or the background on a miss
func (d *DepthIntegrator) RayColor(ray core.Ray, world core.Primitive, _ *rand.Rand) core.Vec3 {
	isect, hit := world.Intersect(ray, math.Inf(1))
	if !hit {
		return d.Background.Color(ray)
	}

	distance := isect.Distance * ray.Direction.Length()
	shade := 1 - math.Min(1, distance/d.MaxDistance)
	return core.NewVec3(shade, shade, shade)
}
