package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// AmbientOcclusionIntegrator estimates how open the hemisphere above each
// hit is by casting cosine-weighted occlusion rays
type AmbientOcclusionIntegrator struct {
	Background Background
	Rays       int     // Occlusion rays per primary hit
	Distance   float64 // Occluders further than this are ignored
	Albedo     core.Vec3
}

// NewAmbientOcclusionIntegrator creates an AO integrator. A non-positive
// distance defaults to 5 scene units.
func NewAmbientOcclusionIntegrator(background Background, distance float64) *AmbientOcclusionIntegrator {
	if distance <= 0 {
		distance = 5
	}
	return &AmbientOcclusionIntegrator{
		Background: background,
		Rays:       4,
		Distance:   distance,
		Albedo:     core.NewVec3(0.8, 0.8, 0.8),
	}
}

// RayColor returns the occlusion-weighted albedo or the background on a miss
func (ao *AmbientOcclusionIntegrator) RayColor(ray core.Ray, world core.Primitive, random *rand.Rand) core.Vec3 {
	isect, hit := world.Intersect(ray, math.Inf(1))
	if !hit {
		return ao.Background.Color(ray)
	}

	normal := isect.Normal
	// Shade the side facing the viewer
	if normal.Dot(ray.Direction) > 0 {
		normal = normal.Negate()
	}

	open := 0
	for i := 0; i < ao.Rays; i++ {
		dir := randomCosineDirection(normal, random)
		if _, blocked := world.Intersect(core.NewRay(isect.Point, dir), ao.Distance); !blocked {
			open++
		}
	}
	return ao.Albedo.Multiply(float64(open) / float64(ao.Rays))
}

// randomCosineDirection generates a cosine-weighted random direction in hemisphere around normal
func randomCosineDirection(normal core.Vec3, random *rand.Rand) core.Vec3 {
	a := 2.0 * math.Pi * random.Float64()
	z := random.Float64()
	r := math.Sqrt(z)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	zCoord := math.Sqrt(1.0 - z)

	// Find a vector perpendicular to normal
	var nt core.Vec3
	if math.Abs(normal.X) > 0.1 {
		nt = core.NewVec3(0, 1, 0)
	} else {
		nt = core.NewVec3(1, 0, 0)
	}

	// Create orthonormal basis
	tangent := nt.Cross(normal).Normalize()
	bitangent := normal.Cross(tangent)

	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(zCoord))
}
