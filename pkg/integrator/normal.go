package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// NormalIntegrator colours hits by their surface normal, lit by a fixed
// headlight term so that shape stays readable
type NormalIntegrator struct {
	Background Background
	LightDir   core.Vec3 // Direction towards the light, normalized on use
}

// NewNormalIntegrator creates a normal-shading integrator
func NewNormalIntegrator(background Background) *NormalIntegrator {
	return &NormalIntegrator{
		Background: background,
		LightDir:   core.NewVec3(0.4, 1, 0.6),
	}
}

// RayColor returns the shaded normal colour or the background on a miss
func (n *NormalIntegrator) RayColor(ray core.Ray, world core.Primitive, _ *rand.Rand) core.Vec3 {
	isect, hit := world.Intersect(ray, math.Inf(1))
	if !hit {
		return n.Background.Color(ray)
	}

	base := isect.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
	lambert := math.Max(0, isect.Normal.Dot(n.LightDir.Normalize()))
	return base.Multiply(0.3 + 0.7*lambert)
}
