package integrator

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// Integrator turns a primary ray into a colour. The world is whatever the
// scene exposes as its root primitive.
type Integrator interface {
	RayColor(ray core.Ray, world core.Primitive, random *rand.Rand) core.Vec3
}

// Background is a vertical gradient used when a ray escapes the scene
type Background struct {
	Top    core.Vec3
	Bottom core.Vec3
}

// DefaultBackground is a light sky gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Color returns the gradient colour for a ray direction
func (b Background) Color(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return b.Bottom.Multiply(1.0 - t).Add(b.Top.Multiply(t))
}

// New creates an integrator by name: "normal", "depth" or "ao"
func New(name string, background Background) (Integrator, error) {
	switch strings.ToLower(name) {
	case "", "normal":
		return NewNormalIntegrator(background), nil
	case "depth":
		return NewDepthIntegrator(background, 0), nil
	case "ao":
		return NewAmbientOcclusionIntegrator(background, 0), nil
	default:
		return nil, fmt.Errorf("unknown integrator %q", name)
	}
}
