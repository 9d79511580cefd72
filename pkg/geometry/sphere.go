package geometry

import (
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// Sphere represents a sphere primitive. Material is opaque to the core and
// is only carried through for the integrator.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material any
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material any) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// IntersectDistance solves the ray/sphere quadratic and returns the nearer
// root when it lies in (SelfIntersectionEpsilon, maxT). Callers thread the
// returned distance into the next candidate as its maxT.
func (s *Sphere) IntersectDistance(ray core.Ray, maxT float64) (float64, bool) {
	// Quadratic equation coefficients: At² + Bt + C = 0
	a := ray.Direction.Dot(ray.Direction)
	distance := ray.Origin.Subtract(s.Center)
	b := 2 * ray.Direction.Dot(distance)
	c := distance.Dot(distance) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	t0 := (-b + sqrtD) / (2 * a)
	t1 := (-b - sqrtD) / (2 * a)
	if t0 > t1 {
		t0 = t1
	}

	if t0 > core.SelfIntersectionEpsilon && t0 < maxT {
		return t0, true
	}
	return 0, false
}

// Intersect tests the ray against the sphere and fills in the hit point and
// outward normal. A hit whose normal degenerates to zero length is reported
// as a miss.
func (s *Sphere) Intersect(ray core.Ray, maxT float64) (core.Intersection, bool) {
	t, ok := s.IntersectDistance(ray, maxT)
	if !ok {
		return core.Miss(), false
	}

	hitPoint := ray.At(t)
	surfaceNormal := hitPoint.Subtract(s.Center)
	lengthSq := surfaceNormal.LengthSquared()
	if lengthSq == 0 {
		return core.Miss(), false
	}

	return core.Intersection{
		Distance:  t,
		Point:     hitPoint,
		Normal:    surfaceNormal.Multiply(1 / math.Sqrt(lengthSq)),
		Kind:      core.HitSphere,
		Primitive: s,
	}, true
}

// Bounds returns the axis-aligned bounding box for this sphere
func (s *Sphere) Bounds() *core.BoundingBox {
	r := math.Abs(s.Radius)
	radius := core.NewVec3(r, r, r)
	return core.NewBoundingBox(s.Center.Subtract(radius), s.Center.Add(radius))
}
