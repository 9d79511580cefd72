package geometry

import "github.com/df07/go-tile-raytracer/pkg/core"

// triangleEpsilon rejects rays lying in the plane of a triangle
const triangleEpsilon = 1e-8

// intersectTriangle tests a ray against the triangle (v0, v1, v2) using the
// Möller-Trumbore algorithm. It applies the same acceptance window as the
// sphere test: the hit must lie in (SelfIntersectionEpsilon, maxT).
func intersectTriangle(ray core.Ray, v0, v1, v2 core.Vec3, maxT float64) (float64, bool) {
	// Calculate two edge vectors
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	// Calculate determinant
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// If determinant is near zero, ray lies in plane of triangle
	if a > -triangleEpsilon && a < triangleEpsilon {
		return 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(v0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t <= core.SelfIntersectionEpsilon || t >= maxT {
		return 0, false
	}
	return t, true
}

// triangleNormal returns the unit geometric normal of (v0, v1, v2) following
// counter-clockwise winding, or the zero vector for a degenerate triangle
func triangleNormal(v0, v1, v2 core.Vec3) core.Vec3 {
	return v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
}
