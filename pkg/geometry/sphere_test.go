package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

func TestSphere_IntersectAlongAxis(t *testing.T) {
	for _, radius := range []float64{0.5, 1, 2, 9.5} {
		sphere := NewSphere(core.NewVec3(0, 0, 0), radius, nil)
		ray := core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 1))

		isect, hit := sphere.Intersect(ray, math.Inf(1))
		if !hit {
			t.Fatalf("radius %f: expected hit, got miss", radius)
		}
		if math.Abs(isect.Distance-(10-radius)) > 1e-9 {
			t.Errorf("radius %f: expected t=%f, got %f", radius, 10-radius, isect.Distance)
		}
		if isect.Normal.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
			t.Errorf("radius %f: expected normal (0,0,-1), got %v", radius, isect.Normal)
		}
		if isect.Kind != core.HitSphere {
			t.Errorf("radius %f: expected kind sphere, got %v", radius, isect.Kind)
		}
		if isect.Primitive != sphere {
			t.Errorf("radius %f: intersection should reference the sphere", radius)
		}
	}
}

func TestSphere_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(1.0001, 0, -10), core.NewVec3(0, 0, 1))

	maxT := 100.0
	if _, hit := sphere.IntersectDistance(ray, maxT); hit {
		t.Error("Expected miss for a ray passing outside the sphere")
	}

	isect, hit := sphere.Intersect(ray, maxT)
	if hit {
		t.Error("Expected miss")
	}
	if isect.Kind != core.HitNone {
		t.Errorf("Expected kind none on miss, got %v", isect.Kind)
	}
}

func TestSphere_RespectsMaxT(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 1))

	if _, hit := sphere.IntersectDistance(ray, 5); hit {
		t.Error("Hit at t=9 must be rejected when a closer hit at 5 is known")
	}
	if _, hit := sphere.IntersectDistance(ray, 9); hit {
		t.Error("Hit exactly at maxT must be rejected")
	}
	if tHit, hit := sphere.IntersectDistance(ray, 9.5); !hit || tHit != 9 {
		t.Errorf("Expected hit at 9, got hit=%t t=%f", hit, tHit)
	}
}

func TestSphere_SelfIntersectionGuard(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)

	// Origin on the surface heading outwards: nearer root is ~0
	ray := core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, -1))
	if _, hit := sphere.IntersectDistance(ray, math.Inf(1)); hit {
		t.Error("Expected the epsilon guard to reject a hit at the ray origin")
	}
}

func TestSphere_InsideUsesNearerRoot(t *testing.T) {
	// From inside, the nearer root is behind the origin and is rejected
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	if _, hit := sphere.Intersect(ray, math.Inf(1)); hit {
		t.Error("Expected miss: only the smaller root is considered")
	}
}

func TestSphere_UnnormalizedDirection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 4))

	isect, hit := sphere.Intersect(ray, math.Inf(1))
	if !hit {
		t.Fatal("Expected hit")
	}
	if math.Abs(isect.Distance-2.25) > 1e-9 {
		t.Errorf("Expected t=2.25 for direction length 4, got %f", isect.Distance)
	}
	if isect.Point.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Expected hit point (0,0,-1), got %v", isect.Point)
	}
}

func TestSphere_ZeroRadiusIsNoHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 1))

	if _, hit := sphere.Intersect(ray, math.Inf(1)); hit {
		t.Error("Zero-radius sphere hit at its centre has no normal and must be a miss")
	}
}

func TestSphere_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 2, nil)
	box := sphere.Bounds()

	if box.Start != core.NewVec3(-1, 0, 1) || box.End != core.NewVec3(3, 4, 5) {
		t.Errorf("Unexpected sphere bounds %v..%v", box.Start, box.End)
	}
}
