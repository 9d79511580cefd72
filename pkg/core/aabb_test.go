package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestBoundingBox_LongestAxis(t *testing.T) {
	tests := []struct {
		name     string
		start    Vec3
		end      Vec3
		expected Axis
	}{
		{"x longest", NewVec3(0, 0, 0), NewVec3(3, 1, 2), AxisX},
		{"y longest", NewVec3(0, 0, 0), NewVec3(1, 3, 2), AxisY},
		{"z longest", NewVec3(0, 0, 0), NewVec3(1, 2, 3), AxisZ},
		{"x ties y falls through to y", NewVec3(0, 0, 0), NewVec3(2, 2, 1), AxisY},
		{"y ties z falls through to z", NewVec3(0, 0, 0), NewVec3(1, 2, 2), AxisZ},
		{"all equal", NewVec3(-1, -1, -1), NewVec3(1, 1, 1), AxisZ},
		{"x ties z", NewVec3(0, 0, 0), NewVec3(2, 1, 2), AxisZ},
		{"degenerate point", NewVec3(4, 4, 4), NewVec3(4, 4, 4), AxisZ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := NewBoundingBox(tt.start, tt.end)
			if got := box.LongestAxis(); got != tt.expected {
				t.Errorf("Expected axis %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestBoundingBox_LongestAxisMatchesMaxExtent(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		start := NewVec3(random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
		size := NewVec3(random.Float64()*4, random.Float64()*4, random.Float64()*4)
		box := NewBoundingBox(start, start.Add(size))

		extent := box.Extent()
		longest := box.LongestAxis()
		for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
			if extent.Axis(axis) > extent.Axis(longest) {
				t.Fatalf("Axis %v (%f) longer than reported %v (%f)", axis, extent.Axis(axis), longest, extent.Axis(longest))
			}
		}
	}
}

func TestBoundingBox_SurfaceArea(t *testing.T) {
	box := NewBoundingBox(NewVec3(0, 0, 0), NewVec3(1, 2, 3))
	// 2*(1*2 + 2*3 + 1*3) = 22
	if box.SurfaceArea != 22 {
		t.Errorf("Expected surface area 22, got %f", box.SurfaceArea)
	}

	point := NewBoundingBox(NewVec3(1, 1, 1), NewVec3(1, 1, 1))
	if point.SurfaceArea != 0 {
		t.Errorf("Expected zero surface area for a point box, got %f", point.SurfaceArea)
	}
}

func TestBoundingBox_SurfaceAreaTranslationInvariant(t *testing.T) {
	start := NewVec3(-1, 0.5, 2)
	end := NewVec3(3, 1.5, 7)
	base := SurfaceAreaOf(start, end)

	offsets := []Vec3{
		NewVec3(10, 0, 0),
		NewVec3(-3, 7, 0.25),
		NewVec3(1e3, -1e3, 5e2),
	}
	for _, offset := range offsets {
		moved := SurfaceAreaOf(start.Add(offset), end.Add(offset))
		if math.Abs(moved-base) > 1e-9*math.Max(1, base) {
			t.Errorf("Translating by %v changed surface area from %f to %f", offset, base, moved)
		}
	}
}

func TestBoundingBoxOf(t *testing.T) {
	box := BoundingBoxOf(NewVec3(1, -1, 0), NewVec3(-2, 3, 4), NewVec3(0, 0, -5))

	if box.Start != NewVec3(-2, -1, -5) {
		t.Errorf("Expected start (-2,-1,-5), got %v", box.Start)
	}
	if box.End != NewVec3(1, 3, 4) {
		t.Errorf("Expected end (1,3,4), got %v", box.End)
	}
	if box.MidPoint != NewVec3(-0.5, 1, -0.5) {
		t.Errorf("Expected midpoint (-0.5,1,-0.5), got %v", box.MidPoint)
	}
}

func TestBoundingBoxOf_EmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for an empty point list")
		}
	}()
	BoundingBoxOf()
}

func TestBoundingBox_Intersect(t *testing.T) {
	box := NewBoundingBox(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name      string
		ray       Ray
		expectHit bool
		expectT   float64
	}{
		{
			name:      "head on",
			ray:       NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)),
			expectHit: true,
			expectT:   4,
		},
		{
			name:      "unnormalized direction",
			ray:       NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 2)),
			expectHit: true,
			expectT:   2,
		},
		{
			name:      "parallel miss",
			ray:       NewRay(NewVec3(0, 2, -5), NewVec3(0, 0, 1)),
			expectHit: false,
		},
		{
			name:      "diagonal",
			ray:       NewRay(NewVec3(-5, -5, -5), NewVec3(1, 1, 1)),
			expectHit: true,
			expectT:   4,
		},
		{
			name:      "passes beside",
			ray:       NewRay(NewVec3(-5, 3, 0), NewVec3(1, 0.1, 0)),
			expectHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, tHit := box.Intersect(tt.ray)
			if hit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t (t=%f)", tt.expectHit, hit, tHit)
			}
			if hit && math.Abs(tHit-tt.expectT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectT, tHit)
			}
		})
	}
}

func TestBoundingBox_IntersectFromInside(t *testing.T) {
	box := NewBoundingBox(NewVec3(-1, -2, -3), NewVec3(1, 2, 3))
	directions := []Vec3{
		NewVec3(1, 0, 0),
		NewVec3(0, -1, 0),
		NewVec3(0.3, 0.4, -0.5),
		NewVec3(-1, -1, -1),
	}

	for _, dir := range directions {
		hit, tHit := box.Intersect(NewRay(NewVec3(0.1, 0.2, 0.3), dir))
		if !hit {
			t.Errorf("Ray from inside along %v should hit, got miss (t=%f)", dir, tHit)
		}
		if tHit > 0 {
			t.Errorf("Ray from inside along %v should enter at t<=0, got %f", dir, tHit)
		}
	}
}

func TestBoundingBox_IntersectBehindOrigin(t *testing.T) {
	box := NewBoundingBox(NewVec3(-1, -1, -5), NewVec3(1, 1, -3))
	ray := NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 1))

	hit, tHit := box.Intersect(ray)
	if hit {
		t.Fatal("Box entirely behind the origin should not be hit")
	}
	if tHit != -3 {
		t.Errorf("Expected returned t to be tmax=-3, got %f", tHit)
	}
}

func TestBoundingBox_IntersectMissReturnsTmax(t *testing.T) {
	box := NewBoundingBox(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	// x slab is [4,6] and y slab is [1,3] along this ray
	ray := NewRay(NewVec3(-5, -2, 0), NewVec3(1, 1, 0))

	hit, tHit := box.Intersect(ray)
	if hit {
		t.Fatal("Expected miss")
	}
	if math.Abs(tHit-3) > 1e-9 {
		t.Errorf("Expected t=tmax=3, got %f", tHit)
	}
}

func TestBoundingBox_IntersectDegenerate(t *testing.T) {
	// Flat box in the z=0 plane, ray lying in that plane
	flat := NewBoundingBox(NewVec3(-1, -1, 0), NewVec3(1, 1, 0))
	hit, tHit := flat.Intersect(NewRay(NewVec3(-5, 0, 0), NewVec3(1, 0, 0)))
	if !hit {
		t.Errorf("Ray on the plane of a flat box should hit, got miss (t=%f)", tHit)
	}
	if math.IsNaN(tHit) {
		t.Error("Intersection distance must not be NaN")
	}

	// Single point box
	point := BoundingBoxOf(NewVec3(2, 0, 0))
	hit, tHit = point.Intersect(NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0)))
	if !hit || math.Abs(tHit-2) > 1e-9 {
		t.Errorf("Expected hit at t=2 on point box, got hit=%t t=%f", hit, tHit)
	}
}

func TestBoundingBox_IntersectNil(t *testing.T) {
	var box *BoundingBox
	hit, tHit := box.Intersect(NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 1)))
	if hit || tHit != 0 {
		t.Errorf("Nil box should never intersect, got hit=%t t=%f", hit, tHit)
	}
}

func TestBoundingBox_Union(t *testing.T) {
	a := NewBoundingBox(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewBoundingBox(NewVec3(-1, 2, 0.5), NewVec3(0.5, 3, 4))

	u := a.Union(b)
	if u.Start != NewVec3(-1, 0, 0) || u.End != NewVec3(1, 3, 4) {
		t.Errorf("Unexpected union %v..%v", u.Start, u.End)
	}

	var empty *BoundingBox
	if empty.Union(a) != a {
		t.Error("Union with nil should return the other box")
	}
	if !u.Contains(NewVec3(0, 2.5, 2)) {
		t.Error("Union should contain interior point")
	}
}
