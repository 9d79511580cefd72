package core

import "math"

// Axis identifies one of the three coordinate axes
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the axis name
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "unknown"
	}
}

// BoundingBox represents an axis-aligned bounding box.
// Start <= End on every axis; zero-volume boxes are allowed.
// A nil *BoundingBox stands for an empty group and never intersects.
type BoundingBox struct {
	Start       Vec3    // Minimum corner
	End         Vec3    // Maximum corner
	MidPoint    Vec3    // Centroid of Start and End
	SurfaceArea float64 // Cached surface area
}

// NewBoundingBox creates a bounding box from its corners and caches the
// centroid and surface area
func NewBoundingBox(start, end Vec3) *BoundingBox {
	Assert(start.X <= end.X && start.Y <= end.Y && start.Z <= end.Z,
		"bounding box start %v exceeds end %v", start, end)
	return &BoundingBox{
		Start:       start,
		End:         end,
		MidPoint:    start.Add(end).Multiply(0.5),
		SurfaceArea: SurfaceAreaOf(start, end),
	}
}

// BoundingBoxOf returns the smallest box containing every point.
// At least one point is required.
func BoundingBoxOf(points ...Vec3) *BoundingBox {
	Assert(len(points) > 0, "bounding box needs at least one point")

	minPoint := NewVec3(math.MaxFloat64, math.MaxFloat64, math.MaxFloat64)
	maxPoint := NewVec3(-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64)
	for _, p := range points {
		minPoint = minPoint.Min(p)
		maxPoint = maxPoint.Max(p)
	}
	return NewBoundingBox(minPoint, maxPoint)
}

// SurfaceAreaOf returns 2*(l*w + l*h + w*h) for the box spanned by start and end
func SurfaceAreaOf(start, end Vec3) float64 {
	width := end.X - start.X
	height := end.Y - start.Y
	length := end.Z - start.Z
	return 2 * (length*width + length*height + width*height)
}

// Extent returns the size of the box along each axis
func (b *BoundingBox) Extent() Vec3 {
	return b.End.Subtract(b.Start)
}

// LongestAxis returns the axis with the greatest extent.
// Exact ties resolve in X, Y, Z order.
func (b *BoundingBox) LongestAxis() Axis {
	size := b.Extent().Abs()
	if size.X > size.Y && size.X > size.Z {
		return AxisX
	}
	if size.Y > size.Z {
		return AxisY
	}
	return AxisZ
}

// Contains reports whether p lies inside or on the box
func (b *BoundingBox) Contains(p Vec3) bool {
	return p.X >= b.Start.X && p.X <= b.End.X &&
		p.Y >= b.Start.Y && p.Y <= b.End.Y &&
		p.Z >= b.Start.Z && p.Z <= b.End.Z
}

// Union returns a box bounding both b and other. Either side may be nil.
func (b *BoundingBox) Union(other *BoundingBox) *BoundingBox {
	if b == nil {
		return other
	}
	if other == nil {
		return b
	}
	return NewBoundingBox(b.Start.Min(other.Start), b.End.Max(other.End))
}

// Intersect tests the ray against the box using the slab method.
//
// On a hit it returns the entry distance tmin. On a miss it still returns
// tmax, which is negative when the whole box lies behind the ray origin.
// Zero direction components produce infinite slab distances; those are
// handled by IEEE-754 comparisons, and the NaN that arises when the origin
// sits exactly on a slab plane is ignored instead of poisoning the result.
func (b *BoundingBox) Intersect(ray Ray) (bool, float64) {
	if b == nil {
		return false, 0
	}

	dirfrac := ray.Direction.Reciprocal()

	t1 := (b.Start.X - ray.Origin.X) * dirfrac.X
	t2 := (b.End.X - ray.Origin.X) * dirfrac.X
	t3 := (b.Start.Y - ray.Origin.Y) * dirfrac.Y
	t4 := (b.End.Y - ray.Origin.Y) * dirfrac.Y
	t5 := (b.Start.Z - ray.Origin.Z) * dirfrac.Z
	t6 := (b.End.Z - ray.Origin.Z) * dirfrac.Z

	tmin := max3(minNum(t1, t2), minNum(t3, t4), minNum(t5, t6))
	tmax := min3(maxNum(t1, t2), maxNum(t3, t4), maxNum(t5, t6))

	// whole box is behind the origin
	if tmax < 0 {
		return false, tmax
	}
	if tmin > tmax {
		return false, tmax
	}
	return true, tmin
}

// minNum is IEEE-754 minNum: a NaN operand yields the other operand
func minNum(a, b float64) float64 {
	if a < b || b != b {
		return a
	}
	return b
}

// maxNum is IEEE-754 maxNum: a NaN operand yields the other operand
func maxNum(a, b float64) float64 {
	if a > b || b != b {
		return a
	}
	return b
}

func max3(a, b, c float64) float64 {
	return maxNum(maxNum(a, b), c)
}

func min3(a, b, c float64) float64 {
	return minNum(minNum(a, b), c)
}
