package core

// SelfIntersectionEpsilon is the minimum accepted hit distance, in scene
// units. It keeps secondary rays from hitting the surface they start on.
const SelfIntersectionEpsilon = 0.001

// HitKind tags which primitive family produced an intersection
type HitKind int

const (
	HitNone HitKind = iota
	HitSphere
	HitPolygon
)

// String returns a readable name for the hit kind
func (k HitKind) String() string {
	switch k {
	case HitNone:
		return "none"
	case HitSphere:
		return "sphere"
	case HitPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Intersection describes the nearest hit found along a ray.
// It is produced per ray cast and consumed immediately by the caller.
type Intersection struct {
	Distance  float64   // Ray parameter of the hit
	Point     Vec3      // World-space hit point
	Normal    Vec3      // Unit outward surface normal
	Kind      HitKind   // Primitive family that was hit
	Primitive Primitive // Primitive that was hit, nil on a miss
}

// Hit reports whether the record holds a hit
func (i Intersection) Hit() bool {
	return i.Kind != HitNone
}

// Miss returns the empty intersection record
func Miss() Intersection {
	return Intersection{Kind: HitNone}
}
