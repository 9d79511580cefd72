package geometry

import (
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// Group is an ordered list of primitives sharing one root bounding box.
// It is the scene root the integrator casts rays against.
type Group struct {
	Primitives []core.Primitive
	root       *core.BoundingBox
}

// NewGroup creates a group and unions the bounds of its members
func NewGroup(primitives ...core.Primitive) *Group {
	g := &Group{}
	for _, p := range primitives {
		g.Add(p)
	}
	return g
}

// Add appends a primitive and grows the root box
func (g *Group) Add(p core.Primitive) {
	core.Assert(p != nil, "adding nil primitive to group")
	g.Primitives = append(g.Primitives, p)
	g.root = g.root.Union(p.Bounds())
}

// Intersect returns the nearest hit among all members below maxT
func (g *Group) Intersect(ray core.Ray, maxT float64) (core.Intersection, bool) {
	if hit, _ := g.root.Intersect(ray); !hit {
		return core.Miss(), false
	}

	closest := core.Miss()
	found := false
	for _, p := range g.Primitives {
		if isect, ok := p.Intersect(ray, maxT); ok {
			maxT = isect.Distance
			closest = isect
			found = true
		}
	}
	return closest, found
}

// Closest casts the ray with no distance limit
func (g *Group) Closest(ray core.Ray) (core.Intersection, bool) {
	return g.Intersect(ray, math.Inf(1))
}

// Bounds returns the union of all member boxes, nil for an empty group
func (g *Group) Bounds() *core.BoundingBox {
	return g.root
}
