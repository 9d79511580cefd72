package geometry

import (
	"fmt"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// Polygon is a triangle referencing three entries of its mesh's vertex list
type Polygon struct {
	VertexIndex [3]int
}

// Mesh is a group of polygons culled through a single root bounding box.
// A mesh without polygons has a nil Root and is never hit.
type Mesh struct {
	Name     string
	Vertices []core.Vec3
	Polygons []Polygon
	Material any
	Root     *core.BoundingBox
}

// NewMesh creates a mesh and computes its root bounding box.
// Polygon vertex indices must be valid for the vertex list.
func NewMesh(name string, vertices []core.Vec3, polygons []Polygon, material any) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Polygons: polygons,
		Material: material,
	}
	if len(polygons) > 0 {
		m.Root = m.ComputeBoundingBox(m.allPolygonIndices())
	}
	return m
}

// NewMeshFromFaces creates a mesh from a flat face index list, where every
// group of three indices forms a triangle
func NewMeshFromFaces(name string, vertices []core.Vec3, faces []int, material any) (*Mesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face index count %d is not a multiple of 3", len(faces))
	}
	polygons := make([]Polygon, len(faces)/3)
	for i := range polygons {
		for j := 0; j < 3; j++ {
			idx := faces[i*3+j]
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("face %d references vertex %d, mesh has %d vertices", i, idx, len(vertices))
			}
			polygons[i].VertexIndex[j] = idx
		}
	}
	return NewMesh(name, vertices, polygons, material), nil
}

// ComputeBoundingBox returns the box enclosing every vertex of the polygons
// named by indices. An empty index list is a programming error.
func (m *Mesh) ComputeBoundingBox(indices []int) *core.BoundingBox {
	core.Assert(len(indices) > 0, "computing bounding box of mesh %q with no polygons", m.Name)

	points := make([]core.Vec3, 0, len(indices)*3)
	for _, polyIndex := range indices {
		core.Assert(polyIndex >= 0 && polyIndex < len(m.Polygons),
			"polygon index %d out of range for mesh %q with %d polygons", polyIndex, m.Name, len(m.Polygons))
		for _, vertexIndex := range m.Polygons[polyIndex].VertexIndex {
			points = append(points, m.Vertices[vertexIndex])
		}
	}
	return core.BoundingBoxOf(points...)
}

// Intersect culls against the root box and then tests every polygon,
// keeping the nearest hit below maxT
func (m *Mesh) Intersect(ray core.Ray, maxT float64) (core.Intersection, bool) {
	if hit, _ := m.Root.Intersect(ray); !hit {
		return core.Miss(), false
	}

	closest := maxT
	hitIndex := -1
	for i, poly := range m.Polygons {
		v0 := m.Vertices[poly.VertexIndex[0]]
		v1 := m.Vertices[poly.VertexIndex[1]]
		v2 := m.Vertices[poly.VertexIndex[2]]
		if t, ok := intersectTriangle(ray, v0, v1, v2, closest); ok {
			closest = t
			hitIndex = i
		}
	}
	if hitIndex < 0 {
		return core.Miss(), false
	}

	poly := m.Polygons[hitIndex]
	normal := triangleNormal(m.Vertices[poly.VertexIndex[0]], m.Vertices[poly.VertexIndex[1]], m.Vertices[poly.VertexIndex[2]])
	if normal.LengthSquared() == 0 {
		return core.Miss(), false
	}

	return core.Intersection{
		Distance:  closest,
		Point:     ray.At(closest),
		Normal:    normal,
		Kind:      core.HitPolygon,
		Primitive: m,
	}, true
}

// Bounds returns the mesh's root bounding box, nil when the mesh is empty
func (m *Mesh) Bounds() *core.BoundingBox {
	return m.Root
}

// PolygonCount returns the number of polygons in the mesh
func (m *Mesh) PolygonCount() int {
	return len(m.Polygons)
}

func (m *Mesh) allPolygonIndices() []int {
	indices := make([]int, len(m.Polygons))
	for i := range indices {
		indices[i] = i
	}
	return indices
}
