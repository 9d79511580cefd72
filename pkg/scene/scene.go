package scene

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/integrator"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	World        *geometry.Group // Objects in the scene
	CameraConfig renderer.CameraConfig
	Background   integrator.Background
}

// newScene creates an empty scene with the default sky
func newScene(name string, cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Name:         name,
		World:        geometry.NewGroup(),
		CameraConfig: cameraConfig,
		Background:   integrator.DefaultBackground(),
	}
}

// Add appends a primitive to the world
func (s *Scene) Add(p core.Primitive) {
	s.World.Add(p)
}

// AddMesh adds a loaded mesh, scaled and moved so that it stands on the
// ground at target with its largest extent equal to size
func (s *Scene) AddMesh(mesh *geometry.Mesh, target core.Vec3, size float64) *geometry.Mesh {
	if mesh.Root == nil {
		s.Add(mesh)
		return mesh
	}

	extent := mesh.Root.Extent()
	largest := max(extent.X, extent.Y, extent.Z)
	scale := 1.0
	if largest > 0 {
		scale = size / largest
	}

	// Base centre of the box lands on target
	base := core.NewVec3(mesh.Root.MidPoint.X, mesh.Root.Start.Y, mesh.Root.MidPoint.Z)
	vertices := make([]core.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		vertices[i] = v.Subtract(base).Multiply(scale).Add(target)
	}

	placed := geometry.NewMesh(mesh.Name, vertices, mesh.Polygons, mesh.Material)
	s.Add(placed)
	return placed
}

// Camera builds the camera for the configured image size
func (s *Scene) Camera() *renderer.Camera {
	return renderer.NewCamera(s.CameraConfig)
}

// PrimitiveCount returns the total number of spheres and polygons
func (s *Scene) PrimitiveCount() int {
	return countPrimitives(s.World)
}

// countPrimitives counts primitives, expanding meshes and nested groups
func countPrimitives(p core.Primitive) int {
	switch obj := p.(type) {
	case *geometry.Mesh:
		return obj.PolygonCount()
	case *geometry.Group:
		count := 0
		for _, child := range obj.Primitives {
			count += countPrimitives(child)
		}
		return count
	default:
		return 1
	}
}

// NewGroundMesh creates a large square of two triangles to stand in for an
// infinite ground plane at height y, keeping the scene bounds finite
func NewGroundMesh(center core.Vec3, size float64, material any) *geometry.Mesh {
	h := size / 2
	vertices := []core.Vec3{
		center.Add(core.NewVec3(-h, 0, -h)),
		center.Add(core.NewVec3(h, 0, -h)),
		center.Add(core.NewVec3(h, 0, h)),
		center.Add(core.NewVec3(-h, 0, h)),
	}
	// Wound so the normals point up
	polygons := []geometry.Polygon{
		{VertexIndex: [3]int{0, 2, 1}},
		{VertexIndex: [3]int{0, 3, 2}},
	}
	return geometry.NewMesh("ground", vertices, polygons, material)
}
