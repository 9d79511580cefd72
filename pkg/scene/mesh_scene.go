package scene

import (
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// NewMeshScene creates a scene showcasing triangle mesh geometry
func NewMeshScene(cameraOverrides renderer.CameraConfig) *Scene {
	cameraConfig := mergeCamera(renderer.CameraConfig{
		LookFrom: core.NewVec3(0, 2, 6), // Position camera to see the meshes
		LookAt:   core.NewVec3(0, 1, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     45.0,
		Width:    600,
		Height:   338,
	}, cameraOverrides)

	s := newScene("mesh", cameraConfig)
	s.Add(NewGroundMesh(core.NewVec3(0, 0, 0), 100, core.NewVec3(0.7, 0.7, 0.7)))

	s.Add(NewBoxMesh(core.NewVec3(-2, 0.5, 0), core.NewVec3(1, 1, 1), math.Pi/6, core.NewVec3(0.8, 0.2, 0.2)))
	s.Add(NewPyramidMesh(core.NewVec3(0, 1, 0), 1.5, 2.0, math.Pi/4, core.NewVec3(0.2, 0.3, 0.8)))
	s.Add(NewIcosahedronMesh(core.NewVec3(2, 0.8, 0), 0.8, math.Pi/3, core.NewVec3(0.8, 0.6, 0.2)))

	return s
}

// NewSceneWithMesh builds a scene around a loaded mesh: a ground plane and
// the mesh placed at the origin, scaled to two units
func NewSceneWithMesh(mesh *geometry.Mesh, cameraOverrides renderer.CameraConfig) *Scene {
	cameraConfig := mergeCamera(renderer.CameraConfig{
		LookFrom: core.NewVec3(0, 1.8, 4.5),
		LookAt:   core.NewVec3(0, 0.9, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     40.0,
		Width:    600,
		Height:   400,
	}, cameraOverrides)

	s := newScene(mesh.Name, cameraConfig)
	s.Add(NewGroundMesh(core.NewVec3(0, 0, 0), 100, core.NewVec3(0.7, 0.7, 0.7)))
	s.AddMesh(mesh, core.NewVec3(0, 0, 0), 2)
	return s
}

// NewBoxMesh creates a box of 12 triangles rotated by angle around the Y axis
func NewBoxMesh(center, size core.Vec3, angle float64, material any) *geometry.Mesh {
	h := size.Multiply(0.5)
	vertices := []core.Vec3{
		core.NewVec3(-h.X, -h.Y, -h.Z), // 0: left-bottom-back
		core.NewVec3(+h.X, -h.Y, -h.Z), // 1: right-bottom-back
		core.NewVec3(+h.X, +h.Y, -h.Z), // 2: right-top-back
		core.NewVec3(-h.X, +h.Y, -h.Z), // 3: left-top-back
		core.NewVec3(-h.X, -h.Y, +h.Z), // 4: left-bottom-front
		core.NewVec3(+h.X, -h.Y, +h.Z), // 5: right-bottom-front
		core.NewVec3(+h.X, +h.Y, +h.Z), // 6: right-top-front
		core.NewVec3(-h.X, +h.Y, +h.Z), // 7: left-top-front
	}

	// 2 triangles per face
	faces := []int{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 7, 3, 0, 4, 7, // left
		1, 6, 5, 1, 2, 6, // right
		0, 1, 5, 0, 5, 4, // bottom
		3, 6, 2, 3, 7, 6, // top
	}
	return mustMesh("box", placeVertices(vertices, center, angle), faces, material)
}

// NewPyramidMesh creates a square pyramid rotated by angle around the Y axis
func NewPyramidMesh(center core.Vec3, baseSize, height, angle float64, material any) *geometry.Mesh {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5

	vertices := []core.Vec3{
		core.NewVec3(-halfBase, -halfHeight, -halfBase), // 0: left-back
		core.NewVec3(+halfBase, -halfHeight, -halfBase), // 1: right-back
		core.NewVec3(+halfBase, -halfHeight, +halfBase), // 2: right-front
		core.NewVec3(-halfBase, -halfHeight, +halfBase), // 3: left-front
		core.NewVec3(0, +halfHeight, 0),                 // 4: apex
	}

	faces := []int{
		0, 1, 2, 0, 2, 3, // base
		0, 4, 1, // back
		1, 4, 2, // right
		2, 4, 3, // front
		3, 4, 0, // left
	}
	return mustMesh("pyramid", placeVertices(vertices, center, angle), faces, material)
}

// NewIcosahedronMesh creates a regular icosahedron with the given
// circumradius, rotated by angle around the Y axis
func NewIcosahedronMesh(center core.Vec3, radius, angle float64, material any) *geometry.Mesh {
	phi := math.Phi
	// Unit icosahedron vertices lie at distance sqrt(1+phi^2)
	scale := radius / math.Sqrt(1+phi*phi)

	raw := []core.Vec3{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	vertices := make([]core.Vec3, len(raw))
	for i, v := range raw {
		vertices[i] = v.Multiply(scale)
	}

	faces := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}
	return mustMesh("icosahedron", placeVertices(vertices, center, angle), faces, material)
}

// placeVertices rotates local vertices around the Y axis and moves them to center
func placeVertices(vertices []core.Vec3, center core.Vec3, angle float64) []core.Vec3 {
	sin, cos := math.Sincos(angle)
	placed := make([]core.Vec3, len(vertices))
	for i, v := range vertices {
		placed[i] = core.NewVec3(v.X*cos+v.Z*sin, v.Y, -v.X*sin+v.Z*cos).Add(center)
	}
	return placed
}

// mustMesh builds a mesh from constant face data
func mustMesh(name string, vertices []core.Vec3, faces []int, material any) *geometry.Mesh {
	mesh, err := geometry.NewMeshFromFaces(name, vertices, faces, material)
	core.Assert(err == nil, "invalid built-in mesh %s: %v", name, err)
	return mesh
}
