package scene

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// NewDefaultScene creates a default scene with spheres, ground, and camera
func NewDefaultScene(cameraOverrides renderer.CameraConfig) *Scene {
	cameraConfig := mergeCamera(renderer.CameraConfig{
		LookFrom: core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
		LookAt:   core.NewVec3(0, 0.5, -1), // Look at the sphere center
		Up:       core.NewVec3(0, 1, 0),
		VFov:     40.0,
		Width:    400,
		Height:   225,
	}, cameraOverrides)

	s := newScene("default", cameraConfig)

	// Materials are plain albedo colours; the bundled integrators ignore them
	s.Add(NewGroundMesh(core.NewVec3(0, 0, 0), 100, core.NewVec3(0.48, 0.48, 0)))
	s.Add(geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, core.NewVec3(0.65, 0.25, 0.2)))
	s.Add(geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, core.NewVec3(0.8, 0.8, 0.8)))
	s.Add(geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5, core.NewVec3(0.8, 0.6, 0.2)))
	s.Add(geometry.NewSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, core.NewVec3(1, 1, 1)))
	s.Add(geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.25, core.NewVec3(0.1, 0.2, 0.5)))

	return s
}
