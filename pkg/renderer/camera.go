package renderer

import (
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// CameraConfig describes a pinhole camera
type CameraConfig struct {
	LookFrom core.Vec3
	LookAt   core.Vec3
	Up       core.Vec3
	VFov     float64 // Vertical field of view in degrees
	Width    int     // Image width in pixels
	Height   int     // Image height in pixels
}

// Camera generates primary rays for pixel coordinates
type Camera struct {
	origin        core.Vec3
	upperLeft     core.Vec3
	horizontal    core.Vec3
	vertical      core.Vec3
	width, height int
}

// NewCamera creates a pinhole camera. Pixel row 0 is the top of the image.
func NewCamera(config CameraConfig) *Camera {
	core.Assert(config.Width > 0 && config.Height > 0, "camera image size %dx%d must be positive", config.Width, config.Height)
	if config.Up == (core.Vec3{}) {
		config.Up = core.NewVec3(0, 1, 0)
	}
	if config.VFov <= 0 {
		config.VFov = 45
	}

	aspectRatio := float64(config.Width) / float64(config.Height)
	viewportHeight := 2.0 * math.Tan(config.VFov*math.Pi/360.0)
	viewportWidth := aspectRatio * viewportHeight

	// Orthonormal camera basis
	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(-viewportHeight) // rows grow downwards
	upperLeft := config.LookFrom.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		origin:     config.LookFrom,
		upperLeft:  upperLeft,
		horizontal: horizontal,
		vertical:   vertical,
		width:      config.Width,
		height:     config.Height,
	}
}

// GetRay returns the ray through pixel (x, y) offset by (dx, dy) in [0,1)
// within the pixel; (0.5, 0.5) is the pixel centre
func (c *Camera) GetRay(x, y int, dx, dy float64) core.Ray {
	s := (float64(x) + dx) / float64(c.width)
	t := (float64(y) + dy) / float64(c.height)

	direction := c.upperLeft.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}
