package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Primitive is anything a ray can be intersected with.
//
// Intersect only reports hits strictly nearer than maxT, which lets a caller
// thread the closest distance found so far through a list of candidates.
type Primitive interface {
	Intersect(ray Ray, maxT float64) (Intersection, bool)
	// Bounds returns the primitive's bounding box, or nil when it is empty.
	Bounds() *BoundingBox
}

// nopLogger discards all output
type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// NopLogger returns a Logger that discards everything
func NopLogger() Logger {
	return nopLogger{}
}
