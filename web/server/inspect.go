package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	X            int                    `json:"x"`
	Y            int                    `json:"y"`
	Samples      int                    `json:"samples"`
	Color        string                 `json:"color"` // Averaged pixel colour as #rrggbb
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties"`
}

// handleInspect casts the primary ray through the centre of pixel (x, y)
// and reports what it hits together with the accumulated pixel value
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	session := s.requireSession(w)
	if session == nil {
		return
	}

	bounds := session.Buffer.Bounds()
	x, err := parseIntParam(r.URL.Query(), "x", -1, 0, bounds.Dx()-1)
	if err == nil && x < 0 {
		err = fmt.Errorf("x is required")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	y, err := parseIntParam(r.URL.Query(), "y", -1, 0, bounds.Dy()-1)
	if err == nil && y < 0 {
		err = fmt.Errorf("y is required")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := InspectResponse{
		X:            x,
		Y:            y,
		Samples:      session.Buffer.SampleCount(x, y),
		Color:        hexColor(session.Buffer.Color(x, y)),
		GeometryType: core.HitNone.String(),
		Properties:   map[string]interface{}{},
	}

	if session.World != nil && session.Camera != nil {
		ray := session.Camera.GetRay(x, y, 0.5, 0.5)
		if isect, hit := session.World.Intersect(ray, math.Inf(1)); hit {
			response.Hit = true
			response.GeometryType = isect.Kind.String()
			response.Point = [3]float64{isect.Point.X, isect.Point.Y, isect.Point.Z}
			response.Normal = [3]float64{isect.Normal.X, isect.Normal.Y, isect.Normal.Z}
			response.Distance = isect.Distance
			response.Properties = primitiveProperties(isect.Primitive)
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// primitiveProperties describes the primitive that was hit
func primitiveProperties(p core.Primitive) map[string]interface{} {
	properties := make(map[string]interface{})

	switch obj := p.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{obj.Center.X, obj.Center.Y, obj.Center.Z}
		properties["radius"] = obj.Radius
	case *geometry.Mesh:
		properties["name"] = obj.Name
		properties["polygons"] = obj.PolygonCount()
		properties["vertices"] = len(obj.Vertices)
	}

	if bounds := p.Bounds(); bounds != nil {
		properties["boundsMin"] = [3]float64{bounds.Start.X, bounds.Start.Y, bounds.Start.Z}
		properties["boundsMax"] = [3]float64{bounds.End.X, bounds.End.Y, bounds.End.Z}
		properties["longestAxis"] = bounds.LongestAxis().String()
	}
	return properties
}

// hexColor formats a linear colour as clamped #rrggbb without gamma
func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255+0.5), int(c.Y*255+0.5), int(c.Z*255+0.5))
}
