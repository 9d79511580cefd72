package loaders

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-tile-raytracer/pkg/geometry"
)

// ErrUnsupportedFormat is returned for mesh files or encodings that cannot be read
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// LoadMesh loads a mesh, choosing the parser from the file extension
func LoadMesh(filename string) (*geometry.Mesh, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".stl":
		return LoadSTL(filename)
	case ".ply":
		return LoadPLY(filename)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

func meshName(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}
