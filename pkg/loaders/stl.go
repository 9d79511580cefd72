package loaders

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50 // normal + 3 vertices as float32, plus attribute count
)

// LoadSTL loads an ASCII or binary STL file as a triangle mesh
func LoadSTL(filename string) (*geometry.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open STL file: %w", err)
	}
	defer file.Close()

	return ParseSTL(file, meshName(filename))
}

// ParseSTL reads an STL stream. Binary files are recognised by their size
// matching the triangle count in the header, since some exporters also start
// binary headers with "solid".
func ParseSTL(r io.Reader, name string) (*geometry.Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}

	w := newVertexWelder()
	if isBinarySTL(data) {
		err = parseBinarySTL(data, w)
	} else if bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid")) {
		err = parseASCIISTL(bytes.NewReader(data), w)
	} else {
		return nil, fmt.Errorf("%w: not an STL file", ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	return geometry.NewMeshFromFaces(name, w.vertices, w.faces, nil)
}

func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return len(data) == stlHeaderSize+4+int(count)*stlTriangleSize
}

func parseBinarySTL(data []byte, w *vertexWelder) error {
	count := int(binary.LittleEndian.Uint32(data[stlHeaderSize:]))
	offset := stlHeaderSize + 4

	readVec := func(at int) core.Vec3 {
		x := math.Float32frombits(binary.LittleEndian.Uint32(data[at:]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(data[at+4:]))
		z := math.Float32frombits(binary.LittleEndian.Uint32(data[at+8:]))
		return core.NewVec3(float64(x), float64(y), float64(z))
	}

	for i := 0; i < count; i++ {
		base := offset + i*stlTriangleSize
		// skip the stored facet normal, it is recomputed from the winding
		w.addTriangle(readVec(base+12), readVec(base+24), readVec(base+36))
	}
	return nil
}

func parseASCIISTL(r io.Reader, w *vertexWelder) error {
	scanner := bufio.NewScanner(r)
	var vertices []core.Vec3
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "vertex":
			if len(fields) < 4 {
				return fmt.Errorf("line %d: vertex needs 3 coordinates", lineNumber)
			}
			var pos [3]float64
			for j := range pos {
				v, err := strconv.ParseFloat(fields[j+1], 64)
				if err != nil {
					return fmt.Errorf("line %d: %w", lineNumber, err)
				}
				pos[j] = v
			}
			vertices = append(vertices, core.NewVec3(pos[0], pos[1], pos[2]))

		case "endfacet":
			if len(vertices) != 3 {
				return fmt.Errorf("line %d: facet has %d vertices", lineNumber, len(vertices))
			}
			w.addTriangle(vertices[0], vertices[1], vertices[2])
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ASCII STL: %w", err)
	}
	return nil
}

// vertexWelder shares identical vertex positions between facets
type vertexWelder struct {
	index    map[core.Vec3]int
	vertices []core.Vec3
	faces    []int
}

func newVertexWelder() *vertexWelder {
	return &vertexWelder{index: make(map[core.Vec3]int)}
}

func (w *vertexWelder) addTriangle(v0, v1, v2 core.Vec3) {
	for _, v := range [3]core.Vec3{v0, v1, v2} {
		idx, ok := w.index[v]
		if !ok {
			idx = len(w.vertices)
			w.index[v] = idx
			w.vertices = append(w.vertices, v)
		}
		w.faces = append(w.faces, idx)
	}
}
