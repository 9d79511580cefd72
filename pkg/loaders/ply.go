package loaders

import (
	"bufio"
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
	maxPrealloc   = 1 << 16
	maxListLength = 1 << 16
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// LoadPLY loads a PLY file as a triangle mesh
func LoadPLY(filename string) (*geometry.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	return ParsePLY(file, meshName(filename))
}

// ParsePLY reads a PLY stream. Polygons with more than three vertices are
// split into triangle fans.
func ParsePLY(r io.Reader, name string) (*geometry.Mesh, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var vertices []core.Vec3
	var faces []int

	switch header.Format {
	case "ascii":
		vertices, faces, err = readPLYASCII(reader, header)
	case "binary_little_endian":
		vertices, faces, err = readPLYBinary(reader, header, binary.LittleEndian)
	case "binary_big_endian":
		vertices, faces, err = readPLYBinary(reader, header, binary.BigEndian)
	default:
		return nil, fmt.Errorf("%w: PLY format %q", ErrUnsupportedFormat, header.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY data: %w", err)
	}

	return geometry.NewMeshFromFaces(name, vertices, faces, nil)
}

// parsePLYHeader reads header lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var currentElement string
	first := true

	for {
		raw, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("unexpected end of header: %w", err)
		}
		line := strings.TrimSpace(raw)

		if first {
			if line != "ply" {
				return nil, fmt.Errorf("missing ply magic, got %q", line)
			}
			first = false
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 3 {
				header.Format = parts[1]
				header.Version = parts[2]
			}
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}
			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	for _, axis := range []string{"x", "y", "z"} {
		if propertyIndex(header.VertexProps, axis) < 0 {
			return nil, fmt.Errorf("vertex element has no %q property", axis)
		}
	}
	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

func readPLYASCII(reader *bufio.Reader, header *PLYHeader) ([]core.Vec3, []int, error) {
	scanner := bufio.NewScanner(reader)
	nextFields := func() ([]string, error) {
		for scanner.Scan() {
			if fields := strings.Fields(scanner.Text()); len(fields) > 0 {
				return fields, nil
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.ErrUnexpectedEOF
	}

	xi, yi, zi := vertexAxes(header)
	vertices := make([]core.Vec3, 0, preallocSize(header.VertexCount))
	for i := 0; i < header.VertexCount; i++ {
		fields, err := nextFields()
		if err != nil {
			return nil, nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		if len(fields) < len(header.VertexProps) {
			return nil, nil, fmt.Errorf("vertex %d: expected %d values, got %d", i, len(header.VertexProps), len(fields))
		}
		var pos [3]float64
		for j, idx := range []int{xi, yi, zi} {
			pos[j], err = strconv.ParseFloat(fields[idx], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("vertex %d: %w", i, err)
			}
		}
		vertices = append(vertices, core.NewVec3(pos[0], pos[1], pos[2]))
	}

	faces := make([]int, 0, 3*preallocSize(header.FaceCount))
	for i := 0; i < header.FaceCount; i++ {
		fields, err := nextFields()
		if err != nil {
			return nil, nil, fmt.Errorf("face %d: %w", i, err)
		}
		count, err := strconv.Atoi(fields[0])
		if err != nil || count < 3 || len(fields) < count+1 {
			return nil, nil, fmt.Errorf("face %d: invalid vertex list %q", i, strings.Join(fields, " "))
		}
		polygon := make([]int, count)
		for j := range polygon {
			if polygon[j], err = strconv.Atoi(fields[j+1]); err != nil {
				return nil, nil, fmt.Errorf("face %d: %w", i, err)
			}
		}
		faces = appendFan(faces, polygon)
	}
	return vertices, faces, nil
}

func readPLYBinary(reader *bufio.Reader, header *PLYHeader, order binary.ByteOrder) ([]core.Vec3, []int, error) {
	xi, yi, zi := vertexAxes(header)
	vertices := make([]core.Vec3, 0, preallocSize(header.VertexCount))
	values := make([]float64, len(header.VertexProps))

	for i := 0; i < header.VertexCount; i++ {
		for j, prop := range header.VertexProps {
			if prop.IsList {
				if err := skipList(reader, prop, order); err != nil {
					return nil, nil, fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			v, err := readScalar(reader, prop.Type, order)
			if err != nil {
				return nil, nil, fmt.Errorf("vertex %d: %w", i, err)
			}
			values[j] = v
		}
		vertices = append(vertices, core.NewVec3(values[xi], values[yi], values[zi]))
	}

	faces := make([]int, 0, 3*preallocSize(header.FaceCount))
	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList {
				if _, err := readScalar(reader, prop.Type, order); err != nil {
					return nil, nil, fmt.Errorf("face %d: %w", i, err)
				}
				continue
			}
			count, err := readListCount(reader, prop, order)
			if err != nil {
				return nil, nil, fmt.Errorf("face %d: %w", i, err)
			}
			polygon := make([]int, count)
			for j := range polygon {
				idx, err := readScalar(reader, prop.DataType, order)
				if err != nil {
					return nil, nil, fmt.Errorf("face %d: %w", i, err)
				}
				polygon[j] = int(idx)
			}
			if prop.Name == "vertex_indices" || prop.Name == "vertex_index" {
				if len(polygon) < 3 {
					return nil, nil, fmt.Errorf("face %d has %d vertices", i, len(polygon))
				}
				faces = appendFan(faces, polygon)
			}
		}
	}
	return vertices, faces, nil
}

// appendFan triangulates a convex polygon as a fan around its first vertex
func appendFan(faces []int, polygon []int) []int {
	for k := 1; k+1 < len(polygon); k++ {
		faces = append(faces, polygon[0], polygon[k], polygon[k+1])
	}
	return faces
}

func vertexAxes(header *PLYHeader) (int, int, int) {
	return propertyIndex(header.VertexProps, "x"),
		propertyIndex(header.VertexProps, "y"),
		propertyIndex(header.VertexProps, "z")
}

func propertyIndex(props []PLYProperty, name string) int {
	for i, p := range props {
		if p.Name == name && !p.IsList {
			return i
		}
	}
	return -1
}

func skipList(reader *bufio.Reader, prop PLYProperty, order binary.ByteOrder) error {
	count, err := readListCount(reader, prop, order)
	if err != nil {
		return err
	}
	_, err = reader.Discard(count * getTypeSize(prop.DataType))
	return err
}

// readListCount reads the length prefix of a binary list property
func readListCount(reader *bufio.Reader, prop PLYProperty, order binary.ByteOrder) (int, error) {
	count, err := readScalar(reader, prop.ListType, order)
	if err != nil {
		return 0, err
	}
	if count < 0 || count > maxListLength || count != float64(int(count)) {
		return 0, fmt.Errorf("invalid list length %v for %s", count, prop.Name)
	}
	return int(count), nil
}

// preallocSize bounds slice capacity taken from header counts, which are
// untrusted until the data has actually been read
func preallocSize(count int) int {
	return min(count, maxPrealloc)
}

// readScalar reads one binary value of a PLY scalar type as float64
func readScalar(reader *bufio.Reader, dataType string, order binary.ByteOrder) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("%w: PLY type %q", ErrUnsupportedFormat, dataType)
	}
	var buf [8]byte
	if _, err := io.ReadFull(reader, buf[:size]); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	case "short", "int16":
		return float64(int16(order.Uint16(buf[:2]))), nil
	case "ushort", "uint16":
		return float64(order.Uint16(buf[:2])), nil
	case "int", "int32":
		return float64(int32(order.Uint32(buf[:4]))), nil
	case "uint", "uint32":
		return float64(order.Uint32(buf[:4])), nil
	case "float", "float32":
		return float64(math.Float32frombits(order.Uint32(buf[:4]))), nil
	default: // double, float64
		return math.Float64frombits(order.Uint64(buf[:8])), nil
	}
}

func getTypeSize(dataType string) int {
	switch dataType {
	case "char", "uchar", "int8", "uint8":
		return 1
	case "short", "ushort", "int16", "uint16":
		return 2
	case "int", "uint", "float", "int32", "uint32", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}
