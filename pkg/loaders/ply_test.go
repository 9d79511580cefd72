package loaders

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

func TestParsePLY_ASCIIQuadIsFanned(t *testing.T) {
	input := `ply
format ascii 1.0
comment unit quad
element vertex 4
property float x
property float y
property float z
property float nx
element face 1
property list uchar int vertex_indices
end_header
0 0 0 0
1 0 0 0
1 1 0 0
0 1 0 0
4 0 1 2 3
`
	mesh, err := ParsePLY(strings.NewReader(input), "quad")
	if err != nil {
		t.Fatalf("ParsePLY failed: %v", err)
	}
	if mesh.PolygonCount() != 2 {
		t.Errorf("Expected quad to become 2 triangles, got %d", mesh.PolygonCount())
	}
	if mesh.Polygons[1].VertexIndex != [3]int{0, 2, 3} {
		t.Errorf("Expected fan triangle (0,2,3), got %v", mesh.Polygons[1].VertexIndex)
	}
	if mesh.Root.End != core.NewVec3(1, 1, 0) {
		t.Errorf("Unexpected root end %v", mesh.Root.End)
	}
}

func TestParsePLY_BinaryLittleEndian(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("ply\nformat binary_little_endian 1.0\nelement vertex 3\n" +
		"property float x\nproperty float y\nproperty float z\nproperty uchar red\n" +
		"element face 1\nproperty uchar flags\nproperty list uchar int vertex_indices\nend_header\n")
	for _, v := range [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 3, 1}} {
		binary.Write(&buf, binary.LittleEndian, v)
		buf.WriteByte(255)
	}
	buf.WriteByte(7) // flags
	buf.WriteByte(3)
	binary.Write(&buf, binary.LittleEndian, [3]int32{0, 1, 2})

	mesh, err := ParsePLY(&buf, "tri")
	if err != nil {
		t.Fatalf("ParsePLY failed: %v", err)
	}
	if len(mesh.Vertices) != 3 || mesh.PolygonCount() != 1 {
		t.Fatalf("Expected 3 vertices and 1 polygon, got %d and %d", len(mesh.Vertices), mesh.PolygonCount())
	}
	if mesh.Vertices[2] != core.NewVec3(0, 3, 1) {
		t.Errorf("Unexpected third vertex %v", mesh.Vertices[2])
	}
}

func TestParsePLY_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no magic", "format ascii 1.0\nend_header\n"},
		{"missing z", "ply\nformat ascii 1.0\nelement vertex 0\nproperty float x\nproperty float y\nend_header\n"},
		{"unknown format", "ply\nformat utf8 1.0\nelement vertex 0\nproperty float x\nproperty float y\nproperty float z\nend_header\n"},
		{"truncated vertices", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 0 0\n"},
		{"bad face index", "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n3 0 1 9\n"},
		{"negative vertex count", "ply\nformat ascii 1.0\nelement vertex -1\nproperty float x\nproperty float y\nproperty float z\nend_header\n"},
		{"huge face count", "ply\nformat ascii 1.0\nelement vertex 0\nproperty float x\nproperty float y\nproperty float z\nelement face 4611686018427387904\nproperty list uchar int vertex_indices\nend_header\n"},
		{"huge binary vertex count", "ply\nformat binary_little_endian 1.0\nelement vertex 4611686018427387904\nproperty float x\nproperty float y\nproperty float z\nend_header\n"},
		{"negative binary list length", binaryTrianglePLY("char", []byte{0xff})},
		{"huge binary list length", binaryTrianglePLY("int", []byte{0xff, 0xff, 0xff, 0x7f})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePLY(strings.NewReader(tt.input), "bad"); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

// binaryTrianglePLY builds a little-endian PLY with three vertices and one
// face whose list length is the raw bytes of count
func binaryTrianglePLY(listType string, count []byte) string {
	var buf bytes.Buffer
	buf.WriteString("ply\nformat binary_little_endian 1.0\nelement vertex 3\n" +
		"property float x\nproperty float y\nproperty float z\n" +
		"element face 1\nproperty list " + listType + " int vertex_indices\nend_header\n")
	for _, v := range [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}} {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	buf.Write(count)
	return buf.String()
}
