// Package export writes built meshes to common 3D interchange formats.
package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Faultbox/depthmesh/pkg/mesh"
)

// PLY errors.
var (
	ErrInvalidPLYMagic  = errors.New("invalid PLY magic: expected 'ply'")
	ErrUnsupportedPLY   = errors.New("unsupported PLY layout")
	ErrTruncatedPLYData = errors.New("truncated PLY data")
)

const plyHeader = `ply
format binary_little_endian 1.0
comment depthmesh
element vertex %d
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
element face %d
property list uchar uint vertex_indices
end_header
`

// plyReserve caps how many elements ReadPLY preallocates from header counts.
const plyReserve = 1 << 16

// plyVertex is the on-disk vertex record (15 bytes).
type plyVertex struct {
	Position [3]float32
	Color    [3]uint8
}

// plyFace is the on-disk face record (13 bytes).
type plyFace struct {
	Count   uint8
	Indices [3]uint32
}

// WritePLY writes m as binary little-endian PLY with 8-bit vertex colors.
func WritePLY(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, plyHeader, m.VertexCount(), m.TriangleCount()); err != nil {
		return err
	}

	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		rec := plyVertex{
			Position: v.Position.Array(),
			Color:    [3]uint8{toByte(v.Color[0]), toByte(v.Color[1]), toByte(v.Color[2])},
		}
		if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("writing vertex %d: %w", i, err)
		}
	}

	for i := 0; i < m.TriangleCount(); i++ {
		rec := plyFace{Count: 3, Indices: [3]uint32(m.Indices[i*3 : i*3+3])}
		if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("writing face %d: %w", i, err)
		}
	}

	return bw.Flush()
}

// ReadPLY reads a mesh written by WritePLY. Other PLY layouts are rejected.
func ReadPLY(r io.Reader) (*mesh.Mesh, error) {
	br := bufio.NewReader(r)

	magic, err := br.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, ErrInvalidPLYMagic
	}

	var vertexCount, faceCount int
	var props []string
header:
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: reading header", ErrTruncatedPLYData)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "end_header":
			break header
		case "format":
			if len(fields) < 2 || fields[1] != "binary_little_endian" {
				return nil, fmt.Errorf("%w: format %q", ErrUnsupportedPLY, strings.Join(fields[1:], " "))
			}
		case "element":
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: %q", ErrUnsupportedPLY, strings.TrimSpace(line))
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 0 || n > math.MaxInt/3 {
				return nil, fmt.Errorf("%w: element count %q", ErrUnsupportedPLY, fields[2])
			}
			switch fields[1] {
			case "vertex":
				vertexCount = n
			case "face":
				faceCount = n
			default:
				return nil, fmt.Errorf("%w: element %q", ErrUnsupportedPLY, fields[1])
			}
		case "property":
			props = append(props, strings.Join(fields[1:], " "))
		}
	}

	want := []string{
		"float x", "float y", "float z",
		"uchar red", "uchar green", "uchar blue",
		"list uchar uint vertex_indices",
	}
	if strings.Join(props, ",") != strings.Join(want, ",") {
		return nil, fmt.Errorf("%w: properties %v", ErrUnsupportedPLY, props)
	}

	m := &mesh.Mesh{
		Vertices: make([]float32, 0, min(vertexCount, plyReserve)*3),
		Colors:   make([]float32, 0, min(vertexCount, plyReserve)*3),
		Indices:  make([]uint32, 0, min(faceCount, plyReserve)*3),
	}

	for i := 0; i < vertexCount; i++ {
		var rec plyVertex
		if err := binary.Read(br, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("%w: vertex %d", ErrTruncatedPLYData, i)
		}
		m.Vertices = append(m.Vertices, rec.Position[:]...)
		for _, c := range rec.Color {
			m.Colors = append(m.Colors, float32(c)/255.0)
		}
	}

	for i := 0; i < faceCount; i++ {
		var rec plyFace
		if err := binary.Read(br, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("%w: face %d", ErrTruncatedPLYData, i)
		}
		if rec.Count != 3 {
			return nil, fmt.Errorf("%w: face %d has %d vertices", ErrUnsupportedPLY, i, rec.Count)
		}
		m.Indices = append(m.Indices, rec.Indices[:]...)
	}

	return m, nil
}

// toByte maps a [0,1] channel back to 0-255.
func toByte(c float32) uint8 {
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return uint8(c*255 + 0.5)
}
