package mesh

import (
	"errors"
	"fmt"
)

// Input and output check errors.
var (
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	ErrBufferSize        = errors.New("buffer size does not match dimensions")
	ErrInvalidMesh       = errors.New("invalid mesh")
)

// CheckInput verifies the preconditions Build relies on. Build does not call
// it; callers that take buffers from untrusted sources should.
func CheckInput(depth []float32, color []uint8, width, height int) error {
	if depth == nil || color == nil {
		return ErrInputUnavailable
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if n := width * height; len(depth) != n {
		return fmt.Errorf("%w: depth has %d samples, want %d", ErrBufferSize, len(depth), n)
	}
	if n := width * height * 4; len(color) != n {
		return fmt.Errorf("%w: color has %d bytes, want %d", ErrBufferSize, len(color), n)
	}
	return nil
}

// Validate checks the structural invariants of a built mesh.
func (m *Mesh) Validate() error {
	if len(m.Vertices) != len(m.Colors) {
		return fmt.Errorf("%w: %d vertex floats, %d color floats", ErrInvalidMesh, len(m.Vertices), len(m.Colors))
	}
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("%w: vertex floats %d not a multiple of 3", ErrInvalidMesh, len(m.Vertices))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d not a multiple of 3", ErrInvalidMesh, len(m.Indices))
	}

	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrInvalidMesh, idx, i, n)
		}
	}
	return nil
}

// QuadStats summarizes how a depth grid fares under background culling.
type QuadStats struct {
	Total    int // quads in the grid
	Accepted int // quads that produce geometry
}

// Culled returns the number of dropped quads.
func (s QuadStats) Culled() int {
	return s.Total - s.Accepted
}

// Vertices returns the vertex count Build would emit.
func (s QuadStats) Vertices() int {
	return s.Accepted * 4
}

// Triangles returns the triangle count Build would emit.
func (s QuadStats) Triangles() int {
	return s.Accepted * 2
}

// CountQuads runs the culling pass without emitting geometry.
func CountQuads(depth []float32, width, height int) QuadStats {
	var s QuadStats
	for y := 0; y < height-1; y++ {
		for x := 0; x < width-1; x++ {
			s.Total++
			if !quadAt(depth, width, x, y).background() {
				s.Accepted++
			}
		}
	}
	return s
}

// AcceptedMask marks every sample that belongs to at least one accepted quad.
func AcceptedMask(depth []float32, width, height int) []bool {
	mask := make([]bool, max(width*height, 0))
	for y := 0; y < height-1; y++ {
		for x := 0; x < width-1; x++ {
			q := quadAt(depth, width, x, y)
			if q.background() {
				continue
			}
			for _, idx := range q.idx {
				mask[idx] = true
			}
		}
	}
	return mask
}
