// Package mesh turns a depth map and an aligned RGBA image into a colored
// triangle mesh.
package mesh

import (
	"github.com/Faultbox/depthmesh/pkg/math"
)

// Vertex is a single emitted mesh vertex.
type Vertex struct {
	Position math.Vec3
	Color    [3]float32 // RGB in [0,1]
}

// Bounds holds the axis-aligned bounding box of the emitted positions.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Mesh is the build output. All arrays are flat: Vertices and Colors hold
// 3 floats per vertex, Indices holds 3 entries per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Colors   []float32 `json:"colors"`   // [r0,g0,b0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...]
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns the i-th emitted vertex.
func (m *Mesh) Vertex(i int) Vertex {
	p := m.Vertices[i*3 : i*3+3]
	c := m.Colors[i*3 : i*3+3]
	return Vertex{
		Position: math.Vec3{X: p[0], Y: p[1], Z: p[2]},
		Color:    [3]float32{c[0], c[1], c[2]},
	}
}

// Bounds computes the bounding box of all vertex positions.
// An empty mesh has zero bounds.
func (m *Mesh) Bounds() Bounds {
	if m.IsEmpty() {
		return Bounds{}
	}

	first := m.Vertex(0).Position
	b := Bounds{Min: first, Max: first}
	for i := 1; i < m.VertexCount(); i++ {
		p := m.Vertex(i).Position
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// appendVertex stores v and returns its index in the vertex list.
func (m *Mesh) appendVertex(v Vertex) uint32 {
	m.Vertices = append(m.Vertices, v.Position.X, v.Position.Y, v.Position.Z)
	m.Colors = append(m.Colors, v.Color[0], v.Color[1], v.Color[2])
	return uint32(len(m.Vertices)/3 - 1)
}

// appendTriangle stores one triangle.
func (m *Mesh) appendTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}
