package export

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Faultbox/depthmesh/pkg/mesh"
)

// Triangles converts m to sdfx triangles. Colors are dropped.
func Triangles(m *mesh.Mesh) []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for i := 0; i < len(m.Indices); i += 3 {
		var t sdf.Triangle3
		for j := 0; j < 3; j++ {
			p := m.Vertex(int(m.Indices[i+j])).Position
			t[j] = v3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
		}
		tris = append(tris, &t)
	}
	return tris
}

// SaveSTL writes the mesh geometry as a binary STL file.
func SaveSTL(path string, m *mesh.Mesh) error {
	return render.SaveSTL(path, Triangles(m))
}
