package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/depthmesh/pkg/mesh"
)

// WriteOBJ writes m as Wavefront OBJ. Vertex colors use the widely read
// "v x y z r g b" extension; faces are 1-based.
func WriteOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# depthmesh\n# vertices %d\n# faces %d\n", m.VertexCount(), m.TriangleCount())
	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		fmt.Fprintf(bw, "v %g %g %g %g %g %g\n",
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Color[0], v.Color[1], v.Color[2])
	}
	for i := 0; i < len(m.Indices); i += 3 {
		fmt.Fprintf(bw, "f %d %d %d\n", m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1)
	}

	return bw.Flush()
}
