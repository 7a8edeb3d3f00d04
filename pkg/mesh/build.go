package mesh

import (
	"errors"

	"github.com/Faultbox/depthmesh/pkg/math"
)

// BackgroundThreshold is the depth below which a sample counts as background.
// A quad with any corner below it is dropped.
const BackgroundThreshold float32 = 0.05

// Build errors.
var (
	ErrInputUnavailable = errors.New("input buffer unavailable")
)

// quad holds the four corners of one grid cell.
// Corner order: [0]=(x,y), [1]=(x+1,y), [2]=(x,y+1), [3]=(x+1,y+1).
type quad struct {
	idx [4]int
	z   [4]float32
}

// quadAt returns the cell whose top-left sample is (x, y).
func quadAt(depth []float32, width, x, y int) quad {
	var q quad
	q.idx[0] = y*width + x
	q.idx[1] = y*width + x + 1
	q.idx[2] = (y+1)*width + x
	q.idx[3] = (y+1)*width + x + 1
	for i, idx := range q.idx {
		q.z[i] = depth[idx]
	}
	return q
}

// background reports whether any corner lies behind the threshold.
func (q quad) background() bool {
	for _, z := range q.z {
		if z < BackgroundThreshold {
			return true
		}
	}
	return false
}

// Build converts a depth map and an RGBA image of the same dimensions into a
// mesh. depth must hold width*height samples and color width*height*4 bytes;
// shorter buffers are a caller error and panic on access.
//
// A nil buffer returns ErrInputUnavailable and no mesh. Grids narrower or
// shorter than two samples produce an empty mesh.
func Build(depth []float32, color []uint8, width, height int) (*Mesh, error) {
	if depth == nil || color == nil {
		return nil, ErrInputUnavailable
	}

	m := newMesh(width, height)
	buildRows(m, depth, color, width, height, 0, height-1)
	return m, nil
}

// newMesh allocates output buffers sized for a width x height grid.
func newMesh(width, height int) *Mesh {
	n := 0
	if width > 1 && height > 1 {
		n = width * height
	}
	return &Mesh{
		Vertices: make([]float32, 0, n*3),
		Colors:   make([]float32, 0, n*3),
		Indices:  make([]uint32, 0, n*6),
	}
}

// buildRows emits geometry for quad rows [y0, y1) into m.
func buildRows(m *Mesh, depth []float32, color []uint8, width, height, y0, y1 int) {
	for y := y0; y < y1; y++ {
		for x := 0; x < width-1; x++ {
			q := quadAt(depth, width, x, y)
			if q.background() {
				continue
			}

			var v [4]uint32
			for i := range q.idx {
				v[i] = m.appendVertex(sampleVertex(q.idx[i], q.z[i], width, height, color))
			}

			m.appendTriangle(v[0], v[1], v[2])
			m.appendTriangle(v[1], v[3], v[2])
		}
	}
}

// sampleVertex derives the vertex for grid sample idx with depth z.
// The grid is centered on the origin, Y points up and depth goes into -Z.
func sampleVertex(idx int, z float32, width, height int, color []uint8) Vertex {
	px := float32(idx % width)
	py := float32(idx / width)

	c := idx * 4 // RGBA
	return Vertex{
		Position: math.Vec3{
			X: px - float32(width)*0.5,
			Y: -(py - float32(height)*0.5),
			Z: -z,
		},
		Color: [3]float32{
			float32(color[c]) / 255.0,
			float32(color[c+1]) / 255.0,
			float32(color[c+2]) / 255.0,
		},
	}
}
