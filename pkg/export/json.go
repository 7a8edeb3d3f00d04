package export

import (
	"encoding/json"
	"io"

	"github.com/Faultbox/depthmesh/pkg/mesh"
)

// WriteJSON writes m as {"vertices": [...], "colors": [...], "indices": [...]}.
func WriteJSON(w io.Writer, m *mesh.Mesh) error {
	out := *m
	// Empty meshes still carry arrays, not nulls.
	if out.Vertices == nil {
		out.Vertices = []float32{}
	}
	if out.Colors == nil {
		out.Colors = []float32{}
	}
	if out.Indices == nil {
		out.Indices = []uint32{}
	}
	return json.NewEncoder(w).Encode(&out)
}
