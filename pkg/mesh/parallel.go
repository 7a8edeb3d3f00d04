package mesh

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BuildParallel is Build split across up to workers goroutines.
// Quad rows are divided into contiguous bands which are joined back in row
// order, so the result is identical to Build for the same input.
func BuildParallel(ctx context.Context, depth []float32, color []uint8, width, height, workers int) (*Mesh, error) {
	if depth == nil || color == nil {
		return nil, ErrInputUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := height - 1
	if workers <= 1 || rows < 2 || width < 2 {
		return Build(depth, color, width, height)
	}
	if workers > rows {
		workers = rows
	}

	bandRows := (rows + workers - 1) / workers
	bands := make([]*Mesh, 0, workers)
	for y0 := 0; y0 < rows; y0 += bandRows {
		n := min(bandRows, rows-y0)
		bands = append(bands, &Mesh{
			Vertices: make([]float32, 0, n*width*12),
			Colors:   make([]float32, 0, n*width*12),
			Indices:  make([]uint32, 0, n*width*6),
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, band := range bands {
		y0 := i * bandRows
		y1 := min(y0+bandRows, rows)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buildRows(band, depth, color, width, height, y0, y1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return joinBands(bands), nil
}

// joinBands concatenates band meshes in order, rebasing each band's indices
// onto the vertices that precede it.
func joinBands(bands []*Mesh) *Mesh {
	var nv, ni int
	for _, b := range bands {
		nv += len(b.Vertices)
		ni += len(b.Indices)
	}

	m := &Mesh{
		Vertices: make([]float32, 0, nv),
		Colors:   make([]float32, 0, nv),
		Indices:  make([]uint32, 0, ni),
	}
	for _, b := range bands {
		base := uint32(m.VertexCount())
		m.Vertices = append(m.Vertices, b.Vertices...)
		m.Colors = append(m.Colors, b.Colors...)
		for _, idx := range b.Indices {
			m.Indices = append(m.Indices, base+idx)
		}
	}
	return m
}
