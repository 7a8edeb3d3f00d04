// Package pipeline runs a configured depth-to-mesh conversion end to end.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/depthmesh/internal/config"
	"github.com/Faultbox/depthmesh/internal/imageio"
	"github.com/Faultbox/depthmesh/internal/logger"
	"github.com/Faultbox/depthmesh/internal/preview"
	"github.com/Faultbox/depthmesh/pkg/export"
	"github.com/Faultbox/depthmesh/pkg/mesh"
)

// Inputs holds the loaded, size-matched build inputs.
type Inputs struct {
	Depth *imageio.Depth
	Color *image.NRGBA
}

// Result summarizes one pipeline run.
type Result struct {
	Width     int
	Height    int
	Quads     mesh.QuadStats
	Vertices  int
	Triangles int
	Bounds    mesh.Bounds
	Output    string
	Format    export.Format
	Preview   string
	DepthView string
	Elapsed   time.Duration
}

// LoadInputs reads the depth map and color image named in cfg and resamples
// the color image to the depth grid if their sizes differ.
func LoadInputs(cfg *config.Config) (*Inputs, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var depth *imageio.Depth
	var err error
	switch cfg.Input.ResolvedDepthFormat() {
	case config.DepthRaw:
		depth, err = imageio.LoadDepthRaw(cfg.Input.Depth, cfg.Input.Width, cfg.Input.Height)
	default:
		depth, err = imageio.LoadDepthImage(cfg.Input.Depth, cfg.Input.InvertDepth)
	}
	if err != nil {
		return nil, fmt.Errorf("loading depth: %w", err)
	}
	if s := cfg.Input.DepthScale; s > 0 && s != 1 {
		depth.Scale(s)
	}

	color, err := imageio.LoadColor(cfg.Input.Color)
	if err != nil {
		return nil, fmt.Errorf("loading color: %w", err)
	}
	if b := color.Bounds(); b.Dx() != depth.Width || b.Dy() != depth.Height {
		logger.Warn("resampling color to depth grid",
			zap.Int("color_width", b.Dx()), zap.Int("color_height", b.Dy()),
			zap.Int("depth_width", depth.Width), zap.Int("depth_height", depth.Height))
		color = imageio.FitColor(color, depth.Width, depth.Height)
	}

	lo, hi := depth.Range()
	logger.Debug("inputs loaded",
		zap.String("depth", cfg.Input.Depth),
		zap.String("color", cfg.Input.Color),
		zap.Int("width", depth.Width),
		zap.Int("height", depth.Height),
		zap.Float32("depth_min", lo),
		zap.Float32("depth_max", hi))

	return &Inputs{Depth: depth, Color: color}, nil
}

// Stats loads the inputs and reports culling statistics without meshing.
// The depth preview is written when configured.
func Stats(cfg *config.Config) (*Inputs, mesh.QuadStats, error) {
	in, err := LoadInputs(cfg)
	if err != nil {
		return nil, mesh.QuadStats{}, err
	}
	if err := saveDepthPreview(cfg.Output.DepthPreview, in.Depth); err != nil {
		return nil, mesh.QuadStats{}, err
	}
	return in, mesh.CountQuads(in.Depth.Samples, in.Depth.Width, in.Depth.Height), nil
}

// saveDepthPreview writes a grayscale rendering of d to path; empty path is a no-op.
func saveDepthPreview(path string, d *imageio.Depth) error {
	if path == "" {
		return nil
	}
	img := preview.RenderDepth(d.Samples, d.Width, d.Height)
	if err := preview.Save(path, img); err != nil {
		return fmt.Errorf("saving depth preview: %w", err)
	}
	return nil
}

// outputFormat picks the configured format or derives it from the path.
func outputFormat(cfg *config.Config) (export.Format, error) {
	if cfg.Output.Format != "" {
		return export.ParseFormat(cfg.Output.Format)
	}
	return export.FormatFromPath(cfg.Output.Path)
}

// Run loads inputs, builds the mesh, writes it and the optional preview.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	start := time.Now()
	log := logger.Named("pipeline")

	format, err := outputFormat(cfg)
	if err != nil {
		return nil, err
	}

	in, err := LoadInputs(cfg)
	if err != nil {
		return nil, err
	}
	w, h := in.Depth.Width, in.Depth.Height

	m, err := mesh.BuildParallel(ctx, in.Depth.Samples, in.Color.Pix, w, h, cfg.Build.Workers)
	if err != nil {
		return nil, fmt.Errorf("building mesh: %w", err)
	}
	if cfg.Build.Validate {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}

	quads := mesh.QuadStats{Total: max(w-1, 0) * max(h-1, 0), Accepted: m.VertexCount() / 4}
	if m.IsEmpty() {
		log.Warn("mesh is empty; every quad was culled as background",
			zap.Int("quads", quads.Total))
	}

	if err := export.Save(cfg.Output.Path, format, m); err != nil {
		return nil, fmt.Errorf("saving mesh: %w", err)
	}

	if cfg.Output.Preview != "" {
		img, err := preview.Render(in.Depth.Samples, in.Color.Pix, w, h)
		if err != nil {
			return nil, fmt.Errorf("rendering preview: %w", err)
		}
		if err := preview.Save(cfg.Output.Preview, img); err != nil {
			return nil, err
		}
	}
	if err := saveDepthPreview(cfg.Output.DepthPreview, in.Depth); err != nil {
		return nil, err
	}

	res := &Result{
		Width:     w,
		Height:    h,
		Quads:     quads,
		Vertices:  m.VertexCount(),
		Triangles: m.TriangleCount(),
		Bounds:    m.Bounds(),
		Output:    cfg.Output.Path,
		Format:    format,
		Preview:   cfg.Output.Preview,
		DepthView: cfg.Output.DepthPreview,
		Elapsed:   time.Since(start),
	}

	log.Info("mesh written",
		zap.String("path", res.Output),
		zap.String("format", string(res.Format)),
		zap.Int("vertices", res.Vertices),
		zap.Int("triangles", res.Triangles),
		zap.Int("culled_quads", res.Quads.Culled()),
		zap.Int("workers", cfg.Build.Workers),
		zap.Duration("elapsed", res.Elapsed))

	return res, nil
}
