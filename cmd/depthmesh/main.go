// depthmesh converts a depth map and a color image into a colored triangle mesh.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/depthmesh/internal/config"
	"github.com/Faultbox/depthmesh/internal/logger"
	"github.com/Faultbox/depthmesh/internal/pipeline"
	"github.com/Faultbox/depthmesh/pkg/export"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build", "b":
		cmdBuild(args)
	case "stats":
		cmdStats(args)
	case "info":
		cmdInfo(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`depthmesh - depth map to colored triangle mesh

Usage:
  depthmesh <command> [options]

Commands:
  build [flags]           Build a mesh from a depth map and color image
  stats [flags]           Report background culling without writing a mesh
  info <mesh.ply>         Show counts and bounds of a written PLY mesh
  config [flags] [file]   Save the effective config (default: user config dir)

Build flags:
  -config <file>          YAML config (default: ./depthmesh.yaml)
  -depth <file>           Depth map (.bin/.raw/.f32 float32, or grayscale image)
  -color <file>           Color image (PNG, JPEG, GIF, TGA, WebP), - for stdin
  -width, -height         Grid size for raw depth input
  -out <file>             Output mesh (.ply, .obj, .stl, .json)
  -preview <file>         Write a culling preview WebP
  -depth-preview <file>   Write a grayscale depth preview WebP
  -workers <n>            Build rows in parallel

Examples:
  depthmesh build -depth depth.bin -width 256 -height 192 -color photo.jpg -out scan.ply
  depthmesh build -depth depth.png -invert-depth -color photo.png -out scan.obj -preview cull.webp
  depthmesh stats -config scan.yaml -depth-preview depth.webp
  depthmesh config -workers 4 -format obj scan.yaml
  depthmesh info scan.ply`)
}

// setup parses build flags, loads config and initializes logging.
func setup(args []string) *config.Config {
	if err := config.ParseFlags(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	fileCfg := logger.FileConfig{
		Path:       cfg.Logging.LogFile,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Sugar.Debugf("Config: %+v", cfg)
	return cfg
}

func cmdBuild(args []string) {
	cfg := setup(args)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := pipeline.Run(ctx, cfg)
	if errors.Is(err, context.Canceled) {
		logger.Info("build interrupted")
		logger.Sync()
		os.Exit(130)
	}
	if err != nil {
		logger.Error("build failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	fmt.Printf("Grid:      %dx%d\n", res.Width, res.Height)
	fmt.Printf("Quads:     %d accepted, %d culled\n", res.Quads.Accepted, res.Quads.Culled())
	fmt.Printf("Vertices:  %d\n", res.Vertices)
	fmt.Printf("Triangles: %d\n", res.Triangles)
	fmt.Printf("Output:    %s (%s)\n", res.Output, res.Format)
	if res.Preview != "" {
		fmt.Printf("Preview:   %s\n", res.Preview)
	}
	if res.DepthView != "" {
		fmt.Printf("Depth:     %s\n", res.DepthView)
	}
}

func cmdStats(args []string) {
	cfg := setup(args)
	defer logger.Sync()

	in, stats, err := pipeline.Stats(cfg)
	if err != nil {
		logger.Fatal("stats failed", zap.Error(err))
	}

	lo, hi := in.Depth.Range()
	pct := 0.0
	if stats.Total > 0 {
		pct = float64(stats.Accepted) * 100 / float64(stats.Total)
	}

	fmt.Printf("Grid:      %dx%d\n", in.Depth.Width, in.Depth.Height)
	fmt.Printf("Depth:     %.4f .. %.4f\n", lo, hi)
	fmt.Printf("Quads:     %d total\n", stats.Total)
	fmt.Printf("Accepted:  %d (%.1f%%)\n", stats.Accepted, pct)
	fmt.Printf("Culled:    %d\n", stats.Culled())
	fmt.Printf("Vertices:  %d\n", stats.Vertices())
	fmt.Printf("Triangles: %d\n", stats.Triangles())
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: depthmesh info <mesh.ply>")
		os.Exit(1)
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	m, err := export.ReadPLY(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	valid := "ok"
	if err := m.Validate(); err != nil {
		valid = err.Error()
	}

	b := m.Bounds()
	size := b.Size()
	fmt.Printf("Mesh:      %s\n", args[0])
	fmt.Printf("Vertices:  %d\n", m.VertexCount())
	fmt.Printf("Triangles: %d\n", m.TriangleCount())
	fmt.Printf("Bounds:    (%.3f, %.3f, %.3f) .. (%.3f, %.3f, %.3f)\n",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	center := b.Center()
	fmt.Printf("Center:    (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
	fmt.Printf("Size:      %.3f x %.3f x %.3f (diagonal %.3f)\n", size.X, size.Y, size.Z, size.Length())
	fmt.Printf("Valid:     %s\n", valid)
}

// cmdConfig writes the effective config (defaults, file and flags merged)
// so it can be reused with -config.
func cmdConfig(args []string) {
	cfg := setup(args)
	defer logger.Sync()

	var err error
	path := filepath.Join(config.ConfigDir(), "config.yaml")
	if rest := config.Args(); len(rest) > 0 {
		path = rest[0]
		err = cfg.SaveTo(path)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		logger.Fatal("saving config failed", zap.String("path", path), zap.Error(err))
	}
	fmt.Printf("Config saved to %s\n", path)
}
