package config

import "flag"

// Flags is the flag set for the build command. Subcommands that share the
// build settings parse their arguments through it.
var Flags = flag.NewFlagSet("depthmesh", flag.ContinueOnError)

var (
	flagConfig      = Flags.String("config", "", "Path to config file")
	flagDebug       = Flags.Bool("debug", false, "Enable debug logging")
	flagDepth       = Flags.String("depth", "", "Depth map path (raw float32 or grayscale image)")
	flagColor       = Flags.String("color", "", "Color image path, or - for stdin")
	flagDepthFormat = Flags.String("depth-format", "", "Depth format: auto, raw or image")
	flagWidth       = Flags.Int("width", 0, "Raw depth width")
	flagHeight      = Flags.Int("height", 0, "Raw depth height")
	flagInvert      = Flags.Bool("invert-depth", false, "Treat white as near in depth images")
	flagScale       = Flags.Float64("depth-scale", 0, "Depth multiplier")
	flagOut         = Flags.String("out", "", "Output mesh path")
	flagFormat      = Flags.String("format", "", "Output format: ply, obj, stl or json")
	flagPreview     = Flags.String("preview", "", "Write a culling preview WebP to this path")
	flagDepthView   = Flags.String("depth-preview", "", "Write a grayscale depth preview WebP to this path")
	flagWorkers     = Flags.Int("workers", 0, "Parallel build workers")
	flagLogFile     = Flags.String("log-file", "", "Also log to this file (rotated)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags(args []string) error {
	return Flags.Parse(args)
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return Flags.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDepth != "" {
		cfg.Input.Depth = *flagDepth
	}
	if *flagColor != "" {
		cfg.Input.Color = *flagColor
	}
	if *flagDepthFormat != "" {
		cfg.Input.DepthFormat = *flagDepthFormat
	}
	if *flagWidth > 0 {
		cfg.Input.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Input.Height = *flagHeight
	}
	if *flagInvert {
		cfg.Input.InvertDepth = true
	}
	if *flagScale > 0 {
		cfg.Input.DepthScale = float32(*flagScale)
	}
	if *flagOut != "" {
		cfg.Output.Path = *flagOut
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagPreview != "" {
		cfg.Output.Preview = *flagPreview
	}
	if *flagDepthView != "" {
		cfg.Output.DepthPreview = *flagDepthView
	}
	if *flagWorkers > 0 {
		cfg.Build.Workers = *flagWorkers
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
