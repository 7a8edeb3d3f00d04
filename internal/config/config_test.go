package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// resetFlags restores every flag to its zero value.
func resetFlags() {
	*flagConfig = ""
	*flagDebug = false
	*flagDepth = ""
	*flagColor = ""
	*flagDepthFormat = ""
	*flagWidth = 0
	*flagHeight = 0
	*flagInvert = false
	*flagScale = 0
	*flagOut = ""
	*flagFormat = ""
	*flagPreview = ""
	*flagDepthView = ""
	*flagWorkers = 0
	*flagLogFile = ""
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Input.DepthFormat != DepthAuto {
		t.Errorf("expected depth format auto, got %s", cfg.Input.DepthFormat)
	}
	if cfg.Input.DepthScale != 1.0 {
		t.Errorf("expected depth scale 1.0, got %f", cfg.Input.DepthScale)
	}
	if cfg.Output.Path != "mesh.ply" {
		t.Errorf("expected output mesh.ply, got %s", cfg.Output.Path)
	}
	if cfg.Build.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.Build.Workers)
	}
	if !cfg.Build.Validate {
		t.Error("expected validate to be true by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Logging.MaxSizeMB != 50 || cfg.Logging.MaxBackups != 3 || cfg.Logging.MaxAgeDays != 7 {
		t.Errorf("unexpected rotation defaults: %+v", cfg.Logging)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "depthmesh.yaml")

	yamlContent := `
input:
  depth: "scan/depth.bin"
  color: "scan/color.png"
  depth_format: raw
  width: 256
  height: 192
  invert_depth: true
  depth_scale: 2.5

output:
  path: "out/scan.obj"
  format: obj
  preview: "out/preview.webp"

build:
  workers: 4
  validate: false

logging:
  level: "debug"
  log_file: "depthmesh.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Input.Depth != "scan/depth.bin" {
		t.Errorf("expected depth scan/depth.bin, got %s", cfg.Input.Depth)
	}
	if cfg.Input.Width != 256 || cfg.Input.Height != 192 {
		t.Errorf("expected 256x192, got %dx%d", cfg.Input.Width, cfg.Input.Height)
	}
	if !cfg.Input.InvertDepth {
		t.Error("expected invert_depth to be true")
	}
	if cfg.Input.DepthScale != 2.5 {
		t.Errorf("expected depth scale 2.5, got %f", cfg.Input.DepthScale)
	}
	if cfg.Output.Format != "obj" {
		t.Errorf("expected format obj, got %s", cfg.Output.Format)
	}
	if cfg.Output.Preview != "out/preview.webp" {
		t.Errorf("expected preview path, got %s", cfg.Output.Preview)
	}
	if cfg.Build.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Build.Workers)
	}
	if cfg.Build.Validate {
		t.Error("expected validate to be false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}

	// Unset keys keep their defaults
	if cfg.Logging.MaxBackups != 3 {
		t.Errorf("expected default max backups 3, got %d", cfg.Logging.MaxBackups)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
input:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "depthmesh.yaml")
	if err := os.WriteFile(configPath, []byte("build:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find depthmesh.yaml in current directory")
	}
}

func TestParseFlags(t *testing.T) {
	defer resetFlags()

	err := ParseFlags([]string{"-depth", "d.png", "-color", "c.png", "-workers", "3", "-debug", "extra"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	cfg := Default()
	applyFlags(cfg)

	if cfg.Input.Depth != "d.png" || cfg.Input.Color != "c.png" {
		t.Errorf("expected inputs from flags, got %+v", cfg.Input)
	}
	if cfg.Build.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Build.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
	if args := Args(); len(args) != 1 || args[0] != "extra" {
		t.Errorf("expected positional [extra], got %v", args)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		setup  func()
		verify func(*testing.T, *Config)
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "raw depth flags",
			setup: func() {
				*flagDepthFormat = DepthRaw
				*flagWidth = 640
				*flagHeight = 480
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Input.DepthFormat != DepthRaw {
					t.Errorf("expected raw format, got %s", cfg.Input.DepthFormat)
				}
				if cfg.Input.Width != 640 || cfg.Input.Height != 480 {
					t.Errorf("expected 640x480, got %dx%d", cfg.Input.Width, cfg.Input.Height)
				}
			},
		},
		{
			name: "output flags",
			setup: func() {
				*flagOut = "scan.stl"
				*flagFormat = "stl"
				*flagPreview = "p.webp"
				*flagDepthView = "d.webp"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Path != "scan.stl" || cfg.Output.Format != "stl" || cfg.Output.Preview != "p.webp" {
					t.Errorf("unexpected output config %+v", cfg.Output)
				}
				if cfg.Output.DepthPreview != "d.webp" {
					t.Errorf("unexpected output config %+v", cfg.Output)
				}
			},
		},
		{
			name: "depth shaping flags",
			setup: func() {
				*flagInvert = true
				*flagScale = 0.5
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Input.InvertDepth {
					t.Error("expected invert depth")
				}
				if cfg.Input.DepthScale != 0.5 {
					t.Errorf("expected scale 0.5, got %f", cfg.Input.DepthScale)
				}
			},
		},
		{
			name:  "log file flag",
			setup: func() { *flagLogFile = "run.log" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.LogFile != "run.log" {
					t.Errorf("expected run.log, got %s", cfg.Logging.LogFile)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer resetFlags()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "depthmesh.yaml")

	yamlContent := `
input:
  width: 320
  height: 240
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 640
	defer resetFlags()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from flag, height from file
	if cfg.Input.Width != 640 {
		t.Errorf("expected width 640 from flag, got %d", cfg.Input.Width)
	}
	if cfg.Input.Height != 240 {
		t.Errorf("expected height 240 from file, got %d", cfg.Input.Height)
	}
}

func TestResolvedDepthFormat(t *testing.T) {
	tests := []struct {
		depth, format, want string
	}{
		{"d.bin", DepthAuto, DepthRaw},
		{"d.RAW", "", DepthRaw},
		{"d.f32", DepthAuto, DepthRaw},
		{"d.png", DepthAuto, DepthImage},
		{"d.bin", DepthImage, DepthImage},
		{"d.png", DepthRaw, DepthRaw},
	}

	for _, tt := range tests {
		in := InputConfig{Depth: tt.depth, DepthFormat: tt.format}
		if got := in.ResolvedDepthFormat(); got != tt.want {
			t.Errorf("%s (%s): expected %s, got %s", tt.depth, tt.format, tt.want, got)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Input.Depth = "d.bin"
		cfg.Input.Color = "c.png"
		cfg.Input.Width = 4
		cfg.Input.Height = 4
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"missing depth", func(c *Config) { c.Input.Depth = "" }, ErrMissingInput},
		{"missing color", func(c *Config) { c.Input.Color = "" }, ErrMissingInput},
		{"raw without dims", func(c *Config) { c.Input.Width = 0 }, ErrRawDimensions},
		{"image without dims", func(c *Config) { c.Input.Depth = "d.png"; c.Input.Width = 0 }, nil},
		{"bad depth format", func(c *Config) { c.Input.DepthFormat = "exr" }, ErrDepthFormat},
		{"zero workers", func(c *Config) { c.Build.Workers = 0 }, ErrInvalidWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "depthmesh.yaml")

	cfg := Default()
	cfg.Input.Depth = "depth.bin"
	cfg.Build.Workers = 8
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Input.Depth != "depth.bin" || loaded.Build.Workers != 8 {
		t.Errorf("saved config did not round trip: %+v", loaded)
	}
}

func TestSave(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("config dir follows XDG_CONFIG_HOME only on unix")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Output.Format = "obj"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, filepath.Join(ConfigDir(), "config.yaml")); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Output.Format != "obj" {
		t.Errorf("expected format obj, got %s", loaded.Output.Format)
	}
}
