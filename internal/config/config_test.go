package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Window.MSAA != 4 {
		t.Errorf("expected 4x MSAA, got %d", cfg.Window.MSAA)
	}

	if cfg.Track.Width != 2 {
		t.Errorf("expected track width 2, got %v", cfg.Track.Width)
	}
	if cfg.Track.PointsPerSegment != 10 {
		t.Errorf("expected 10 points per segment, got %d", cfg.Track.PointsPerSegment)
	}
	if cfg.Track.Basis != "bspline" {
		t.Errorf("expected bspline basis, got %s", cfg.Track.Basis)
	}

	if cfg.Export.TrackOBJ != "track.obj" {
		t.Errorf("expected track.obj, got %s", cfg.Export.TrackOBJ)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  vsync: false

track:
  width: 3.5
  points_per_segment: 25
  basis: catmull-rom
  normals: face
  winding: cw
  workers: 4

export:
  dir: build
  scene_file: circuit.scene

viewer:
  car_obj: assets/car.obj
  car_step: 3

logging:
  level: "debug"
  log_file: "trackforge.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Track.Width != 3.5 {
		t.Errorf("expected track width 3.5, got %v", cfg.Track.Width)
	}
	if cfg.Track.PointsPerSegment != 25 {
		t.Errorf("expected 25 points per segment, got %d", cfg.Track.PointsPerSegment)
	}
	if cfg.Track.Basis != "catmull-rom" || cfg.Track.Normals != "face" || cfg.Track.Winding != "cw" {
		t.Errorf("unexpected track options %+v", cfg.Track)
	}
	if cfg.Track.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Track.Workers)
	}
	if cfg.Export.Dir != "build" || cfg.Export.SceneFile != "circuit.scene" {
		t.Errorf("unexpected export config %+v", cfg.Export)
	}
	// keys absent from the file keep their defaults
	if cfg.Export.TrackOBJ != "track.obj" {
		t.Errorf("expected default track.obj, got %s", cfg.Export.TrackOBJ)
	}
	if cfg.Viewer.CarOBJ != "assets/car.obj" || cfg.Viewer.CarStep != 3 {
		t.Errorf("unexpected viewer config %+v", cfg.Viewer)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "trackforge.log" {
		t.Errorf("expected log file 'trackforge.log', got %s", cfg.Logging.LogFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should be valid: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
track:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0o644); err != nil {
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

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Track.Width = 0 }},
		{"negative width", func(c *Config) { c.Track.Width = -2 }},
		{"zero pps", func(c *Config) { c.Track.PointsPerSegment = 0 }},
		{"unknown basis", func(c *Config) { c.Track.Basis = "nurbs" }},
		{"bezier loop", func(c *Config) { c.Track.Basis = "bezier" }},
		{"unknown normals", func(c *Config) { c.Track.Normals = "smooth" }},
		{"unknown winding", func(c *Config) { c.Track.Winding = "sideways" }},
		{"window size", func(c *Config) { c.Window.Height = 0 }},
		{"no track file", func(c *Config) { c.Export.TrackOBJ = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
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
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("trackforge.yaml", []byte("track:\n  width: 4\n"), 0o644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find trackforge.yaml in current directory")
	}
}

func newFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return f
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "window size",
			args: []string{"-width", "2560", "-height", "1440"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
		},
		{
			name: "track options",
			args: []string{"-track-width", "1.5", "-pps", "40", "-basis", "catmull-rom", "-workers", "8"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Track.Width != 1.5 {
					t.Errorf("expected track width 1.5, got %v", cfg.Track.Width)
				}
				if cfg.Track.PointsPerSegment != 40 {
					t.Errorf("expected pps 40, got %d", cfg.Track.PointsPerSegment)
				}
				if cfg.Track.Basis != "catmull-rom" {
					t.Errorf("expected catmull-rom, got %s", cfg.Track.Basis)
				}
				if cfg.Track.Workers != 8 {
					t.Errorf("expected 8 workers, got %d", cfg.Track.Workers)
				}
			},
		},
		{
			name: "out dir",
			args: []string{"-out", "/tmp/tracks"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.Dir != "/tmp/tracks" {
					t.Errorf("expected export dir /tmp/tracks, got %s", cfg.Export.Dir)
				}
			},
		},
		{
			name: "no flags",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if *cfg != *Default() {
					t.Errorf("expected defaults, got %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			newFlags(t, tt.args...).apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
track:
  width: 5
  points_per_segment: 30
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadWithFlags(newFlags(t, "-config", configPath, "-track-width", "7"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Track.Width != 7 {
		t.Errorf("expected width 7 from flag, got %v", cfg.Track.Width)
	}
	if cfg.Track.PointsPerSegment != 30 {
		t.Errorf("expected pps 30 from file, got %d", cfg.Track.PointsPerSegment)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("track:\n  width: -1\n"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadWithFlags(newFlags(t, "-config", configPath)); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Track.Basis = "catmull-rom"
	cfg.Viewer.CarOBJ = "car.obj"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}
