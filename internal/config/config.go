// Package config handles trackforge configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/trackforge/internal/engine/spline"
	"github.com/Faultbox/trackforge/internal/engine/track"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Track   TrackConfig   `yaml:"track"`
	Export  ExportConfig  `yaml:"export"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds editor window settings.
type WindowConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	VSync  bool `yaml:"vsync"`
	MSAA   int  `yaml:"msaa"` // multisample count, 0 disables
}

// TrackConfig holds curve and ribbon generation settings.
type TrackConfig struct {
	Width            float32 `yaml:"width"`
	PointsPerSegment int     `yaml:"points_per_segment"`
	Basis            string  `yaml:"basis"`   // bspline, catmull-rom, bezier
	Normals          string  `yaml:"normals"` // flat, face
	Winding          string  `yaml:"winding"` // ccw, cw
	Workers          int     `yaml:"workers"` // >1 builds segments concurrently
	Material         string  `yaml:"material"`
}

// ExportConfig holds output file names. Relative names are placed in Dir.
type ExportConfig struct {
	Dir       string `yaml:"dir"`
	TrackOBJ  string `yaml:"track_obj"`
	TrackMTL  string `yaml:"track_mtl"`
	PathFile  string `yaml:"path_file"`
	SceneFile string `yaml:"scene_file"`
}

// ViewerConfig holds what the exported scene shows besides the track.
type ViewerConfig struct {
	CarOBJ  string `yaml:"car_obj"`
	CarMTL  string `yaml:"car_mtl"`
	CarStep int    `yaml:"car_step"` // path samples per frame
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
			MSAA:   4,
		},
		Track: TrackConfig{
			Width:            2,
			PointsPerSegment: 10,
			Basis:            "bspline",
			Normals:          "flat",
			Winding:          "ccw",
			Workers:          1,
			Material:         track.DefaultMaterial,
		},
		Export: ExportConfig{
			Dir:       "out",
			TrackOBJ:  "track.obj",
			TrackMTL:  "track.mtl",
			PathFile:  "animation.path",
			SceneFile: "track.scene",
		},
		Viewer: ViewerConfig{
			CarStep: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if !(c.Track.Width > 0) {
		errs = append(errs, fmt.Errorf("track.width must be positive, got %v", c.Track.Width))
	}
	if c.Track.PointsPerSegment <= 0 {
		errs = append(errs, fmt.Errorf("track.points_per_segment must be positive, got %d", c.Track.PointsPerSegment))
	}
	if basis, err := spline.ParseBasis(c.Track.Basis); err != nil {
		errs = append(errs, fmt.Errorf("track.basis: %w", err))
	} else if err := (spline.Options{Basis: basis, Mode: spline.Closed}).CheckLoop(); err != nil {
		errs = append(errs, fmt.Errorf("track.basis: %w", err))
	}
	if _, err := track.ParseNormalMode(c.Track.Normals); err != nil {
		errs = append(errs, fmt.Errorf("track.normals: %w", err))
	}
	if _, err := track.ParseWinding(c.Track.Winding); err != nil {
		errs = append(errs, fmt.Errorf("track.winding: %w", err))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Export.TrackOBJ == "" {
		errs = append(errs, errors.New("export.track_obj must be set"))
	}
	if err := multierr.Combine(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
