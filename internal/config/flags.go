package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config alone.
type Flags struct {
	Config     *string
	Debug      *bool
	Width      *int
	Height     *int
	TrackWidth *float64
	PPS        *int
	Basis      *string
	Workers    *int
	OutDir     *string
}

// BindFlags registers the override flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Config:     fs.String("config", "", "Path to config file"),
		Debug:      fs.Bool("debug", false, "Enable debug logging"),
		Width:      fs.Int("width", 0, "Window width"),
		Height:     fs.Int("height", 0, "Window height"),
		TrackWidth: fs.Float64("track-width", 0, "Track width in world units"),
		PPS:        fs.Int("pps", 0, "Curve samples per control point span"),
		Basis:      fs.String("basis", "", "Spline basis: bspline, catmull-rom or bezier"),
		Workers:    fs.Int("workers", 0, "Concurrent track segment workers"),
		OutDir:     fs.String("out", "", "Export directory"),
	}
}

var cliFlags = BindFlags(flag.CommandLine)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *cliFlags.Config
}

// apply copies set overrides into cfg.
func (f *Flags) apply(cfg *Config) {
	if *f.Debug {
		cfg.Logging.Level = "debug"
	}
	if *f.Width > 0 {
		cfg.Window.Width = *f.Width
	}
	if *f.Height > 0 {
		cfg.Window.Height = *f.Height
	}
	if *f.TrackWidth > 0 {
		cfg.Track.Width = float32(*f.TrackWidth)
	}
	if *f.PPS > 0 {
		cfg.Track.PointsPerSegment = *f.PPS
	}
	if *f.Basis != "" {
		cfg.Track.Basis = *f.Basis
	}
	if *f.Workers > 0 {
		cfg.Track.Workers = *f.Workers
	}
	if *f.OutDir != "" {
		cfg.Export.Dir = *f.OutDir
	}
}
