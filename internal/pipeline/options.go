package pipeline

import (
	"github.com/Faultbox/trackforge/internal/config"
	"github.com/Faultbox/trackforge/internal/engine/spline"
	"github.com/Faultbox/trackforge/internal/engine/track"
	"github.com/Faultbox/trackforge/pkg/math"
)

// ExportOptions name the files Export writes. Relative names are joined
// to Dir.
type ExportOptions struct {
	Dir       string
	TrackOBJ  string
	TrackMTL  string
	PathFile  string
	SceneFile string

	// CarOBJ, if set, adds a car following the animation path to the
	// exported scene. It is referenced, not copied.
	CarOBJ  string
	CarMTL  string
	CarStep int
}

// Options configure a Pipeline.
type Options struct {
	PointsPerSegment int
	Spline           spline.Options
	Track            track.Options
	Export           ExportOptions
}

// DefaultOptions mirror config.Default.
func DefaultOptions() Options {
	opts, _ := OptionsFromConfig(config.Default())
	return opts
}

// OptionsFromConfig converts validated settings.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	basis, err := spline.ParseBasis(cfg.Track.Basis)
	if err != nil {
		return Options{}, err
	}
	normals, err := track.ParseNormalMode(cfg.Track.Normals)
	if err != nil {
		return Options{}, err
	}
	winding, err := track.ParseWinding(cfg.Track.Winding)
	if err != nil {
		return Options{}, err
	}

	trackOpts := track.DefaultOptions(cfg.Track.Width)
	trackOpts.Up = math.GroundUp
	trackOpts.Normals = normals
	trackOpts.Winding = winding
	trackOpts.Workers = cfg.Track.Workers
	if cfg.Track.Material != "" {
		trackOpts.Material = cfg.Track.Material
	}

	splineOpts := spline.Options{Basis: basis, Mode: spline.Closed}
	if err := splineOpts.CheckLoop(); err != nil {
		return Options{}, err
	}

	return Options{
		PointsPerSegment: cfg.Track.PointsPerSegment,
		Spline:           splineOpts,
		Track:            trackOpts,
		Export: ExportOptions{
			Dir:       cfg.Export.Dir,
			TrackOBJ:  cfg.Export.TrackOBJ,
			TrackMTL:  cfg.Export.TrackMTL,
			PathFile:  cfg.Export.PathFile,
			SceneFile: cfg.Export.SceneFile,
			CarOBJ:    cfg.Viewer.CarOBJ,
			CarMTL:    cfg.Viewer.CarMTL,
			CarStep:   cfg.Viewer.CarStep,
		},
	}, nil
}
