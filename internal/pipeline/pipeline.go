// Package pipeline turns editor control points into an exported track:
// spline evaluation, mapping onto the ground plane, ribbon construction and
// file output.
package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/trackforge/internal/engine/spline"
	"github.com/Faultbox/trackforge/internal/engine/track"
	"github.com/Faultbox/trackforge/internal/scene"
	"github.com/Faultbox/trackforge/pkg/math"
)

// Pipeline runs the build and export steps with fixed options. It is not
// safe for concurrent use.
type Pipeline struct {
	opts Options
	log  *zap.Logger
}

// New creates a pipeline. A nil logger discards output.
func New(opts Options, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{opts: opts, log: log}
}

// Options returns the pipeline's options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// ForTrack returns a pipeline that rebuilds a track recorded in a scene:
// its width, points per segment and basis replace the current settings.
// Unset width or points per segment keep the current value.
func (p *Pipeline) ForTrack(t scene.Track) (*Pipeline, error) {
	opts := p.opts
	if t.Width > 0 {
		opts.Track.Width = t.Width
	}
	if t.PointsPerSegment > 0 {
		opts.PointsPerSegment = t.PointsPerSegment
	}
	opts.Spline.Basis = t.Basis
	if err := opts.Spline.CheckLoop(); err != nil {
		return nil, fmt.Errorf("track %q: %w", t.Name, err)
	}
	return &Pipeline{opts: opts, log: p.log}, nil
}

// Result is the output of one Run.
type Result struct {
	// ControlPoints are the editor-plane input points.
	ControlPoints []math.Vec3

	// Curve is the sampled spline in the editor plane.
	Curve *spline.Curve

	// Path is the curve on the ground plane with the closing sample
	// appended for loops. It is what the animation path file holds.
	Path []math.Vec3

	// Track is the ribbon built along the ground-plane curve.
	Track *track.Track
}

// IsEmpty reports whether the run produced no track.
func (r *Result) IsEmpty() bool {
	return r.Track == nil || r.Track.IsEmpty()
}

// Run builds a track from editor-plane control points.
//
// Too few control points or a degenerate curve are logged and produce an
// empty result. Errors are returned only for invalid options.
func (p *Pipeline) Run(points []math.Vec3) (*Result, error) {
	start := time.Now()
	res := &Result{ControlPoints: append([]math.Vec3(nil), points...)}

	if err := p.opts.Spline.CheckLoop(); err != nil {
		return nil, err
	}
	curve, err := spline.Evaluate(points, p.opts.PointsPerSegment, p.opts.Spline)
	if err != nil {
		return nil, err
	}
	res.Curve = curve

	if curve.Len() == 0 {
		p.log.Warn("not enough control points for a curve",
			zap.Int("control_points", len(points)),
			zap.Int("required", spline.MinControlPoints))
		res.Track = &track.Track{Width: p.opts.Track.Width}
		return res, nil
	}

	// The editor draws on XY; the ground is XZ. Map once, here.
	ground := math.EditorToGroundAll(curve.Points())
	res.Path = ground
	if curve.IsClosed() {
		res.Path = append(res.Path, ground[0])
	}

	trackOpts := p.opts.Track
	trackOpts.Open = !curve.IsClosed()
	t, err := track.Build(ground, trackOpts)
	if err != nil {
		return nil, err
	}
	res.Track = t

	if t.Degenerate > 0 {
		p.log.Warn("degenerate track segments",
			zap.Int("count", t.Degenerate),
			zap.Int("segments", len(ground)))
	}
	if t.IsEmpty() {
		p.log.Warn("track has no usable segments", zap.Int("samples", curve.Len()))
	}

	p.log.Debug("track built",
		zap.Int("control_points", len(points)),
		zap.Int("samples", curve.Len()),
		zap.Int("vertices", len(t.Vertices)),
		zap.Int("triangles", len(t.Indices)/3),
		zap.Stringer("basis", p.opts.Spline.Basis),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}
