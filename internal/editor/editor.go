// Package editor holds the state of the track editor and viewer: the
// control points being drawn, the last build, the loaded scene and the
// viewer's object selection. It has no window or GL dependencies; the app
// subpackage drives it from SDL input.
package editor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/trackforge/internal/engine/object"
	"github.com/Faultbox/trackforge/internal/engine/spline"
	"github.com/Faultbox/trackforge/internal/pipeline"
	"github.com/Faultbox/trackforge/internal/scene"
	"github.com/Faultbox/trackforge/pkg/math"
)

// ErrWrongMode is returned when an action is not available in the current
// mode.
var ErrWrongMode = errors.New("action not available in this mode")

// Mode is the editor's top-level state.
type Mode int

const (
	// ModeEdit shows the 2D editor plane and accepts control points.
	ModeEdit Mode = iota
	// ModeView shows the exported scene in 3D.
	ModeView
)

func (m Mode) String() string {
	if m == ModeView {
		return "view"
	}
	return "edit"
}

// Selection tuning, matching the viewer's keyboard steps.
const (
	ScaleStep  = 0.2
	RotateStep = 10 // degrees
	MoveStep   = 0.3
)

// Editor is the editor/viewer state. It is driven from one goroutine.
type Editor struct {
	pipe *pipeline.Pipeline
	log  *zap.Logger

	mode     Mode
	points   []math.Vec3
	revision int

	result   *pipeline.Result
	exported *pipeline.Exported
	scene    *scene.Scene
	selected int

	// ShowCurves draws curve overlays in the viewer.
	ShowCurves bool
	// Paused stops scene animation.
	Paused bool
}

// New creates an editor in edit mode.
func New(p *pipeline.Pipeline, log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Editor{
		pipe:       p,
		log:        log,
		selected:   -1,
		ShowCurves: true,
	}
}

// Mode returns the current mode.
func (e *Editor) Mode() Mode { return e.mode }

// Points returns a copy of the control points in click order.
func (e *Editor) Points() []math.Vec3 {
	return append([]math.Vec3(nil), e.points...)
}

// Revision changes every time the control points change, so callers can
// tell when to refresh derived buffers.
func (e *Editor) Revision() int { return e.revision }

// Result returns the last successful build, if any.
func (e *Editor) Result() *pipeline.Result { return e.result }

// Exported returns the files written by the last build, if any.
func (e *Editor) Exported() *pipeline.Exported { return e.exported }

// Scene returns the scene loaded after the last build, if any.
func (e *Editor) Scene() *scene.Scene { return e.scene }

// AddPoint appends a control point on the editor plane. Z is forced to 0
// and a click on the previous point is ignored.
func (e *Editor) AddPoint(p math.Vec3) bool {
	if e.mode != ModeEdit {
		return false
	}
	p.Z = 0
	if n := len(e.points); n > 0 && e.points[n-1] == p {
		return false
	}
	e.points = append(e.points, p)
	e.revision++
	e.log.Debug("control point added",
		zap.Float32("x", p.X),
		zap.Float32("y", p.Y),
		zap.Int("count", len(e.points)))
	return true
}

// Undo removes the last control point.
func (e *Editor) Undo() bool {
	if e.mode != ModeEdit || len(e.points) == 0 {
		return false
	}
	e.points = e.points[:len(e.points)-1]
	e.revision++
	return true
}

// Clear removes all control points.
func (e *Editor) Clear() {
	if len(e.points) == 0 {
		return
	}
	e.points = e.points[:0]
	e.revision++
}

// Preview evaluates the curve through the current points with the
// pipeline's spline options. It returns an empty curve while there are too
// few points.
func (e *Editor) Preview() *spline.Curve {
	opts := e.pipe.Options()
	c, err := spline.Evaluate(e.points, opts.PointsPerSegment, opts.Spline)
	if err != nil {
		e.log.Warn("curve preview failed", zap.Error(err))
		return &spline.Curve{}
	}
	return c
}

// Build runs the pipeline on the current points, exports the result and
// loads the exported scene. It reports false, with no error, when the
// points do not yet form a track; the editor then stays in edit mode.
func (e *Editor) Build() (bool, error) {
	if e.mode != ModeEdit {
		return false, ErrWrongMode
	}
	res, err := e.pipe.Run(e.points)
	if err != nil {
		return false, fmt.Errorf("build track: %w", err)
	}
	if res.IsEmpty() {
		return false, nil
	}

	exp, err := e.pipe.Export(res)
	if err != nil {
		return false, err
	}

	sc := scene.New()
	if exp.SceneFile != "" {
		loaded, err := scene.Load(exp.SceneFile)
		if err != nil {
			// Partial scenes still show whatever loaded.
			e.log.Warn("scene loaded with errors", zap.Error(err))
		}
		sc = loaded
	}

	e.result = res
	e.exported = exp
	e.scene = sc
	e.selected = -1
	e.mode = ModeView
	e.log.Info("viewer started",
		zap.Int("objects", len(sc.Objects)),
		zap.Int("triangles", sc.TriangleCount()))
	return true, nil
}

// Open shows an already exported scene read from path. The control points
// of its first track, if any, become the editor's points so the track can
// be edited and rebuilt with the width, points per segment and basis the
// scene recorded for it.
func (e *Editor) Open(sc *scene.Scene, path string) {
	e.scene = sc
	e.exported = &pipeline.Exported{SceneFile: path}
	e.result = nil
	e.selected = -1
	e.mode = ModeView
	if len(sc.Tracks) > 0 {
		tr := sc.Tracks[0]
		e.points = append(e.points[:0], tr.ControlPoints...)
		e.revision++
		p, err := e.pipe.ForTrack(tr)
		if err != nil {
			e.log.Warn("keeping current track settings", zap.String("scene", path), zap.Error(err))
			return
		}
		e.pipe = p
	}
}

// ExportPath resolves name inside the export directory.
func (e *Editor) ExportPath(name string) string {
	return e.pipe.Options().Export.Path(name)
}

// BackToEditor returns to edit mode keeping the control points.
func (e *Editor) BackToEditor() {
	e.mode = ModeEdit
	e.selected = -1
}

// Tick advances the scene animation by one frame while viewing.
func (e *Editor) Tick() {
	if e.mode == ModeView && !e.Paused && e.scene != nil {
		e.scene.Tick()
	}
}

// Selected returns the selected object, if any.
func (e *Editor) Selected() (*object.Object3D, bool) {
	if e.scene == nil || e.selected < 0 || e.selected >= len(e.scene.Objects) {
		return nil, false
	}
	return e.scene.Objects[e.selected], true
}

// SelectNext cycles the selection through the scene objects and back to
// none.
func (e *Editor) SelectNext() {
	if e.scene == nil || len(e.scene.Objects) == 0 {
		e.selected = -1
		return
	}
	e.selected++
	if e.selected >= len(e.scene.Objects) {
		e.selected = -1
	}
}

// Select selects the object at index i, or clears the selection for an
// out-of-range index.
func (e *Editor) Select(i int) {
	if e.scene == nil || i < 0 || i >= len(e.scene.Objects) {
		e.selected = -1
		return
	}
	e.selected = i
}

// ScaleSelected grows the selected object's scale by steps × ScaleStep.
// Scale never drops below one step.
func (e *Editor) ScaleSelected(steps float32) {
	o, ok := e.Selected()
	if !ok {
		return
	}
	s := &o.Transform.Scale
	s.X = max(s.X+steps*ScaleStep, ScaleStep)
	s.Y = max(s.Y+steps*ScaleStep, ScaleStep)
	s.Z = max(s.Z+steps*ScaleStep, ScaleStep)
}

// RotateSelected turns the selected object about its axis by steps ×
// RotateStep degrees. Objects without an axis turn about the ground up
// vector.
func (e *Editor) RotateSelected(steps float32) {
	o, ok := e.Selected()
	if !ok {
		return
	}
	if o.Transform.Axis == (math.Vec3{}) {
		o.Transform.Axis = math.GroundUp
	}
	o.Transform.Angle.Y += steps * RotateStep
}

// MoveSelected shifts the selected object on the ground plane by MoveStep
// per unit of d.
func (e *Editor) MoveSelected(d math.Vec2) {
	o, ok := e.Selected()
	if !ok {
		return
	}
	o.Transform.Position = o.Transform.Position.Add(math.Vec3{X: d.X * MoveStep, Z: d.Y * MoveStep})
}

// SaveScene writes the current scene back to the exported scene file.
func (e *Editor) SaveScene() error {
	if e.scene == nil || e.exported == nil || e.exported.SceneFile == "" {
		return ErrWrongMode
	}
	if err := e.scene.Save(e.exported.SceneFile); err != nil {
		return err
	}
	e.log.Info("scene saved", zap.String("path", e.exported.SceneFile))
	return nil
}
