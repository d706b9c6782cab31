package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/trackforge/internal/pipeline"
	"github.com/Faultbox/trackforge/internal/scene"
	"github.com/Faultbox/trackforge/pkg/math"
)

func newEditor(t *testing.T) *Editor {
	t.Helper()
	opts := pipeline.DefaultOptions()
	opts.Export.Dir = t.TempDir()
	return New(pipeline.New(opts, nil), nil)
}

func clickSquare(e *Editor) {
	for _, p := range []math.Vec3{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}} {
		e.AddPoint(p)
	}
}

func TestAddPoint(t *testing.T) {
	e := newEditor(t)
	assert.Equal(t, ModeEdit, e.Mode())

	assert.True(t, e.AddPoint(math.Vec3{X: 1, Y: 2, Z: 5}))
	assert.Equal(t, []math.Vec3{{X: 1, Y: 2}}, e.Points(), "Z is dropped")
	assert.False(t, e.AddPoint(math.Vec3{X: 1, Y: 2}), "repeated click")
	assert.True(t, e.AddPoint(math.Vec3{X: 3, Y: 4}))
	assert.Equal(t, 2, e.Revision())
}

func TestPointsIsACopy(t *testing.T) {
	e := newEditor(t)
	e.AddPoint(math.Vec3{X: 1})
	pts := e.Points()
	pts[0].X = 99
	assert.Equal(t, float32(1), e.Points()[0].X)
}

func TestUndoClear(t *testing.T) {
	e := newEditor(t)
	assert.False(t, e.Undo())

	clickSquare(e)
	assert.True(t, e.Undo())
	assert.Len(t, e.Points(), 3)

	rev := e.Revision()
	e.Clear()
	assert.Empty(t, e.Points())
	assert.Equal(t, rev+1, e.Revision())

	e.Clear()
	assert.Equal(t, rev+1, e.Revision(), "clearing nothing is not a change")
}

func TestPreview(t *testing.T) {
	e := newEditor(t)
	e.AddPoint(math.Vec3{X: 1})
	assert.Zero(t, e.Preview().Len())

	e.Clear()
	clickSquare(e)
	assert.Equal(t, 40, e.Preview().Len())
}

func TestBuild_TooFewPoints(t *testing.T) {
	e := newEditor(t)
	e.AddPoint(math.Vec3{X: 1})
	e.AddPoint(math.Vec3{X: 2})

	built, err := e.Build()
	require.NoError(t, err)
	assert.False(t, built)
	assert.Equal(t, ModeEdit, e.Mode())
	assert.Nil(t, e.Scene())
}

func TestBuild_SwitchesToViewer(t *testing.T) {
	e := newEditor(t)
	clickSquare(e)

	built, err := e.Build()
	require.NoError(t, err)
	require.True(t, built)
	assert.Equal(t, ModeView, e.Mode())

	require.NotNil(t, e.Result())
	assert.Len(t, e.Result().Track.Vertices, 160)
	require.NotNil(t, e.Exported())
	assert.FileExists(t, e.Exported().TrackOBJ)

	sc := e.Scene()
	require.NotNil(t, sc)
	trk, ok := sc.Object(pipeline.TrackObjectName)
	require.True(t, ok)
	assert.Equal(t, 80, trk.Mesh.TriangleCount())

	// Control points are kept for another round of editing.
	e.BackToEditor()
	assert.Equal(t, ModeEdit, e.Mode())
	assert.Len(t, e.Points(), 4)
}

func TestBuild_OnlyInEditMode(t *testing.T) {
	e := newEditor(t)
	clickSquare(e)
	_, err := e.Build()
	require.NoError(t, err)

	_, err = e.Build()
	assert.ErrorIs(t, err, ErrWrongMode)
	assert.False(t, e.AddPoint(math.Vec3{X: 50}))
	assert.False(t, e.Undo())
}

func TestSelection(t *testing.T) {
	e := newEditor(t)
	_, ok := e.Selected()
	assert.False(t, ok)
	e.SelectNext()
	_, ok = e.Selected()
	assert.False(t, ok, "no scene yet")

	clickSquare(e)
	_, err := e.Build()
	require.NoError(t, err)

	n := len(e.Scene().Objects)
	require.Positive(t, n)
	for i := 0; i < n; i++ {
		e.SelectNext()
		o, ok := e.Selected()
		require.True(t, ok)
		assert.Same(t, e.Scene().Objects[i], o)
	}
	e.SelectNext()
	_, ok = e.Selected()
	assert.False(t, ok, "cycles back to none")

	e.Select(0)
	_, ok = e.Selected()
	assert.True(t, ok)
	e.Select(n)
	_, ok = e.Selected()
	assert.False(t, ok)
}

func TestAdjustSelected(t *testing.T) {
	e := newEditor(t)
	clickSquare(e)
	_, err := e.Build()
	require.NoError(t, err)
	e.Select(0)
	o, _ := e.Selected()
	start := o.Transform

	e.ScaleSelected(1)
	assert.InDelta(t, start.Scale.X+ScaleStep, o.Transform.Scale.X, 1e-6)
	for range 50 {
		e.ScaleSelected(-1)
	}
	assert.InDelta(t, ScaleStep, o.Transform.Scale.X, 1e-6, "scale has a floor")

	e.RotateSelected(2)
	assert.InDelta(t, start.Angle.Y+2*RotateStep, o.Transform.Angle.Y, 1e-6)
	assert.NotEqual(t, math.Vec3{}, o.Transform.Axis)

	e.MoveSelected(math.Vec2{X: 1, Y: -1})
	assert.InDelta(t, start.Position.X+MoveStep, o.Transform.Position.X, 1e-6)
	assert.InDelta(t, start.Position.Z-MoveStep, o.Transform.Position.Z, 1e-6)
	assert.Equal(t, start.Position.Y, o.Transform.Position.Y)
}

func TestApply(t *testing.T) {
	e := newEditor(t)
	clickSquare(e)

	handled, err := e.Apply(ActionUndo)
	require.NoError(t, err)
	assert.True(t, handled)
	e.AddPoint(math.Vec3{X: 0, Y: 10})

	handled, _ = e.Apply(ActionToggleCurves)
	assert.False(t, handled, "viewer action in edit mode")

	handled, err = e.Apply(ActionBuild)
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, ModeView, e.Mode())

	assert.True(t, e.ShowCurves)
	_, _ = e.Apply(ActionToggleCurves)
	assert.False(t, e.ShowCurves)

	_, _ = e.Apply(ActionTogglePause)
	assert.True(t, e.Paused)

	handled, _ = e.Apply(ActionScreenshot)
	assert.False(t, handled, "left to the caller")

	_, _ = e.Apply(ActionBackToEditor)
	assert.Equal(t, ModeEdit, e.Mode())
}

func TestSaveScene(t *testing.T) {
	e := newEditor(t)
	assert.ErrorIs(t, e.SaveScene(), ErrWrongMode)

	clickSquare(e)
	_, err := e.Build()
	require.NoError(t, err)

	e.Select(0)
	e.ScaleSelected(1)
	o, _ := e.Selected()
	want := o.Transform.Scale

	handled, err := e.Apply(ActionSaveScene)
	require.NoError(t, err)
	assert.True(t, handled)

	reloaded, err := scene.Load(e.Exported().SceneFile)
	require.NoError(t, err)
	got, ok := reloaded.Object(o.Name)
	require.True(t, ok)
	assert.InDelta(t, want.X, got.Transform.Scale.X, 1e-5)
}

func TestTick_MovesCarUnlessPaused(t *testing.T) {
	dir := t.TempDir()
	carOBJ := filepath.Join(dir, "car.obj")
	require.NoError(t, os.WriteFile(carOBJ, []byte("v 0 0 0\nv 1 0 0\nv 0 0 1\nf 1 2 3\n"), 0o644))

	opts := pipeline.DefaultOptions()
	opts.Export.Dir = filepath.Join(dir, "out")
	opts.Export.CarOBJ = carOBJ
	e := New(pipeline.New(opts, nil), nil)
	e.Tick() // no scene yet

	clickSquare(e)
	_, err := e.Build()
	require.NoError(t, err)
	car, ok := e.Scene().Object(pipeline.CarObjectName)
	require.True(t, ok)
	require.True(t, car.Animated())

	e.Paused = true
	e.Tick()
	assert.Equal(t, 0, car.PathIndex())

	e.Paused = false
	e.Tick()
	assert.Equal(t, 1, car.PathIndex())
	assert.Equal(t, car.Path[1], car.Transform.Position)
}

func TestOpen(t *testing.T) {
	e := newEditor(t)
	clickSquare(e)
	_, err := e.Build()
	require.NoError(t, err)
	path := e.Exported().SceneFile

	sc, err := scene.Load(path)
	require.NoError(t, err)

	other := newEditor(t)
	other.Open(sc, path)
	assert.Equal(t, ModeView, other.Mode())
	assert.Same(t, sc, other.Scene())
	assert.Equal(t, e.Points(), other.Points(), "track control points are restored")

	other.BackToEditor()
	built, err := other.Build()
	require.NoError(t, err)
	assert.True(t, built)
	assert.Equal(t, e.Result().Track.Vertices, other.Result().Track.Vertices)
}

func TestOpen_UsesRecordedTrackSettings(t *testing.T) {
	opts := pipeline.DefaultOptions()
	opts.Export.Dir = t.TempDir()
	opts.Track.Width = 5
	opts.PointsPerSegment = 4
	e := New(pipeline.New(opts, nil), nil)
	clickSquare(e)
	_, err := e.Build()
	require.NoError(t, err)
	path := e.Exported().SceneFile

	sc, err := scene.Load(path)
	require.NoError(t, err)
	require.Len(t, sc.Tracks, 1)
	assert.Equal(t, float32(5), sc.Tracks[0].Width)
	assert.Equal(t, 4, sc.Tracks[0].PointsPerSegment)

	other := newEditor(t)
	other.Open(sc, path)
	other.BackToEditor()
	_, err = other.Build()
	require.NoError(t, err)
	assert.Equal(t, float32(5), other.Result().Track.Width)
	assert.Equal(t, 16, other.Result().Curve.Len())
	assert.Equal(t, e.Result().Track.Vertices, other.Result().Track.Vertices)
}

func TestExportPath(t *testing.T) {
	opts := pipeline.DefaultOptions()
	opts.Export.Dir = "out"
	e := New(pipeline.New(opts, nil), nil)
	assert.Equal(t, filepath.Join("out", "screenshots"), e.ExportPath("screenshots"))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "build", ActionBuild.String())
	assert.Equal(t, "unknown", Action(999).String())
	assert.Equal(t, "view", ModeView.String())
	assert.Equal(t, "edit", ModeEdit.String())
}
