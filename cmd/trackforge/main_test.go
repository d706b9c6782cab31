package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
)

var square = []math.Vec3{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}

// workspace writes a quiet config and a control point file.
func workspace(t *testing.T, points []math.Vec3) (dir, cfgPath, pointsPath string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "trackforge.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\n"), 0o644))
	pointsPath = filepath.Join(dir, "points.path")
	require.NoError(t, formats.WritePathFile(pointsPath, points))
	return dir, cfgPath, pointsPath
}

func build(t *testing.T) string {
	t.Helper()
	dir, cfg, pts := workspace(t, square)
	out := filepath.Join(dir, "out")
	var buf bytes.Buffer
	require.NoError(t, cmdBuild([]string{"-config", cfg, "-out", out, pts}, &buf))
	return out
}

func TestBuild(t *testing.T) {
	dir, cfg, pts := workspace(t, square)
	out := filepath.Join(dir, "out")

	var buf bytes.Buffer
	require.NoError(t, cmdBuild([]string{"-config", cfg, "-out", out, pts}, &buf))

	s := buf.String()
	assert.Contains(t, s, "Control points: 4")
	assert.Contains(t, s, "Samples:        40")
	assert.Contains(t, s, "Triangles:      80")
	for _, name := range []string{"track.obj", "track.mtl", "animation.path", "track.scene"} {
		assert.FileExists(t, filepath.Join(out, name))
		assert.Contains(t, s, name)
	}
}

func TestBuild_Overrides(t *testing.T) {
	dir, cfg, pts := workspace(t, square)
	out := filepath.Join(dir, "out")

	var buf bytes.Buffer
	require.NoError(t, cmdBuild([]string{"-config", cfg, "-out", out, "-pps", "5", "-track-width", "4", pts}, &buf))
	assert.Contains(t, buf.String(), "Samples:        20")
	assert.Contains(t, buf.String(), "Width:          4")
}

func TestBuild_TooFewPoints(t *testing.T) {
	dir, cfg, pts := workspace(t, square[:3])
	err := cmdBuild([]string{"-config", cfg, "-out", filepath.Join(dir, "out"), pts}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need at least 4")
	assert.NoFileExists(t, filepath.Join(dir, "out", "track.obj"))
}

func TestBuild_Usage(t *testing.T) {
	err := cmdBuild(nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, errUsage)
}

func TestCurve(t *testing.T) {
	_, _, pts := workspace(t, square)

	var buf bytes.Buffer
	require.NoError(t, cmdCurve([]string{"-pps", "5", pts}, &buf))
	got, err := formats.ParsePath(&buf)
	require.NoError(t, err)
	require.Len(t, got, 21, "closed loop repeats the first sample")
	assert.Equal(t, got[0], got[len(got)-1])
	for _, p := range got {
		assert.Zero(t, p.Z)
	}
}

func TestCurve_Ground(t *testing.T) {
	_, _, pts := workspace(t, square)

	var buf bytes.Buffer
	require.NoError(t, cmdCurve([]string{"-ground", "-basis", "catmull-rom", pts}, &buf))
	got, err := formats.ParsePath(&buf)
	require.NoError(t, err)
	require.Len(t, got, 41)
	for _, p := range got {
		assert.Zero(t, p.Y)
	}
}

func TestCurve_BadArgs(t *testing.T) {
	_, _, pts := workspace(t, square)

	assert.ErrorIs(t, cmdCurve(nil, &bytes.Buffer{}), errUsage)
	assert.Error(t, cmdCurve([]string{"-basis", "nurbs", pts}, &bytes.Buffer{}))
	assert.Error(t, cmdCurve([]string{"-mode", "open", pts}, &bytes.Buffer{}))
}

func TestInfo(t *testing.T) {
	out := build(t)

	tests := []struct {
		file string
		want []string
	}{
		{"track.obj", []string{"Triangles:  80", "Groups:     1", "track.mtl"}},
		{"track.mtl", []string{"Materials: 1", "asphalt"}},
		{"animation.path", []string{"Points:  41", "Closed:  true"}},
		{"track.scene", []string{"GlobalConfig", "Mesh", "Track"}},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, cmdInfo([]string{filepath.Join(out, tt.file)}, &buf))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestInfo_UnknownType(t *testing.T) {
	err := cmdInfo([]string{"notes.doc"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
}

func TestScene(t *testing.T) {
	out := build(t)

	var buf bytes.Buffer
	require.NoError(t, cmdScene([]string{filepath.Join(out, "track.scene")}, &buf))
	s := buf.String()
	assert.Contains(t, s, "Objects: 1 (80 triangles)")
	assert.Contains(t, s, "Tracks:  1")
	assert.NotContains(t, s, "Problems")
}

func TestScene_ListsEveryProblem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.scene")
	src := strings.Join([]string{
		"Type Teapot A", "End",
		"Type Kettle B", "End",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	var buf bytes.Buffer
	err := cmdScene([]string{path}, &buf)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Problems: 2")
	assert.Contains(t, buf.String(), "Teapot")
	assert.Contains(t, buf.String(), "Kettle")
}
