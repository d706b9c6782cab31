package model

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
)

func quadVertices() []Vertex {
	n := math.Vec3{Y: 1}
	return []Vertex{
		{Position: math.Vec3{X: 0, Z: 0}, TexCoord: math.Vec2{X: 0, Y: 0}, Normal: n},
		{Position: math.Vec3{X: 1, Z: 0}, TexCoord: math.Vec2{X: 1, Y: 0}, Normal: n},
		{Position: math.Vec3{X: 1, Z: 1}, TexCoord: math.Vec2{X: 1, Y: 1}, Normal: n},
		{Position: math.Vec3{X: 0, Z: 1}, TexCoord: math.Vec2{X: 0, Y: 1}, Normal: n},
	}
}

func TestFromVertices(t *testing.T) {
	m, err := FromVertices(quadVertices(), []uint32{0, 1, 2, 0, 2, 3}, "track", "asphalt")
	require.NoError(t, err)

	assert.Len(t, m.Positions, 4)
	require.Len(t, m.Groups, 1)
	assert.Equal(t, "track", m.Groups[0].Name)
	assert.Equal(t, "asphalt", m.Groups[0].Material)
	assert.Equal(t, 2, m.TriangleCount())
	assert.Equal(t, Ref{2, 2, 2}, m.Groups[0].Faces[0].Refs[2])
	assert.NoError(t, m.Validate())
}

func TestFromVertices_Sequential(t *testing.T) {
	verts := append(quadVertices(), quadVertices()[:3]...)
	m, err := FromVertices(verts, nil, "g", "")
	require.NoError(t, err)
	assert.Equal(t, 2, m.TriangleCount())
	assert.Equal(t, Ref{3, 3, 3}, m.Groups[0].Faces[1].Refs[0])
}

func TestFromVertices_Errors(t *testing.T) {
	_, err := FromVertices(quadVertices(), []uint32{0, 1}, "g", "")
	assert.ErrorIs(t, err, ErrPartialTriangle)

	_, err = FromVertices(quadVertices(), []uint32{0, 1, 4}, "g", "")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestFromVertices_Empty(t *testing.T) {
	m, err := FromVertices(nil, nil, "g", "")
	require.NoError(t, err)
	assert.True(t, m.IsEmpty())
	assert.Empty(t, m.Groups)
	assert.Empty(t, m.Interleave().Vertices)
}

func TestInterleave_RoundTripsVertices(t *testing.T) {
	verts := quadVertices()
	indices := []uint32{0, 1, 2, 0, 2, 3}
	m, err := FromVertices(verts, indices, "g", "mat")
	require.NoError(t, err)

	rd := m.Interleave()
	assert.Equal(t, verts, rd.Vertices)
	assert.Equal(t, indices, rd.Indices)
	require.Len(t, rd.Groups, 1)
	assert.Equal(t, DrawGroup{Material: "mat", StartIndex: 0, IndexCount: 6}, rd.Groups[0])
}

func TestInterleave_MissingAttributes(t *testing.T) {
	obj, err := formats.ParseOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	require.NoError(t, err)

	rd := FromOBJ(obj).Interleave()
	require.Len(t, rd.Vertices, 3)
	for _, v := range rd.Vertices {
		assert.Equal(t, math.Vec2{}, v.TexCoord)
		assert.Equal(t, math.Vec3{}, v.Normal)
	}
}

func TestInterleave_Groups(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
usemtl red
f 1 2 3
usemtl blue
f 1 3 4
f 1 2 4
`
	obj, err := formats.ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)

	rd := FromOBJ(obj).Interleave()
	require.Len(t, rd.Groups, 2)
	assert.Equal(t, DrawGroup{Material: "red", StartIndex: 0, IndexCount: 3}, rd.Groups[0])
	assert.Equal(t, DrawGroup{Material: "blue", StartIndex: 3, IndexCount: 6}, rd.Groups[1])
	assert.Len(t, rd.Vertices, 4)
}

func TestOBJConversion(t *testing.T) {
	m, err := FromVertices(quadVertices(), []uint32{0, 1, 2, 0, 2, 3}, "track", "asphalt")
	require.NoError(t, err)

	obj := m.ToOBJ("track.mtl")
	assert.Equal(t, "track.mtl", obj.MaterialLib)
	assert.Equal(t, 2, obj.TriangleCount())

	back := FromOBJ(obj)
	assert.Equal(t, m, back)
}

func TestSaveAndLoadOBJ(t *testing.T) {
	m, err := FromVertices(quadVertices(), []uint32{0, 1, 2, 0, 2, 3}, "track", "asphalt")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "track.obj")
	require.NoError(t, m.SaveOBJ(path, "track.mtl"))

	loaded, err := LoadOBJ(path)
	require.NoError(t, err)
	assert.Equal(t, m.Interleave(), loaded.Interleave())
}

func TestLoadOBJ_Missing(t *testing.T) {
	m, err := LoadOBJ(filepath.Join(t.TempDir(), "nope.obj"))
	assert.ErrorIs(t, err, formats.ErrRead)
	require.NotNil(t, m)
	assert.True(t, m.IsEmpty())
}

func TestValidate(t *testing.T) {
	m := &Mesh{
		Positions: []math.Vec3{{}, {X: 1}, {Y: 1}},
		Groups: []Group{{Name: "g", Faces: []Face{{Refs: [3]Ref{
			{0, NoIndex, NoIndex}, {1, NoIndex, NoIndex}, {2, NoIndex, 0},
		}}}}},
	}
	assert.ErrorIs(t, m.Validate(), ErrIndexOutOfRange)

	m.Normals = []math.Vec3{{Z: 1}}
	assert.NoError(t, m.Validate())
}

func TestBounds(t *testing.T) {
	m := &Mesh{Positions: []math.Vec3{{X: -1, Y: 2, Z: 3}, {X: 4, Y: -5, Z: 0}}}
	b := m.Bounds()
	assert.Equal(t, math.Vec3{X: -1, Y: -5, Z: 0}, b.Min)
	assert.Equal(t, math.Vec3{X: 4, Y: 2, Z: 3}, b.Max)
	assert.Equal(t, math.Vec3{X: 5, Y: 7, Z: 3}, b.Size())
	assert.Equal(t, math.Vec3{X: 1.5, Y: -1.5, Z: 1.5}, b.Center())

	assert.Equal(t, Bounds{}, (&Mesh{}).Bounds())
}
