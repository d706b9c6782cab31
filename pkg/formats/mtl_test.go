package formats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/trackforge/pkg/math"
)

func TestParseMTL(t *testing.T) {
	src := `# exported
newmtl car
Ka 0.1 0.1 0.1
Kd 0.9 0.2 0.2
Ks 1 1 1
Ns 64
illum 2
map_Kd -s 1 1 1 car.png

newmtl asphalt
Kd 0.3 0.3 0.3
`
	mats, err := ParseMTL(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, mats, 2)

	car := mats[0]
	assert.Equal(t, "car", car.Name)
	assert.Equal(t, math.Vec3{X: 0.1, Y: 0.1, Z: 0.1}, car.Ambient)
	assert.Equal(t, math.Vec3{X: 0.9, Y: 0.2, Z: 0.2}, car.Diffuse)
	assert.Equal(t, float32(64), car.Shininess)
	assert.Equal(t, "car.png", car.DiffuseMap)

	got, ok := FindMaterial(mats, "asphalt")
	require.True(t, ok)
	assert.Equal(t, math.Vec3{X: 0.3, Y: 0.3, Z: 0.3}, got.Diffuse)

	_, ok = FindMaterial(mats, "grass")
	assert.False(t, ok)
}

func TestParseMTL_PropertiesBeforeNewmtl(t *testing.T) {
	mats, err := ParseMTL(strings.NewReader("Kd 1 0 0\nmap_Kd tex.jpg\n"))
	require.NoError(t, err)
	require.Len(t, mats, 1)
	assert.Empty(t, mats[0].Name)
	assert.Equal(t, "tex.jpg", mats[0].DiffuseMap)
}

func TestParseMTL_Malformed(t *testing.T) {
	_, err := ParseMTL(strings.NewReader("newmtl a\nKd 1 0\n"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.ErrorIs(t, err, ErrArity)
}

func TestWriteMTL_RoundTrip(t *testing.T) {
	track := DefaultMaterial("track")
	track.DiffuseMap = "asphalt.png"
	mats := []Material{track, DefaultMaterial("car")}

	var buf bytes.Buffer
	require.NoError(t, WriteMTL(&buf, mats))

	got, err := ParseMTL(&buf)
	require.NoError(t, err)
	assert.Equal(t, mats, got)
}
